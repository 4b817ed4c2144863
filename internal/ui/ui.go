package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tonywied17/plex-poster-set-helper/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	URLListView ViewState = iota
	ConfirmView
	ProcessingView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	view   ViewState
	engine *tasks.PosterEngine
	urls   []string
	opts   tasks.BatchOpts

	width  int
	height int

	urlList      list.Model
	bar          progress.Model
	progressChan chan tasks.ProgressUpdate
	done         chan batchCompleteMsg
	latest       tasks.ProgressUpdate
	cancelling   bool
	summary      *tasks.BatchSummary
	err          error

	help help.Model
	keys keyMap
}

// urlItem wraps one queued URL to implement list.Item.
type urlItem struct {
	url   string
	index int
}

func (i urlItem) FilterValue() string { return i.url }
func (i urlItem) Title() string       { return i.url }
func (i urlItem) Description() string { return fmt.Sprintf("queued #%d", i.index+1) }

type progressUpdateMsg tasks.ProgressUpdate

type batchCompleteMsg struct {
	summary *tasks.BatchSummary
	err     error
}

// NewModel creates a new TUI model over the given engine and URL queue. The
// batch does not start until the user confirms.
func NewModel(ctx context.Context, engine *tasks.PosterEngine, urls []string, opts tasks.BatchOpts) *Model {
	if opts.Cancel == nil {
		opts.Cancel = tasks.NewCancelToken()
	}

	items := make([]list.Item, len(urls))
	for i, url := range urls {
		items[i] = urlItem{url: url, index: i}
	}
	urlList := list.New(items, list.NewDefaultDelegate(), 0, 0)
	urlList.Title = fmt.Sprintf("Poster URLs (%d queued)", len(urls))

	return &Model{
		ctx:     ctx,
		view:    URLListView,
		engine:  engine,
		urls:    urls,
		opts:    opts,
		urlList: urlList,
		bar:     progress.New(progress.WithDefaultGradient()),
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.urlList.SetSize(msg.Width-4, msg.Height-8)
		m.bar.Width = min(msg.Width-8, 60)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case URLListView:
			return m.handleURLListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ProcessingView:
			return m.handleProcessingKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case progressUpdateMsg:
		m.latest = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case batchCompleteMsg:
		m.summary = msg.summary
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	var cmd tea.Cmd
	if m.view == URLListView {
		m.urlList, cmd = m.urlList.Update(msg)
	}
	return m, cmd
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case URLListView:
		return m.renderURLList()
	case ConfirmView:
		return m.renderConfirm()
	case ProcessingView:
		return m.renderProcessing()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleURLListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.urlList, cmd = m.urlList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.quit):
		m.view = URLListView
		return m, nil
	case key.Matches(msg, m.keys.yes):
		m.view = ProcessingView
		return m, m.startBatch()
	}
	return m, nil
}

func (m *Model) handleProcessingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.cancel) {
		// Idempotent: repeated presses are safe. Running tasks drain
		// naturally, so stay on this view until the summary arrives.
		m.opts.Cancel.Cancel()
		m.cancelling = true
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.restart):
		m.view = URLListView
		m.opts.Cancel = tasks.NewCancelToken()
		m.cancelling = false
		m.latest = tasks.ProgressUpdate{}
		m.summary = nil
		m.err = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) startBatch() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	done := make(chan batchCompleteMsg, 1)

	go func(ch chan tasks.ProgressUpdate) {
		summary, err := m.engine.ProcessBatch(m.ctx, ch, m.urls, m.opts)
		done <- batchCompleteMsg{summary: summary, err: err}
		close(ch)
	}(m.progressChan)

	m.done = done
	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	ch := m.progressChan
	done := m.done
	return func() tea.Msg {
		update, ok := <-ch
		if !ok {
			return <-done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderURLList() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", m.urlList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Process %d poster URL(s)?", len(m.urls)))
	info := fmt.Sprintf("\nWorkers: %d\n", m.opts.MaxWorkers)

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderProcessing() string {
	title := styles.title.Render("Uploading Posters")
	if m.cancelling {
		title = styles.warn.Render("Cancelling... waiting for running tasks to finish")
	}

	percent := 0.0
	if m.latest.Total > 0 {
		percent = float64(m.latest.Step) / float64(m.latest.Total)
	}

	status := fmt.Sprintf("Completed %d/%d - %d worker(s) active", m.latest.Step, m.latest.Total, m.latest.ActiveWorkers)
	message := m.latest.Message
	if m.latest.Severity == tasks.SeverityError {
		message = styles.err.Render(message)
	} else if m.latest.Severity == tasks.SeverityWarning {
		message = styles.warn.Render(message)
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.cancel})
	return fmt.Sprintf("%s\n\n%s\n%s\n%s\n\n%s", title, m.bar.ViewAs(percent), status, message, helpView)
}

func (m *Model) renderResult() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.restart, m.keys.quit})

	if m.err != nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(fmt.Sprintf("Batch failed: %v", m.err)), helpView)
	}
	if m.summary == nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render("No summary available"), helpView)
	}

	title := styles.ok.Render("✓ Batch Complete!")
	if m.summary.Cancelled {
		title = styles.warn.Render("Batch cancelled")
	}

	info := fmt.Sprintf(
		"\nProcessed: %d/%d URL(s)\nPosters uploaded: %d\nFailures: %d",
		m.summary.Completed, m.summary.Total, m.summary.PostersUploaded, m.summary.FailedCount(),
	)

	var failed string
	for _, res := range m.summary.Results {
		if res.Err != nil {
			failed += fmt.Sprintf("\n  • %s: %v", res.URL, res.Err)
		}
	}
	if failed != "" {
		failed = "\n\n" + styles.warn.Render("Failed URLs:") + failed
	}

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, failed, helpView)
}
