package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tonywied17/plex-poster-set-helper/internal/shared"
	"github.com/tonywied17/plex-poster-set-helper/internal/tasks"
	"github.com/tonywied17/plex-poster-set-helper/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for batch poster uploads.
//
// URLs come from the arguments, falling back to the configured bulk files.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	urls := cmd.StringArgs("urls")
	if len(urls) == 0 {
		for _, file := range r.config.Batch.BulkFiles {
			fileURLs, err := readBulkFile(file)
			if err != nil {
				r.logger.Warn("skipping bulk file", "file", file, "error", err)
				continue
			}
			urls = append(urls, fileURLs...)
		}
	}
	if len(urls) == 0 {
		return fmt.Errorf("%w: no URLs given and no bulk files configured", shared.ErrMissingArgument)
	}

	if err := r.connect(ctx); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	logPath := r.config.Logging.File
	if logPath == "" {
		logPath = "./tmp/ppsh-tui.log"
	}
	fileLogger, err := shared.NewFileLogger(logPath, r.config.Logging.Append)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	opts := tasks.BatchOpts{
		MaxWorkers: r.config.Batch.MaxWorkers,
		RateLimit:  r.config.Scraper.RequestsPerSecond,
		Cancel:     tasks.NewCancelToken(),
	}
	if workers := cmd.Int("workers"); workers > 0 {
		opts.MaxWorkers = workers
	}

	model := ui.NewModel(ctx, r.engine, urls, opts)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
