package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/tonywied17/plex-poster-set-helper/internal/services"
	"github.com/tonywied17/plex-poster-set-helper/internal/shared"
	"github.com/tonywied17/plex-poster-set-helper/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	plex       *services.PlexService
	registry   *services.SourceRegistry
	recorder   services.UploadRecorder
	engine     *tasks.PosterEngine
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer

	connected bool
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Plex       *services.PlexService
	Registry   *services.SourceRegistry
	Recorder   services.UploadRecorder
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = "config.toml"
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Plex == nil {
		opts.Plex = services.NewPlexService(opts.Config.Plex, opts.HTTPClient, opts.Logger)
	}
	if opts.Registry == nil {
		opts.Registry = services.NewSourceRegistry(opts.Logger,
			services.NewPosterDBSource(opts.HTTPClient, opts.Config.Scraper, opts.Logger),
			services.NewMediuxSource(opts.HTTPClient, opts.Config.Scraper, opts.Config.Mediux.Filters, opts.Logger),
		)
	}

	uploader := services.NewUploadService(opts.Plex, opts.Config, opts.Recorder, opts.Logger)
	engine := tasks.NewPosterEngine(opts.Registry, uploader, opts.Logger)

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		plex:       opts.Plex,
		registry:   opts.Registry,
		recorder:   opts.Recorder,
		engine:     engine,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		runCommand, bulkCommand, mappingsCommand, authCommand, statsCommand, resetCommand, setupCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger swaps the runner's logger, used when the TUI redirects logs to a file.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// connect runs Plex library discovery once per process.
func (r *Runner) connect(ctx context.Context) error {
	if r.connected {
		return nil
	}
	if err := r.plex.Connect(ctx); err != nil {
		return err
	}
	r.connected = true
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
