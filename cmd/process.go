package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/tonywied17/plex-poster-set-helper/internal/formatter"
	"github.com/tonywied17/plex-poster-set-helper/internal/shared"
	"github.com/tonywied17/plex-poster-set-helper/internal/tasks"
	"github.com/urfave/cli/v3"
)

// ProcessRun uploads the poster sets behind one or more URLs given as arguments.
func (r *Runner) ProcessRun(ctx context.Context, cmd *cli.Command) error {
	urls := cmd.StringArgs("urls")
	if len(urls) == 0 {
		return fmt.Errorf("%w: at least one poster set URL is required", shared.ErrMissingArgument)
	}

	return r.runBatch(ctx, cmd, urls)
}

// ProcessBulk uploads every URL listed in the given bulk files. Without
// arguments the configured bulk files are used.
func (r *Runner) ProcessBulk(ctx context.Context, cmd *cli.Command) error {
	files := cmd.StringArgs("files")
	if len(files) == 0 {
		files = r.config.Batch.BulkFiles
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no bulk files given and none configured", shared.ErrMissingArgument)
	}

	var urls []string
	for _, file := range files {
		fileURLs, err := readBulkFile(file)
		if err != nil {
			return err
		}
		r.logger.Info("loaded bulk file", "file", file, "urls", len(fileURLs))
		urls = append(urls, fileURLs...)
	}

	return r.runBatch(ctx, cmd, urls)
}

// runBatch drives one engine batch: it wires Ctrl+C to the cancel token,
// renders progress updates as they arrive, and prints or writes the summary.
func (r *Runner) runBatch(ctx context.Context, cmd *cli.Command, urls []string) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	opts := tasks.BatchOpts{
		MaxWorkers: r.config.Batch.MaxWorkers,
		RateLimit:  r.config.Scraper.RequestsPerSecond,
		Cancel:     tasks.NewCancelToken(),
	}
	if workers := cmd.Int("workers"); workers > 0 {
		opts.MaxWorkers = workers
	}

	// First Ctrl+C cancels cooperatively so running uploads finish and the
	// summary is still printed; a second one kills the process.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)
	go func() {
		if _, ok := <-signals; ok {
			r.writePlain("\nCancelling... running tasks will finish\n")
			opts.Cancel.Cancel()
			signal.Stop(signals)
		}
	}()

	quiet := cmd.Bool("quiet")
	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			if quiet {
				continue
			}
			switch update.Phase {
			case tasks.BatchStart:
				r.writePlain("▶ %s\n\n", update.Message)
			case tasks.TaskStart:
				r.writePlain("  ⇣ %s\n", update.Message)
			case tasks.TaskComplete:
				r.writePlain("  [%d/%d] %s\n", update.Step, update.Total, update.Message)
			case tasks.TaskFailed:
				r.writePlain("  [%d/%d] ✗ %s\n", update.Step, update.Total, update.Message)
			case tasks.BatchCancelled:
				r.writePlain("\n⚠ %s\n", update.Message)
			}
		}
	}()

	summary, err := r.engine.ProcessBatch(ctx, progressCh, urls, opts)
	close(progressCh)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		report, err := formatter.ExportToJSON(summary)
		if err != nil {
			return err
		}
		return r.writePlain("%s", report)
	}

	r.writePlain("\n")
	r.writePlainHeader("Batch Complete")
	r.writePlain("Processed: %d/%d URL(s)\n", summary.Completed, summary.Total)
	r.writePlain("Posters uploaded: %d\n", summary.PostersUploaded)
	if summary.Cancelled {
		r.writePlain("Cancelled before completion\n")
	}

	if failed := summary.FailedCount(); failed > 0 {
		r.writePlain("\nFailed URLs (%d):\n", failed)
		for _, res := range summary.Results {
			if res.Err != nil {
				r.writePlain("  - %s: %v\n", res.URL, res.Err)
			}
		}
	}

	if reportPath := cmd.String("report"); reportPath != "" {
		if err := formatter.WriteReport(summary, reportPath); err != nil {
			return err
		}
		r.writePlain("\nReport written to %s\n", reportPath)
	}

	return nil
}

// readBulkFile reads one URL per line, skipping blanks and # comments.
func readBulkFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bulk file: %w", err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bulk file: %w", err)
	}

	return urls, nil
}
