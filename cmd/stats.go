package main

import (
	"context"
	"fmt"

	"github.com/tonywied17/plex-poster-set-helper/internal/repositories"
	"github.com/tonywied17/plex-poster-set-helper/internal/shared"
	"github.com/urfave/cli/v3"
)

// Stats reports upload history statistics, optionally alongside the count of
// labeled items on the Plex server.
func (r *Runner) Stats(ctx context.Context, cmd *cli.Command) error {
	repo, ok := r.recorder.(*repositories.UploadRepository)
	if !ok || repo == nil {
		return fmt.Errorf("%w: upload history database is not configured", shared.ErrMissingConfig)
	}

	stats, err := repo.Stats()
	if err != nil {
		return err
	}

	labeled := -1
	if cmd.Bool("plex") {
		if err := r.connect(ctx); err != nil {
			return err
		}
		items, err := r.plex.ItemsByLabel(ctx)
		if err != nil {
			return err
		}
		labeled = len(items)
	}

	if cmd.Bool("json") {
		out := map[string]any{"uploads": stats}
		if labeled >= 0 {
			out["labeled_items"] = labeled
		}
		return r.writeJSON(out, true)
	}

	r.writePlainHeader("Upload Stats")
	r.writePlain("Total uploads: %d\n", stats.Total)
	r.writePlain("Distinct items: %d\n", stats.DistinctItems)
	for mediaType, count := range stats.ByMediaType {
		r.writePlain("  %s: %d\n", mediaType, count)
	}
	if !stats.LastUpload.IsZero() {
		r.writePlain("Last upload: %s\n", stats.LastUpload.Format("2006-01-02 15:04:05"))
	}
	if labeled >= 0 {
		r.writePlain("Labeled items on server: %d\n", labeled)
	}

	return nil
}

// ResetPosters restores default posters on every item carrying the tool's label.
func (r *Runner) ResetPosters(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	items, err := r.plex.ItemsByLabel(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return r.writePlain("No labeled items found\n")
	}

	if !cmd.Bool("yes") {
		r.writePlain("This resets posters on %d item(s) labeled %q.\n", len(items), r.config.Plex.Label)
		r.writePlain("Re-run with --yes to proceed.\n")
		return nil
	}

	reset := 0
	for _, item := range items {
		if err := r.plex.ResetPoster(ctx, item.RatingKey); err != nil {
			r.logger.Warn("failed to reset poster", "title", item.Title, "error", err)
			continue
		}
		reset++
		r.writePlain("  ↺ %s\n", item.Title)
	}

	return r.writePlainln("✓ Reset %d/%d poster(s)", reset, len(items))
}
