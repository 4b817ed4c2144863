package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/tonywied17/plex-poster-set-helper/internal/shared"
	"github.com/urfave/cli/v3"
)

// MappingsList prints the configured title mapping overrides.
func (r *Runner) MappingsList(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("json") {
		return r.writeJSON(r.config.TitleMappings, true)
	}

	if len(r.config.TitleMappings) == 0 {
		return r.writePlain("No title mappings configured\n")
	}

	originals := make([]string, 0, len(r.config.TitleMappings))
	for original := range r.config.TitleMappings {
		originals = append(originals, original)
	}
	sort.Strings(originals)

	r.writePlainHeader(fmt.Sprintf("Title Mappings (%d)", len(originals)))
	for _, original := range originals {
		r.writePlain("%s → %s\n", original, r.config.TitleMappings[original])
	}

	return nil
}

// MappingsAdd maps a scraped title to the Plex library title and saves the config.
func (r *Runner) MappingsAdd(ctx context.Context, cmd *cli.Command) error {
	original := cmd.StringArg("original")
	mapped := cmd.StringArg("mapped")
	if original == "" || mapped == "" {
		return fmt.Errorf("%w: usage: mappings add <original> <mapped>", shared.ErrMissingArgument)
	}

	if r.config.TitleMappings == nil {
		r.config.TitleMappings = map[string]string{}
	}
	r.config.TitleMappings[original] = mapped

	if err := shared.SaveConfig(r.configPath, r.config); err != nil {
		return err
	}

	r.logger.Info("title mapping added", "original", original, "mapped", mapped)
	return r.writePlain("✓ %s → %s\n", original, mapped)
}

// MappingsRemove deletes a title mapping and saves the config.
func (r *Runner) MappingsRemove(ctx context.Context, cmd *cli.Command) error {
	original := cmd.StringArg("original")
	if original == "" {
		return fmt.Errorf("%w: usage: mappings remove <original>", shared.ErrMissingArgument)
	}

	if _, ok := r.config.TitleMappings[original]; !ok {
		return fmt.Errorf("%w: no mapping for %q", shared.ErrInvalidArgument, original)
	}
	delete(r.config.TitleMappings, original)

	if err := shared.SaveConfig(r.configPath, r.config); err != nil {
		return err
	}

	r.logger.Info("title mapping removed", "original", original)
	return r.writePlain("✓ Removed mapping for %s\n", original)
}
