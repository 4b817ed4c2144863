package main

import (
	"context"
	"fmt"
	"time"

	"github.com/tonywied17/plex-poster-set-helper/internal/services"
	"github.com/tonywied17/plex-poster-set-helper/internal/shared"
	"github.com/urfave/cli/v3"
)

const defaultPinWait = 2 * time.Minute

// AuthLogin obtains a Plex token via the plex.tv PIN flow and saves it to the config.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	client := services.NewPinClient(r.httpClient, r.logger)

	pin, err := client.CreatePin(ctx)
	if err != nil {
		return err
	}

	link := client.LinkURL(pin)
	r.writePlain("Claim this PIN on plex.tv to sign in:\n\n")
	r.writePlain("  Code: %s\n", pin.Code)
	r.writePlain("  Link: %s\n\n", link)

	if !cmd.Bool("no-browser") {
		if err := shared.OpenBrowser(link); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
		}
	}

	wait := cmd.Duration("timeout")
	if wait <= 0 {
		wait = defaultPinWait
	}
	waitCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	r.writePlain("Waiting for the PIN to be claimed...\n")
	token, err := client.WaitForToken(waitCtx, pin, services.DefaultPinPollInterval)
	if err != nil {
		return err
	}

	r.config.Plex.Token = token
	if err := shared.SaveConfig(r.configPath, r.config); err != nil {
		return fmt.Errorf("token issued but saving config failed: %w", err)
	}

	r.logger.Info("plex token saved", "path", r.configPath)
	return r.writePlain("\n✓ Signed in. Token saved to %s\n", r.configPath)
}

// AuthStatus checks server connectivity with the configured token.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if r.config.Plex.Token == "" {
		return fmt.Errorf("%w: run 'auth login' first", shared.ErrNotAuthenticated)
	}

	if err := r.connect(ctx); err != nil {
		return err
	}

	r.writePlain("✓ Connected to %s\n", r.config.Plex.BaseURL)
	r.writePlain("TV libraries: %d\n", len(r.plex.TVLibraries()))
	r.writePlain("Movie libraries: %d\n", len(r.plex.MovieLibraries()))
	return nil
}
