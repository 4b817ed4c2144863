package main

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/tonywied17/plex-poster-set-helper/internal/repositories"
	"github.com/tonywied17/plex-poster-set-helper/internal/services"
	"github.com/tonywied17/plex-poster-set-helper/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	configPath := "config.toml"
	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
	}

	if level, err := log.ParseLevel(config.Logging.Level); err == nil {
		shared.SetLogLevel(logger, level)
	}

	// Upload history is optional: without a database the tool still uploads,
	// it just keeps no record.
	var recorder services.UploadRecorder
	if config.Database.Path != "" {
		if db, err := shared.NewDatabase(config.Database.Path); err == nil {
			if err := shared.RunMigrations(db); err == nil {
				shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
				recorder = repositories.NewUploadRepository(db)
				defer db.Close()
			} else {
				logger.Warn("skipping upload history, migrations failed", "error", err)
				db.Close()
			}
		} else {
			logger.Warn("skipping upload history, database unavailable", "error", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Recorder:   recorder,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "ppsh",
		Usage:    "Upload poster sets from ThePosterDB and MediUX to Plex",
		Version:  "0.4.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
