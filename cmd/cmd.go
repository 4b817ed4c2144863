// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// batchFlags are shared by the run and bulk commands.
func batchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"w"},
			Usage:   "Concurrent workers (overrides config, capped at 10)",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Print the batch summary as JSON",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "Suppress per-task progress output",
		},
		&cli.StringFlag{
			Name:    "report",
			Aliases: []string{"o"},
			Usage:   "Write a batch report file (.json, .csv, .md or plain text)",
		},
	}
}

// runCommand uploads the poster sets behind one or more URLs
func runCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Upload poster sets from one or more URLs",
		Arguments: []cli.Argument{
			&cli.StringArgs{
				Name: "urls",
				Min:  1,
				Max:  -1,
			},
		},
		Flags:  batchFlags(),
		Action: r.ProcessRun,
	}
}

// bulkCommand uploads every URL listed in bulk import files
func bulkCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "bulk",
		Usage: "Upload poster sets from bulk import files",
		Arguments: []cli.Argument{
			&cli.StringArgs{
				Name: "files",
				Min:  0,
				Max:  -1,
			},
		},
		Flags:  batchFlags(),
		Action: r.ProcessBulk,
	}
}

// mappingsCommand manages title mapping overrides
func mappingsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "mappings",
		Usage: "Manage title mapping overrides",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List configured title mappings",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.MappingsList,
			},
			{
				Name:  "add",
				Usage: "Map a scraped title to the Plex library title",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "original"},
					&cli.StringArg{Name: "mapped"},
				},
				Action: r.MappingsAdd,
			},
			{
				Name:    "remove",
				Aliases: []string{"rm"},
				Usage:   "Remove a title mapping",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "original"},
				},
				Action: r.MappingsRemove,
			},
		},
	}
}

// authCommand handles plex.tv authentication
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Plex authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Obtain a Plex token via the plex.tv PIN flow",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Print the link instead of opening a browser",
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "How long to wait for the PIN to be claimed",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Check server connectivity and the configured token",
				Action: r.AuthStatus,
			},
		},
	}
}

// statsCommand reports upload history statistics
func statsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show upload history and labeled item counts",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "plex",
				Usage: "Also count labeled items on the Plex server",
			},
		},
		Action: r.Stats,
	}
}

// resetCommand restores default posters on labeled items
func resetCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "reset",
		Usage: "Reset posters on every item this tool has labeled",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Skip the confirmation prompt",
			},
		},
		Action: r.ResetPosters,
	}
}

// setupCommand initializes config, database and scraper headers
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and database",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "headers",
				Usage: "Store scraper headers from a browser 'Copy as cURL' command",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command string",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to a file containing the cURL command",
					},
				},
				Action: r.SetupHeaders,
			},
		},
	}
}

// tuiCommand launches the interactive batch UI
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Interactive batch upload",
		Arguments: []cli.Argument{
			&cli.StringArgs{
				Name: "urls",
				Min:  0,
				Max:  -1,
			},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Concurrent workers (overrides config, capped at 10)",
			},
		},
		Action: r.TUI,
	}
}
