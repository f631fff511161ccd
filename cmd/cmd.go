// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// sessionCommand handles backend session operations
func sessionCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "session",
		Aliases: []string{"sess"},
		Usage:   "Manage the backend pipeline session",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Load and display the current session document",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Output format: text, markdown or csv",
						Value: "text",
					},
					&cli.StringFlag{
						Name:    "export",
						Aliases: []string{"o"},
						Usage:   "Export CSV and JSON files using this base path",
					},
				},
				Action: r.SessionShow,
			},
			{
				Name:   "create",
				Usage:  "Create a fresh backend session and cache its id",
				Action: r.SessionCreate,
			},
			{
				Name:   "reset",
				Usage:  "Discard the cached session id and create a fresh session",
				Action: r.SessionReset,
			},
			{
				Name:  "set",
				Usage: "Set one section field and patch it immediately",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "section"},
					&cli.StringArg{Name: "field"},
					&cli.StringArg{Name: "value"},
				},
				Action: r.SessionSet,
			},
		},
	}
}

// schemaCommand handles section schema inspection
func schemaCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Inspect section form schemas",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "section",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.SchemaShow,
	}
}

// configCommand handles configuration file operations
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect and edit configuration",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Display the active configuration",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.ConfigShow,
			},
			{
				Name:  "set",
				Usage: "Set a configuration value and save it",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "key"},
					&cli.StringArg{Name: "value"},
				},
				Action: r.ConfigSet,
			},
		},
	}
}

// runCommand handles pipeline jobs on the backend
func runCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run pipeline jobs on the backend",
		Commands: []*cli.Command{
			{
				Name:  "train",
				Usage: "Start a model training job",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "model",
						Usage:    "Model name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "dataset",
						Usage:    "Dataset name",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "epochs",
						Usage: "Training epochs",
						Value: 10,
					},
					&cli.IntFlag{
						Name:  "kfolds",
						Usage: "Cross-validation folds",
						Value: 5,
					},
				},
				Action: r.RunTrain,
			},
			{
				Name:  "predict",
				Usage: "Run a prediction job",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "model",
						Usage:    "Model name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "dataset",
						Usage: "Dataset name",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.RunPredict,
			},
			{
				Name:  "plot",
				Usage: "Render one plot view server-side and save the PNG",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "view",
						Usage:    "Plot view to render",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "subject",
						Usage: "Subject id to render for",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output PNG path (default: {view}.png)",
					},
				},
				Action: r.RunPlot,
			},
			{
				Name:  "cohort",
				Usage: "Render one plot view for every subject",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "view",
						Usage:    "Plot view to render",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output-dir",
						Aliases: []string{"o"},
						Usage:   "Output directory for PNGs",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent render workers",
						Value: 4,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Requests per second",
						Value: 4.0,
					},
				},
				Action: r.RunCohort,
			},
		},
	}
}

// participantsCommand handles participant metadata lookups
func participantsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "participants",
		Aliases: []string{"subjects"},
		Usage:   "List study participants and their recorded tasks",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "subject",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Participants,
	}
}

// apiCommand handles direct backend API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the pipeline backend",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to the backend, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
		},
	}
}

// setupCommand handles setup operations for the local state database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and the local state database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.SetupDatabase,
	}
}

// tuiCommand returns the top-level TUI command for interactive form editing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive form surface for pipeline settings",
		Action:  r.TUI,
	}
}
