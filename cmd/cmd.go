// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

var configFlag = &cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:   "Path to configuration file",
	Value:   "config.toml",
}

// serveCommand runs the webhook listener daemon.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the playback webhook listener",
		Flags: []cli.Flag{
			configFlag,
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address override (host:port)",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand handles setup operations for database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Flags:  []cli.Flag{configFlag},
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles AniList authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage AniList authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authenticate with AniList using OAuth2",
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{
						Name:     "user",
						Aliases:  []string{"u"},
						Usage:    "Media server user id to bind the token to",
						Required: true,
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "status",
				Usage: "Check stored tokens against the AniList API",
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{
						Name:    "user",
						Aliases: []string{"u"},
						Usage:   "Check a single media server user",
					},
				},
				Action: r.AuthStatus,
			},
		},
	}
}

// accountCommand manages per-user sync accounts and policies.
func accountCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "account",
		Usage: "Manage per-user sync accounts",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List configured accounts",
				Flags: []cli.Flag{
					configFlag,
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.AccountList,
			},
			{
				Name:  "set",
				Usage: "Create or update an account's sync policy",
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{
						Name:     "user",
						Aliases:  []string{"u"},
						Usage:    "Media server user id",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "percentage",
						Usage: "Completion percentage required before scrobbling",
						Value: -1,
					},
					&cli.IntFlag{
						Name:  "min-length",
						Usage: "Minimum runtime in minutes for an item to scrobble",
						Value: -1,
					},
					&cli.StringFlag{
						Name:  "movies",
						Usage: "Scrobble movies (true/false)",
					},
					&cli.StringFlag{
						Name:  "shows",
						Usage: "Scrobble episodes (true/false)",
					},
					&cli.StringFlag{
						Name:  "rewatches",
						Usage: "Scrobble rewatches (true/false)",
					},
				},
				Action: r.AccountSet,
			},
			{
				Name:  "delete",
				Usage: "Delete an account",
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{
						Name:     "user",
						Aliases:  []string{"u"},
						Usage:    "Media server user id",
						Required: true,
					},
				},
				Action: r.AccountDelete,
			},
		},
	}
}

// historyCommand exposes the scrobble history log.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Inspect scrobble history",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Print recent scrobbles, newest first",
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{
						Name:    "user",
						Aliases: []string{"u"},
						Usage:   "Filter by media server user id",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of records to return",
						Value: 50,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:    "ui",
				Aliases: []string{"tui"},
				Usage:   "Browse scrobble history interactively",
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{
						Name:    "user",
						Aliases: []string{"u"},
						Usage:   "Filter by media server user id",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of records to load",
						Value: 100,
					},
				},
				Action: r.HistoryUI,
			},
		},
	}
}

// entryCommand fetches remote list state for debugging.
func entryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "entry",
		Usage: "Fetch a media's list entry and episode count from AniList",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "media-id",
			},
		},
		Flags: []cli.Flag{
			configFlag,
			&cli.StringFlag{
				Name:    "user",
				Aliases: []string{"u"},
				Usage:   "Media server user id whose token to use",
			},
		},
		Action: r.Entry,
	}
}
