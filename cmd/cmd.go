// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: txt, json, csv or markdown",
		Value:   "txt",
	}
}

func pageFlag() cli.Flag {
	return &cli.IntFlag{
		Name:    "page",
		Aliases: []string{"p"},
		Usage:   "Page number (starts at 1)",
		Value:   1,
	}
}

// setupCommand handles setup operations for configuration and storage.
func setupCommand(r *Runner) *cli.Command {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}

	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a config.toml with default settings",
				Flags:  []cli.Flag{configFlag},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize database, run migrations and list stored documents",
				Flags: []cli.Flag{
					configFlag,
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recent migration instead of migrating",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles the local mock identity store
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Register, log in and log out of the local identity store",
		Commands: []*cli.Command{
			{
				Name:  "register",
				Usage: "Create a local user",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "email"},
					&cli.StringArg{Name: "password"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "confirm",
						Usage: "Password confirmation (must match password)",
					},
				},
				Action: r.AuthRegister,
			},
			{
				Name:  "login",
				Usage: "Start a session for a registered user",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "email"},
					&cli.StringArg{Name: "password"},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "End the current session",
				Action: r.AuthLogout,
			},
			{
				Name:   "whoami",
				Usage:  "Show the current session",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}},
				Action: r.AuthWhoami,
			},
		},
	}
}

func getCommand(action cli.ActionFunc) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Fetch records by ID",
		ArgsUsage: "<id> [id...]",
		Flags:     []cli.Flag{formatFlag()},
		Action:    action,
	}
}

// charactersCommand lists and fetches characters
func charactersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "characters",
		Aliases: []string{"character", "chars"},
		Usage:   "Browse characters",
		Flags: []cli.Flag{
			pageFlag(),
			formatFlag(),
			&cli.StringFlag{Name: "name", Usage: "Filter by name"},
			&cli.StringFlag{Name: "status", Usage: "Filter by status (alive, dead, unknown)"},
			&cli.StringFlag{Name: "species", Usage: "Filter by species"},
		},
		Action:   r.ListCharacters,
		Commands: []*cli.Command{getCommand(r.GetCharacters)},
	}
}

// episodesCommand lists and fetches episodes
func episodesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "episodes",
		Aliases: []string{"episode", "eps"},
		Usage:   "Browse episodes",
		Flags: []cli.Flag{
			pageFlag(),
			formatFlag(),
			&cli.StringFlag{Name: "name", Usage: "Filter by name"},
			&cli.StringFlag{Name: "episode", Usage: "Filter by episode code (e.g. S01E02)"},
		},
		Action:   r.ListEpisodes,
		Commands: []*cli.Command{getCommand(r.GetEpisodes)},
	}
}

// locationsCommand lists and fetches locations
func locationsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "locations",
		Aliases: []string{"location", "locs"},
		Usage:   "Browse locations",
		Flags: []cli.Flag{
			pageFlag(),
			formatFlag(),
			&cli.StringFlag{Name: "name", Usage: "Filter by name"},
			&cli.StringFlag{Name: "type", Usage: "Filter by type"},
			&cli.StringFlag{Name: "dimension", Usage: "Filter by dimension"},
		},
		Action:   r.ListLocations,
		Commands: []*cli.Command{getCommand(r.GetLocations)},
	}
}

// favoritesCommand manages the current user's favorites
func favoritesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"favs", "fav"},
		Usage:   "Manage favorites of the logged-in user",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "Resolve and show every favorite",
				Flags:  []cli.Flag{formatFlag()},
				Action: r.FavoritesList,
			},
			{
				Name:   "ids",
				Usage:  "Show favorite IDs per kind without calling the catalog",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}},
				Action: r.FavoritesIDs,
			},
			{
				Name:  "toggle",
				Usage: "Add or remove a favorite",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "kind"},
					&cli.StringArg{Name: "id"},
				},
				Action: r.FavoritesToggle,
			},
			{
				Name:  "check",
				Usage: "Report whether an item is a favorite",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "kind"},
					&cli.StringArg{Name: "id"},
				},
				Action: r.FavoritesCheck,
			},
			{
				Name:  "export",
				Usage: "Write favorites to files",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: json, csv, markdown or txt",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "dir",
						Aliases: []string{"o"},
						Usage:   "Output directory (default: favorites_export_{timestamp})",
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "Markdown heading",
						Value: "Favorites",
					},
				},
				Action: r.FavoritesExport,
			},
		},
	}
}

// apiCommand handles direct catalog API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the catalog API",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to the catalog API, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
		},
	}
}

// serveCommand runs the local HTTP view layer
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the catalog and favorites over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (default: [server] host:port)",
			},
		},
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command for interactive browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI to browse the catalog",
		Action:  r.TUI,
	}
}
