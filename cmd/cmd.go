// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: text, csv, json or markdown",
		Value:   "text",
	}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Output JSON (same as --format json)",
	}
}

func limitFlag() cli.Flag {
	return &cli.IntFlag{
		Name:  "n",
		Usage: "Maximum number of results",
		Value: 10,
	}
}

func yearRangeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:     "from",
			Usage:    "First year of the range (inclusive)",
			Required: true,
		},
		&cli.IntFlag{
			Name:  "to",
			Usage: "Last year of the range (inclusive, defaults to --from)",
		},
	}
}

// setupCommand handles setup operations for the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create the config file if missing, initialize the database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
		},
	}
}

// resetCommand empties every catalog table.
func resetCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "reset",
		Usage:  "Delete every row from the catalog, keeping the schema",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Reset,
	}
}

// loadCommand handles batch loads from TOML files.
func loadCommand(r *Runner) *cli.Command {
	flags := func(extra ...cli.Flag) []cli.Flag {
		return append([]cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:     "file",
				Usage:    "Path to a TOML batch file",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "atomic",
				Usage: "Load the whole batch in a single transaction",
			},
			formatFlag(),
			jsonFlag(),
		}, extra...)
	}
	strict := func() cli.Flag {
		return &cli.BoolFlag{
			Name:  "strict",
			Usage: "Reject ratings from unknown users instead of creating them",
		}
	}

	return &cli.Command{
		Name:  "load",
		Usage: "Load records from a TOML batch file and print the rejected keys",
		Commands: []*cli.Command{
			{
				Name:   "singles",
				Usage:  "Load the [[singles]] section",
				Flags:  flags(),
				Action: r.LoadSingles,
			},
			{
				Name:   "albums",
				Usage:  "Load the [[albums]] section",
				Flags:  flags(),
				Action: r.LoadAlbums,
			},
			{
				Name:   "users",
				Usage:  "Load the users list",
				Flags:  flags(),
				Action: r.LoadUsers,
			},
			{
				Name:   "ratings",
				Usage:  "Load the [[ratings]] section",
				Flags:  flags(strict()),
				Action: r.LoadRatings,
			},
			{
				Name:   "batch",
				Usage:  "Load singles, albums, users and ratings in that order",
				Flags:  flags(strict()),
				Action: r.LoadBatch,
			},
		},
	}
}

// queryCommand handles the aggregate queries.
func queryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "query",
		Usage: "Run an aggregate query",
		Commands: []*cli.Command{
			{
				Name:   "genres",
				Usage:  "Genres ranked by number of songs",
				Flags:  []cli.Flag{configFlag(), formatFlag(), limitFlag()},
				Action: r.QueryGenres,
			},
			{
				Name:   "prolific",
				Usage:  "Artists ranked by songs released in a year range",
				Flags:  append([]cli.Flag{configFlag(), formatFlag(), limitFlag()}, yearRangeFlags()...),
				Action: r.QueryProlific,
			},
			{
				Name:  "last-single",
				Usage: "Artists whose most recent single came out in a year",
				Flags: []cli.Flag{
					configFlag(),
					formatFlag(),
					&cli.IntFlag{
						Name:     "year",
						Usage:    "Release year",
						Required: true,
					},
				},
				Action: r.QueryLastSingle,
			},
			{
				Name:   "album-and-single",
				Usage:  "Artists with both singles and album tracks",
				Flags:  []cli.Flag{configFlag(), formatFlag()},
				Action: r.QueryAlbumAndSingle,
			},
			{
				Name:    "most-rated",
				Aliases: []string{"rated"},
				Usage:   "Songs ranked by ratings received in a year range",
				Flags:   append([]cli.Flag{configFlag(), formatFlag(), limitFlag()}, yearRangeFlags()...),
				Action:  r.QueryMostRated,
			},
			{
				Name:   "engaged",
				Usage:  "Users ranked by ratings given in a year range",
				Flags:  append([]cli.Flag{configFlag(), formatFlag(), limitFlag()}, yearRangeFlags()...),
				Action: r.QueryEngaged,
			},
		},
	}
}

// statsCommand prints row counts.
func statsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "stats",
		Usage:  "Show the number of rows per entity",
		Flags:  []cli.Flag{configFlag(), jsonFlag()},
		Action: r.Stats,
	}
}

// demoCommand runs the built-in scenarios against an in-memory database.
func demoCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "demo",
		Usage: "Run the loader and query scenarios against a scratch in-memory catalog",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Show batch logs"},
		},
		Action: r.Demo,
	}
}

// exportCommand writes every report to a directory with a manifest.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write every query report to a directory, one file per report plus a manifest",
		Flags: append([]cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, csv, json or markdown",
				Value:   "csv",
			},
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"o"},
				Usage:   "Output directory (default: catalog_reports_{epoch})",
			},
			&cli.IntFlag{
				Name:  "year",
				Usage: "Year for the last-single report (defaults to --to)",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of concurrent report workers",
				Value: 3,
			},
			limitFlag(),
		}, yearRangeFlags()...),
		Action: r.Export,
	}
}
