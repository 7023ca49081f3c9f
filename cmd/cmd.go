// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// syncCommand handles playlist reconciliation runs
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Reconcile configured playlists against the media servers",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run every configured mapping and record history",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "source",
						Aliases: []string{"s"},
						Usage:   "Only run mappings for this source (qq, netease)",
					},
					&cli.BoolFlag{
						Name:  "no-history",
						Usage: "Skip writing sync history rows",
					},
				},
				Action: r.SyncRun,
			},
			{
				Name:  "preview",
				Usage: "Compute the outcome of every mapping without mutating anything",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "source",
						Aliases: []string{"s"},
						Usage:   "Only preview mappings for this source",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SyncPreview,
			},
		},
	}
}

// chartsCommand handles Maoyan dashboard operations
func chartsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "charts",
		Usage: "Maoyan box office and web-heat boards",
		Commands: []*cli.Command{
			{
				Name:  "movie",
				Usage: "Show the real-time movie box office board",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "top",
						Usage: "Number of entries to show",
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Store a snapshot and report new entrants",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Output format: text, csv, markdown",
						Value: "text",
					},
				},
				Action: r.ChartsMovie,
			},
			{
				Name:  "web",
				Usage: "Show the web-heat board for series",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "top",
						Usage: "Number of entries to show",
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Store a snapshot and report new entrants",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Output format: text, csv, markdown",
						Value: "text",
					},
				},
				Action: r.ChartsWeb,
			},
		},
	}
}

// historyCommand handles sync history queries
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Inspect past sync runs",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recent sync outcomes",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of rows to return",
						Value: 20,
					},
					&cli.StringFlag{
						Name:  "target",
						Usage: "Filter by target playlist name",
					},
					&cli.StringFlag{
						Name:  "backend",
						Usage: "Filter by backend (emby, plex)",
					},
					&cli.BoolFlag{
						Name:  "csv",
						Usage: "Output CSV",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "show",
				Usage: "Show every row of one run",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "run-id",
					},
				},
				Action: r.HistoryShow,
			},
		},
	}
}

// sourceCommand handles direct source operations
func sourceCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "source",
		Usage: "Direct upstream playlist operations",
		Commands: []*cli.Command{
			{
				Name:  "tracks",
				Usage: "Fetch and print a source playlist",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "source",
						Aliases:  []string{"s"},
						Usage:    "Source name (qq, netease)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Playlist ID to fetch",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "normalized",
						Usage: "Print canonical titles instead of raw names",
					},
				},
				Action: r.SourceTracks,
			},
			{
				Name:  "netease-status",
				Usage: "Log into NetEase and print the account nickname",
				Action: r.NeteaseStatus,
			},
			{
				Name:  "netease-daily",
				Usage: "Print NetEase daily recommended songs",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.NeteaseDaily,
			},
		},
	}
}
