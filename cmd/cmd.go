// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Output raw JSON",
	}
}

func formatFlag(value string) cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Export format (json, csv, markdown, txt)",
		Value:   value,
	}
}

// setupCommand handles first-run setup
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration utilities",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Create the database and run migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recent migration",
					},
					&cli.BoolFlag{
						Name:  "status",
						Usage: "Show migration status",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:   "config",
				Usage:  "Write a default config.toml at the --config path",
				Action: r.SetupConfig,
			},
		},
	}
}

// authCommand handles sign-in
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Sign in and out",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in with Google, or with a local name",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "local",
						Usage: "Sign in as a named local user instead of Google",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "End the current session",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show the signed-in user",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.AuthStatus,
			},
		},
	}
}

// searchCommand queries YouTube
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Aliases:   []string{"s"},
		Usage:     "Search YouTube for songs",
		ArgsUsage: "<query...>",
		Flags:     []cli.Flag{jsonFlag()},
		Action:    r.Search,
	}
}

// playCommand opens a song in the fullscreen player
func playCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "play",
		Usage:     "Play a song by video id or search query in the browser",
		ArgsUsage: "<video-id|query...>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "start",
				Usage: "Start position in seconds",
			},
		},
		Action: r.Play,
	}
}

// likedCommand handles the liked songs list
func likedCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "liked",
		Usage: "Liked songs",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List liked songs",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "filter",
						Usage: "Fuzzy filter by title or artist",
					},
					jsonFlag(),
				},
				Action: r.LikedList,
			},
			{
				Name:      "add",
				Usage:     "Like a song by video id or search query",
				ArgsUsage: "<video-id|query...>",
				Action:    r.LikedAdd,
			},
			{
				Name:  "remove",
				Usage: "Unlike a song",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "video-id"},
				},
				Action: r.LikedRemove,
			},
			{
				Name:      "move",
				Usage:     "Move a liked song to a new position (1-based)",
				ArgsUsage: "<from> <to>",
				Action:    r.LikedMove,
			},
			{
				Name:  "export",
				Usage: "Export liked songs to a file",
				Flags: []cli.Flag{
					formatFlag("json"),
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory",
						Value:   ".",
					},
					&cli.BoolFlag{
						Name:  "cover",
						Usage: "Download the cover image (markdown only)",
					},
				},
				Action: r.LikedExport,
			},
		},
	}
}

// recentCommand handles the recently played list
func recentCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "recent",
		Usage: "Recently played songs",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List recently played songs",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.RecentList,
			},
			{
				Name:  "delete",
				Usage: "Remove a song from recently played",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "video-id"},
				},
				Action: r.RecentDelete,
			},
		},
	}
}

// playlistCommand handles playlist operations
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Playlist operations",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List your playlists",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.PlaylistList,
			},
			{
				Name:  "show",
				Usage: "Show the songs in a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.PlaylistShow,
			},
			{
				Name:  "create",
				Usage: "Create a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "description",
						Aliases: []string{"d"},
						Usage:   "Playlist description",
					},
				},
				Action: r.PlaylistCreate,
			},
			{
				Name:      "add",
				Usage:     "Add a song by video id or search query",
				ArgsUsage: "<playlist-id> <video-id|query...>",
				Action:    r.PlaylistAdd,
			},
			{
				Name:      "remove",
				Usage:     "Remove a song from a playlist",
				ArgsUsage: "<playlist-id> <video-id>",
				Action:    r.PlaylistRemove,
			},
			{
				Name:  "update",
				Usage: "Rename a playlist or change its description",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "name",
						Aliases: []string{"n"},
						Usage:   "New name",
					},
					&cli.StringFlag{
						Name:    "description",
						Aliases: []string{"d"},
						Usage:   "New description",
					},
				},
				Action: r.PlaylistUpdate,
			},
			{
				Name:  "delete",
				Usage: "Delete a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.PlaylistDelete,
			},
		},
	}
}

// shareCommand handles share codes
func shareCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "share",
		Usage: "Share liked songs with a code",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a share code from your liked songs",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "copy",
						Usage: "Copy the share code to the clipboard",
					},
				},
				Action: r.ShareCreate,
			},
			{
				Name:  "receive",
				Usage: "Add the songs of a share code to your liked songs",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "code"},
				},
				Action: r.ShareReceive,
			},
		},
	}
}

// exportCommand exports collections in bulk
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export liked songs and playlists (all when no ids are given)",
		ArgsUsage: "[liked|playlist-id...]",
		Flags: []cli.Flag{
			formatFlag("json"),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory (default: echoplay_export_<timestamp>)",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of concurrent workers (max 10)",
				Value: 5,
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Collections started per second",
				Value: 5,
			},
			&cli.BoolFlag{
				Name:  "covers",
				Usage: "Download cover images (markdown only)",
			},
		},
		Action: r.Export,
	}
}

// serveCommand runs the document store server
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the document store over HTTP for remote clients",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind (default from config)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to bind (default from config)",
			},
		},
		Action: r.Serve,
	}
}

// tuiCommand launches the interactive player
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Launch the interactive player",
		Action: r.TUI,
	}
}
