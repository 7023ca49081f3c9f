package main

import (
	"context"
	"errors"
	"os"

	"github.com/doumiao/listsync/internal/backends"
	"github.com/doumiao/listsync/internal/shared"
	"github.com/doumiao/listsync/internal/sources"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	adapters := []sources.Adapter{
		sources.NewQQClient("", config.Sources.QQ.Cookie, nil),
		sources.NewNeteaseClient(config.Sources.Netease.APIURL, nil),
	}

	var serverBackends []backends.Backend
	if config.Backends.Emby.Host != "" && config.Backends.Emby.APIKey != "" {
		serverBackends = append(serverBackends, backends.NewEmbyClient(
			config.Backends.Emby.Host,
			config.Backends.Emby.APIKey,
			config.Backends.Emby.User,
			config.Backends.Emby.Users,
			nil,
			logger,
		))
	}
	if config.Backends.Plex.Host != "" && config.Backends.Plex.Token != "" {
		serverBackends = append(serverBackends, backends.NewPlexClient(
			config.Backends.Plex.Host,
			config.Backends.Plex.Token,
			config.Backends.Plex.SectionID,
			nil,
			logger,
		))
	}

	runner := NewRunner(RunnerOpts{
		Config:   config,
		Adapters: adapters,
		Backends: serverBackends,
		Logger:   logger,
	})

	app := &cli.Command{
		Name:     "listsync",
		Usage:    "Sync QQ/NetEase playlists to Emby & Plex and track Maoyan charts",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
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
	}
}
