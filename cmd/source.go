package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/doumiao/listsync/internal/normalize"
	"github.com/doumiao/listsync/internal/shared"
	"github.com/doumiao/listsync/internal/sources"
	"github.com/urfave/cli/v3"
)

// SourceTracks fetches and prints a source playlist.
func (r *Runner) SourceTracks(ctx context.Context, cmd *cli.Command) error {
	adapter, err := r.adapter(cmd.String("source"))
	if err != nil {
		return err
	}
	playlistID := cmd.String("id")

	tracks, err := r.retry.FetchPlaylist(ctx, adapter, playlistID, r.logger)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		type trackEntry struct {
			Name    string   `json:"name"`
			Artists []string `json:"artists"`
		}
		entries := make([]trackEntry, len(tracks))
		for i, track := range tracks {
			entries[i] = trackEntry{Name: track.Name, Artists: track.Artists}
		}
		return r.writeJSON(entries, true)
	}

	r.writePlain("Playlist %s on %s (%d tracks)\n\n", playlistID, adapter.Name(), len(tracks))
	for i, track := range tracks {
		name := track.Name
		artists := track.Artists
		if cmd.Bool("normalized") {
			canonical, err := normalize.Track(track)
			if err != nil {
				r.writePlain("%d. (unusable title %q)\n", i+1, track.Name)
				continue
			}
			name = canonical.Key
			artists = canonical.ArtistKeys
		}
		r.writePlain("%d. %s - %s\n", i+1, strings.Join(artists, "/"), name)
	}

	return nil
}

// neteaseClient returns the configured NetEase adapter.
func (r *Runner) neteaseClient() (*sources.NeteaseClient, error) {
	for _, adapter := range r.adapters {
		if client, ok := adapter.(*sources.NeteaseClient); ok {
			return client, nil
		}
	}
	return nil, fmt.Errorf("%w: netease source not configured", shared.ErrMissingConfig)
}

// neteaseLogin logs in with the configured credentials.
func (r *Runner) neteaseLogin(ctx context.Context) (*sources.NeteaseClient, error) {
	client, err := r.neteaseClient()
	if err != nil {
		return nil, err
	}

	netease := r.config.Sources.Netease
	if err := client.Login(ctx, netease.Username, netease.Password); err != nil {
		return nil, err
	}
	return client, nil
}

// NeteaseStatus logs into NetEase and prints the account nickname.
func (r *Runner) NeteaseStatus(ctx context.Context, cmd *cli.Command) error {
	client, err := r.neteaseLogin(ctx)
	if err != nil {
		return err
	}

	nickname, err := client.LoginStatus(ctx)
	if err != nil {
		return err
	}

	return r.writePlain("✓ Logged in as %s\n", nickname)
}

// NeteaseDaily prints the daily recommended songs.
func (r *Runner) NeteaseDaily(ctx context.Context, cmd *cli.Command) error {
	client, err := r.neteaseLogin(ctx)
	if err != nil {
		return err
	}

	songs, err := client.DailySongs(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		type trackEntry struct {
			Name    string   `json:"name"`
			Artists []string `json:"artists"`
		}
		entries := make([]trackEntry, len(songs))
		for i, song := range songs {
			entries[i] = trackEntry{Name: song.Name, Artists: song.Artists}
		}
		return r.writeJSON(entries, true)
	}

	r.writePlain("Daily recommendations (%d tracks)\n\n", len(songs))
	for i, song := range songs {
		r.writePlain("%d. %s - %s\n", i+1, strings.Join(song.Artists, "/"), song.Name)
	}

	return nil
}
