package main

import (
	"context"
	"fmt"

	"github.com/doumiao/listsync/internal/formatter"
	"github.com/doumiao/listsync/internal/models"
	"github.com/doumiao/listsync/internal/shared"
	"github.com/doumiao/listsync/internal/sync"
	"github.com/urfave/cli/v3"
)

// mappings converts the configured mapping entries, optionally filtered to
// one source.
func (r *Runner) mappings(source string) ([]models.SyncMapping, error) {
	var result []models.SyncMapping
	for _, m := range r.config.Sync.Mappings {
		if source != "" && m.Source != source {
			continue
		}
		principals := make([]models.Principal, len(m.Principals))
		for i, p := range m.Principals {
			principals[i] = models.Principal(p)
		}
		result = append(result, models.SyncMapping{
			Source:     m.Source,
			PlaylistID: m.PlaylistID,
			Target:     m.Target,
			Principals: principals,
		})
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("%w: no sync mappings configured", shared.ErrMissingConfig)
	}
	return result, nil
}

// reportProgress drains the progress channel onto the terminal.
func (r *Runner) reportProgress(progressCh <-chan sync.ProgressUpdate) {
	for update := range progressCh {
		switch update.Phase {
		case sync.FetchSource:
			r.writePlain("📥 %s\n", update.Message)
		case sync.ReadPlaylist:
			r.writePlain("\n📋 %s\n", update.Message)
		case sync.SearchTracks:
			r.writePlain("   %s\n", update.Message)
		case sync.ApplyChanges:
			r.writePlain("\n📝 %s\n", update.Message)
		case sync.FanOutPhase:
			r.writePlain("   %s\n", update.Message)
		}
	}
}

// SyncRun runs every configured mapping and records history.
func (r *Runner) SyncRun(ctx context.Context, cmd *cli.Command) error {
	mappings, err := r.mappings(cmd.String("source"))
	if err != nil {
		return err
	}

	var history sync.HistoryWriter
	if !cmd.Bool("no-history") {
		repo, closeDB, err := r.historyRepo()
		if err != nil {
			return err
		}
		defer closeDB()
		history = repo
	}

	r.logger.Info("starting sync run", "mappings", len(mappings))

	progressCh := make(chan sync.ProgressUpdate, 50)
	go r.reportProgress(progressCh)

	result, err := r.newEngine(history).Run(ctx, mappings, false, progressCh)
	close(progressCh)
	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader(fmt.Sprintf("Sync Complete (run %s)", result.RunID))
	for _, mr := range result.Results {
		r.writePlain("%s\n", formatter.StatusLine(mr.Outcome))
		for _, fr := range mr.FanOut {
			status := "ok"
			if fr.Err != nil {
				status = fr.Err.Error()
			}
			r.writePlain("   fan-out %s: %s\n", fr.Principal, status)
		}
	}
	for _, skipped := range result.Skipped {
		r.writePlain("skipped %s/%s: %v\n", skipped.Mapping.Source, skipped.Mapping.PlaylistID, skipped.Err)
	}

	return nil
}

// SyncPreview computes outcomes without touching the backends.
func (r *Runner) SyncPreview(ctx context.Context, cmd *cli.Command) error {
	mappings, err := r.mappings(cmd.String("source"))
	if err != nil {
		return err
	}

	result, err := r.newEngine(nil).Preview(ctx, mappings, nil)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		type previewEntry struct {
			Source      string   `json:"source"`
			Playlist    string   `json:"playlist"`
			Target      string   `json:"target"`
			Backend     string   `json:"backend"`
			Matched     []string `json:"matched"`
			Present     int      `json:"already_present"`
			Unmatchable []string `json:"unmatchable"`
		}
		entries := make([]previewEntry, 0, len(result.Results))
		for _, mr := range result.Results {
			unmatchable := make([]string, len(mr.Outcome.Unmatchable))
			for i, track := range mr.Outcome.Unmatchable {
				unmatchable[i] = track.Key
			}
			entries = append(entries, previewEntry{
				Source:      mr.Outcome.Source,
				Playlist:    mr.Outcome.SourcePlaylist,
				Target:      mr.Outcome.Target,
				Backend:     mr.Outcome.Backend,
				Matched:     mr.Outcome.MatchedIDs(),
				Present:     len(mr.Outcome.AlreadyPresent),
				Unmatchable: unmatchable,
			})
		}
		return r.writeJSON(entries, true)
	}

	r.writePlainHeader("Sync Preview")
	for _, mr := range result.Results {
		r.output.Write(formatter.OutcomeToText(mr.Outcome))
		r.writePlain("\n")
	}
	for _, skipped := range result.Skipped {
		r.writePlain("skipped %s/%s: %v\n", skipped.Mapping.Source, skipped.Mapping.PlaylistID, skipped.Err)
	}

	return nil
}
