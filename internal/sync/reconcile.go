package sync

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/doumiao/listsync/internal/backends"
	"github.com/doumiao/listsync/internal/match"
	"github.com/doumiao/listsync/internal/models"
	"golang.org/x/time/rate"
)

// ReconcileOptions controls a single reconcile pass.
type ReconcileOptions struct {
	// ExactMatch enables artist-verified match selection.
	ExactMatch bool

	// DryRun computes the full outcome without calling Create or Append.
	DryRun bool

	// Limiter throttles catalog search calls when non-nil.
	Limiter *rate.Limiter

	Logger   *log.Logger
	Progress chan<- ProgressUpdate
}

// Reconcile drives one playlist toward the desired track set on one backend
// principal. It partitions the desired tracks against the playlist's current
// state before issuing any search, resolves only the missing ones, and applies
// at most one mutation: create when the playlist is absent, or append the
// delta of resolved IDs not already present.
//
// An empty desired set returns immediately without touching the backend.
// Per-track search failures classify the track as unmatchable and never abort
// the pass. A mutation failure is recorded on the outcome, not returned.
func Reconcile(ctx context.Context, desired []models.CanonicalTrack, state models.PlaylistState, backend backends.Backend, target string, principal models.Principal, opts ReconcileOptions) models.Outcome {
	outcome := models.Outcome{
		Target:    target,
		Backend:   backend.Name(),
		Principal: principal,
		Applied:   true,
	}
	if len(desired) == 0 {
		return outcome
	}

	// Partition once, up front, against the state snapshot. Tracks the
	// playlist already holds by canonical name are never searched.
	existingNames := make(map[string]struct{}, len(state.ExistingTrackNames))
	for _, name := range state.ExistingTrackNames {
		existingNames[name] = struct{}{}
	}

	var toResolve []models.CanonicalTrack
	for _, track := range desired {
		if _, ok := existingNames[track.Key]; ok {
			outcome.AlreadyPresent = append(outcome.AlreadyPresent, track)
		} else {
			toResolve = append(toResolve, track)
		}
	}

	seen := make(map[string]struct{})
	for i, track := range toResolve {
		sendProgress(opts.Progress, searchTrackUpdate(i+1, len(toResolve), track))

		if opts.Limiter != nil {
			if err := opts.Limiter.Wait(ctx); err != nil {
				// Context gone; classify the remainder so the
				// partition stays total.
				outcome.Unmatchable = append(outcome.Unmatchable, toResolve[i:]...)
				break
			}
		}

		candidate, err := match.Match(ctx, track, backend, opts.ExactMatch)
		if err != nil {
			if opts.Logger != nil {
				opts.Logger.Warn("catalog search failed", "track", track.Key, "backend", backend.Name(), "err", err)
			}
			outcome.Unmatchable = append(outcome.Unmatchable, track)
			continue
		}
		if candidate == nil {
			outcome.Unmatchable = append(outcome.Unmatchable, track)
			continue
		}

		outcome.ResolvedCount++
		if _, dup := seen[candidate.ID]; dup {
			continue
		}
		seen[candidate.ID] = struct{}{}
		outcome.Matched = append(outcome.Matched, *candidate)
	}

	if opts.DryRun {
		outcome.Applied = false
		return outcome
	}

	if state.ID == "" {
		if len(outcome.Matched) == 0 {
			return outcome
		}
		sendProgress(opts.Progress, applyUpdate(backend.Name(), target, len(outcome.Matched), true))
		created, err := backend.Create(ctx, target, outcome.Matched, principal)
		outcome.CreatedPlaylist = created
		outcome.Applied = created
		outcome.MutationErr = err
		return outcome
	}

	existingIDs := make(map[string]struct{}, len(state.ExistingTrackIDs))
	for _, id := range state.ExistingTrackIDs {
		existingIDs[id] = struct{}{}
	}
	var delta []string
	for _, id := range outcome.MatchedIDs() {
		if _, ok := existingIDs[id]; !ok {
			delta = append(delta, id)
		}
	}
	if len(delta) == 0 {
		// Nothing missing: the no-op append is skipped entirely and the
		// pass still counts as applied.
		return outcome
	}

	sendProgress(opts.Progress, applyUpdate(backend.Name(), target, len(delta), false))
	applied, err := backend.Append(ctx, state.ID, delta, principal)
	outcome.Applied = applied
	outcome.MutationErr = err
	return outcome
}

// sendProgress sends an update without blocking when the channel is full or
// nil.
func sendProgress(ch chan<- ProgressUpdate, update ProgressUpdate) {
	if ch == nil {
		return
	}
	select {
	case ch <- update:
	default:
	}
}
