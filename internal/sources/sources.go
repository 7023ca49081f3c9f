// package sources defines interface Adapter for upstream playlist providers
//
// QQ Music, NetEase Cloud Music
package sources

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/doumiao/listsync/internal/models"
	"github.com/doumiao/listsync/internal/shared"
)

// Adapter is an upstream playlist provider. Adapters return raw track
// records; normalization happens in the core, not here.
type Adapter interface {
	// Name returns the source name (e.g. "qq", "netease").
	Name() string

	// FetchPlaylist retrieves all tracks of the given playlist.
	FetchPlaylist(ctx context.Context, playlistID string) ([]models.RawTrack, error)
}

// RetryPolicy is the bounded retry applied to playlist fetches. Upstream
// chart/playlist APIs fail transiently often enough that a fixed-delay retry
// is part of the fetch contract rather than an embedded sleep loop.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultRetryPolicy mirrors the upstream-observed budget: five attempts,
// two seconds apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 5, Delay: 2 * time.Second}
}

// FetchPlaylist fetches with retries. Exhausting the budget yields
// ErrSourceUnavailable; the caller treats the playlist as empty for the run
// and moves on to the next mapping.
func (p RetryPolicy) FetchPlaylist(ctx context.Context, adapter Adapter, playlistID string, logger *log.Logger) ([]models.RawTrack, error) {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		tracks, err := adapter.FetchPlaylist(ctx, playlistID)
		if err == nil {
			return tracks, nil
		}
		lastErr = err

		if logger != nil {
			logger.Warn("playlist fetch failed", "source", adapter.Name(), "playlist", playlistID, "attempt", attempt, "err", err)
		}

		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s playlist %s: %v", shared.ErrSourceUnavailable, adapter.Name(), playlistID, ctx.Err())
		case <-time.After(p.Delay):
		}
	}

	return nil, fmt.Errorf("%w: %s playlist %s after %d attempts: %v",
		shared.ErrSourceUnavailable, adapter.Name(), playlistID, attempts, lastErr)
}
