package sync

import (
	"fmt"

	"github.com/doumiao/listsync/internal/models"
)

// ProgressUpdate represents a progress event during a sync run.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	FetchSource Phase = iota
	NormalizeTracks
	ReadPlaylist
	SearchTracks
	ApplyChanges
	FanOutPhase
)

func (p Phase) String() string {
	switch p {
	case FetchSource:
		return "fetch_source"
	case NormalizeTracks:
		return "normalize_tracks"
	case ReadPlaylist:
		return "read_playlist"
	case SearchTracks:
		return "search_tracks"
	case ApplyChanges:
		return "apply_changes"
	case FanOutPhase:
		return "fan_out"
	default:
		return ""
	}
}

func fetchSourceUpdate(step, total int, source, playlistID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSource,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching %s playlist %s...", source, playlistID),
	}
}

func fetchedSourceUpdate(step, total int, source string, trackCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSource,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetched %d tracks from %s", trackCount, source),
	}
}

func readPlaylistUpdate(backend, target string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ReadPlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Reading playlist %q on %s...", target, backend),
	}
}

func searchTrackUpdate(step, total int, track models.CanonicalTrack) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Searching: %s", step, total, track.Key),
	}
}

func applyUpdate(backend, target string, adding int, creating bool) ProgressUpdate {
	verb := "Appending to"
	if creating {
		verb = "Creating"
	}
	return ProgressUpdate{
		Phase:   ApplyChanges,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("%s playlist %q on %s (%d tracks)", verb, target, backend, adding),
	}
}

func fanOutUpdate(step, total int, principal models.Principal) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FanOutPhase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Replicating to %s", step, total, principal),
	}
}
