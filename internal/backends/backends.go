// package backends defines interface Backend for media server playlist targets
//
// Emby, Plex
package backends

import (
	"context"

	"github.com/doumiao/listsync/internal/models"
)

// Backend is the capability surface the reconciliation core consumes from a
// media server. Implementations wrap remote HTTP APIs; playlist state reads
// and mutations are principal-scoped where the server supports per-user
// playlists (Emby), and principal-agnostic otherwise (Plex).
type Backend interface {
	// Name returns the backend name (e.g. "emby", "plex").
	Name() string

	// Search queries the music catalog. May return zero candidates; that is
	// not an error.
	Search(ctx context.Context, query string) ([]models.CatalogCandidate, error)

	// GetState reads the named playlist as seen by the principal. A state
	// with an empty ID means the playlist does not exist yet.
	GetState(ctx context.Context, name string, principal models.Principal) (models.PlaylistState, error)

	// Create creates the named playlist holding the given candidates.
	Create(ctx context.Context, name string, candidates []models.CatalogCandidate, principal models.Principal) (bool, error)

	// Append adds the given track IDs to an existing playlist.
	Append(ctx context.Context, playlistID string, trackIDs []string, principal models.Principal) (bool, error)

	// Principals returns the configured principals, primary first. Playlists
	// resolved against the primary are fanned out to the rest.
	Principals() []models.Principal
}
