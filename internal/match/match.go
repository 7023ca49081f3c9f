// Package match resolves canonical tracks against a media server catalog.
//
// The matcher is read-only: it never mutates backend state, and a track the
// catalog cannot confidently satisfy is reported as a nil candidate, not an
// error. Errors are reserved for failed search calls.
package match

import (
	"context"
	"fmt"
	"strings"

	"github.com/doumiao/listsync/internal/models"
	"github.com/doumiao/listsync/internal/shared"
)

// Searcher is the catalog search capability consumed by the matcher.
// Both backends implement it; no result-count bound is guaranteed.
type Searcher interface {
	Search(ctx context.Context, query string) ([]models.CatalogCandidate, error)
}

// Match returns the best catalog candidate for track, or nil when the catalog
// has nothing usable.
//
// With zero or one candidate there is nothing to disambiguate and the result
// is returned directly. With more, fuzzy mode trusts the backend's own
// relevance ranking and returns the first candidate; exact mode filters by
// artist attribution (set membership first, substring containment as
// fallback) and picks the highest quality score among survivors, first wins
// on ties. An exact-mode filter that eliminates every candidate yields nil:
// "no confident match" rather than "catalog has nothing".
func Match(ctx context.Context, track models.CanonicalTrack, search Searcher, exactMatch bool) (*models.CatalogCandidate, error) {
	candidates, err := search.Search(ctx, track.Key)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", shared.ErrSearchFailed, track.Key, err)
	}

	if len(candidates) == 0 {
		return nil, nil
	}
	if len(candidates) == 1 {
		return &candidates[0], nil
	}

	if !exactMatch {
		return &candidates[0], nil
	}

	survivors := filterByArtist(candidates, track)
	if len(survivors) == 0 {
		return nil, nil
	}

	best := survivors[0]
	for _, c := range survivors[1:] {
		if c.QualityScore > best.QualityScore {
			best = c
		}
	}
	return &best, nil
}

// filterByArtist keeps candidates whose artist attribution intersects the
// track's artist keys. Exact membership is tried across all candidates first;
// only when none agrees exactly does substring containment apply.
func filterByArtist(candidates []models.CatalogCandidate, track models.CanonicalTrack) []models.CatalogCandidate {
	if len(track.ArtistKeys) == 0 {
		return candidates
	}

	var exact []models.CatalogCandidate
	for _, c := range candidates {
		if artistIntersects(c, track, false) {
			exact = append(exact, c)
		}
	}
	if len(exact) > 0 {
		return exact
	}

	var loose []models.CatalogCandidate
	for _, c := range candidates {
		if artistIntersects(c, track, true) {
			loose = append(loose, c)
		}
	}
	return loose
}

// artistIntersects reports whether any candidate artist name matches any of
// the track's artist keys. With substring set, containment in either
// direction counts: backends differ in whether they report a bare artist name
// or a combined attribution string.
func artistIntersects(c models.CatalogCandidate, track models.CanonicalTrack, substring bool) bool {
	for _, name := range c.ArtistNames {
		for _, key := range track.ArtistKeys {
			if name == key {
				return true
			}
			if substring && name != "" && key != "" &&
				(strings.Contains(name, key) || strings.Contains(key, name)) {
				return true
			}
		}
	}
	return false
}
