package models

// Principal is a backend-scoped identity (e.g. an Emby user ID) against which
// playlist state is read and mutated independently of other principals.
type Principal string

// RawTrack is a track record as emitted by a source adapter. Artists keeps
// the source's insertion order and may be empty.
type RawTrack struct {
	Name    string
	Artists []string
}

// CanonicalTrack is the normalized comparison form of a RawTrack.
//
// Key is the normalized title used for playlist-membership equality and as
// the catalog search query. ArtistKeys holds the deduplicated normalized
// artist names used as a secondary disambiguation filter, never as identity.
type CanonicalTrack struct {
	Key        string
	ArtistKeys []string
}

// HasArtistKey reports whether key is one of the track's artist keys.
func (t CanonicalTrack) HasArtistKey(key string) bool {
	for _, k := range t.ArtistKeys {
		if k == key {
			return true
		}
	}
	return false
}

// CatalogCandidate is a search hit from a media server catalog. ID is
// backend-specific and opaque (an Emby item ID, a Plex ratingKey).
type CatalogCandidate struct {
	ID           string
	DisplayName  string
	ArtistNames  []string
	QualityScore int // e.g. bitrate; used only to break disambiguation ties
}

// PlaylistState is one principal's current view of a target playlist.
// An empty ID signals the playlist does not exist yet and must be created.
type PlaylistState struct {
	ID                 string
	ExistingTrackIDs   []string
	ExistingTrackNames []string
}

// SyncMapping is one configured (source playlist, target playlist) sync entry.
// Principals lists the accounts the resolved playlist fans out to; the first
// one (or the backend's default user) is the primary principal.
type SyncMapping struct {
	Source     string
	PlaylistID string
	Target     string
	Principals []Principal
}

// Outcome is the per-(mapping, backend) reconciliation report.
//
// Matched, Unmatchable and AlreadyPresent partition the desired track list:
// every desired track lands in exactly one of them, with Matched counted
// before candidate deduplication via ResolvedCount.
type Outcome struct {
	Source         string
	SourcePlaylist string
	Target         string
	Backend        string
	Principal      Principal

	Matched        []CatalogCandidate // deduplicated by candidate ID, first occurrence kept
	Unmatchable    []CanonicalTrack
	AlreadyPresent []CanonicalTrack
	ResolvedCount  int // matched tracks before deduplication

	CreatedPlaylist bool
	Applied         bool  // mutation result; true when no mutation was needed
	MutationErr     error // recorded, never fatal to the run
}

// MatchedIDs returns the deduplicated candidate IDs in encounter order.
func (o Outcome) MatchedIDs() []string {
	ids := make([]string, len(o.Matched))
	for i, c := range o.Matched {
		ids[i] = c.ID
	}
	return ids
}

// FanOutResult reports one secondary principal's replication attempt.
type FanOutResult struct {
	Principal Principal
	Applied   bool
	Err       error
}

// ChartEntry is one row of a Maoyan dashboard.
type ChartEntry struct {
	Rank        int    `json:"rank"`
	Title       string `json:"title"`
	Metric      string `json:"metric"`
	ReleaseInfo string `json:"release_info,omitempty"`
	Platform    string `json:"platform,omitempty"`
}
