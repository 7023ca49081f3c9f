// Package models defines domain entities and persistence interfaces for the listsync reconciliation service.
//
// The package contains two categories of types:
//
// 1. Transient sync-run values, created per run and discarded afterwards:
//   - [RawTrack] : Track record as emitted by a source adapter
//   - [CanonicalTrack] : Normalized comparison form of a raw track
//   - [CatalogCandidate] : Search hit from a media server catalog
//   - [PlaylistState] : A principal's current view of a target playlist
//   - [Outcome] : Per-mapping reconciliation report
//   - [ChartEntry] : One row of a Maoyan dashboard
//
// 2. Persistent entities backed by SQLite:
//   - [SyncRun] : Append-only history row for one (mapping, backend, principal) outcome
//   - [ChartSnapshot] : Stored dashboard fetch used for new-entrant diffing
//
// Persistent entities implement the Model interface providing ID generation,
// timestamps and validation. The Repository[T] interface defines the data
// access operations implemented in internal/repositories.
package models
