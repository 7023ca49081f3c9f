// Package repositories implements SQLite persistence for the domain entities.
//
// Two append-only logs are kept: sync run history and chart snapshots.
// Neither supports update or delete; rows are written once and queried for
// reporting and snapshot diffing.
//
// Key Implementations:
//   - [SyncRunRepository] : per-principal reconciliation outcomes grouped by run ID
//   - [ChartSnapshotRepository] : Maoyan board captures with JSON-encoded entries
//
// Sequence numbers provide stable, human-readable ordering independent of
// UUIDs and creation timestamps. The [NextSequence] function atomically
// increments per-table sequence counters in dedicated sequence tables.
package repositories
