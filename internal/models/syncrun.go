package models

import (
	"fmt"
	"time"
)

// SyncRun is one append-only history row recording the outcome of a
// reconciliation for a (mapping, backend, principal) triple. RunID groups the
// rows of a single scheduled run and doubles as its idempotency token.
type SyncRun struct {
	id       string
	sequence int
	runID    string

	source         string
	sourcePlaylist string
	target         string
	backend        string
	principal      string

	matchedCount        int
	alreadyPresentCount int
	unmatchableCount    int
	createdPlaylist     bool
	applied             bool
	errMsg              string

	createdAt time.Time
}

// NewSyncRun builds a history row from a reconciliation outcome.
func NewSyncRun(runID string, outcome Outcome) *SyncRun {
	errMsg := ""
	if outcome.MutationErr != nil {
		errMsg = outcome.MutationErr.Error()
	}
	return &SyncRun{
		runID:               runID,
		source:              outcome.Source,
		sourcePlaylist:      outcome.SourcePlaylist,
		target:              outcome.Target,
		backend:             outcome.Backend,
		principal:           string(outcome.Principal),
		matchedCount:        len(outcome.Matched),
		alreadyPresentCount: len(outcome.AlreadyPresent),
		unmatchableCount:    len(outcome.Unmatchable),
		createdPlaylist:     outcome.CreatedPlaylist,
		applied:             outcome.Applied,
		errMsg:              errMsg,
		createdAt:           time.Now().UTC(),
	}
}

// RestoreSyncRun rehydrates a history row from its database columns.
func RestoreSyncRun(id string, sequence int, runID, source, sourcePlaylist, target, backend, principal string,
	matched, alreadyPresent, unmatchable int, createdPlaylist, applied bool, errMsg string, createdAt time.Time) *SyncRun {
	return &SyncRun{
		id:                  id,
		sequence:            sequence,
		runID:               runID,
		source:              source,
		sourcePlaylist:      sourcePlaylist,
		target:              target,
		backend:             backend,
		principal:           principal,
		matchedCount:        matched,
		alreadyPresentCount: alreadyPresent,
		unmatchableCount:    unmatchable,
		createdPlaylist:     createdPlaylist,
		applied:             applied,
		errMsg:              errMsg,
		createdAt:           createdAt,
	}
}

func (s *SyncRun) ID() string           { return s.id }
func (s *SyncRun) CreatedAt() time.Time { return s.createdAt }

// UpdatedAt equals CreatedAt: history rows are never updated.
func (s *SyncRun) UpdatedAt() time.Time { return s.createdAt }

func (s *SyncRun) Sequence() int            { return s.sequence }
func (s *SyncRun) RunID() string            { return s.runID }
func (s *SyncRun) Source() string           { return s.source }
func (s *SyncRun) SourcePlaylist() string   { return s.sourcePlaylist }
func (s *SyncRun) Target() string           { return s.target }
func (s *SyncRun) Backend() string          { return s.backend }
func (s *SyncRun) Principal() string        { return s.principal }
func (s *SyncRun) MatchedCount() int        { return s.matchedCount }
func (s *SyncRun) AlreadyPresentCount() int { return s.alreadyPresentCount }
func (s *SyncRun) UnmatchableCount() int    { return s.unmatchableCount }
func (s *SyncRun) CreatedPlaylist() bool    { return s.createdPlaylist }
func (s *SyncRun) Applied() bool            { return s.applied }
func (s *SyncRun) ErrMsg() string           { return s.errMsg }

// SetID assigns the generated identifier before insertion.
func (s *SyncRun) SetID(id string) { s.id = id }

// SetSequence assigns the generated sequence number before insertion.
func (s *SyncRun) SetSequence(seq int) { s.sequence = seq }

// Validate checks required fields.
func (s *SyncRun) Validate() error {
	if s.id == "" {
		return fmt.Errorf("sync run ID is required")
	}
	if s.runID == "" {
		return fmt.Errorf("sync run run_id is required")
	}
	if s.source == "" {
		return fmt.Errorf("sync run source is required")
	}
	if s.target == "" {
		return fmt.Errorf("sync run target is required")
	}
	if s.backend == "" {
		return fmt.Errorf("sync run backend is required")
	}
	return nil
}
