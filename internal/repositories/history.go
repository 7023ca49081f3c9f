package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/doumiao/listsync/internal/models"
	"github.com/doumiao/listsync/internal/shared"
)

// SyncRunRepository implements models.Repository[*models.SyncRun] for sync history.
//
// The log is append-only: Create and read operations only.
type SyncRunRepository struct {
	db *sql.DB
}

// NewSyncRunRepository creates a new SyncRunRepository with the given database connection
func NewSyncRunRepository(db *sql.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

const syncRunColumns = `
	id, sequence, run_id, source, source_playlist, target, backend, principal,
	matched_count, already_present_count, unmatchable_count,
	created_playlist, applied, error, created_at
`

// Create inserts a new history row with generated ID and sequence
func (r *SyncRunRepository) Create(run *models.SyncRun) error {
	sequence, err := NextSequence(r.db, "sync_runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	run.SetID(id)
	run.SetSequence(sequence)

	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO sync_runs (` + syncRunColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		run.RunID(),
		run.Source(),
		run.SourcePlaylist(),
		run.Target(),
		run.Backend(),
		run.Principal(),
		run.MatchedCount(),
		run.AlreadyPresentCount(),
		run.UnmatchableCount(),
		run.CreatedPlaylist(),
		run.Applied(),
		run.ErrMsg(),
		run.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert sync run: %w", err)
	}

	return nil
}

// Get retrieves a history row by ID
func (r *SyncRunRepository) Get(id string) (*models.SyncRun, error) {
	query := `SELECT ` + syncRunColumns + ` FROM sync_runs WHERE id = ?`
	return r.scanOne(r.db.QueryRow(query, id))
}

// List retrieves history rows matching the given criteria, newest first.
// Supported criteria: run_id, source, target, backend, limit.
func (r *SyncRunRepository) List(criteria map[string]any) ([]*models.SyncRun, error) {
	query := `SELECT ` + syncRunColumns + ` FROM sync_runs WHERE 1=1`
	var args []any

	for _, key := range []string{"run_id", "source", "target", "backend"} {
		if value, ok := criteria[key]; ok {
			query += fmt.Sprintf(" AND %s = ?", key)
			args = append(args, value)
		}
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.SyncRun
	for rows.Next() {
		run, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// ListByRunID retrieves every row of one run in insertion order
func (r *SyncRunRepository) ListByRunID(runID string) ([]*models.SyncRun, error) {
	query := `SELECT ` + syncRunColumns + ` FROM sync_runs WHERE run_id = ? ORDER BY sequence ASC`

	rows, err := r.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.SyncRun
	for rows.Next() {
		run, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type scannable interface {
	Scan(dest ...any) error
}

func (r *SyncRunRepository) scanOne(row *sql.Row) (*models.SyncRun, error) {
	run, err := r.scanRow(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("sync run not found")
	}
	return run, err
}

func (r *SyncRunRepository) scanRow(row scannable) (*models.SyncRun, error) {
	var (
		id, runID, source, sourcePlaylist, target, backend, principal, errMsg string
		sequence, matched, alreadyPresent, unmatchable                        int
		createdPlaylist, applied                                              bool
		createdAt                                                             time.Time
	)

	err := row.Scan(&id, &sequence, &runID, &source, &sourcePlaylist, &target, &backend, &principal,
		&matched, &alreadyPresent, &unmatchable, &createdPlaylist, &applied, &errMsg, &createdAt)
	if err != nil {
		return nil, err
	}

	return models.RestoreSyncRun(id, sequence, runID, source, sourcePlaylist, target, backend, principal,
		matched, alreadyPresent, unmatchable, createdPlaylist, applied, errMsg, createdAt), nil
}
