package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/doumiao/listsync/internal/models"
	"github.com/doumiao/listsync/internal/shared"
)

// ChartSnapshotRepository implements models.Repository[*models.ChartSnapshot]
// for chart captures. Entries are stored as a JSON column since they are only
// ever read back whole for diffing and display.
type ChartSnapshotRepository struct {
	db *sql.DB
}

// NewChartSnapshotRepository creates a new ChartSnapshotRepository with the given database connection
func NewChartSnapshotRepository(db *sql.DB) *ChartSnapshotRepository {
	return &ChartSnapshotRepository{db: db}
}

// Create inserts a new snapshot with generated ID and sequence
func (r *ChartSnapshotRepository) Create(snapshot *models.ChartSnapshot) error {
	sequence, err := NextSequence(r.db, "chart_snapshots")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	snapshot.SetID(id)
	snapshot.SetSequence(sequence)

	if err := snapshot.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	entries, err := json.Marshal(snapshot.Entries())
	if err != nil {
		return fmt.Errorf("failed to marshal entries: %w", err)
	}

	query := `
		INSERT INTO chart_snapshots (id, sequence, category, entries, taken_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(query, id, sequence, snapshot.Category(), string(entries), snapshot.TakenAt())
	if err != nil {
		return fmt.Errorf("failed to insert chart snapshot: %w", err)
	}

	return nil
}

// Get retrieves a snapshot by ID
func (r *ChartSnapshotRepository) Get(id string) (*models.ChartSnapshot, error) {
	query := `SELECT id, sequence, category, entries, taken_at FROM chart_snapshots WHERE id = ?`
	snapshot, err := scanSnapshot(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("chart snapshot not found")
	}
	return snapshot, err
}

// Latest retrieves the most recent snapshot for a category, or nil when the
// category has never been captured.
func (r *ChartSnapshotRepository) Latest(category string) (*models.ChartSnapshot, error) {
	query := `
		SELECT id, sequence, category, entries, taken_at
		FROM chart_snapshots
		WHERE category = ?
		ORDER BY sequence DESC
		LIMIT 1
	`
	snapshot, err := scanSnapshot(r.db.QueryRow(query, category))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return snapshot, err
}

// List retrieves snapshots matching the given criteria, newest first.
// Supported criteria: category, limit.
func (r *ChartSnapshotRepository) List(criteria map[string]any) ([]*models.ChartSnapshot, error) {
	query := `SELECT id, sequence, category, entries, taken_at FROM chart_snapshots WHERE 1=1`
	var args []any

	if category, ok := criteria["category"]; ok {
		query += " AND category = ?"
		args = append(args, category)
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query chart snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*models.ChartSnapshot
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, rows.Err()
}

func scanSnapshot(row scannable) (*models.ChartSnapshot, error) {
	var (
		id, category, entriesJSON string
		sequence                  int
		takenAt                   time.Time
	)

	if err := row.Scan(&id, &sequence, &category, &entriesJSON, &takenAt); err != nil {
		return nil, err
	}

	var entries []models.ChartEntry
	if err := json.Unmarshal([]byte(entriesJSON), &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entries: %w", err)
	}

	return models.RestoreChartSnapshot(id, sequence, category, entries, takenAt), nil
}
