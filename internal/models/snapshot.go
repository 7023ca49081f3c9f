package models

import (
	"fmt"
	"time"
)

// ChartSnapshot is one stored dashboard fetch. Category identifies the
// dashboard ("movie", "tv", "web"); Entries keeps the ranked rows.
type ChartSnapshot struct {
	id       string
	sequence int
	category string
	entries  []ChartEntry
	takenAt  time.Time
}

// NewChartSnapshot builds a snapshot taken now.
func NewChartSnapshot(category string, entries []ChartEntry) *ChartSnapshot {
	return &ChartSnapshot{
		category: category,
		entries:  entries,
		takenAt:  time.Now().UTC(),
	}
}

// RestoreChartSnapshot rehydrates a snapshot from its database columns.
func RestoreChartSnapshot(id string, sequence int, category string, entries []ChartEntry, takenAt time.Time) *ChartSnapshot {
	return &ChartSnapshot{
		id:       id,
		sequence: sequence,
		category: category,
		entries:  entries,
		takenAt:  takenAt,
	}
}

func (c *ChartSnapshot) ID() string            { return c.id }
func (c *ChartSnapshot) CreatedAt() time.Time  { return c.takenAt }
func (c *ChartSnapshot) UpdatedAt() time.Time  { return c.takenAt }
func (c *ChartSnapshot) Sequence() int         { return c.sequence }
func (c *ChartSnapshot) Category() string      { return c.category }
func (c *ChartSnapshot) Entries() []ChartEntry { return c.entries }
func (c *ChartSnapshot) TakenAt() time.Time    { return c.takenAt }

// SetID assigns the generated identifier before insertion.
func (c *ChartSnapshot) SetID(id string) { c.id = id }

// SetSequence assigns the generated sequence number before insertion.
func (c *ChartSnapshot) SetSequence(seq int) { c.sequence = seq }

// Validate checks required fields.
func (c *ChartSnapshot) Validate() error {
	if c.id == "" {
		return fmt.Errorf("chart snapshot ID is required")
	}
	if c.category == "" {
		return fmt.Errorf("chart snapshot category is required")
	}
	return nil
}
