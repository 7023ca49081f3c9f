package charts

import "github.com/doumiao/listsync/internal/models"

// NewEntrants returns the entries of current whose titles were absent from
// previous. A nil previous snapshot (first refresh) reports everything as new.
func NewEntrants(current, previous []models.ChartEntry) []models.ChartEntry {
	known := make(map[string]struct{}, len(previous))
	for _, entry := range previous {
		known[entry.Title] = struct{}{}
	}

	var fresh []models.ChartEntry
	for _, entry := range current {
		if _, ok := known[entry.Title]; !ok {
			fresh = append(fresh, entry)
		}
	}
	return fresh
}
