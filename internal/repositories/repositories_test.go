package repositories

import (
	"database/sql"
	"testing"

	"github.com/doumiao/listsync/internal/models"
	"github.com/doumiao/listsync/internal/shared"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

func sampleOutcome(principal models.Principal) models.Outcome {
	return models.Outcome{
		Source:         "qq",
		SourcePlaylist: "7000000",
		Target:         "Favorites",
		Backend:        "emby",
		Principal:      principal,
		Matched:        []models.CatalogCandidate{{ID: "t1"}, {ID: "t2"}},
		Unmatchable:    []models.CanonicalTrack{{Key: "搁浅"}},
		ResolvedCount:  2,
		Applied:        true,
	}
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)

	first, err := NextSequence(db, "sync_runs")
	if err != nil {
		t.Fatalf("NextSequence failed: %v", err)
	}
	second, err := NextSequence(db, "sync_runs")
	if err != nil {
		t.Fatalf("NextSequence failed: %v", err)
	}
	if first != 1 || second != 2 {
		t.Errorf("Expected sequences 1, 2; got %d, %d", first, second)
	}
}

func TestSyncRunRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSyncRunRepository(db)

	t.Run("Create And Get", func(t *testing.T) {
		run := models.NewSyncRun("run-1", sampleOutcome("alice"))
		if err := repo.Create(run); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if run.ID() == "" || run.Sequence() == 0 {
			t.Error("Expected ID and sequence to be assigned on create")
		}

		got, err := repo.Get(run.ID())
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.RunID() != "run-1" || got.MatchedCount() != 2 || got.UnmatchableCount() != 1 {
			t.Errorf("Round-tripped row mismatch: %+v", got)
		}
		if got.Principal() != "alice" || !got.Applied() {
			t.Errorf("Round-tripped flags mismatch: principal=%q applied=%v", got.Principal(), got.Applied())
		}
	})

	t.Run("Get Missing", func(t *testing.T) {
		if _, err := repo.Get("no-such-id"); err == nil {
			t.Error("Expected error for missing row")
		}
	})

	t.Run("ListByRunID Orders By Insertion", func(t *testing.T) {
		for _, principal := range []models.Principal{"p1", "p2"} {
			if err := repo.Create(models.NewSyncRun("run-2", sampleOutcome(principal))); err != nil {
				t.Fatalf("Create failed: %v", err)
			}
		}

		runs, err := repo.ListByRunID("run-2")
		if err != nil {
			t.Fatalf("ListByRunID failed: %v", err)
		}
		if len(runs) != 2 {
			t.Fatalf("Expected 2 rows, got %d", len(runs))
		}
		if runs[0].Principal() != "p1" || runs[1].Principal() != "p2" {
			t.Errorf("Expected insertion order, got %s then %s", runs[0].Principal(), runs[1].Principal())
		}
	})

	t.Run("List With Criteria", func(t *testing.T) {
		runs, err := repo.List(map[string]any{"target": "Favorites", "backend": "emby", "limit": 2})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(runs) != 2 {
			t.Errorf("Expected limit of 2 rows, got %d", len(runs))
		}
		if len(runs) == 2 && runs[0].Sequence() < runs[1].Sequence() {
			t.Error("Expected newest-first ordering")
		}
	})
}

func TestChartSnapshotRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewChartSnapshotRepository(db)

	entries := []models.ChartEntry{
		{Rank: 1, Title: "热辣滚烫", Metric: "34.2亿", ReleaseInfo: "上映15天"},
		{Rank: 2, Title: "飞驰人生2", Metric: "30.1亿"},
	}

	t.Run("Create And Latest", func(t *testing.T) {
		if err := repo.Create(models.NewChartSnapshot("movie", entries)); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		latest, err := repo.Latest("movie")
		if err != nil {
			t.Fatalf("Latest failed: %v", err)
		}
		if latest == nil {
			t.Fatal("Expected a snapshot")
		}
		got := latest.Entries()
		if len(got) != 2 || got[0].Title != "热辣滚烫" || got[1].Rank != 2 {
			t.Errorf("Entries did not round-trip: %+v", got)
		}
	})

	t.Run("Latest Picks Newest", func(t *testing.T) {
		newer := []models.ChartEntry{{Rank: 1, Title: "沙丘2"}}
		if err := repo.Create(models.NewChartSnapshot("movie", newer)); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		latest, err := repo.Latest("movie")
		if err != nil {
			t.Fatalf("Latest failed: %v", err)
		}
		if latest.Entries()[0].Title != "沙丘2" {
			t.Errorf("Expected newest snapshot, got %+v", latest.Entries())
		}
	})

	t.Run("Latest Missing Category", func(t *testing.T) {
		latest, err := repo.Latest("tv")
		if err != nil {
			t.Fatalf("Latest failed: %v", err)
		}
		if latest != nil {
			t.Errorf("Expected nil for uncaptured category, got %+v", latest)
		}
	})

	t.Run("List Filters By Category", func(t *testing.T) {
		if err := repo.Create(models.NewChartSnapshot("web", entries)); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		snapshots, err := repo.List(map[string]any{"category": "movie"})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(snapshots) != 2 {
			t.Errorf("Expected 2 movie snapshots, got %d", len(snapshots))
		}
		for _, s := range snapshots {
			if s.Category() != "movie" {
				t.Errorf("Unexpected category %q", s.Category())
			}
		}
	})
}
