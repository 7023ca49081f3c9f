package match

import (
	"context"
	"errors"
	"testing"

	"github.com/doumiao/listsync/internal/models"
	"github.com/doumiao/listsync/internal/shared"
)

type stubSearcher struct {
	candidates []models.CatalogCandidate
	err        error
	queries    []string
}

func (s *stubSearcher) Search(_ context.Context, query string) ([]models.CatalogCandidate, error) {
	s.queries = append(s.queries, query)
	return s.candidates, s.err
}

func TestMatch(t *testing.T) {
	ctx := context.Background()
	track := models.CanonicalTrack{Key: "有何不可", ArtistKeys: []string{"刘君"}}

	t.Run("No Candidates", func(t *testing.T) {
		s := &stubSearcher{}
		got, err := Match(ctx, track, s, true)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got != nil {
			t.Errorf("expected nil candidate, got %+v", got)
		}
		if len(s.queries) != 1 || s.queries[0] != "有何不可" {
			t.Errorf("expected a single search for the canonical key, got %v", s.queries)
		}
	})

	t.Run("Single Candidate Passthrough", func(t *testing.T) {
		s := &stubSearcher{candidates: []models.CatalogCandidate{
			{ID: "9", DisplayName: "有何不可", ArtistNames: []string{"完全不同的人"}},
		}}

		got, err := Match(ctx, track, s, true)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got == nil || got.ID != "9" {
			t.Errorf("single candidate should be returned without filtering, got %+v", got)
		}
	})

	t.Run("Exact Mode Disambiguation", func(t *testing.T) {
		s := &stubSearcher{candidates: []models.CatalogCandidate{
			{ID: "1", ArtistNames: []string{"刘君"}, QualityScore: 128},
			{ID: "2", ArtistNames: []string{"刘军"}, QualityScore: 320},
		}}

		got, err := Match(ctx, track, s, true)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got == nil || got.ID != "1" {
			t.Errorf("artist filter should exclude the higher quality mismatch, got %+v", got)
		}
	})

	t.Run("Fuzzy Mode Passthrough", func(t *testing.T) {
		s := &stubSearcher{candidates: []models.CatalogCandidate{
			{ID: "1", ArtistNames: []string{"刘君"}, QualityScore: 128},
			{ID: "2", ArtistNames: []string{"刘军"}, QualityScore: 320},
		}}

		got, err := Match(ctx, track, s, false)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got == nil || got.ID != "1" {
			t.Errorf("fuzzy mode should return the first candidate, got %+v", got)
		}
	})

	t.Run("Quality Tie Break Among Survivors", func(t *testing.T) {
		s := &stubSearcher{candidates: []models.CatalogCandidate{
			{ID: "low", ArtistNames: []string{"刘君"}, QualityScore: 128},
			{ID: "high", ArtistNames: []string{"刘君"}, QualityScore: 320},
			{ID: "tied", ArtistNames: []string{"刘君"}, QualityScore: 320},
		}}

		got, err := Match(ctx, track, s, true)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got == nil || got.ID != "high" {
			t.Errorf("expected highest quality with first-wins tie break, got %+v", got)
		}
	})

	t.Run("Substring Fallback", func(t *testing.T) {
		// No exact membership anywhere; the combined attribution string
		// containing the key should survive the fallback.
		s := &stubSearcher{candidates: []models.CatalogCandidate{
			{ID: "a", ArtistNames: []string{"刘军"}},
			{ID: "b", ArtistNames: []string{"刘君; 合唱团"}},
		}}

		got, err := Match(ctx, track, s, true)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got == nil || got.ID != "b" {
			t.Errorf("expected substring containment fallback to pick b, got %+v", got)
		}
	})

	t.Run("Exact Membership Preferred Over Substring", func(t *testing.T) {
		s := &stubSearcher{candidates: []models.CatalogCandidate{
			{ID: "loose", ArtistNames: []string{"刘君乐队"}, QualityScore: 999},
			{ID: "exact", ArtistNames: []string{"刘君"}, QualityScore: 1},
		}}

		got, err := Match(ctx, track, s, true)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got == nil || got.ID != "exact" {
			t.Errorf("exact membership should shadow substring survivors, got %+v", got)
		}
	})

	t.Run("No Confident Match", func(t *testing.T) {
		s := &stubSearcher{candidates: []models.CatalogCandidate{
			{ID: "1", ArtistNames: []string{"someone"}},
			{ID: "2", ArtistNames: []string{"else"}},
		}}

		got, err := Match(ctx, track, s, true)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got != nil {
			t.Errorf("expected no confident match, got %+v", got)
		}
	})

	t.Run("No Artist Keys Skips Filter", func(t *testing.T) {
		bare := models.CanonicalTrack{Key: "晴天"}
		s := &stubSearcher{candidates: []models.CatalogCandidate{
			{ID: "1", QualityScore: 128},
			{ID: "2", QualityScore: 320},
		}}

		got, err := Match(ctx, bare, s, true)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got == nil || got.ID != "2" {
			t.Errorf("without artist keys all candidates survive and quality decides, got %+v", got)
		}
	})

	t.Run("Search Failure", func(t *testing.T) {
		s := &stubSearcher{err: errors.New("boom")}
		_, err := Match(ctx, track, s, true)
		if !errors.Is(err, shared.ErrSearchFailed) {
			t.Errorf("expected ErrSearchFailed, got %v", err)
		}
	})
}
