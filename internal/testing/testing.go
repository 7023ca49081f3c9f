// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/doumiao/listsync/internal/models"
)

// MockAdapter is a test double for [sources.Adapter]. It returns Tracks after
// FailuresBeforeSuccess errored calls and records the total call count.
type MockAdapter struct {
	NameValue             string
	Tracks                []models.RawTrack
	Err                   error
	FailuresBeforeSuccess int

	Calls int
}

func (m *MockAdapter) Name() string {
	if m.NameValue == "" {
		return "mock"
	}
	return m.NameValue
}

func (m *MockAdapter) FetchPlaylist(ctx context.Context, playlistID string) ([]models.RawTrack, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Calls <= m.FailuresBeforeSuccess {
		return nil, errors.New("transient fetch failure")
	}
	return m.Tracks, nil
}

// CreateCall records one MockBackend.Create invocation.
type CreateCall struct {
	Name       string
	Candidates []models.CatalogCandidate
	Principal  models.Principal
}

// AppendCall records one MockBackend.Append invocation.
type AppendCall struct {
	PlaylistID string
	TrackIDs   []string
	Principal  models.Principal
}

// MockBackend is a test double for [backends.Backend]. Search results are
// keyed by query; state is keyed by principal. All calls are recorded.
type MockBackend struct {
	NameValue     string
	SearchResults map[string][]models.CatalogCandidate
	SearchErrs    map[string]error
	States        map[models.Principal]models.PlaylistState
	StateErrs     map[models.Principal]error
	CreateErr     error
	AppendErr     error
	PrincipalList []models.Principal

	SearchQueries []string
	CreateCalls   []CreateCall
	AppendCalls   []AppendCall
}

func (m *MockBackend) Name() string {
	if m.NameValue == "" {
		return "mock"
	}
	return m.NameValue
}

func (m *MockBackend) Search(ctx context.Context, query string) ([]models.CatalogCandidate, error) {
	m.SearchQueries = append(m.SearchQueries, query)
	if err, ok := m.SearchErrs[query]; ok {
		return nil, err
	}
	return m.SearchResults[query], nil
}

func (m *MockBackend) GetState(ctx context.Context, name string, principal models.Principal) (models.PlaylistState, error) {
	if err, ok := m.StateErrs[principal]; ok {
		return models.PlaylistState{}, err
	}
	return m.States[principal], nil
}

func (m *MockBackend) Create(ctx context.Context, name string, candidates []models.CatalogCandidate, principal models.Principal) (bool, error) {
	m.CreateCalls = append(m.CreateCalls, CreateCall{Name: name, Candidates: candidates, Principal: principal})
	if m.CreateErr != nil {
		return false, m.CreateErr
	}
	return true, nil
}

func (m *MockBackend) Append(ctx context.Context, playlistID string, trackIDs []string, principal models.Principal) (bool, error) {
	m.AppendCalls = append(m.AppendCalls, AppendCall{PlaylistID: playlistID, TrackIDs: trackIDs, Principal: principal})
	if m.AppendErr != nil {
		return false, m.AppendErr
	}
	return true, nil
}

func (m *MockBackend) Principals() []models.Principal {
	if len(m.PrincipalList) == 0 {
		return []models.Principal{""}
	}
	return m.PrincipalList
}

// MutationCount returns the total number of Create and Append calls.
func (m *MockBackend) MutationCount() int {
	return len(m.CreateCalls) + len(m.AppendCalls)
}

// MockHistory is a test double for [sync.HistoryWriter].
type MockHistory struct {
	Runs []*models.SyncRun
	Err  error
}

func (m *MockHistory) Create(run *models.SyncRun) error {
	if m.Err != nil {
		return m.Err
	}
	m.Runs = append(m.Runs, run)
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
