package sync

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/doumiao/listsync/internal/backends"
	"github.com/doumiao/listsync/internal/models"
	"github.com/doumiao/listsync/internal/normalize"
	"github.com/doumiao/listsync/internal/shared"
	"github.com/doumiao/listsync/internal/sources"
	"golang.org/x/time/rate"
)

// HistoryWriter persists per-mapping sync outcomes. Satisfied by
// repositories.SyncRunRepository; nil disables history.
type HistoryWriter interface {
	Create(run *models.SyncRun) error
}

// Engine coordinates full sync runs across the configured mappings.
type Engine struct {
	adapters map[string]sources.Adapter
	backends []backends.Backend
	retry    sources.RetryPolicy
	history  HistoryWriter
	logger   *log.Logger
	limiter  *rate.Limiter
	exact    bool
}

// EngineOpts configures a new Engine.
type EngineOpts struct {
	Adapters   []sources.Adapter
	Backends   []backends.Backend
	Retry      sources.RetryPolicy
	History    HistoryWriter
	Logger     *log.Logger
	ExactMatch bool

	// SearchRate caps catalog searches per second across the whole run.
	// Zero means unthrottled.
	SearchRate float64
}

// NewEngine creates an engine from the given options.
func NewEngine(opts EngineOpts) *Engine {
	adapters := make(map[string]sources.Adapter, len(opts.Adapters))
	for _, adapter := range opts.Adapters {
		adapters[adapter.Name()] = adapter
	}

	var limiter *rate.Limiter
	if opts.SearchRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.SearchRate), 1)
	}

	retry := opts.Retry
	if retry.MaxAttempts == 0 {
		retry = sources.DefaultRetryPolicy()
	}

	return &Engine{
		adapters: adapters,
		backends: opts.Backends,
		retry:    retry,
		history:  opts.History,
		logger:   opts.Logger,
		limiter:  limiter,
		exact:    opts.ExactMatch,
	}
}

// MappingResult is the outcome of one mapping against one backend, including
// any fan-out to secondary principals.
type MappingResult struct {
	Mapping models.SyncMapping
	Outcome models.Outcome
	FanOut  []models.FanOutResult
}

// SkippedMapping records a mapping that never reached reconciliation.
type SkippedMapping struct {
	Mapping models.SyncMapping
	Err     error
}

// RunResult aggregates everything a run produced.
type RunResult struct {
	RunID   string
	Results []MappingResult
	Skipped []SkippedMapping
}

// Run executes every mapping against every configured backend. Mappings are
// isolated: a source fetch failure skips that mapping and the run continues.
// When dryRun is set no mutations are issued and no history is written.
func (e *Engine) Run(ctx context.Context, mappings []models.SyncMapping, dryRun bool, progress chan<- ProgressUpdate) (*RunResult, error) {
	if len(e.backends) == 0 {
		return nil, fmt.Errorf("%w: no backends configured", shared.ErrInvalidConfig)
	}

	result := &RunResult{RunID: shared.GenerateID()}

	for i, mapping := range mappings {
		adapter, ok := e.adapters[mapping.Source]
		if !ok {
			err := fmt.Errorf("%w: unknown source %q", shared.ErrInvalidConfig, mapping.Source)
			result.Skipped = append(result.Skipped, SkippedMapping{Mapping: mapping, Err: err})
			continue
		}

		sendProgress(progress, fetchSourceUpdate(i+1, len(mappings), mapping.Source, mapping.PlaylistID))
		raw, err := e.retry.FetchPlaylist(ctx, adapter, mapping.PlaylistID, e.logger)
		if err != nil {
			if e.logger != nil {
				e.logger.Error("mapping skipped", "source", mapping.Source, "playlist", mapping.PlaylistID, "err", err)
			}
			result.Skipped = append(result.Skipped, SkippedMapping{Mapping: mapping, Err: err})
			continue
		}
		sendProgress(progress, fetchedSourceUpdate(i+1, len(mappings), mapping.Source, len(raw)))

		desired := e.normalizeTracks(raw)

		for _, backend := range e.backends {
			result.Results = append(result.Results, e.runMapping(ctx, mapping, desired, backend, dryRun, progress, result.RunID))
		}
	}

	return result, nil
}

// Preview is Run without mutations or history.
func (e *Engine) Preview(ctx context.Context, mappings []models.SyncMapping, progress chan<- ProgressUpdate) (*RunResult, error) {
	return e.Run(ctx, mappings, true, progress)
}

func (e *Engine) runMapping(ctx context.Context, mapping models.SyncMapping, desired []models.CanonicalTrack, backend backends.Backend, dryRun bool, progress chan<- ProgressUpdate, runID string) MappingResult {
	principals := mapping.Principals
	if len(principals) == 0 {
		principals = backend.Principals()
	}
	if len(principals) == 0 {
		principals = []models.Principal{""}
	}
	primary := principals[0]

	opts := ReconcileOptions{
		ExactMatch: e.exact,
		DryRun:     dryRun,
		Limiter:    e.limiter,
		Logger:     e.logger,
		Progress:   progress,
	}

	mr := MappingResult{Mapping: mapping}

	sendProgress(progress, readPlaylistUpdate(backend.Name(), mapping.Target))
	state, err := backend.GetState(ctx, mapping.Target, primary)
	if err != nil {
		mr.Outcome = models.Outcome{
			Source:         mapping.Source,
			SourcePlaylist: mapping.PlaylistID,
			Target:         mapping.Target,
			Backend:        backend.Name(),
			Principal:      primary,
			MutationErr:    err,
		}
		e.record(runID, mr.Outcome, dryRun)
		return mr
	}

	outcome := Reconcile(ctx, desired, state, backend, mapping.Target, primary, opts)
	outcome.Source = mapping.Source
	outcome.SourcePlaylist = mapping.PlaylistID
	mr.Outcome = outcome
	e.record(runID, outcome, dryRun)

	if len(principals) > 1 && !dryRun {
		mr.FanOut = FanOut(ctx, outcome.Matched, mapping.Target, backend, principals[1:], opts)
		for _, fr := range mr.FanOut {
			replica := outcome
			replica.Principal = fr.Principal
			replica.Applied = fr.Applied
			replica.MutationErr = fr.Err
			replica.CreatedPlaylist = false
			e.record(runID, replica, dryRun)
		}
	}

	return mr
}

// normalizeTracks canonicalizes the raw tracks, dropping any with an empty
// title.
func (e *Engine) normalizeTracks(raw []models.RawTrack) []models.CanonicalTrack {
	desired := make([]models.CanonicalTrack, 0, len(raw))
	for _, rt := range raw {
		track, err := normalize.Track(rt)
		if err != nil {
			if e.logger != nil {
				e.logger.Warn("dropping track with unusable title", "name", rt.Name, "err", err)
			}
			continue
		}
		desired = append(desired, track)
	}
	return desired
}

func (e *Engine) record(runID string, outcome models.Outcome, dryRun bool) {
	if e.history == nil || dryRun {
		return
	}
	run := models.NewSyncRun(runID, outcome)
	if err := e.history.Create(run); err != nil && e.logger != nil {
		e.logger.Warn("failed to record sync history", "run", runID, "err", err)
	}
}
