package sync

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/doumiao/listsync/internal/backends"
	"github.com/doumiao/listsync/internal/models"
)

// FanOut replicates an already-resolved track set to secondary principals on
// the same backend. Search ran once for the primary principal; fan-out reuses
// those candidate IDs and only reads state and mutates per principal.
//
// Each principal is handled independently: one failure is recorded in its
// result and the loop continues.
func FanOut(ctx context.Context, resolved []models.CatalogCandidate, target string, backend backends.Backend, principals []models.Principal, opts ReconcileOptions) []models.FanOutResult {
	results := make([]models.FanOutResult, 0, len(principals))

	for i, principal := range principals {
		sendProgress(opts.Progress, fanOutUpdate(i+1, len(principals), principal))
		results = append(results, fanOutOne(ctx, resolved, target, backend, principal, opts.Logger))
	}
	return results
}

func fanOutOne(ctx context.Context, resolved []models.CatalogCandidate, target string, backend backends.Backend, principal models.Principal, logger *log.Logger) models.FanOutResult {
	result := models.FanOutResult{Principal: principal}

	state, err := backend.GetState(ctx, target, principal)
	if err != nil {
		if logger != nil {
			logger.Warn("fan-out state read failed", "principal", principal, "target", target, "err", err)
		}
		result.Err = err
		return result
	}

	if state.ID == "" {
		if len(resolved) == 0 {
			result.Applied = true
			return result
		}
		result.Applied, result.Err = backend.Create(ctx, target, resolved, principal)
		return result
	}

	existing := make(map[string]struct{}, len(state.ExistingTrackIDs))
	for _, id := range state.ExistingTrackIDs {
		existing[id] = struct{}{}
	}
	var delta []string
	for _, candidate := range resolved {
		if _, ok := existing[candidate.ID]; !ok {
			delta = append(delta, candidate.ID)
		}
	}
	if len(delta) == 0 {
		result.Applied = true
		return result
	}

	result.Applied, result.Err = backend.Append(ctx, state.ID, delta, principal)
	return result
}
