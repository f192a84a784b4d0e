package job

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	"github.com/crunchynapkin404/team-planner-sub001/internal/entity"
	"github.com/crunchynapkin404/team-planner-sub001/internal/service"
)

// Handlers executes the jobs enqueued by Scheduler, against a shared
// Orchestrator.
type Handlers struct {
	orchestrator *service.Orchestrator
}

// NewHandlers builds a Handlers bound to orchestrator.
func NewHandlers(orchestrator *service.Orchestrator) *Handlers {
	return &Handlers{orchestrator: orchestrator}
}

// RegisterHandlers wires every job type this package knows how to execute
// onto mux.
func (h *Handlers) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeApplyRun, h.HandleApplyRun)
	mux.HandleFunc(TypeHistoryRefresh, h.HandleHistoryRefresh)
}

// HandleApplyRun commits a previously previewed run. A conflict or
// deadline error is returned as-is so Asynq's retry policy applies;
// unmarshal failures are permanent and skip retry.
func (h *Handlers) HandleApplyRun(ctx context.Context, t *asynq.Task) error {
	var payload ApplyRunPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal apply payload: %w: %w", err, asynq.SkipRetry)
	}

	run, err := h.orchestrator.ApplyRun(ctx, payload.RunID)
	if err != nil {
		log.Printf("async apply failed for run %s: %v", payload.RunID, err)
		return fmt.Errorf("apply run %s: %w", payload.RunID, err)
	}

	log.Printf("async apply committed run %s: %d assignments", run.ID, len(run.Outcome.Assignments))
	return nil
}

// HandleHistoryRefresh recomputes the fairness history cache entries that
// end now for one team scope (see Orchestrator.RefreshHistoryCache for
// which planning requests can reuse them).
func (h *Handlers) HandleHistoryRefresh(ctx context.Context, t *asynq.Task) error {
	var payload HistoryRefreshPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal history refresh payload: %w: %w", err, asynq.SkipRetry)
	}

	if err := h.orchestrator.RefreshHistoryCache(ctx, payload.TeamScope, entity.Now()); err != nil {
		log.Printf("history refresh failed for %s: %v", payload.TeamScope, err)
		return fmt.Errorf("refresh history for %s: %w", payload.TeamScope, err)
	}

	log.Printf("history cache refreshed for team scope %s", payload.TeamScope)
	return nil
}
