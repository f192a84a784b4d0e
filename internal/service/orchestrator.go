package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/crunchynapkin404/team-planner-sub001/internal/constraint"
	"github.com/crunchynapkin404/team-planner-sub001/internal/entity"
	"github.com/crunchynapkin404/team-planner-sub001/internal/fairness"
	"github.com/crunchynapkin404/team-planner-sub001/internal/repository"
	"github.com/crunchynapkin404/team-planner-sub001/internal/shifttype"
	"github.com/crunchynapkin404/team-planner-sub001/internal/validation"
)

// Orchestrator is the public entry point for planning: it wraps the pure
// computeOutcome algorithm with the persistence and locking semantics
// that distinguish a preview run from an applied one.
type Orchestrator struct {
	db       repository.Database
	engine   *planEngine
	deadline time.Duration
}

// Option configures an Orchestrator at construction time.
type Option func(*Orchestrator)

// WithApplyDeadline overrides the default apply-side deadline.
func WithApplyDeadline(d time.Duration) Option {
	return func(o *Orchestrator) { o.deadline = d }
}

// WithHistoryWindowDays overrides the default 365-day fairness history
// lookback.
func WithHistoryWindowDays(days int) Option {
	return func(o *Orchestrator) { o.engine.historyWindowDays = days }
}

// WithHistoryCacheTTL turns on memoization of the per-team-scope history
// query (see historyCache) for the given freshness window. Without this
// option the engine recomputes history on every Plan call.
func WithHistoryCacheTTL(ttl time.Duration) Option {
	return func(o *Orchestrator) { o.engine.historyCache = newHistoryCache(ttl) }
}

// NewOrchestrator wires the registry, constraint checker and fairness
// calculator into an Orchestrator backed by db.
func NewOrchestrator(db repository.Database, registry *shifttype.Registry, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		db: db,
		engine: &planEngine{
			registry:          registry,
			checker:           constraint.NewChecker(),
			calculator:        fairness.NewCalculator(),
			historyWindowDays: 365,
		},
		deadline: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Plan computes a PlanningOutcome for req and stores it as a PlanningRun.
// In preview mode (the default) no Shift rows are written; the caller
// inspects the outcome and, if satisfied, calls ApplyRun with the
// returned run's ID. In apply mode the computation and the write happen
// in the same call, under the same advisory-locked transaction ApplyRun
// uses, so Plan(ctx, req) with Mode: ModeApply is equivalent to
// Plan-then-ApplyRun without the intermediate round trip.
func (o *Orchestrator) Plan(ctx context.Context, req Request) (*entity.PlanningRun, error) {
	run := &entity.PlanningRun{
		ID:           uuid.New(),
		HorizonStart: req.HorizonStart,
		HorizonEnd:   req.HorizonEnd,
		TeamScope:    req.TeamScope,
		Initiator:    req.Initiator,
		RequestedAt:  entity.Now(),
		Mode:         req.Mode,
	}

	if req.Mode != entity.ModeApply {
		outcome, _, err := o.engine.computeOutcome(ctx, o.db, req)
		if err != nil {
			return nil, err
		}
		run.Outcome = outcome
		if err := o.db.PlanningRunRepository().Create(ctx, run); err != nil {
			return nil, fmt.Errorf("store preview run: %w", err)
		}
		return run, nil
	}

	ctx, cancel := context.WithTimeout(ctx, o.deadline)
	defer cancel()

	if _, err := o.applyLocked(ctx, req, run, nil); err != nil {
		return nil, err
	}
	return run, nil
}

// ApplyRun commits a previously computed preview run: it re-validates the
// outcome against current repository state under an advisory lock (so a
// concurrent write since the preview was computed surfaces as a
// ConflictOnApplyError rather than a silent double-booking) and persists
// every assignment as a Shift row.
func (o *Orchestrator) ApplyRun(ctx context.Context, runID entity.PlanningRunID) (*entity.PlanningRun, error) {
	existing, err := o.db.PlanningRunRepository().GetByID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("load run: %w", err)
	}
	if existing.Committed {
		return nil, &RunNotPreviewableError{RunID: runID.String()}
	}

	req := Request{
		TeamScope:    existing.TeamScope,
		HorizonStart: existing.HorizonStart,
		HorizonEnd:   existing.HorizonEnd,
		Initiator:    existing.Initiator,
		Mode:         entity.ModeApply,
	}

	ctx, cancel := context.WithTimeout(ctx, o.deadline)
	defer cancel()

	if _, err := o.applyLocked(ctx, req, existing, existing.Outcome); err != nil {
		return nil, err
	}
	return existing, nil
}

// applyLocked recomputes the outcome inside an advisory-locked
// transaction scoped to (team scope, horizon), writes every assignment as
// a Shift, and marks run committed. Locking around the read-compute-write
// sequence is what makes two concurrent applies for the same team and
// horizon serialise instead of racing.
//
// When original is non-nil (ApplyRun committing a previously computed
// preview), the freshly recomputed outcome is compared against it first:
// if any window's winning employee changed, the repository state moved
// between preview and apply (a concurrent write claimed the original
// pick, or put them on leave) and the apply is rejected with
// ConflictOnApplyError rather than silently committing a different plan
// than the one the caller approved.
func (o *Orchestrator) applyLocked(ctx context.Context, req Request, run *entity.PlanningRun, original *entity.PlanningOutcome) (*validation.Result, error) {
	tx, err := o.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}

	lockKey := fmt.Sprintf("%s:%s:%s", req.TeamScope, req.HorizonStart.Format(time.RFC3339), req.HorizonEnd.Format(time.RFC3339))
	if err := tx.AdvisoryLock(ctx, lockKey); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	select {
	case <-ctx.Done():
		_ = tx.Rollback()
		return nil, &DeadlineExceededError{RunID: run.ID.String()}
	default:
	}

	outcome, result, err := o.engine.computeOutcome(ctx, tx, req)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if original != nil {
		if mismatch := firstAssignmentMismatch(original, outcome); mismatch != "" {
			_ = tx.Rollback()
			return nil, &ConflictOnApplyError{RunID: run.ID.String(), Details: mismatch}
		}
		// Every previewed window still resolves to the same employee, so
		// commit exactly the previewed assignments and nothing more.
		outcome = original
	}

	for _, assignment := range outcome.Assignments {
		shift := &entity.Shift{
			ID:               uuid.New(),
			ShiftType:        assignment.ShiftType,
			TeamScope:        req.TeamScope,
			AssignedEmployee: assignment.EmployeeID,
			Start:            assignment.Start,
			End:              assignment.End,
			Status:           entity.ShiftScheduled,
			AutoGenerated:    assignment.AutoGenerated,
			CreatedAt:        entity.Now(),
		}
		if err := tx.ShiftRepository().Create(ctx, shift); err != nil {
			_ = tx.Rollback()
			if repository.IsConflict(err) {
				return nil, &ConflictOnApplyError{RunID: run.ID.String(), Details: err.Error()}
			}
			return nil, fmt.Errorf("create shift: %w", err)
		}
	}

	run.Outcome = outcome
	run.Committed = true
	run.Mode = entity.ModeApply

	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if existing, err := tx.PlanningRunRepository().GetByID(ctx, run.ID); err == nil && existing != nil {
		if err := tx.PlanningRunRepository().Update(ctx, run); err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("update run: %w", err)
		}
	} else {
		if err := tx.PlanningRunRepository().Create(ctx, run); err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("create run: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return result, nil
}

// RefreshHistoryCache forces a recomputation of teamScope's assigned-load
// history ending at asOf, once per registered shift type, and stores each
// result in the engine's history cache regardless of whether a prior entry
// is still fresh. job.Handlers.HandleHistoryRefresh calls it with asOf set
// to the current time; nothing schedules that job periodically. Entries are
// keyed by the exact [asOf-historyWindowDays, asOf) range, while
// computeOutcome looks up [HorizonStart-historyWindowDays, HorizonStart),
// so a refreshed entry is reused only by a request whose HorizonStart
// equals asOf. Plan/ApplyRun never call it; computeOutcome populates the
// cache lazily on a miss when a cache is configured.
func (o *Orchestrator) RefreshHistoryCache(ctx context.Context, teamScope string, asOf time.Time) error {
	if o.engine.historyCache == nil {
		o.engine.historyCache = newHistoryCache(time.Hour)
	}
	start := asOf.AddDate(0, 0, -o.engine.historyWindowDays)
	for _, scheduler := range o.engine.registry.All() {
		def := scheduler.Definition()
		days, err := o.db.ShiftRepository().SumAssignedDays(ctx, teamScope, def.ID, def.FairnessWeight, start, asOf)
		if err != nil {
			return fmt.Errorf("refresh history cache for %q, shift type %s: %w", teamScope, def.ID, err)
		}
		o.engine.historyCache.set(teamScope, def.ID, start, asOf, days)
	}
	return nil
}

// firstAssignmentMismatch compares two outcomes' assignments by
// (shift type, start, end) and returns a description of the first window
// whose winning employee differs, or "" if every window the original
// assigned still resolves to the same employee.
func firstAssignmentMismatch(original, fresh *entity.PlanningOutcome) string {
	freshByWindow := make(map[string]entity.EmployeeID, len(fresh.Assignments))
	for _, a := range fresh.Assignments {
		freshByWindow[assignmentKey(a)] = a.EmployeeID
	}

	for _, a := range original.Assignments {
		key := assignmentKey(a)
		freshEmployee, ok := freshByWindow[key]
		if !ok {
			return fmt.Sprintf("window %s is no longer assignable", key)
		}
		if freshEmployee != a.EmployeeID {
			return fmt.Sprintf("window %s now resolves to a different employee", key)
		}
	}
	return ""
}

func assignmentKey(a entity.Assignment) string {
	return fmt.Sprintf("%s|%s|%s", a.ShiftType, a.Start.Format(time.RFC3339), a.End.Format(time.RFC3339))
}
