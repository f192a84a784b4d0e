package memory

import (
	"context"

	"github.com/crunchynapkin404/team-planner-sub001/internal/entity"
	"github.com/crunchynapkin404/team-planner-sub001/internal/repository"
)

type planningRunRepo struct {
	store *Store
}

func (r *planningRunRepo) Create(ctx context.Context, run *entity.PlanningRun) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.planningRuns[run.ID] = run
	return nil
}

func (r *planningRunRepo) GetByID(ctx context.Context, id entity.PlanningRunID) (*entity.PlanningRun, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	run, ok := r.store.planningRuns[id]
	if !ok {
		return nil, &repository.NotFoundError{ResourceType: "planning_run", ResourceID: id.String()}
	}
	return run, nil
}

func (r *planningRunRepo) ListByTeamScope(ctx context.Context, teamScope string) ([]*entity.PlanningRun, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.PlanningRun
	for _, run := range r.store.planningRuns {
		if run.TeamScope == teamScope {
			out = append(out, run)
		}
	}
	return out, nil
}

func (r *planningRunRepo) Update(ctx context.Context, run *entity.PlanningRun) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.planningRuns[run.ID]; !ok {
		return &repository.NotFoundError{ResourceType: "planning_run", ResourceID: run.ID.String()}
	}
	r.store.planningRuns[run.ID] = run
	return nil
}

func (r *planningRunRepo) Count(ctx context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return int64(len(r.store.planningRuns)), nil
}
