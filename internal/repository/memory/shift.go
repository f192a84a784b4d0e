package memory

import (
	"context"
	"time"

	"github.com/crunchynapkin404/team-planner-sub001/internal/entity"
	"github.com/crunchynapkin404/team-planner-sub001/internal/repository"
)

type shiftRepo struct {
	store *Store
}

func (r *shiftRepo) Create(ctx context.Context, shift *entity.Shift) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.shifts[shift.ID] = shift
	return nil
}

func (r *shiftRepo) GetByID(ctx context.Context, id entity.ShiftID) (*entity.Shift, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	shift, ok := r.store.shifts[id]
	if !ok {
		return nil, &repository.NotFoundError{ResourceType: "shift", ResourceID: id.String()}
	}
	return shift, nil
}

func (r *shiftRepo) GetByEmployeeAndWindow(ctx context.Context, employee entity.EmployeeID, windowStart, windowEnd time.Time) ([]*entity.Shift, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.Shift
	for _, shift := range r.store.shifts {
		if shift.AssignedEmployee == employee && shift.Active() && shift.OverlapsInterval(windowStart, windowEnd) {
			out = append(out, shift)
		}
	}
	return out, nil
}

func (r *shiftRepo) GetByTeamScopeAndWindow(ctx context.Context, teamScope string, windowStart, windowEnd time.Time) ([]*entity.Shift, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.Shift
	for _, shift := range r.store.shifts {
		if shift.TeamScope == teamScope && shift.Active() && shift.OverlapsInterval(windowStart, windowEnd) {
			out = append(out, shift)
		}
	}
	return out, nil
}

func (r *shiftRepo) SumAssignedDays(ctx context.Context, teamScope string, shiftType entity.ShiftTypeID, fairnessWeight float64, windowStart, windowEnd time.Time) (map[entity.EmployeeID]float64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	totals := make(map[entity.EmployeeID]float64)
	for _, shift := range r.store.shifts {
		if shift.TeamScope != teamScope || shift.ShiftType != shiftType || !shift.Active() {
			continue
		}
		if !shift.OverlapsInterval(windowStart, windowEnd) {
			continue
		}
		days := shift.End.Sub(shift.Start).Hours() / 24
		totals[shift.AssignedEmployee] += days * fairnessWeight
	}
	return totals, nil
}

func (r *shiftRepo) Update(ctx context.Context, shift *entity.Shift) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.shifts[shift.ID]; !ok {
		return &repository.NotFoundError{ResourceType: "shift", ResourceID: shift.ID.String()}
	}
	r.store.shifts[shift.ID] = shift
	return nil
}

func (r *shiftRepo) Delete(ctx context.Context, id entity.ShiftID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.shifts[id]; !ok {
		return &repository.NotFoundError{ResourceType: "shift", ResourceID: id.String()}
	}
	delete(r.store.shifts, id)
	return nil
}

func (r *shiftRepo) Count(ctx context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return int64(len(r.store.shifts)), nil
}
