package memory

import (
	"context"
	"time"

	"github.com/crunchynapkin404/team-planner-sub001/internal/entity"
)

type leaveRepo struct {
	store *Store
}

func (r *leaveRepo) Create(ctx context.Context, leave *entity.LeaveRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.leaves = append(r.store.leaves, leave)
	return nil
}

func (r *leaveRepo) GetByEmployeeAndWindow(ctx context.Context, employee entity.EmployeeID, windowStart, windowEnd time.Time) ([]*entity.LeaveRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.LeaveRecord
	for _, leave := range r.store.leaves {
		if leave.Employee == employee && leave.OverlapsWindow(windowStart, windowEnd) {
			out = append(out, leave)
		}
	}
	return out, nil
}

func (r *leaveRepo) GetByWindow(ctx context.Context, windowStart, windowEnd time.Time) ([]*entity.LeaveRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.LeaveRecord
	for _, leave := range r.store.leaves {
		if leave.OverlapsWindow(windowStart, windowEnd) {
			out = append(out, leave)
		}
	}
	return out, nil
}

func (r *leaveRepo) Count(ctx context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return int64(len(r.store.leaves)), nil
}
