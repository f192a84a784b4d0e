package memory

import (
	"context"

	"github.com/crunchynapkin404/team-planner-sub001/internal/entity"
	"github.com/crunchynapkin404/team-planner-sub001/internal/repository"
)

type employeeRepo struct {
	store *Store
}

func (r *employeeRepo) Create(ctx context.Context, employee *entity.Employee) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.employees[employee.ID] = employee
	return nil
}

func (r *employeeRepo) GetByID(ctx context.Context, id entity.EmployeeID) (*entity.Employee, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	emp, ok := r.store.employees[id]
	if !ok {
		return nil, &repository.NotFoundError{ResourceType: "employee", ResourceID: id.String()}
	}
	return emp, nil
}

func (r *employeeRepo) ListActive(ctx context.Context) ([]*entity.Employee, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*entity.Employee, 0, len(r.store.employees))
	for _, emp := range r.store.employees {
		if emp.Active {
			out = append(out, emp)
		}
	}
	return out, nil
}

func (r *employeeRepo) Update(ctx context.Context, employee *entity.Employee) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.employees[employee.ID]; !ok {
		return &repository.NotFoundError{ResourceType: "employee", ResourceID: employee.ID.String()}
	}
	r.store.employees[employee.ID] = employee
	return nil
}

func (r *employeeRepo) Delete(ctx context.Context, id entity.EmployeeID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.employees[id]; !ok {
		return &repository.NotFoundError{ResourceType: "employee", ResourceID: id.String()}
	}
	delete(r.store.employees, id)
	return nil
}

func (r *employeeRepo) Count(ctx context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return int64(len(r.store.employees)), nil
}
