package memory

import (
	"context"

	"github.com/crunchynapkin404/team-planner-sub001/internal/entity"
	"github.com/crunchynapkin404/team-planner-sub001/internal/repository"
)

type templateRepo struct {
	store *Store
}

func (r *templateRepo) Create(ctx context.Context, template *entity.ShiftTemplate) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.templates[template.ID] = template
	return nil
}

func (r *templateRepo) GetByID(ctx context.Context, id entity.TemplateID) (*entity.ShiftTemplate, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	tpl, ok := r.store.templates[id]
	if !ok {
		return nil, &repository.NotFoundError{ResourceType: "template", ResourceID: id.String()}
	}
	return tpl, nil
}

func (r *templateRepo) GetByShiftType(ctx context.Context, shiftType entity.ShiftTypeID) ([]*entity.ShiftTemplate, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.ShiftTemplate
	for _, tpl := range r.store.templates {
		if tpl.ShiftType == shiftType {
			out = append(out, tpl)
		}
	}
	return out, nil
}

func (r *templateRepo) Update(ctx context.Context, template *entity.ShiftTemplate) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.templates[template.ID]; !ok {
		return &repository.NotFoundError{ResourceType: "template", ResourceID: template.ID.String()}
	}
	r.store.templates[template.ID] = template
	return nil
}

func (r *templateRepo) Delete(ctx context.Context, id entity.TemplateID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.templates[id]; !ok {
		return &repository.NotFoundError{ResourceType: "template", ResourceID: id.String()}
	}
	delete(r.store.templates, id)
	return nil
}

func (r *templateRepo) Count(ctx context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return int64(len(r.store.templates)), nil
}
