package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/crunchynapkin404/team-planner-sub001/internal/entity"
	"github.com/crunchynapkin404/team-planner-sub001/internal/repository"
)

type templateRepo struct {
	db sqlExecutor
}

func (r *templateRepo) Create(ctx context.Context, template *entity.ShiftTemplate) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO shift_templates (id, shift_type, default_start, default_end, notes, tags, favourite_count, usage_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		template.ID, template.ShiftType, template.DefaultStart, template.DefaultEnd, template.Notes,
		pq.Array(template.Tags), template.FavouriteCount, template.UsageCount)
	return err
}

func (r *templateRepo) GetByID(ctx context.Context, id entity.TemplateID) (*entity.ShiftTemplate, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, shift_type, default_start, default_end, notes, tags, favourite_count, usage_count
		FROM shift_templates WHERE id = $1`, id)
	tpl, err := scanTemplate(row)
	if nf, ok := err.(*repository.NotFoundError); ok {
		nf.ResourceID = id.String()
	}
	return tpl, err
}

func (r *templateRepo) GetByShiftType(ctx context.Context, shiftType entity.ShiftTypeID) ([]*entity.ShiftTemplate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, shift_type, default_start, default_end, notes, tags, favourite_count, usage_count
		FROM shift_templates WHERE shift_type = $1`, shiftType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.ShiftTemplate
	for rows.Next() {
		tpl, err := scanTemplateRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tpl)
	}
	return out, rows.Err()
}

func (r *templateRepo) Update(ctx context.Context, template *entity.ShiftTemplate) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE shift_templates SET shift_type = $2, default_start = $3, default_end = $4, notes = $5,
			tags = $6, favourite_count = $7, usage_count = $8
		WHERE id = $1`,
		template.ID, template.ShiftType, template.DefaultStart, template.DefaultEnd, template.Notes,
		pq.Array(template.Tags), template.FavouriteCount, template.UsageCount)
	if err != nil {
		return err
	}
	return requireRowsAffected(result, "template", template.ID.String())
}

func (r *templateRepo) Delete(ctx context.Context, id entity.TemplateID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM shift_templates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRowsAffected(result, "template", id.String())
}

func (r *templateRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM shift_templates`).Scan(&count)
	return count, err
}

func scanTemplate(row *sql.Row) (*entity.ShiftTemplate, error) {
	var tpl entity.ShiftTemplate
	err := row.Scan(&tpl.ID, &tpl.ShiftType, &tpl.DefaultStart, &tpl.DefaultEnd, &tpl.Notes,
		pq.Array(&tpl.Tags), &tpl.FavouriteCount, &tpl.UsageCount)
	if err == sql.ErrNoRows {
		return nil, &repository.NotFoundError{ResourceType: "template"}
	}
	return &tpl, err
}

func scanTemplateRows(rows *sql.Rows) (*entity.ShiftTemplate, error) {
	var tpl entity.ShiftTemplate
	err := rows.Scan(&tpl.ID, &tpl.ShiftType, &tpl.DefaultStart, &tpl.DefaultEnd, &tpl.Notes,
		pq.Array(&tpl.Tags), &tpl.FavouriteCount, &tpl.UsageCount)
	return &tpl, err
}
