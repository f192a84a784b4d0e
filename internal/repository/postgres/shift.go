package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/crunchynapkin404/team-planner-sub001/internal/entity"
	"github.com/crunchynapkin404/team-planner-sub001/internal/repository"
)

type shiftRepo struct {
	db sqlExecutor
}

func (r *shiftRepo) Create(ctx context.Context, shift *entity.Shift) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO shifts (id, template_ref, shift_type, team_scope, assigned_employee, start_at, end_at, status, auto_generated, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		shift.ID, shift.TemplateRef, shift.ShiftType, shift.TeamScope, shift.AssignedEmployee,
		shift.Start, shift.End, shift.Status, shift.AutoGenerated, shift.CreatedAt)
	return err
}

func (r *shiftRepo) GetByID(ctx context.Context, id entity.ShiftID) (*entity.Shift, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, template_ref, shift_type, team_scope, assigned_employee, start_at, end_at, status, auto_generated, created_at
		FROM shifts WHERE id = $1`, id)
	shift, err := scanShift(row)
	if nf, ok := err.(*repository.NotFoundError); ok {
		nf.ResourceID = id.String()
	}
	return shift, err
}

func (r *shiftRepo) GetByEmployeeAndWindow(ctx context.Context, employee entity.EmployeeID, windowStart, windowEnd time.Time) ([]*entity.Shift, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, template_ref, shift_type, team_scope, assigned_employee, start_at, end_at, status, auto_generated, created_at
		FROM shifts
		WHERE assigned_employee = $1 AND status != 'cancelled' AND start_at < $3 AND end_at > $2`,
		employee, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanShiftRows(rows)
}

func (r *shiftRepo) GetByTeamScopeAndWindow(ctx context.Context, teamScope string, windowStart, windowEnd time.Time) ([]*entity.Shift, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, template_ref, shift_type, team_scope, assigned_employee, start_at, end_at, status, auto_generated, created_at
		FROM shifts
		WHERE team_scope = $1 AND status != 'cancelled' AND start_at < $3 AND end_at > $2`,
		teamScope, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanShiftRows(rows)
}

func (r *shiftRepo) SumAssignedDays(ctx context.Context, teamScope string, shiftType entity.ShiftTypeID, fairnessWeight float64, windowStart, windowEnd time.Time) (map[entity.EmployeeID]float64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT assigned_employee, sum(extract(epoch from (end_at - start_at)) / 86400.0)
		FROM shifts
		WHERE team_scope = $1 AND shift_type = $2 AND status != 'cancelled' AND start_at < $4 AND end_at > $3
		GROUP BY assigned_employee`,
		teamScope, shiftType, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[entity.EmployeeID]float64)
	for rows.Next() {
		var employee entity.EmployeeID
		var days float64
		if err := rows.Scan(&employee, &days); err != nil {
			return nil, err
		}
		totals[employee] = days * fairnessWeight
	}
	return totals, rows.Err()
}

func (r *shiftRepo) Update(ctx context.Context, shift *entity.Shift) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE shifts SET template_ref = $2, shift_type = $3, team_scope = $4, assigned_employee = $5,
			start_at = $6, end_at = $7, status = $8, auto_generated = $9
		WHERE id = $1`,
		shift.ID, shift.TemplateRef, shift.ShiftType, shift.TeamScope, shift.AssignedEmployee,
		shift.Start, shift.End, shift.Status, shift.AutoGenerated)
	if err != nil {
		return err
	}
	return requireRowsAffected(result, "shift", shift.ID.String())
}

func (r *shiftRepo) Delete(ctx context.Context, id entity.ShiftID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM shifts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRowsAffected(result, "shift", id.String())
}

func (r *shiftRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM shifts`).Scan(&count)
	return count, err
}

func scanShift(row *sql.Row) (*entity.Shift, error) {
	var shift entity.Shift
	err := row.Scan(&shift.ID, &shift.TemplateRef, &shift.ShiftType, &shift.TeamScope, &shift.AssignedEmployee,
		&shift.Start, &shift.End, &shift.Status, &shift.AutoGenerated, &shift.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, &repository.NotFoundError{ResourceType: "shift"}
	}
	return &shift, err
}

func scanShiftRows(rows *sql.Rows) ([]*entity.Shift, error) {
	var out []*entity.Shift
	for rows.Next() {
		var shift entity.Shift
		if err := rows.Scan(&shift.ID, &shift.TemplateRef, &shift.ShiftType, &shift.TeamScope, &shift.AssignedEmployee,
			&shift.Start, &shift.End, &shift.Status, &shift.AutoGenerated, &shift.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &shift)
	}
	return out, rows.Err()
}
