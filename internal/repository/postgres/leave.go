package postgres

import (
	"context"
	"time"

	"github.com/crunchynapkin404/team-planner-sub001/internal/entity"
)

type leaveRepo struct {
	db sqlExecutor
}

func (r *leaveRepo) Create(ctx context.Context, leave *entity.LeaveRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO leave_records (employee_id, start_date, end_date, status)
		VALUES ($1, $2, $3, $4)`,
		leave.Employee, leave.StartDate, leave.EndDate, leave.Status)
	return err
}

func (r *leaveRepo) GetByEmployeeAndWindow(ctx context.Context, employee entity.EmployeeID, windowStart, windowEnd time.Time) ([]*entity.LeaveRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT employee_id, start_date, end_date, status
		FROM leave_records
		WHERE employee_id = $1 AND start_date < $3 AND end_date + interval '1 day' > $2`,
		employee, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLeaveRows(rows)
}

func (r *leaveRepo) GetByWindow(ctx context.Context, windowStart, windowEnd time.Time) ([]*entity.LeaveRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT employee_id, start_date, end_date, status
		FROM leave_records
		WHERE start_date < $2 AND end_date + interval '1 day' > $1`,
		windowStart, windowEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLeaveRows(rows)
}

func (r *leaveRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM leave_records`).Scan(&count)
	return count, err
}

func scanLeaveRows(rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}) ([]*entity.LeaveRecord, error) {
	var out []*entity.LeaveRecord
	for rows.Next() {
		var leave entity.LeaveRecord
		if err := rows.Scan(&leave.Employee, &leave.StartDate, &leave.EndDate, &leave.Status); err != nil {
			return nil, err
		}
		out = append(out, &leave)
	}
	return out, rows.Err()
}
