package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/crunchynapkin404/team-planner-sub001/internal/entity"
	"github.com/crunchynapkin404/team-planner-sub001/internal/repository"
)

type employeeRepo struct {
	db sqlExecutor
}

func (r *employeeRepo) Create(ctx context.Context, employee *entity.Employee) error {
	availability, err := json.Marshal(employee.Availability)
	if err != nil {
		return fmt.Errorf("marshal availability: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO employees (id, name, fte, hire_date, active, availability)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		employee.ID, employee.Name, employee.FTE, employee.HireDate, employee.Active, availability)
	return err
}

func (r *employeeRepo) GetByID(ctx context.Context, id entity.EmployeeID) (*entity.Employee, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, fte, hire_date, active, availability
		FROM employees WHERE id = $1`, id)
	emp, err := scanEmployee(row)
	if nf, ok := err.(*repository.NotFoundError); ok {
		nf.ResourceID = id.String()
	}
	return emp, err
}

func (r *employeeRepo) ListActive(ctx context.Context) ([]*entity.Employee, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, fte, hire_date, active, availability
		FROM employees WHERE active = true`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Employee
	for rows.Next() {
		emp, err := scanEmployeeRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

func (r *employeeRepo) Update(ctx context.Context, employee *entity.Employee) error {
	availability, err := json.Marshal(employee.Availability)
	if err != nil {
		return fmt.Errorf("marshal availability: %w", err)
	}
	result, err := r.db.ExecContext(ctx, `
		UPDATE employees SET name = $2, fte = $3, hire_date = $4, active = $5, availability = $6
		WHERE id = $1`,
		employee.ID, employee.Name, employee.FTE, employee.HireDate, employee.Active, availability)
	if err != nil {
		return err
	}
	return requireRowsAffected(result, "employee", employee.ID.String())
}

func (r *employeeRepo) Delete(ctx context.Context, id entity.EmployeeID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRowsAffected(result, "employee", id.String())
}

func (r *employeeRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM employees`).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEmployee(row *sql.Row) (*entity.Employee, error) {
	return scanEmployeeFrom(row)
}

func scanEmployeeRows(rows *sql.Rows) (*entity.Employee, error) {
	return scanEmployeeFrom(rows)
}

func scanEmployeeFrom(scanner rowScanner) (*entity.Employee, error) {
	var emp entity.Employee
	var availability []byte
	err := scanner.Scan(&emp.ID, &emp.Name, &emp.FTE, &emp.HireDate, &emp.Active, &availability)
	if err == sql.ErrNoRows {
		return nil, &repository.NotFoundError{ResourceType: "employee"}
	}
	if err != nil {
		return nil, err
	}
	if len(availability) > 0 {
		if err := json.Unmarshal(availability, &emp.Availability); err != nil {
			return nil, fmt.Errorf("unmarshal availability: %w", err)
		}
	}
	return &emp, nil
}

// requireRowsAffected turns a zero-row UPDATE/DELETE result into a
// NotFoundError, since Postgres does not error on a no-op statement.
func requireRowsAffected(result sql.Result, resourceType, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &repository.NotFoundError{ResourceType: resourceType, ResourceID: id}
	}
	return nil
}
