package postgres

import (
	"context"
	"database/sql"

	"github.com/crunchynapkin404/team-planner-sub001/internal/repository"
)

// sqlExecutor is satisfied by both *sql.DB and *sql.Tx, so repository
// implementations work unmodified whether they are handed the top-level
// connection or a transaction.
type sqlExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Database adapts a *DB to repository.Database.
type Database struct {
	db *DB
}

// NewDatabase wraps an open *DB as a repository.Database.
func NewDatabase(db *DB) *Database {
	return &Database{db: db}
}

func (d *Database) EmployeeRepository() repository.EmployeeRepository       { return &employeeRepo{d.db} }
func (d *Database) LeaveRepository() repository.LeaveRepository            { return &leaveRepo{d.db} }
func (d *Database) ShiftRepository() repository.ShiftRepository            { return &shiftRepo{d.db} }
func (d *Database) TemplateRepository() repository.TemplateRepository      { return &templateRepo{d.db} }
func (d *Database) PlanningRunRepository() repository.PlanningRunRepository { return &planningRunRepo{d.db} }

func (d *Database) Close() error                        { return d.db.Close() }
func (d *Database) Health(ctx context.Context) error     { return d.db.Health(ctx) }

// BeginTx opens a real SQL transaction and returns a Transaction whose
// repository accessors all operate within it.
func (d *Database) BeginTx(ctx context.Context) (repository.Transaction, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &transaction{tx: tx}, nil
}

type transaction struct {
	tx *sql.Tx
}

func (t *transaction) EmployeeRepository() repository.EmployeeRepository        { return &employeeRepo{t.tx} }
func (t *transaction) LeaveRepository() repository.LeaveRepository             { return &leaveRepo{t.tx} }
func (t *transaction) ShiftRepository() repository.ShiftRepository             { return &shiftRepo{t.tx} }
func (t *transaction) TemplateRepository() repository.TemplateRepository       { return &templateRepo{t.tx} }
func (t *transaction) PlanningRunRepository() repository.PlanningRunRepository { return &planningRunRepo{t.tx} }

func (t *transaction) Commit() error   { return t.tx.Commit() }
func (t *transaction) Rollback() error { return t.tx.Rollback() }

// AdvisoryLock takes a transaction-scoped Postgres advisory lock keyed by
// hashtext(key), automatically released at commit or rollback. Used to
// serialise concurrent applies against the same team scope and horizon.
func (t *transaction) AdvisoryLock(ctx context.Context, key string) error {
	_, err := t.tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key)
	return err
}
