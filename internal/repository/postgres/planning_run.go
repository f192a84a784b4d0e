package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/crunchynapkin404/team-planner-sub001/internal/entity"
	"github.com/crunchynapkin404/team-planner-sub001/internal/repository"
)

type planningRunRepo struct {
	db sqlExecutor
}

func (r *planningRunRepo) Create(ctx context.Context, run *entity.PlanningRun) error {
	outcome, err := json.Marshal(run.Outcome)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO planning_runs (id, horizon_start, horizon_end, team_scope, initiator, requested_at, mode, outcome, committed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		run.ID, run.HorizonStart, run.HorizonEnd, run.TeamScope, run.Initiator, run.RequestedAt,
		run.Mode, outcome, run.Committed)
	return err
}

func (r *planningRunRepo) GetByID(ctx context.Context, id entity.PlanningRunID) (*entity.PlanningRun, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, horizon_start, horizon_end, team_scope, initiator, requested_at, mode, outcome, committed
		FROM planning_runs WHERE id = $1`, id)
	run, err := scanPlanningRun(row)
	if nf, ok := err.(*repository.NotFoundError); ok {
		nf.ResourceID = id.String()
	}
	return run, err
}

func (r *planningRunRepo) ListByTeamScope(ctx context.Context, teamScope string) ([]*entity.PlanningRun, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, horizon_start, horizon_end, team_scope, initiator, requested_at, mode, outcome, committed
		FROM planning_runs WHERE team_scope = $1 ORDER BY requested_at DESC`, teamScope)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.PlanningRun
	for rows.Next() {
		run, err := scanPlanningRunRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func (r *planningRunRepo) Update(ctx context.Context, run *entity.PlanningRun) error {
	outcome, err := json.Marshal(run.Outcome)
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx, `
		UPDATE planning_runs SET outcome = $2, committed = $3 WHERE id = $1`,
		run.ID, outcome, run.Committed)
	if err != nil {
		return err
	}
	return requireRowsAffected(result, "planning_run", run.ID.String())
}

func (r *planningRunRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM planning_runs`).Scan(&count)
	return count, err
}

func scanPlanningRun(row *sql.Row) (*entity.PlanningRun, error) {
	var run entity.PlanningRun
	var outcome []byte
	err := row.Scan(&run.ID, &run.HorizonStart, &run.HorizonEnd, &run.TeamScope, &run.Initiator,
		&run.RequestedAt, &run.Mode, &outcome, &run.Committed)
	if err == sql.ErrNoRows {
		return nil, &repository.NotFoundError{ResourceType: "planning_run"}
	}
	if err != nil {
		return nil, err
	}
	if len(outcome) > 0 {
		if err := json.Unmarshal(outcome, &run.Outcome); err != nil {
			return nil, err
		}
	}
	return &run, nil
}

func scanPlanningRunRows(rows *sql.Rows) (*entity.PlanningRun, error) {
	var run entity.PlanningRun
	var outcome []byte
	err := rows.Scan(&run.ID, &run.HorizonStart, &run.HorizonEnd, &run.TeamScope, &run.Initiator,
		&run.RequestedAt, &run.Mode, &outcome, &run.Committed)
	if err != nil {
		return nil, err
	}
	if len(outcome) > 0 {
		if err := json.Unmarshal(outcome, &run.Outcome); err != nil {
			return nil, err
		}
	}
	return &run, nil
}
