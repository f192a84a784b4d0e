package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crunchynapkin404/team-planner-sub001/internal/entity"
	"github.com/crunchynapkin404/team-planner-sub001/internal/repository"
)

func TestEmployeeRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	db := NewDatabase()
	repo := db.EmployeeRepository()

	emp := &entity.Employee{ID: uuid.New(), Name: "Ada", FTE: 1, Active: true}
	require.NoError(t, repo.Create(ctx, emp))

	got, err := repo.GetByID(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)

	emp.Name = "Ada Lovelace"
	require.NoError(t, repo.Update(ctx, emp))
	got, err = repo.GetByID(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.Name)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, repo.Delete(ctx, emp.ID))
	_, err = repo.GetByID(ctx, emp.ID)
	assert.True(t, repository.IsNotFound(err))
}

func TestEmployeeRepositoryGetByIDNotFound(t *testing.T) {
	db := NewDatabase()
	_, err := db.EmployeeRepository().GetByID(context.Background(), uuid.New())
	assert.True(t, repository.IsNotFound(err))
}

func TestLeaveRepositoryOverlapQuery(t *testing.T) {
	ctx := context.Background()
	db := NewDatabase()
	empID := uuid.New()

	leave := &entity.LeaveRecord{
		Employee:  empID,
		StartDate: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC),
		Status:    entity.LeaveApproved,
	}
	require.NoError(t, db.LeaveRepository().Create(ctx, leave))

	results, err := db.LeaveRepository().GetByEmployeeAndWindow(ctx, empID,
		time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, results, 1)

	results, err = db.LeaveRepository().GetByEmployeeAndWindow(ctx, empID,
		time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestShiftRepositorySumAssignedDays(t *testing.T) {
	ctx := context.Background()
	db := NewDatabase()
	empID := uuid.New()

	shift := &entity.Shift{
		ID:               uuid.New(),
		ShiftType:        "incidents",
		TeamScope:        "team-a",
		AssignedEmployee: empID,
		Start:            time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC),
		End:              time.Date(2025, 1, 10, 17, 0, 0, 0, time.UTC),
		Status:           entity.ShiftScheduled,
	}
	require.NoError(t, db.ShiftRepository().Create(ctx, shift))

	otherType := &entity.Shift{
		ID:               uuid.New(),
		ShiftType:        "waakdienst",
		TeamScope:        "team-a",
		AssignedEmployee: empID,
		Start:            time.Date(2025, 1, 12, 17, 0, 0, 0, time.UTC),
		End:              time.Date(2025, 1, 19, 8, 0, 0, 0, time.UTC),
		Status:           entity.ShiftScheduled,
	}
	require.NoError(t, db.ShiftRepository().Create(ctx, otherType))

	totals, err := db.ShiftRepository().SumAssignedDays(ctx, "team-a", "incidents", 5.0,
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.InDelta(t, 4.375*5.0, totals[empID], 0.001)
}

func TestTransactionAdvisoryLockSerialises(t *testing.T) {
	ctx := context.Background()
	db := NewDatabase()

	tx1, err := db.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx1.AdvisoryLock(ctx, "team-a:2025-01"))

	locked := make(chan struct{})
	go func() {
		tx2, err := db.BeginTx(ctx)
		require.NoError(t, err)
		require.NoError(t, tx2.AdvisoryLock(ctx, "team-a:2025-01"))
		close(locked)
		require.NoError(t, tx2.Commit())
	}()

	select {
	case <-locked:
		t.Fatal("second transaction acquired the lock before the first released it")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, tx1.Commit())
	<-locked
}

func TestPlanningRunRepositoryListByTeamScope(t *testing.T) {
	ctx := context.Background()
	db := NewDatabase()

	run := &entity.PlanningRun{ID: uuid.New(), TeamScope: "team-a", Mode: entity.ModePreview}
	require.NoError(t, db.PlanningRunRepository().Create(ctx, run))

	runs, err := db.PlanningRunRepository().ListByTeamScope(ctx, "team-a")
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	runs, err = db.PlanningRunRepository().ListByTeamScope(ctx, "team-b")
	require.NoError(t, err)
	assert.Empty(t, runs)
}
