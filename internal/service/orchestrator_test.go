package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crunchynapkin404/team-planner-sub001/internal/entity"
	"github.com/crunchynapkin404/team-planner-sub001/internal/repository/memory"
	"github.com/crunchynapkin404/team-planner-sub001/internal/service"
	"github.com/crunchynapkin404/team-planner-sub001/internal/shifttype"
	"github.com/crunchynapkin404/team-planner-sub001/tests/helpers"
)

func newHorizon(weeks int) (time.Time, time.Time) {
	return helpers.NewHorizonBuilder(entity.Now()).WithWeeks(weeks).Build()
}

func TestPlanAlternatesBetweenEquallyQualifiedEmployees(t *testing.T) {
	db := memory.NewDatabase()
	orch := service.NewOrchestrator(db, shifttype.NewDefaultRegistry())
	ctx := context.Background()

	alice := helpers.NewEmployeeBuilder().WithAvailableFor("incidents").Build()
	bob := helpers.NewEmployeeBuilder().WithAvailableFor("incidents").Build()
	require.NoError(t, db.EmployeeRepository().Create(ctx, alice))
	require.NoError(t, db.EmployeeRepository().Create(ctx, bob))

	start, end := newHorizon(2)
	run, err := orch.Plan(ctx, service.Request{
		TeamScope:    "default",
		HorizonStart: start,
		HorizonEnd:   end,
		ShiftTypes:   []shifttype.ID{"incidents"},
		Mode:         entity.ModePreview,
	})
	require.NoError(t, err)
	require.Len(t, run.Outcome.Assignments, 2)

	first, second := run.Outcome.Assignments[0], run.Outcome.Assignments[1]
	assert.NotEqual(t, first.EmployeeID, second.EmployeeID, "fairness should alternate the pick across equally loaded candidates")
}

func TestPlanExcludesEmployeeOnApprovedLeave(t *testing.T) {
	db := memory.NewDatabase()
	orch := service.NewOrchestrator(db, shifttype.NewDefaultRegistry())
	ctx := context.Background()

	start, end := newHorizon(1)

	alice := helpers.NewEmployeeBuilder().WithAvailableFor("incidents").Build()
	bob := helpers.NewEmployeeBuilder().WithAvailableFor("incidents").Build()
	require.NoError(t, db.EmployeeRepository().Create(ctx, alice))
	require.NoError(t, db.EmployeeRepository().Create(ctx, bob))

	leave := helpers.NewLeaveBuilder().
		WithEmployee(alice.ID).
		WithDates(start, end).
		WithStatus(entity.LeaveApproved).
		Build()
	require.NoError(t, db.LeaveRepository().Create(ctx, leave))

	run, err := orch.Plan(ctx, service.Request{
		TeamScope:    "default",
		HorizonStart: start,
		HorizonEnd:   end,
		ShiftTypes:   []shifttype.ID{"incidents"},
		Mode:         entity.ModePreview,
	})
	require.NoError(t, err)
	require.Len(t, run.Outcome.Assignments, 1)
	assert.Equal(t, bob.ID, run.Outcome.Assignments[0].EmployeeID)
}

func TestPlanRecordsUnassignableWhenEveryoneIsOnLeave(t *testing.T) {
	db := memory.NewDatabase()
	orch := service.NewOrchestrator(db, shifttype.NewDefaultRegistry())
	ctx := context.Background()

	start, end := newHorizon(1)

	alice := helpers.NewEmployeeBuilder().WithAvailableFor("incidents").Build()
	require.NoError(t, db.EmployeeRepository().Create(ctx, alice))
	require.NoError(t, db.LeaveRepository().Create(ctx, helpers.NewLeaveBuilder().
		WithEmployee(alice.ID).WithDates(start, end).WithStatus(entity.LeaveApproved).Build()))

	run, err := orch.Plan(ctx, service.Request{
		TeamScope:    "default",
		HorizonStart: start,
		HorizonEnd:   end,
		ShiftTypes:   []shifttype.ID{"incidents"},
		Mode:         entity.ModePreview,
	})
	require.NoError(t, err)
	assert.Empty(t, run.Outcome.Assignments)
	require.Len(t, run.Outcome.Unassignable, 1)
	assert.Equal(t, shifttype.ID("incidents"), run.Outcome.Unassignable[0].ShiftType)
}

func TestPlanStrictAbortsOnFirstUnassignableWindow(t *testing.T) {
	db := memory.NewDatabase()
	orch := service.NewOrchestrator(db, shifttype.NewDefaultRegistry())
	ctx := context.Background()

	start, end := newHorizon(2)

	alice := helpers.NewEmployeeBuilder().WithAvailableFor("incidents").Build()
	require.NoError(t, db.EmployeeRepository().Create(ctx, alice))
	require.NoError(t, db.LeaveRepository().Create(ctx, helpers.NewLeaveBuilder().
		WithEmployee(alice.ID).WithDates(start, start).WithStatus(entity.LeaveApproved).Build()))

	run, err := orch.Plan(ctx, service.Request{
		TeamScope:    "default",
		HorizonStart: start,
		HorizonEnd:   end,
		ShiftTypes:   []shifttype.ID{"incidents"},
		Mode:         entity.ModePreview,
		Strict:       true,
	})
	require.NoError(t, err)
	assert.Empty(t, run.Outcome.Assignments, "strict mode must stop before assigning any later window")
	assert.Len(t, run.Outcome.Unassignable, 1)
}

func TestPlanFairnessPrefersCandidateWithLessHistoryLoad(t *testing.T) {
	db := memory.NewDatabase()
	orch := service.NewOrchestrator(db, shifttype.NewDefaultRegistry())
	ctx := context.Background()

	start, end := newHorizon(1)

	alice := helpers.NewEmployeeBuilder().WithAvailableFor("incidents").Build()
	bob := helpers.NewEmployeeBuilder().WithAvailableFor("incidents").Build()
	require.NoError(t, db.EmployeeRepository().Create(ctx, alice))
	require.NoError(t, db.EmployeeRepository().Create(ctx, bob))

	// Alice carries a heavy recent history load; Bob has none.
	historyShift := helpers.NewShiftBuilder().
		WithShiftType("incidents").
		WithTeamScope("default").
		WithAssignedEmployee(alice.ID).
		WithInterval(start.AddDate(0, 0, -30), start.AddDate(0, 0, -10)).
		Build()
	require.NoError(t, db.ShiftRepository().Create(ctx, historyShift))

	run, err := orch.Plan(ctx, service.Request{
		TeamScope:    "default",
		HorizonStart: start,
		HorizonEnd:   end,
		ShiftTypes:   []shifttype.ID{"incidents"},
		Mode:         entity.ModePreview,
	})
	require.NoError(t, err)
	require.Len(t, run.Outcome.Assignments, 1)
	assert.Equal(t, bob.ID, run.Outcome.Assignments[0].EmployeeID, "the candidate with less recent history should win the window")
}

func TestPlanNeverDoublesUpIncidentsAndWaakdienstInSameISOWeek(t *testing.T) {
	db := memory.NewDatabase()
	orch := service.NewOrchestrator(db, shifttype.NewDefaultRegistry())
	ctx := context.Background()

	start, end := newHorizon(2)

	alice := helpers.NewEmployeeBuilder().WithAvailableFor("incidents", "waakdienst").Build()
	bob := helpers.NewEmployeeBuilder().WithAvailableFor("incidents", "waakdienst").Build()
	require.NoError(t, db.EmployeeRepository().Create(ctx, alice))
	require.NoError(t, db.EmployeeRepository().Create(ctx, bob))

	run, err := orch.Plan(ctx, service.Request{
		TeamScope:    "default",
		HorizonStart: start,
		HorizonEnd:   end,
		ShiftTypes:   []shifttype.ID{"incidents", "waakdienst"},
		Mode:         entity.ModePreview,
	})
	require.NoError(t, err)

	byWeek := make(map[string]map[entity.EmployeeID]bool)
	for _, a := range run.Outcome.Assignments {
		year, week := a.Start.ISOWeek()
		key := fmt.Sprintf("%d-%02d", year, week)
		if byWeek[key] == nil {
			byWeek[key] = make(map[entity.EmployeeID]bool)
		}
		if byWeek[key][a.EmployeeID] {
			t.Fatalf("employee %s double-booked into the primary-oncall mutex group in the same ISO week", a.EmployeeID)
		}
		byWeek[key][a.EmployeeID] = true
	}
}

func TestPlanThenApplyRunPersistsShiftsAndMarksCommitted(t *testing.T) {
	db := memory.NewDatabase()
	orch := service.NewOrchestrator(db, shifttype.NewDefaultRegistry())
	ctx := context.Background()

	start, end := newHorizon(1)

	alice := helpers.NewEmployeeBuilder().WithAvailableFor("incidents").Build()
	require.NoError(t, db.EmployeeRepository().Create(ctx, alice))

	preview, err := orch.Plan(ctx, service.Request{
		TeamScope:    "default",
		HorizonStart: start,
		HorizonEnd:   end,
		ShiftTypes:   []shifttype.ID{"incidents"},
		Mode:         entity.ModePreview,
	})
	require.NoError(t, err)
	require.False(t, preview.Committed)

	applied, err := orch.ApplyRun(ctx, preview.ID)
	require.NoError(t, err)
	assert.True(t, applied.Committed)

	count, err := db.ShiftRepository().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(preview.Outcome.Assignments)), count)
}

func TestApplyRunRejectsAlreadyCommittedRun(t *testing.T) {
	db := memory.NewDatabase()
	orch := service.NewOrchestrator(db, shifttype.NewDefaultRegistry())
	ctx := context.Background()

	start, end := newHorizon(1)
	alice := helpers.NewEmployeeBuilder().WithAvailableFor("incidents").Build()
	require.NoError(t, db.EmployeeRepository().Create(ctx, alice))

	preview, err := orch.Plan(ctx, service.Request{
		TeamScope: "default", HorizonStart: start, HorizonEnd: end,
		ShiftTypes: []shifttype.ID{"incidents"}, Mode: entity.ModePreview,
	})
	require.NoError(t, err)

	_, err = orch.ApplyRun(ctx, preview.ID)
	require.NoError(t, err)

	_, err = orch.ApplyRun(ctx, preview.ID)
	require.Error(t, err)
	assert.IsType(t, &service.RunNotPreviewableError{}, err)
}

func TestApplyRunDetectsConcurrentWriteConflict(t *testing.T) {
	db := memory.NewDatabase()
	orch := service.NewOrchestrator(db, shifttype.NewDefaultRegistry())
	ctx := context.Background()

	start, end := newHorizon(1)

	alice := helpers.NewEmployeeBuilder().WithAvailableFor("incidents").Build()
	bob := helpers.NewEmployeeBuilder().WithAvailableFor("incidents").Build()
	require.NoError(t, db.EmployeeRepository().Create(ctx, alice))
	require.NoError(t, db.EmployeeRepository().Create(ctx, bob))

	preview, err := orch.Plan(ctx, service.Request{
		TeamScope: "default", HorizonStart: start, HorizonEnd: end,
		ShiftTypes: []shifttype.ID{"incidents"}, Mode: entity.ModePreview,
	})
	require.NoError(t, err)
	require.Len(t, preview.Outcome.Assignments, 1)
	winner := preview.Outcome.Assignments[0].EmployeeID

	// Simulate a concurrent write that put the previewed winner on
	// approved leave before the apply runs.
	require.NoError(t, db.LeaveRepository().Create(ctx, helpers.NewLeaveBuilder().
		WithEmployee(winner).WithDates(start, end).WithStatus(entity.LeaveApproved).Build()))

	_, err = orch.ApplyRun(ctx, preview.ID)
	require.Error(t, err)
	assert.IsType(t, &service.ConflictOnApplyError{}, err)
}

func TestPlanIsDeterministicAcrossRepeatedCalls(t *testing.T) {
	db := memory.NewDatabase()
	orch := service.NewOrchestrator(db, shifttype.NewDefaultRegistry())
	ctx := context.Background()
	start, end := newHorizon(3)

	alice := helpers.NewEmployeeBuilder().WithAvailableFor("incidents").Build()
	bob := helpers.NewEmployeeBuilder().WithAvailableFor("incidents").Build()
	require.NoError(t, db.EmployeeRepository().Create(ctx, alice))
	require.NoError(t, db.EmployeeRepository().Create(ctx, bob))

	req := service.Request{
		TeamScope: "default", HorizonStart: start, HorizonEnd: end,
		ShiftTypes: []shifttype.ID{"incidents"}, Mode: entity.ModePreview,
	}

	// Preview mode never writes Shift rows, so calling Plan twice against
	// the same unchanged repository state must produce identical outcomes.
	first, err := orch.Plan(ctx, req)
	require.NoError(t, err)
	second, err := orch.Plan(ctx, req)
	require.NoError(t, err)

	require.Len(t, second.Outcome.Assignments, len(first.Outcome.Assignments))
	for i := range first.Outcome.Assignments {
		assert.Equal(t, first.Outcome.Assignments[i].Start, second.Outcome.Assignments[i].Start)
		assert.Equal(t, first.Outcome.Assignments[i].EmployeeID, second.Outcome.Assignments[i].EmployeeID)
	}
}

func TestPlanRejectsInvalidHorizon(t *testing.T) {
	db := memory.NewDatabase()
	orch := service.NewOrchestrator(db, shifttype.NewDefaultRegistry())
	ctx := context.Background()

	start, _ := newHorizon(1)

	_, err := orch.Plan(ctx, service.Request{
		TeamScope:    "default",
		HorizonStart: start,
		HorizonEnd:   start, // zero-length horizon is invalid
		ShiftTypes:   []shifttype.ID{"incidents"},
		Mode:         entity.ModePreview,
	})
	require.Error(t, err)
	assert.IsType(t, &service.HorizonInvalidError{}, err)
}
