package constraint

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crunchynapkin404/team-planner-sub001/internal/entity"
	"github.com/crunchynapkin404/team-planner-sub001/internal/shifttype"
)

func testWindow() shifttype.Window {
	return shifttype.Window{
		Start:     time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC),
		End:       time.Date(2025, 1, 10, 17, 0, 0, 0, time.UTC),
		ShiftType: "incidents",
	}
}

func testDefinition() shifttype.Definition {
	return shifttype.Definition{
		ID:               "incidents",
		MutexGroup:       "primary-oncall",
		FairnessWeight:   5,
		AvailabilityFlag: "incidents",
		Holidays:         entity.HolidaySkip,
	}
}

func newEmployee(available bool) *entity.Employee {
	return &entity.Employee{
		ID:           uuid.New(),
		Name:         "Test Employee",
		FTE:          1.0,
		Active:       true,
		Availability: map[entity.ShiftTypeID]bool{"incidents": available},
	}
}

func TestCheckerEligibleWhenAllChecksPass(t *testing.T) {
	emp := newEmployee(true)
	c := NewChecker()

	result := c.Check(Input{
		Window:     testWindow(),
		Definition: testDefinition(),
		Employees:  []*entity.Employee{emp},
	})

	require.Len(t, result.Eligible, 1)
	assert.Equal(t, emp.ID, result.Eligible[0].EmployeeID)
	assert.Empty(t, result.Rejected)
	assert.Contains(t, result.Eligible[0].Reasons, ReasonMutexClear)
}

func TestCheckerRejectsInactiveEmployee(t *testing.T) {
	emp := newEmployee(true)
	emp.Active = false
	c := NewChecker()

	result := c.Check(Input{Window: testWindow(), Definition: testDefinition(), Employees: []*entity.Employee{emp}})

	require.Len(t, result.Rejected, 1)
	assert.Equal(t, ReasonInactive, result.Rejected[0].Reason)
}

func TestCheckerRejectsUnavailableEmployee(t *testing.T) {
	emp := newEmployee(false)
	c := NewChecker()

	result := c.Check(Input{Window: testWindow(), Definition: testDefinition(), Employees: []*entity.Employee{emp}})

	require.Len(t, result.Rejected, 1)
	assert.Equal(t, ReasonUnavailable, result.Rejected[0].Reason)
}

func TestCheckerRejectsOnApprovedLeave(t *testing.T) {
	emp := newEmployee(true)
	c := NewChecker()

	leave := &entity.LeaveRecord{
		Employee:  emp.ID,
		StartDate: time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC),
		Status:    entity.LeaveApproved,
	}

	result := c.Check(Input{
		Window:     testWindow(),
		Definition: testDefinition(),
		Employees:  []*entity.Employee{emp},
		Leaves:     []*entity.LeaveRecord{leave},
	})

	require.Len(t, result.Rejected, 1)
	assert.Equal(t, ReasonOnLeave, result.Rejected[0].Reason)
}

func TestCheckerIgnoresPendingLeave(t *testing.T) {
	emp := newEmployee(true)
	c := NewChecker()

	leave := &entity.LeaveRecord{
		Employee:  emp.ID,
		StartDate: time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC),
		Status:    entity.LeavePending,
	}

	result := c.Check(Input{
		Window:     testWindow(),
		Definition: testDefinition(),
		Employees:  []*entity.Employee{emp},
		Leaves:     []*entity.LeaveRecord{leave},
	})

	assert.Len(t, result.Eligible, 1)
}

func TestCheckerRejectsOverlappingShift(t *testing.T) {
	emp := newEmployee(true)
	c := NewChecker()

	existing := &entity.Shift{
		ID:               uuid.New(),
		AssignedEmployee: emp.ID,
		Start:            time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC),
		End:              time.Date(2025, 1, 7, 23, 59, 0, 0, time.UTC),
		Status:           entity.ShiftScheduled,
	}

	result := c.Check(Input{
		Window:         testWindow(),
		Definition:     testDefinition(),
		Employees:      []*entity.Employee{emp},
		ExistingShifts: []*entity.Shift{existing},
	})

	require.Len(t, result.Rejected, 1)
	assert.Equal(t, ReasonOverlap, result.Rejected[0].Reason)
}

func TestCheckerIgnoresCancelledOverlappingShift(t *testing.T) {
	emp := newEmployee(true)
	c := NewChecker()

	existing := &entity.Shift{
		ID:               uuid.New(),
		AssignedEmployee: emp.ID,
		Start:            time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC),
		End:              time.Date(2025, 1, 7, 23, 59, 0, 0, time.UTC),
		Status:           entity.ShiftCancelled,
	}

	result := c.Check(Input{
		Window:         testWindow(),
		Definition:     testDefinition(),
		Employees:      []*entity.Employee{emp},
		ExistingShifts: []*entity.Shift{existing},
	})

	assert.Len(t, result.Eligible, 1)
}

func TestCheckerRejectsMutexBlockedEmployee(t *testing.T) {
	emp := newEmployee(true)
	c := NewChecker()

	result := c.Check(Input{
		Window:       testWindow(),
		Definition:   testDefinition(),
		Employees:    []*entity.Employee{emp},
		MutexBlocked: map[entity.EmployeeID]bool{emp.ID: true},
	})

	require.Len(t, result.Rejected, 1)
	assert.Equal(t, ReasonMutexBlocked, result.Rejected[0].Reason)
}

func TestCheckerIgnoresMutexBlockedWhenNoMutexGroup(t *testing.T) {
	emp := newEmployee(true)
	c := NewChecker()
	def := testDefinition()
	def.MutexGroup = ""

	result := c.Check(Input{
		Window:       testWindow(),
		Definition:   def,
		Employees:    []*entity.Employee{emp},
		MutexBlocked: map[entity.EmployeeID]bool{emp.ID: true},
	})

	assert.Len(t, result.Eligible, 1)
}

func TestCheckerEligibleOrderingIsDeterministic(t *testing.T) {
	empA := newEmployee(true)
	empB := newEmployee(true)
	c := NewChecker()

	result := c.Check(Input{Window: testWindow(), Definition: testDefinition(), Employees: []*entity.Employee{empB, empA}})

	require.Len(t, result.Eligible, 2)
	assert.True(t, result.Eligible[0].EmployeeID.String() < result.Eligible[1].EmployeeID.String())
}

func TestCheckerEmptyCandidatePoolNeverErrors(t *testing.T) {
	c := NewChecker()
	result := c.Check(Input{Window: testWindow(), Definition: testDefinition(), Employees: nil})
	assert.Empty(t, result.Eligible)
	assert.Empty(t, result.Rejected)
}
