// Package helpers provides fluent builders for constructing entity values
// in tests without repeating every field on every call site.
package helpers

import (
	"time"

	"github.com/google/uuid"

	"github.com/crunchynapkin404/team-planner-sub001/internal/entity"
)

// EmployeeBuilder builds entity.Employee values with a fluent interface.
type EmployeeBuilder struct {
	id           uuid.UUID
	name         string
	fte          float64
	hireDate     time.Time
	active       bool
	availability map[entity.ShiftTypeID]bool
}

// NewEmployeeBuilder returns a builder defaulted to an active, full-time
// employee hired a year ago, available for nothing until WithAvailableFor
// is called.
func NewEmployeeBuilder() *EmployeeBuilder {
	return &EmployeeBuilder{
		id:           uuid.New(),
		name:         "Test Employee",
		fte:          1.0,
		hireDate:     entity.Now().AddDate(-1, 0, 0),
		active:       true,
		availability: make(map[entity.ShiftTypeID]bool),
	}
}

func (b *EmployeeBuilder) WithID(id uuid.UUID) *EmployeeBuilder {
	b.id = id
	return b
}

func (b *EmployeeBuilder) WithName(name string) *EmployeeBuilder {
	b.name = name
	return b
}

func (b *EmployeeBuilder) WithFTE(fte float64) *EmployeeBuilder {
	b.fte = fte
	return b
}

func (b *EmployeeBuilder) WithHireDate(hireDate time.Time) *EmployeeBuilder {
	b.hireDate = hireDate
	return b
}

func (b *EmployeeBuilder) WithActive(active bool) *EmployeeBuilder {
	b.active = active
	return b
}

func (b *EmployeeBuilder) WithAvailableFor(shiftTypes ...entity.ShiftTypeID) *EmployeeBuilder {
	for _, st := range shiftTypes {
		b.availability[st] = true
	}
	return b
}

// Build creates the Employee entity.
func (b *EmployeeBuilder) Build() *entity.Employee {
	return &entity.Employee{
		ID:           b.id,
		Name:         b.name,
		FTE:          b.fte,
		HireDate:     b.hireDate,
		Active:       b.active,
		Availability: b.availability,
	}
}

// ShiftBuilder builds entity.Shift values with a fluent interface.
type ShiftBuilder struct {
	id               uuid.UUID
	shiftType        entity.ShiftTypeID
	teamScope        string
	assignedEmployee uuid.UUID
	start            time.Time
	end              time.Time
	status           entity.ShiftStatus
	autoGenerated    bool
}

// NewShiftBuilder returns a builder defaulted to a one-day scheduled
// shift starting now, for team scope "default".
func NewShiftBuilder() *ShiftBuilder {
	now := entity.Now()
	return &ShiftBuilder{
		id:        uuid.New(),
		teamScope: "default",
		start:     now,
		end:       now.AddDate(0, 0, 1),
		status:    entity.ShiftScheduled,
	}
}

func (b *ShiftBuilder) WithID(id uuid.UUID) *ShiftBuilder {
	b.id = id
	return b
}

func (b *ShiftBuilder) WithShiftType(shiftType entity.ShiftTypeID) *ShiftBuilder {
	b.shiftType = shiftType
	return b
}

func (b *ShiftBuilder) WithTeamScope(teamScope string) *ShiftBuilder {
	b.teamScope = teamScope
	return b
}

func (b *ShiftBuilder) WithAssignedEmployee(id uuid.UUID) *ShiftBuilder {
	b.assignedEmployee = id
	return b
}

func (b *ShiftBuilder) WithInterval(start, end time.Time) *ShiftBuilder {
	b.start = start
	b.end = end
	return b
}

func (b *ShiftBuilder) WithStatus(status entity.ShiftStatus) *ShiftBuilder {
	b.status = status
	return b
}

func (b *ShiftBuilder) WithAutoGenerated(auto bool) *ShiftBuilder {
	b.autoGenerated = auto
	return b
}

// Build creates the Shift entity.
func (b *ShiftBuilder) Build() *entity.Shift {
	return &entity.Shift{
		ID:               b.id,
		ShiftType:        b.shiftType,
		TeamScope:        b.teamScope,
		AssignedEmployee: b.assignedEmployee,
		Start:            b.start,
		End:              b.end,
		Status:           b.status,
		AutoGenerated:    b.autoGenerated,
		CreatedAt:        entity.Now(),
	}
}

// LeaveBuilder builds entity.LeaveRecord values with a fluent interface.
type LeaveBuilder struct {
	employee  uuid.UUID
	startDate time.Time
	endDate   time.Time
	status    entity.LeaveStatus
}

// NewLeaveBuilder returns a builder defaulted to a single approved day of
// leave starting now.
func NewLeaveBuilder() *LeaveBuilder {
	now := entity.Now()
	return &LeaveBuilder{
		startDate: now,
		endDate:   now,
		status:    entity.LeaveApproved,
	}
}

func (b *LeaveBuilder) WithEmployee(id uuid.UUID) *LeaveBuilder {
	b.employee = id
	return b
}

func (b *LeaveBuilder) WithDates(start, end time.Time) *LeaveBuilder {
	b.startDate = start
	b.endDate = end
	return b
}

func (b *LeaveBuilder) WithStatus(status entity.LeaveStatus) *LeaveBuilder {
	b.status = status
	return b
}

// Build creates the LeaveRecord entity.
func (b *LeaveBuilder) Build() *entity.LeaveRecord {
	return &entity.LeaveRecord{
		Employee:  b.employee,
		StartDate: b.startDate,
		EndDate:   b.endDate,
		Status:    b.status,
	}
}

// HorizonBuilder builds a [start, end) planning horizon anchored on a
// Monday so shift-type window enumeration lines up with ISO week
// boundaries by default.
type HorizonBuilder struct {
	start time.Time
	weeks int
}

// NewHorizonBuilder returns a builder defaulted to a 4-week horizon
// starting the Monday on or after the given date.
func NewHorizonBuilder(from time.Time) *HorizonBuilder {
	return &HorizonBuilder{start: mondayOnOrAfter(from), weeks: 4}
}

func (b *HorizonBuilder) WithWeeks(weeks int) *HorizonBuilder {
	b.weeks = weeks
	return b
}

// Build returns the [start, end) instant pair.
func (b *HorizonBuilder) Build() (time.Time, time.Time) {
	return b.start, b.start.AddDate(0, 0, 7*b.weeks)
}

func mondayOnOrAfter(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	if weekday == 1 {
		return midnight
	}
	return midnight.AddDate(0, 0, 8-weekday)
}
