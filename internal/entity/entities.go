// Package entity defines the typed domain records the orchestration engine
// operates on: Employee, ShiftTemplate, Shift, LeaveRecord and PlanningRun.
// The Repository interface (see internal/repository) is the only I/O seam;
// everything in this package is a plain value with no persistence concerns.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Type aliases for domain IDs, so callers can pass a uuid.UUID wherever an
// entity ID is expected without an explicit conversion.
type (
	EmployeeID    = uuid.UUID
	TemplateID    = uuid.UUID
	ShiftID       = uuid.UUID
	PlanningRunID = uuid.UUID
)

// ShiftTypeID identifies a shift type ("incidents", "waakdienst", ...).
// Kept as a distinct string type (not a uuid alias) because shift types are
// small, operator-configured, stable identifiers rather than generated IDs.
type ShiftTypeID string

// Now returns the current UTC instant. It is a plain helper with no hook
// for substituting a fixed time.
func Now() time.Time {
	return time.Now().UTC()
}

// Employee is a scheduling-eligible staff member.
type Employee struct {
	ID       EmployeeID
	Name     string
	FTE      float64 // full-time-equivalent factor, default 1.0
	HireDate time.Time
	Active   bool

	// Availability is keyed by shift type so new shift types plug in
	// without a schema change. available_for_incidents /
	// available_for_waakdienst are simply Availability["incidents"] /
	// Availability["waakdienst"].
	Availability map[ShiftTypeID]bool
}

// IsAvailableFor reports whether the employee carries the availability flag
// for the given shift type. Missing entries default to false.
func (e *Employee) IsAvailableFor(shiftType ShiftTypeID) bool {
	if e.Availability == nil {
		return false
	}
	return e.Availability[shiftType]
}

// HolidayPolicy controls whether a shift type's window generation skips or
// includes public holidays.
type HolidayPolicy string

const (
	HolidaySkip    HolidayPolicy = "skip"
	HolidayInclude HolidayPolicy = "include"
)

// ShiftTemplate is a named preset used to stamp generated Shifts with
// metadata (start/end defaults, notes, tags, usage counters).
type ShiftTemplate struct {
	ID             TemplateID
	ShiftType      ShiftTypeID
	DefaultStart   string // HH:MM local time
	DefaultEnd     string // HH:MM local time
	Notes          string
	Tags           []string
	FavouriteCount int
	UsageCount     int
}

// ShiftStatus is the lifecycle state of a Shift.
type ShiftStatus string

const (
	ShiftScheduled ShiftStatus = "scheduled"
	ShiftConfirmed ShiftStatus = "confirmed"
	ShiftCancelled ShiftStatus = "cancelled"
)

// Shift is one assignment instance: an employee booked into a time interval
// of a given shift type, stamped from a template.
type Shift struct {
	ID               ShiftID
	TemplateRef      TemplateID
	ShiftType        ShiftTypeID
	TeamScope        string
	AssignedEmployee EmployeeID
	Start            time.Time
	End              time.Time
	Status           ShiftStatus
	AutoGenerated    bool
	CreatedAt        time.Time
}

// Active reports whether the shift currently occupies the employee's
// calendar (i.e. is not cancelled).
func (s *Shift) Active() bool {
	return s.Status != ShiftCancelled
}

// OverlapsInterval reports whether the shift's [Start,End) interval
// overlaps the given half-open interval.
func (s *Shift) OverlapsInterval(start, end time.Time) bool {
	return s.Start.Before(end) && start.Before(s.End)
}

// Validate checks the Shift invariant: Start < End.
func (s *Shift) Validate() error {
	if !s.Start.Before(s.End) {
		return ErrInvalidInterval
	}
	return nil
}

// LeaveStatus is the approval state of a LeaveRecord.
type LeaveStatus string

const (
	LeaveApproved LeaveStatus = "approved"
	LeavePending  LeaveStatus = "pending"
	LeaveDenied   LeaveStatus = "denied"
)

// LeaveRecord represents a (possibly approved) absence. Only approved
// records block scheduling.
type LeaveRecord struct {
	Employee  EmployeeID
	StartDate time.Time
	EndDate   time.Time // inclusive
	Status    LeaveStatus
}

// OverlapsWindow reports whether the (inclusive, day-granular) leave
// interval overlaps the half-open [windowStart, windowEnd) instant window.
func (l *LeaveRecord) OverlapsWindow(windowStart, windowEnd time.Time) bool {
	// EndDate is inclusive of the whole day, so push it to end-of-day.
	leaveEnd := l.EndDate.Add(24 * time.Hour)
	return l.StartDate.Before(windowEnd) && windowStart.Before(leaveEnd)
}

// RunMode selects preview (no persistence) or apply (persisted) semantics
// for a PlanningRun.
type RunMode string

const (
	ModePreview RunMode = "preview"
	ModeApply   RunMode = "apply"
)

// PlanningRun is the record of one orchestration invocation.
type PlanningRun struct {
	ID           PlanningRunID
	HorizonStart time.Time
	HorizonEnd   time.Time
	TeamScope    string
	Initiator    EmployeeID
	RequestedAt  time.Time
	Mode         RunMode
	Outcome      *PlanningOutcome
	Committed    bool
}

// Assignment is one proposed-or-created Shift descriptor in a
// PlanningOutcome.
type Assignment struct {
	ShiftType     ShiftTypeID
	Start         time.Time
	End           time.Time
	EmployeeID    EmployeeID
	TemplateID    TemplateID
	AutoGenerated bool
}

// UnassignableWindow records a window for which no candidate passed the
// constraint checks during a run.
type UnassignableWindow struct {
	ShiftType ShiftTypeID
	Start     time.Time
	End       time.Time
	Reason    string
}

// EmployeeSummary is the per-employee metrics block in a PlanningOutcome.
type EmployeeSummary struct {
	EmployeeID      EmployeeID
	AssignedDays    float64
	ProjectedLoad   float64
	IndividualScore float64
}

// PlanningOutcome is the aggregated result of one planning run.
type PlanningOutcome struct {
	Assignments       []Assignment
	Unassignable      []UnassignableWindow
	PerEmployee       map[EmployeeID]EmployeeSummary
	PerShiftTypeCount map[ShiftTypeID]int
	SystemScore       float64
	AverageIndividual float64
}
