// Package constraint implements the constraint checker: given a shift
// window and shift type, it returns the eligible employee set. It is a
// pure decision function — no I/O, no side effects, deterministic given
// identical inputs.
package constraint

import (
	"sort"

	"github.com/crunchynapkin404/team-planner-sub001/internal/entity"
	"github.com/crunchynapkin404/team-planner-sub001/internal/shifttype"
)

// Reason codes for both pass annotations and rejection reasons. Kept as
// plain strings (not an enum) since callers surface them verbatim in
// diagnostics and in UnassignableWindow.Reason.
const (
	ReasonActive       = "active"
	ReasonAvailable    = "available_for_shift_type"
	ReasonNoLeave      = "no_leave_conflict"
	ReasonNoOverlap    = "no_existing_shift_overlap"
	ReasonMutexClear   = "mutex_clear"
	ReasonInactive     = "employee_inactive"
	ReasonUnavailable  = "availability_flag_not_set"
	ReasonOnLeave      = "approved_leave_overlaps_window"
	ReasonOverlap      = "existing_shift_overlaps_window"
	ReasonMutexBlocked = "mutex_group_conflict_same_iso_week"
)

// Candidate is an employee who passed every check, annotated with the
// reasons they passed (useful for diagnostics).
type Candidate struct {
	EmployeeID entity.EmployeeID
	Reasons    []string
}

// Rejected is an employee who failed a check, with the first-failing
// reason (checks short-circuit, so only one reason is ever recorded).
type Rejected struct {
	EmployeeID entity.EmployeeID
	Reason     string
}

// Result is the outcome of checking one window against a candidate pool.
// Eligible is ordered deterministically by employee id.
type Result struct {
	Eligible []Candidate
	Rejected []Rejected
}

// Input bundles everything the Checker needs to evaluate one window. The
// caller (Orchestrator) is responsible for assembling ExistingShifts and
// MutexBlocked from the Repository plus the current run's tentative
// assignments, since only the Orchestrator knows "this run" state.
type Input struct {
	Window     shifttype.Window
	Definition shifttype.Definition
	Employees  []*entity.Employee
	Leaves     []*entity.LeaveRecord

	// ExistingShifts is every non-cancelled shift (persisted or tentative
	// from this run) that could overlap Window, across all employees.
	ExistingShifts []*entity.Shift

	// MutexBlocked holds employees who already have an assignment this
	// ISO week in a shift type sharing Definition.MutexGroup (persisted or
	// tentative), computed by the caller since it requires visibility
	// across shift types that this package does not otherwise see.
	// Ignored when Definition.MutexGroup is empty.
	MutexBlocked map[entity.EmployeeID]bool
}

// Checker evaluates five ordered checks and never errors on "zero
// candidates" — it returns an empty Result.Eligible and lets the caller
// (Orchestrator) decide how to report that.
type Checker struct{}

// NewChecker returns a stateless Checker. Stateless because every check
// is pure given Input; there is nothing to construct.
func NewChecker() *Checker {
	return &Checker{}
}

// Check evaluates every employee in Input.Employees against the five
// ordered checks, short-circuiting per employee on the first failure.
//
// Checks, in order:
//  1. Employee is active.
//  2. Availability flag for the shift type is true.
//  3. No approved LeaveRecord overlaps [window.Start, window.End).
//  4. No existing non-cancelled Shift of this employee overlaps the window.
//  5. Mutex group: no assignment in the same ISO week for a shift type in
//     the same mutex group (persisted or tentative this run).
func (c *Checker) Check(in Input) Result {
	var result Result

	for _, emp := range in.Employees {
		candidate, reasons, rejection := c.evaluate(emp, in)
		if rejection != nil {
			result.Rejected = append(result.Rejected, *rejection)
			continue
		}
		if candidate {
			result.Eligible = append(result.Eligible, Candidate{EmployeeID: emp.ID, Reasons: reasons})
		}
	}

	sort.Slice(result.Eligible, func(i, j int) bool {
		return result.Eligible[i].EmployeeID.String() < result.Eligible[j].EmployeeID.String()
	})
	sort.Slice(result.Rejected, func(i, j int) bool {
		return result.Rejected[i].EmployeeID.String() < result.Rejected[j].EmployeeID.String()
	})

	return result
}

func (c *Checker) evaluate(emp *entity.Employee, in Input) (eligible bool, reasons []string, rejection *Rejected) {
	if !emp.Active {
		return false, nil, &Rejected{EmployeeID: emp.ID, Reason: ReasonInactive}
	}
	reasons = append(reasons, ReasonActive)

	if !emp.IsAvailableFor(in.Definition.AvailabilityFlag) {
		return false, nil, &Rejected{EmployeeID: emp.ID, Reason: ReasonUnavailable}
	}
	reasons = append(reasons, ReasonAvailable)

	for _, leave := range in.Leaves {
		if leave.Employee != emp.ID || leave.Status != entity.LeaveApproved {
			continue
		}
		if leave.OverlapsWindow(in.Window.Start, in.Window.End) {
			return false, nil, &Rejected{EmployeeID: emp.ID, Reason: ReasonOnLeave}
		}
	}
	reasons = append(reasons, ReasonNoLeave)

	for _, shift := range in.ExistingShifts {
		if shift.AssignedEmployee != emp.ID || !shift.Active() {
			continue
		}
		if shift.OverlapsInterval(in.Window.Start, in.Window.End) {
			return false, nil, &Rejected{EmployeeID: emp.ID, Reason: ReasonOverlap}
		}
	}
	reasons = append(reasons, ReasonNoOverlap)

	if in.Definition.MutexGroup != "" && in.MutexBlocked != nil && in.MutexBlocked[emp.ID] {
		return false, nil, &Rejected{EmployeeID: emp.ID, Reason: ReasonMutexBlocked}
	}
	reasons = append(reasons, ReasonMutexClear)

	return true, reasons, nil
}
