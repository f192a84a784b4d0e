package service

import (
	"time"

	"github.com/crunchynapkin404/team-planner-sub001/internal/entity"
	"github.com/crunchynapkin404/team-planner-sub001/internal/shifttype"
)

// Request describes one planning invocation: a horizon to cover for a
// team, which shift types to enumerate, and the run semantics (preview
// vs. apply, strict vs. best-effort).
type Request struct {
	TeamScope    string
	HorizonStart time.Time
	HorizonEnd   time.Time

	// ShiftTypes restricts which schedulers run; empty means every
	// registered shift type.
	ShiftTypes []shifttype.ID

	Initiator entity.EmployeeID
	Mode      entity.RunMode

	// Strict aborts the whole run on the first unassignable window when
	// true; when false the run collects every unassignable window and
	// still returns a (partial) outcome.
	Strict bool

	// ExcludeEmployees removes specific employees from consideration,
	// used for sub-horizon replanning around an approved leave without
	// requiring a full auto-reassignment workflow.
	ExcludeEmployees []entity.EmployeeID

	Location        *time.Location
	HolidayCalendar shifttype.HolidayCalendar
}

func (r Request) isExcluded(id entity.EmployeeID) bool {
	for _, excluded := range r.ExcludeEmployees {
		if excluded == id {
			return true
		}
	}
	return false
}

func (r Request) location() *time.Location {
	if r.Location != nil {
		return r.Location
	}
	return time.UTC
}
