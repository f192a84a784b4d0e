package shifttype

import "time"

// incidentsStandbyScheduler implements "Incidents-Standby": the same
// business-hours grid as Incidents, but a disjoint assignee pool. It does
// not share a mutex group with Incidents — an employee may legally hold
// both standby and primary on-call duty in other weeks, but never the
// same slot twice; the constraint checker's own-shift-overlap check
// already prevents the same employee being picked for both Incidents and
// Standby in the identical window, since the windows are time-identical.
type incidentsStandbyScheduler struct {
	def Definition
}

// NewIncidentsStandbyScheduler returns the Incidents-Standby scheduler.
func NewIncidentsStandbyScheduler() Scheduler {
	return &incidentsStandbyScheduler{def: Definition{
		ID:               "incidents_standby",
		Label:            "Incidents Standby",
		MutexGroup:       "", // deliberately outside the primary-oncall mutex group
		FairnessWeight:   5,
		AvailabilityFlag: "incidents_standby",
		Holidays:         "skip",
		Priority:         2,
	}}
}

func (s *incidentsStandbyScheduler) Definition() Definition { return s.def }

func (s *incidentsStandbyScheduler) EnumerateWindows(horizonStart, horizonEnd time.Time, loc *time.Location, calendar HolidayCalendar) []Window {
	return businessHoursWindows(s.def, horizonStart, horizonEnd, loc, calendar)
}
