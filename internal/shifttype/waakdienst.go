package shifttype

import "time"

// MutexGroupPrimaryOnCall is the mutex group shared by Incidents and
// Waakdienst: an employee may not hold both in the same ISO week. See
// SPEC_FULL.md §9 for why Incidents-Standby deliberately does not participate.
const MutexGroupPrimaryOnCall = "primary-oncall"

// waakdienstScheduler implements "Waakdienst": Wednesday 17:00 local
// through the next Wednesday 08:00, a 7-day on-call block unaffected by
// holidays.
type waakdienstScheduler struct {
	def Definition
}

// NewWaakdienstScheduler returns the on-call Waakdienst scheduler.
func NewWaakdienstScheduler() Scheduler {
	return &waakdienstScheduler{def: Definition{
		ID:               "waakdienst",
		Label:            "Waakdienst",
		MutexGroup:       MutexGroupPrimaryOnCall,
		FairnessWeight:   7,
		AvailabilityFlag: "waakdienst",
		Holidays:         "include",
		Priority:         0,
	}}
}

func (s *waakdienstScheduler) Definition() Definition { return s.def }

func (s *waakdienstScheduler) EnumerateWindows(horizonStart, horizonEnd time.Time, loc *time.Location, calendar HolidayCalendar) []Window {
	var windows []Window

	start := horizonStart.In(loc)
	monday := mondayOfISOWeek(start)
	wednesday := monday.AddDate(0, 0, 2)

	// Start from the Wednesday of the horizon start's ISO week. Only windows
	// that open inside [horizonStart, horizonEnd) are returned: a window
	// already in progress when the horizon opens is not.
	for {
		windowStart := atLocalTime(wednesday, 17, 0)
		windowEnd := atLocalTime(wednesday.AddDate(0, 0, 7), 8, 0)

		if !windowStart.Before(horizonEnd) {
			break
		}
		if !windowStart.Before(horizonStart) {
			if s.def.Holidays != "skip" || !windowTouchesHoliday(windowStart, windowEnd, calendar) {
				windows = append(windows, Window{Start: windowStart, End: windowEnd, ShiftType: s.def.ID})
			}
		}

		wednesday = wednesday.AddDate(0, 0, 7)
	}

	return windows
}
