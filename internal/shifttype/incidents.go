package shifttype

import "time"

// incidentsScheduler implements the "Incidents" shift type: Monday 08:00
// through Friday 17:00 local time, anchored on ISO weeks overlapping the
// horizon.
type incidentsScheduler struct {
	def Definition
}

// NewIncidentsScheduler returns the business-hours Incidents scheduler.
func NewIncidentsScheduler() Scheduler {
	return &incidentsScheduler{def: Definition{
		ID:               "incidents",
		Label:            "Incidents",
		MutexGroup:       MutexGroupPrimaryOnCall,
		FairnessWeight:   5,
		AvailabilityFlag: "incidents",
		Holidays:         "skip",
		Priority:         1,
	}}
}

func (s *incidentsScheduler) Definition() Definition { return s.def }

func (s *incidentsScheduler) EnumerateWindows(horizonStart, horizonEnd time.Time, loc *time.Location, calendar HolidayCalendar) []Window {
	return businessHoursWindows(s.def, horizonStart, horizonEnd, loc, calendar)
}

// businessHoursWindows builds one Mon08:00-Fri17:00 window per ISO week
// overlapping the horizon, shared by Incidents and Incidents-Standby since
// they run on the identical grid.
func businessHoursWindows(def Definition, horizonStart, horizonEnd time.Time, loc *time.Location, calendar HolidayCalendar) []Window {
	var windows []Window

	start := horizonStart.In(loc)
	monday := mondayOfISOWeek(start)

	for {
		windowStart := atLocalTime(monday, 8, 0)
		fridayDate := monday.AddDate(0, 0, 4)
		windowEnd := atLocalTime(fridayDate, 17, 0)

		if !windowStart.Before(horizonEnd) {
			break
		}
		if windowEnd.After(horizonStart) {
			if def.Holidays != "skip" || !windowTouchesHoliday(windowStart, windowEnd, calendar) {
				windows = append(windows, Window{Start: windowStart, End: windowEnd, ShiftType: def.ID})
			}
		}

		monday = monday.AddDate(0, 0, 7)
	}

	return windows
}
