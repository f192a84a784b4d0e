// Package shifttype models shift types as values implementing a small
// interface (window rule, fairness weight, mutex group, holiday policy)
// rather than as subclasses with behaviour scattered across files.
package shifttype

import (
	"time"

	"github.com/crunchynapkin404/team-planner-sub001/internal/entity"
)

// ID re-exports entity.ShiftTypeID so callers rarely need to import both
// packages just to name a shift type.
type ID = entity.ShiftTypeID

// Window is a single schedulable interval of a given shift type.
type Window struct {
	Start     time.Time
	End       time.Time
	ShiftType ID
}

// HolidayCalendar answers whether a given local date is a public holiday.
// Injected so operators can supply a real calendar; a fixed-dates
// implementation (FixedHolidayCalendar) ships for tests and simple setups.
type HolidayCalendar interface {
	IsHoliday(date time.Time) bool
}

// Definition is the per-shift-type policy block: label, mutex group,
// fairness weight, availability flag, holiday policy.
type Definition struct {
	ID               ID
	Label            string
	MutexGroup       string
	FairnessWeight   float64
	AvailabilityFlag ID
	Holidays         entity.HolidayPolicy
	// Priority breaks ties in window ordering when two windows share the
	// same start instant; lower values are processed first. Longer-block
	// types get a lower (earlier) priority to reduce thrashing against
	// shorter-block types competing for the same employees.
	Priority int
}

// Scheduler is one shift-type plug-in: it knows how to partition a
// horizon into Windows of its own shift type and whether a given date is
// a holiday per its own policy.
type Scheduler interface {
	Definition() Definition
	EnumerateWindows(horizonStart, horizonEnd time.Time, loc *time.Location, calendar HolidayCalendar) []Window
}

// mondayOfISOWeek returns 00:00 Monday of the ISO week containing t, in t's
// location.
func mondayOfISOWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 { // Sunday
		weekday = 7
	}
	daysSinceMonday := weekday - 1
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return midnight.AddDate(0, 0, -daysSinceMonday)
}

// atLocalTime returns the instant on date's calendar day at hour:minute in
// date's location.
func atLocalTime(date time.Time, hour, minute int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location())
}

// windowTouchesHoliday reports whether any calendar day covered by
// [start,end) is a holiday.
func windowTouchesHoliday(start, end time.Time, calendar HolidayCalendar) bool {
	if calendar == nil {
		return false
	}
	for d := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location()); d.Before(end); d = d.AddDate(0, 0, 1) {
		if calendar.IsHoliday(d) {
			return true
		}
	}
	return false
}
