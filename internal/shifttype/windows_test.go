package shifttype

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amsterdam(t *testing.T) *time.Location {
	loc, err := time.LoadLocation("Europe/Amsterdam")
	require.NoError(t, err)
	return loc
}

// TestIncidentsEnumerateWindows_ScenarioA covers a 4-week horizon, which
// should yield exactly 4 Incidents blocks.
func TestIncidentsEnumerateWindows_ScenarioA(t *testing.T) {
	loc := amsterdam(t)
	horizonStart := time.Date(2025, 1, 6, 0, 0, 0, 0, loc)
	horizonEnd := time.Date(2025, 2, 3, 0, 0, 0, 0, loc)

	windows := NewIncidentsScheduler().EnumerateWindows(horizonStart, horizonEnd, loc, nil)

	require.Len(t, windows, 4)
	assert.Equal(t, time.Date(2025, 1, 6, 8, 0, 0, 0, loc), windows[0].Start)
	assert.Equal(t, time.Date(2025, 1, 10, 17, 0, 0, 0, loc), windows[0].End)
	assert.Equal(t, ID("incidents"), windows[0].ShiftType)

	assert.Equal(t, time.Date(2025, 1, 27, 8, 0, 0, 0, loc), windows[3].Start)
	assert.Equal(t, time.Date(2025, 1, 31, 17, 0, 0, 0, loc), windows[3].End)
}

func TestIncidentsEnumerateWindows_SkipsHoliday(t *testing.T) {
	loc := amsterdam(t)
	horizonStart := time.Date(2025, 1, 6, 0, 0, 0, 0, loc)
	horizonEnd := time.Date(2025, 1, 13, 0, 0, 0, 0, loc)
	calendar := NewFixedHolidayCalendar(time.Date(2025, 1, 6, 0, 0, 0, 0, loc))

	windows := NewIncidentsScheduler().EnumerateWindows(horizonStart, horizonEnd, loc, calendar)
	assert.Empty(t, windows)
}

func TestWaakdienstEnumerateWindows_ScenarioA(t *testing.T) {
	loc := amsterdam(t)
	horizonStart := time.Date(2025, 1, 6, 0, 0, 0, 0, loc)
	horizonEnd := time.Date(2025, 2, 3, 0, 0, 0, 0, loc)

	windows := NewWaakdienstScheduler().EnumerateWindows(horizonStart, horizonEnd, loc, nil)

	require.Len(t, windows, 4)
	assert.Equal(t, time.Date(2025, 1, 8, 17, 0, 0, 0, loc), windows[0].Start)
	assert.Equal(t, time.Date(2025, 1, 15, 8, 0, 0, 0, loc), windows[0].End)
	assert.Equal(t, ID("waakdienst"), windows[0].ShiftType)
}

func TestWaakdienstUnaffectedByHolidays(t *testing.T) {
	loc := amsterdam(t)
	horizonStart := time.Date(2025, 1, 6, 0, 0, 0, 0, loc)
	horizonEnd := time.Date(2025, 1, 16, 0, 0, 0, 0, loc)
	calendar := NewFixedHolidayCalendar(time.Date(2025, 1, 10, 0, 0, 0, 0, loc))

	// Windows open Jan 8 17:00 and Jan 15 17:00; the first spans the Jan 10
	// holiday and is still generated.
	windows := NewWaakdienstScheduler().EnumerateWindows(horizonStart, horizonEnd, loc, calendar)
	require.Len(t, windows, 2)
}

func TestDefaultRegistryEnabledFiltersUnknown(t *testing.T) {
	r := NewDefaultRegistry()
	schedulers := r.Enabled([]ID{"incidents", "bogus"})
	require.Len(t, schedulers, 1)
	assert.Equal(t, ID("incidents"), schedulers[0].Definition().ID)
}

func TestDefaultRegistryEnabledEmptyReturnsAll(t *testing.T) {
	r := NewDefaultRegistry()
	assert.Len(t, r.Enabled(nil), 3)
}
