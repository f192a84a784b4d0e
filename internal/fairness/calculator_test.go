package fairness

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crunchynapkin404/team-planner-sub001/internal/entity"
)

func newCandidate(hireDate time.Time, fte, historyDays, runAssignedDays float64) CandidateState {
	return CandidateState{
		Employee: &entity.Employee{
			ID:       uuid.New(),
			FTE:      fte,
			HireDate: hireDate,
			Active:   true,
		},
		HistoryDays:     historyDays,
		RunAssignedDays: runAssignedDays,
	}
}

func TestRankPrefersUnderLoadedCandidate(t *testing.T) {
	c := NewCalculator()
	light := newCandidate(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 1.0, 0, 0)
	heavy := newCandidate(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 1.0, 100, 0)

	ranked := c.Rank([]CandidateState{heavy, light}, 1.0, 100)

	require.Len(t, ranked, 2)
	assert.Equal(t, light.Employee.ID, ranked[0].EmployeeID)
}

func TestRankPenalisesOverAssignmentProgressively(t *testing.T) {
	c := NewCalculator()
	candidate := newCandidate(time.Now(), 1.0, 50, 0)

	ranked := c.Rank([]CandidateState{candidate}, 1.0, 10)

	require.Len(t, ranked, 1)
	assert.Greater(t, ranked[0].DeviationRatio, 0.0)
	assert.Less(t, ranked[0].IndividualScore, 100.0)
}

func TestRankZeroExpectedLoadTreatsCandidateAsUnderLoaded(t *testing.T) {
	c := NewCalculator()
	candidate := newCandidate(time.Now(), 1.0, 0, 0)

	ranked := c.Rank([]CandidateState{candidate}, 1.0, 0)

	require.Len(t, ranked, 1)
	assert.Equal(t, -1.0, ranked[0].DeviationRatio)
}

func TestRankSingleCandidateSystemScoreIsMax(t *testing.T) {
	c := NewCalculator()
	candidate := newCandidate(time.Now(), 1.0, 10, 0)

	ranked := c.Rank([]CandidateState{candidate}, 1.0, 10)

	require.Len(t, ranked, 1)
	assert.Equal(t, 100.0, ranked[0].SystemScore)
}

func TestRankTieBreaksByHireDateThenRunAssignedDaysThenID(t *testing.T) {
	c := NewCalculator()
	earlier := newCandidate(time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC), 1.0, 10, 0)
	later := newCandidate(time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), 1.0, 10, 0)

	ranked := c.Rank([]CandidateState{later, earlier}, 1.0, 20)

	require.Len(t, ranked, 2)
	assert.Equal(t, earlier.Employee.ID, ranked[0].EmployeeID)

	fewerRun := newCandidate(time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC), 1.0, 10, 0)
	moreRun := newCandidate(time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC), 1.0, 9, 1)

	ranked = c.Rank([]CandidateState{moreRun, fewerRun}, 1.0, 20)

	require.Len(t, ranked, 2)
	assert.Equal(t, fewerRun.Employee.ID, ranked[0].EmployeeID)

	low := newCandidate(time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC), 1.0, 10, 0)
	high := newCandidate(time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC), 1.0, 10, 0)
	if high.Employee.ID.String() < low.Employee.ID.String() {
		low, high = high, low
	}

	ranked = c.Rank([]CandidateState{high, low}, 1.0, 20)

	require.Len(t, ranked, 2)
	assert.Equal(t, low.Employee.ID, ranked[0].EmployeeID)
}

func TestRankIsDeterministicAcrossRepeatedCalls(t *testing.T) {
	c := NewCalculator()
	states := []CandidateState{
		newCandidate(time.Date(2019, 5, 1, 0, 0, 0, 0, time.UTC), 1.0, 30, 1),
		newCandidate(time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC), 0.8, 10, 0),
		newCandidate(time.Date(2020, 7, 1, 0, 0, 0, 0, time.UTC), 1.0, 20, 2),
	}

	first := c.Rank(states, 1.0, 60)
	second := c.Rank(states, 1.0, 60)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].EmployeeID, second[i].EmployeeID)
	}
}
