// Package fairness provides a pure functional algorithm for ranking
// eligible employees for a shift window by projected workload balance,
// without side effects, database access, or external I/O.
package fairness

import (
	"math"
	"sort"

	"github.com/crunchynapkin404/team-planner-sub001/internal/entity"
)

// History is one employee's assigned-day total over the trailing history
// window (default 365 days, see internal/config), keyed by employee id so
// the Calculator never has to know how it was queried.
type History map[entity.EmployeeID]float64

// CandidateState is the running totals the Calculator needs for one
// candidate at ranking time: history load plus whatever this run has
// already tentatively assigned them. Both fields are already
// fairness-weighted sums (each contributing shift's day length multiplied by
// its own shift type's fairness weight), not raw calendar days.
type CandidateState struct {
	Employee        *entity.Employee
	HistoryDays     float64 // fairness-weighted load in the trailing history window
	RunAssignedDays float64 // fairness-weighted load already tentatively assigned this run
}

// Ranked is one candidate with its computed scores, ready to sort.
type Ranked struct {
	EmployeeID      entity.EmployeeID
	ProjectedLoad   float64
	ExpectedLoad    float64
	DeviationRatio  float64
	IndividualScore float64
	SystemScore     float64
	RankingScore    float64
}

// Calculator computes fairness scores and produces a ranked candidate
// order. It holds no state of its own; every method is pure given its
// arguments: no side effects, no I/O.
type Calculator struct {
	// UnderPenaltyScale and OverPenaltyScale are the penalty multipliers
	// (60 for linear under-assignment, applied to |r|; 75 for progressive
	// over-assignment, applied to r^1.5, by default); kept configurable so
	// operators can retune without a code change.
	UnderPenaltyScale float64
	OverPenaltyScale  float64
}

// NewCalculator returns a Calculator configured with the default penalty
// scales (60 under-assignment, 75 over-assignment).
func NewCalculator() *Calculator {
	return &Calculator{UnderPenaltyScale: 60, OverPenaltyScale: 75}
}

// Rank computes a fairness ranking over every candidate in states for the
// pending window whose load is fairnessWeight, then returns them ordered
// best-first by RankingScore, tie-broken deterministically.
//
// Arguments:
//   - states: one CandidateState per eligible employee for this window
//   - fairnessWeight: the pending window's own load, on the same
//     fairness-weighted scale as HistoryDays and RunAssignedDays (the
//     engine passes the window's day length times its shift type's
//     fairness weight)
//   - totalTeamDays: the per-FTE day budget (the team's total
//     fairness-weighted day budget divided by the team's total FTE); each
//     candidate's expected load is their FTE times this value
//
// Algorithm:
//  1. For each candidate, projected_load = history_days + run_assigned_days
//     + fairnessWeight. HistoryDays and RunAssignedDays are already
//     fairness-weighted sums; fairnessWeight contributes the pending
//     window's own load as a separate additive term.
//  2. expected_load = candidate's FTE * totalTeamDays.
//  3. deviation ratio r = (projected_load - expected_load) / expected_load
//     (expected_load == 0 treated as a fully under-loaded candidate, r =
//     -1, to avoid division by zero while still rewarding the pick).
//  4. Over-assignment (r > 0) is penalised progressively: r^1.5 *
//     OverPenaltyScale. Under-assignment (r <= 0) is penalised linearly:
//     |r| * UnderPenaltyScale.
//  5. individual_score = 100 - penalty, floored at 0.
//  6. system_score is the same candidate pool's standard deviation of
//     projected_load, inverted and scaled to 0-100 (lower spread -> higher
//     score), recomputed per-candidate as if that candidate were selected.
//  7. ranking_score = 0.60*individual + 0.25*system_if_selected +
//     0.15*under_load_bonus, where under_load_bonus rewards candidates
//     with r < 0 proportionally to how under-loaded they are.
//  8. Ties broken by: earlier HireDate, then fewer RunAssignedDays, then
//     EmployeeID string order.
//
// Edge Cases Handled:
//   - totalTeamDays == 0 (no team data) -> expected_load 0 for everyone,
//     falls back to comparing projected_load directly via the r=-1 rule.
//   - Single candidate -> system_score trivially 100 (no spread possible).
//   - Negative FTE or zero FTE already rejected upstream by
//     entity.ValidateFTE; this package assumes valid inputs.
func (c *Calculator) Rank(states []CandidateState, fairnessWeight, totalTeamDays float64) []Ranked {
	ranked := make([]Ranked, 0, len(states))
	projected := make([]float64, 0, len(states))

	for _, s := range states {
		load := s.HistoryDays + s.RunAssignedDays + fairnessWeight
		projected = append(projected, load)
	}

	for i, s := range states {
		expected := expectedLoad(s.Employee.FTE, totalTeamDays)
		ratio := deviationRatio(projected[i], expected)
		individual := c.individualScore(ratio)
		ifSelected := make([]float64, len(projected))
		for k, p := range projected {
			ifSelected[k] = p - fairnessWeight
		}
		ifSelected[i] = projected[i]
		system := systemScore(ifSelected)
		under := underLoadBonus(ratio)

		ranking := 0.60*individual + 0.25*system + 0.15*under

		ranked = append(ranked, Ranked{
			EmployeeID:      s.Employee.ID,
			ProjectedLoad:   projected[i],
			ExpectedLoad:    expected,
			DeviationRatio:  ratio,
			IndividualScore: individual,
			SystemScore:     system,
			RankingScore:    ranking,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].RankingScore != ranked[j].RankingScore {
			return ranked[i].RankingScore > ranked[j].RankingScore
		}
		return tieBreak(states, ranked, i, j)
	})

	return ranked
}

// SystemScore exposes the team-wide balance score (100 minus the spread
// of the given projected loads) for a caller that wants a final,
// whole-run figure rather than the per-ranking value embedded in Rank's
// output.
func (c *Calculator) SystemScore(loads []float64) float64 {
	return systemScore(loads)
}

// expectedLoad returns the employee's FTE-proportional share of the
// team's day budget, given the budget per unit of FTE.
func expectedLoad(fte, totalTeamDays float64) float64 {
	if totalTeamDays == 0 {
		return 0
	}
	return fte * totalTeamDays
}

// deviationRatio computes (projected-expected)/expected, falling back to
// -1 (treated as maximally under-loaded) when expected is zero so the
// ranking still favours picking someone over dividing by zero.
func deviationRatio(projected, expected float64) float64 {
	if expected == 0 {
		return -1
	}
	return (projected - expected) / expected
}

// individualScore applies the progressive over-assignment / linear
// under-assignment penalty and floors the result at zero.
func (c *Calculator) individualScore(r float64) float64 {
	var penalty float64
	if r > 0 {
		penalty = math.Pow(r, 1.5) * c.OverPenaltyScale
	} else {
		penalty = math.Abs(r) * c.UnderPenaltyScale
	}
	score := 100 - penalty
	if score < 0 {
		score = 0
	}
	return score
}

// systemScore rewards a candidate pool with low spread in projected load:
// 100 minus the standard deviation scaled down, floored at 0.
func systemScore(projected []float64) float64 {
	if len(projected) <= 1 {
		return 100
	}
	mean := 0.0
	for _, p := range projected {
		mean += p
	}
	mean /= float64(len(projected))

	variance := 0.0
	for _, p := range projected {
		d := p - mean
		variance += d * d
	}
	variance /= float64(len(projected))
	stddev := math.Sqrt(variance)

	score := 100 - stddev
	if score < 0 {
		score = 0
	}
	return score
}

// underLoadBonus rewards negative deviation ratios (under-loaded
// candidates) proportionally, capped at 100.
func underLoadBonus(r float64) float64 {
	if r >= 0 {
		return 0
	}
	bonus := math.Abs(r) * 100
	if bonus > 100 {
		bonus = 100
	}
	return bonus
}

// tieBreak orders by earlier hire date, then fewer days already assigned
// this run, then employee id string order.
func tieBreak(states []CandidateState, ranked []Ranked, i, j int) bool {
	si, sj := findState(states, ranked[i].EmployeeID), findState(states, ranked[j].EmployeeID)
	if si == nil || sj == nil {
		return ranked[i].EmployeeID.String() < ranked[j].EmployeeID.String()
	}
	if !si.Employee.HireDate.Equal(sj.Employee.HireDate) {
		return si.Employee.HireDate.Before(sj.Employee.HireDate)
	}
	if si.RunAssignedDays != sj.RunAssignedDays {
		return si.RunAssignedDays < sj.RunAssignedDays
	}
	return ranked[i].EmployeeID.String() < ranked[j].EmployeeID.String()
}

func findState(states []CandidateState, id entity.EmployeeID) *CandidateState {
	for i := range states {
		if states[i].Employee.ID == id {
			return &states[i]
		}
	}
	return nil
}
