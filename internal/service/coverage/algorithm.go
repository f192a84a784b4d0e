// Package coverage provides a pure functional summary of how well a
// completed planning run covered its enumerated windows, without side
// effects, database access, or external I/O.
package coverage

import (
	"fmt"
	"math"
	"sort"

	"github.com/crunchynapkin404/team-planner-sub001/internal/entity"
)

// Detail is the staffing status for a single shift type within one run.
type Detail struct {
	ShiftType  entity.ShiftTypeID
	Required   int // windows enumerated for this shift type
	Assigned   int // windows that resolved to an employee
	Percentage float64
	Status     Status
}

// Status classifies a shift type's staffing outcome.
type Status string

const (
	StatusFull      Status = "FULL"
	StatusPartial   Status = "PARTIAL"
	StatusUncovered Status = "UNCOVERED"
)

// Metrics is the complete coverage analysis for one PlanningOutcome.
type Metrics struct {
	ByShiftType       map[entity.ShiftTypeID]Detail
	OverallPercentage float64
	UnderStaffedTypes []entity.ShiftTypeID
	Summary           string
}

// Resolve computes coverage metrics from an outcome's assignments and
// unassignable windows.
//
// Algorithm:
//  1. Required per shift type = assigned windows + unassignable windows of
//     that type.
//  2. Assigned per shift type = len(Assignments) of that type.
//  3. Percentage = (assigned/required)*100, capped at 100, rounded to 2
//     decimals.
//  4. FULL when assigned >= required, PARTIAL when 0 < assigned <
//     required, UNCOVERED when assigned == 0.
//
// Edge Cases Handled:
//   - A shift type with zero enumerated windows never appears in the
//     result (nothing to cover).
//   - A shift type fully unassignable shows 0% and UNCOVERED.
func Resolve(outcome *entity.PlanningOutcome) Metrics {
	metrics := Metrics{
		ByShiftType:       make(map[entity.ShiftTypeID]Detail),
		UnderStaffedTypes: []entity.ShiftTypeID{},
	}

	assigned := make(map[entity.ShiftTypeID]int)
	required := make(map[entity.ShiftTypeID]int)

	for _, a := range outcome.Assignments {
		assigned[a.ShiftType]++
		required[a.ShiftType]++
	}
	for _, u := range outcome.Unassignable {
		required[u.ShiftType]++
	}

	types := make([]entity.ShiftTypeID, 0, len(required))
	for st := range required {
		types = append(types, st)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	totalAssigned, totalRequired := 0, 0
	for _, st := range types {
		req := required[st]
		asg := assigned[st]
		pct := percentage(asg, req)

		metrics.ByShiftType[st] = Detail{
			ShiftType:  st,
			Required:   req,
			Assigned:   asg,
			Percentage: pct,
			Status:     status(asg, req),
		}

		totalAssigned += asg
		totalRequired += req
		if asg < req {
			metrics.UnderStaffedTypes = append(metrics.UnderStaffedTypes, st)
		}
	}

	metrics.OverallPercentage = percentage(totalAssigned, totalRequired)
	metrics.Summary = summarize(metrics, len(types))
	return metrics
}

// percentage computes (assigned/required)*100, capped at 100.
func percentage(assigned, required int) float64 {
	if required == 0 {
		return 0
	}
	pct := (float64(assigned) / float64(required)) * 100
	if pct > 100 {
		pct = 100
	}
	return math.Round(pct*100) / 100
}

func status(assigned, required int) Status {
	if assigned >= required {
		return StatusFull
	}
	if assigned > 0 {
		return StatusPartial
	}
	return StatusUncovered
}

func summarize(metrics Metrics, totalTypes int) string {
	if len(metrics.UnderStaffedTypes) == 0 {
		return fmt.Sprintf("full coverage: %d shift types fully staffed (%.1f%% overall)", totalTypes, metrics.OverallPercentage)
	}
	return fmt.Sprintf("coverage: %d/%d shift types under-staffed (%.1f%% overall)",
		len(metrics.UnderStaffedTypes), totalTypes, metrics.OverallPercentage)
}
