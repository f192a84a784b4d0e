package service

import (
	"time"

	"github.com/crunchynapkin404/team-planner-sub001/internal/entity"
	"github.com/crunchynapkin404/team-planner-sub001/internal/fairness"
	"github.com/crunchynapkin404/team-planner-sub001/internal/shifttype"
)

// runState carries the mutable totals a single computeOutcome pass
// accumulates as it walks windows in order: every shift assigned so far
// (persisted plus tentative), per-employee running day counts, and the
// mutex-group-by-ISO-week map the constraint checker consults for the
// next window.
type runState struct {
	tentative []*entity.Shift

	// runAssigned is fairness-weighted (each shift's day length times its
	// shift type's FairnessWeight) — the running load term the Calculator
	// adds into projected_load. rawAssignedDays tracks true calendar days
	// for reporting.
	runAssigned     map[entity.EmployeeID]float64
	rawAssignedDays map[entity.EmployeeID]float64
	weightedLoad    map[entity.EmployeeID]float64

	// mutexAssigned is keyed by mutexKey(group, windowStart) -> set of
	// employees already holding an assignment in that group for that ISO
	// week.
	mutexAssigned map[string]map[entity.EmployeeID]bool

	individualSum  float64
	individualHits int

	lastScore map[entity.EmployeeID]float64
}

// seedMutexFromPersisted pre-populates the mutex map from shifts already
// in the repository before this run started, so a persisted Incidents
// assignment blocks a Waakdienst pick in the same ISO week even though
// this run never touches the Incidents window again.
func (r *runState) seedMutexFromPersisted(persisted []*entity.Shift, registry *shifttype.Registry) {
	for _, shift := range persisted {
		if !shift.Active() {
			continue
		}
		scheduler, ok := registry.Get(shift.ShiftType)
		if !ok {
			continue
		}
		def := scheduler.Definition()
		if def.MutexGroup == "" {
			continue
		}
		r.markMutex(def.MutexGroup, shift.Start, shift.AssignedEmployee)
	}
}

func (r *runState) markMutex(group string, windowStart time.Time, employee entity.EmployeeID) {
	key := mutexKey(group, windowStart)
	if r.mutexAssigned[key] == nil {
		r.mutexAssigned[key] = make(map[entity.EmployeeID]bool)
	}
	r.mutexAssigned[key][employee] = true
}

// assign records a winning pick: appends the tentative shift, bumps the
// winner's running fairness-weighted load, and marks the mutex group for
// this ISO week if the shift type participates in one.
func (r *runState) assign(shift *entity.Shift, def shifttype.Definition, winner fairness.Ranked) {
	r.tentative = append(r.tentative, shift)

	days := shift.End.Sub(shift.Start).Hours() / 24
	r.runAssigned[winner.EmployeeID] += days * def.FairnessWeight
	r.rawAssignedDays[winner.EmployeeID] += days
	r.weightedLoad[winner.EmployeeID] = winner.ProjectedLoad

	if r.lastScore == nil {
		r.lastScore = make(map[entity.EmployeeID]float64)
	}
	r.lastScore[winner.EmployeeID] = winner.IndividualScore

	r.individualSum += winner.IndividualScore
	r.individualHits++

	if def.MutexGroup == "" {
		return
	}
	r.markMutex(def.MutexGroup, shift.Start, winner.EmployeeID)
}

// lastIndividual returns the most recent individual score an employee
// earned this run, or 0 if they were never assigned.
func (r *runState) lastIndividual(id entity.EmployeeID) float64 {
	if r.lastScore == nil {
		return 0
	}
	return r.lastScore[id]
}
