package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/crunchynapkin404/team-planner-sub001/internal/constraint"
	"github.com/crunchynapkin404/team-planner-sub001/internal/entity"
	"github.com/crunchynapkin404/team-planner-sub001/internal/fairness"
	"github.com/crunchynapkin404/team-planner-sub001/internal/repository"
	"github.com/crunchynapkin404/team-planner-sub001/internal/shifttype"
	"github.com/crunchynapkin404/team-planner-sub001/internal/validation"
)

// repoAccessor is the subset of repository.Database/repository.Transaction
// the planning engine reads and writes through; satisfied by both so the
// same computeOutcome runs identically for preview (no transaction) and
// apply (inside one).
type repoAccessor interface {
	EmployeeRepository() repository.EmployeeRepository
	LeaveRepository() repository.LeaveRepository
	ShiftRepository() repository.ShiftRepository
	TemplateRepository() repository.TemplateRepository
	PlanningRunRepository() repository.PlanningRunRepository
}

// windowJob pairs one enumerated window with its shift type's
// configuration, so the processing loop below does not need to
// re-resolve the Definition on every step.
type windowJob struct {
	Window     shifttype.Window
	Definition shifttype.Definition
}

// planEngine holds the three decision-making collaborators the
// Orchestrator wires together: the shift-type registry, the constraint
// checker, and the fairness calculator.
type planEngine struct {
	registry   *shifttype.Registry
	checker    *constraint.Checker
	calculator *fairness.Calculator

	historyWindowDays int
	historyCache      *historyCache
}

// computeOutcome runs the full window-by-window planning algorithm:
// validate horizon, enumerate windows in chronological order, constraint-
// check and fairness-rank each window's candidates, tentatively assign
// the winner, and assemble the aggregated PlanningOutcome. It performs no
// writes — repos is read-only from this function's perspective even when
// given a Transaction, so the same code path serves both preview and the
// re-check pass inside apply.
func (e *planEngine) computeOutcome(ctx context.Context, repos repoAccessor, req Request) (*entity.PlanningOutcome, *validation.Result, error) {
	if err := entity.ValidateHorizon(req.HorizonStart, req.HorizonEnd); err != nil {
		return nil, nil, &HorizonInvalidError{TeamScope: req.TeamScope, Err: err}
	}

	result := validation.NewResult()
	loc := req.location()

	employees, err := repos.EmployeeRepository().ListActive(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list active employees: %w", err)
	}
	pool := make([]*entity.Employee, 0, len(employees))
	for _, emp := range employees {
		if !req.isExcluded(emp.ID) {
			pool = append(pool, emp)
		}
	}

	jobs, err := e.enumerateJobs(req, loc)
	if err != nil {
		return nil, nil, err
	}

	leaves, err := repos.LeaveRepository().GetByWindow(ctx, req.HorizonStart, req.HorizonEnd)
	if err != nil {
		return nil, nil, fmt.Errorf("list leaves: %w", err)
	}

	persisted, err := repos.ShiftRepository().GetByTeamScopeAndWindow(ctx, req.TeamScope, req.HorizonStart, req.HorizonEnd)
	if err != nil {
		return nil, nil, fmt.Errorf("list existing shifts: %w", err)
	}

	historyStart := req.HorizonStart.AddDate(0, 0, -e.historyWindowDays)
	history := make(map[shifttype.ID]map[entity.EmployeeID]float64)
	for _, scheduler := range e.registry.Enabled(req.ShiftTypes) {
		def := scheduler.Definition()
		if _, ok := history[def.ID]; ok {
			continue
		}
		days, err := e.historyDays(ctx, repos, req.TeamScope, def.ID, def.FairnessWeight, historyStart, req.HorizonStart)
		if err != nil {
			return nil, nil, fmt.Errorf("sum history days for %s: %w", def.ID, err)
		}
		history[def.ID] = days
	}

	totalFTE := 0.0
	for _, emp := range pool {
		totalFTE += emp.FTE
	}

	totalWorkDays := 0.0
	for _, job := range jobs {
		totalWorkDays += windowDays(job.Window) * job.Definition.FairnessWeight
	}
	perFTEBudget := 0.0
	if totalFTE > 0 {
		perFTEBudget = totalWorkDays / totalFTE
	}

	run := &runState{
		tentative:       append([]*entity.Shift{}, persisted...),
		runAssigned:     make(map[entity.EmployeeID]float64),
		rawAssignedDays: make(map[entity.EmployeeID]float64),
		weightedLoad:    make(map[entity.EmployeeID]float64),
		mutexAssigned:   make(map[string]map[entity.EmployeeID]bool),
		individualSum:   0,
		individualHits:  0,
	}
	run.seedMutexFromPersisted(persisted, e.registry)

	outcome := &entity.PlanningOutcome{
		PerEmployee:       make(map[entity.EmployeeID]entity.EmployeeSummary),
		PerShiftTypeCount: make(map[entity.ShiftTypeID]int),
	}

	for _, job := range jobs {
		// The full active pool is passed straight to the constraint
		// checker, which performs the availability, leave, mutex-group and
		// existing-shift checks itself and returns only the Eligible
		// subset.
		checkResult := e.checker.Check(constraint.Input{
			Window:         job.Window,
			Definition:     job.Definition,
			Employees:      pool,
			Leaves:         leaves,
			ExistingShifts: run.tentative,
			MutexBlocked:   run.mutexAssigned[mutexKey(job.Definition.MutexGroup, job.Window.Start)],
		})

		if len(checkResult.Eligible) == 0 {
			reason := unassignableReason(checkResult)
			outcome.Unassignable = append(outcome.Unassignable, entity.UnassignableWindow{
				ShiftType: job.Definition.ID,
				Start:     job.Window.Start,
				End:       job.Window.End,
				Reason:    reason,
			})
			result.AddWarning(reasonToCode(reason), fmt.Sprintf("no eligible employee for %s window starting %s", job.Definition.ID, job.Window.Start.Format(time.RFC3339)))
			if req.Strict {
				return outcome, result, nil
			}
			continue
		}

		states := make([]fairness.CandidateState, 0, len(checkResult.Eligible))
		byID := employeeByID(pool)
		jobHistory := history[job.Definition.ID]
		for _, c := range checkResult.Eligible {
			emp := byID[c.EmployeeID]
			states = append(states, fairness.CandidateState{
				Employee:        emp,
				HistoryDays:     jobHistory[emp.ID],
				RunAssignedDays: run.runAssigned[emp.ID],
			})
		}

		ranked := e.calculator.Rank(states, windowDays(job.Window)*job.Definition.FairnessWeight, perFTEBudget)
		winner := ranked[0]

		shift := &entity.Shift{
			ID:               uuid.New(),
			ShiftType:        job.Definition.ID,
			TeamScope:        req.TeamScope,
			AssignedEmployee: winner.EmployeeID,
			Start:            job.Window.Start,
			End:              job.Window.End,
			Status:           entity.ShiftScheduled,
			AutoGenerated:    true,
			CreatedAt:        entity.Now(),
		}

		run.assign(shift, job.Definition, winner)

		outcome.Assignments = append(outcome.Assignments, entity.Assignment{
			ShiftType:     job.Definition.ID,
			Start:         job.Window.Start,
			End:           job.Window.End,
			EmployeeID:    winner.EmployeeID,
			AutoGenerated: true,
		})
		outcome.PerShiftTypeCount[job.Definition.ID]++
	}

	finalLoads := make([]float64, 0, len(pool))
	for _, emp := range pool {
		finalLoads = append(finalLoads, run.weightedLoad[emp.ID])
	}
	outcome.SystemScore = e.calculator.SystemScore(finalLoads)
	if run.individualHits > 0 {
		outcome.AverageIndividual = run.individualSum / float64(run.individualHits)
	}

	for _, emp := range pool {
		outcome.PerEmployee[emp.ID] = entity.EmployeeSummary{
			EmployeeID:      emp.ID,
			AssignedDays:    run.rawAssignedDays[emp.ID],
			ProjectedLoad:   run.weightedLoad[emp.ID],
			IndividualScore: run.lastIndividual(emp.ID),
		}
	}

	if len(outcome.Unassignable) == 0 {
		result.AddInfo(validation.CodeWorkflowComplete, "every enumerated window was assigned")
	}

	return outcome, result, nil
}

// historyDays returns each employee's fairness-weighted assigned-load total
// over [start, end) for teamScope and shiftType, serving it from the
// engine's history cache when present and fresh; otherwise it queries the
// repository and, if a cache is configured, populates it for the next
// caller.
func (e *planEngine) historyDays(ctx context.Context, repos repoAccessor, teamScope string, shiftType shifttype.ID, fairnessWeight float64, start, end time.Time) (map[entity.EmployeeID]float64, error) {
	if e.historyCache != nil {
		if cached, ok := e.historyCache.get(teamScope, shiftType, start, end); ok {
			return cached, nil
		}
	}
	days, err := repos.ShiftRepository().SumAssignedDays(ctx, teamScope, shiftType, fairnessWeight, start, end)
	if err != nil {
		return nil, err
	}
	if e.historyCache != nil {
		e.historyCache.set(teamScope, shiftType, start, end, days)
	}
	return days, nil
}

// enumerateJobs builds the full, chronologically sorted list of windows
// to process, tagged with their shift type's Definition.
func (e *planEngine) enumerateJobs(req Request, loc *time.Location) ([]windowJob, error) {
	schedulers := e.registry.Enabled(req.ShiftTypes)
	var jobs []windowJob
	for _, scheduler := range schedulers {
		def := scheduler.Definition()
		for _, window := range scheduler.EnumerateWindows(req.HorizonStart, req.HorizonEnd, loc, req.HolidayCalendar) {
			jobs = append(jobs, windowJob{Window: window, Definition: def})
		}
	}
	sort.SliceStable(jobs, func(i, j int) bool {
		if !jobs[i].Window.Start.Equal(jobs[j].Window.Start) {
			return jobs[i].Window.Start.Before(jobs[j].Window.Start)
		}
		return jobs[i].Definition.Priority < jobs[j].Definition.Priority
	})
	return jobs, nil
}

func employeeByID(pool []*entity.Employee) map[entity.EmployeeID]*entity.Employee {
	m := make(map[entity.EmployeeID]*entity.Employee, len(pool))
	for _, emp := range pool {
		m[emp.ID] = emp
	}
	return m
}

func windowDays(w shifttype.Window) float64 {
	return w.End.Sub(w.Start).Hours() / 24
}

func mutexKey(group string, windowStart time.Time) string {
	if group == "" {
		return ""
	}
	year, week := windowStart.ISOWeek()
	return fmt.Sprintf("%s:%d-%02d", group, year, week)
}

func unassignableReason(result constraint.Result) string {
	if len(result.Rejected) == 0 {
		return constraint.ReasonUnavailable
	}
	reason := result.Rejected[0].Reason
	for _, r := range result.Rejected[1:] {
		if r.Reason != reason {
			return "mixed_rejection_reasons"
		}
	}
	return reason
}

func reasonToCode(reason string) string {
	switch reason {
	case constraint.ReasonUnavailable:
		return validation.CodeNoAvailability
	case constraint.ReasonOnLeave:
		return validation.CodeAllOnLeave
	case constraint.ReasonMutexBlocked:
		return validation.CodeAllMutexBlocked
	default:
		return validation.CodeNoEligibleEmployees
	}
}
