package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/crunchynapkin404/team-planner-sub001/internal/entity"
	"github.com/crunchynapkin404/team-planner-sub001/internal/repository"
	"github.com/crunchynapkin404/team-planner-sub001/internal/service"
	"github.com/crunchynapkin404/team-planner-sub001/internal/shifttype"
)

// Handlers implements every route registered by Router.
type Handlers struct {
	deps *ServiceDeps
}

// PlanRequest is the wire shape of a POST /plan body.
type PlanRequest struct {
	TeamScope    string   `json:"team_scope"`
	HorizonStart string   `json:"horizon_start"`
	HorizonEnd   string   `json:"horizon_end"`
	ShiftTypes   []string `json:"shift_types"`
	Mode         string   `json:"mode"`
	Strict       bool     `json:"strict"`
	DeadlineMS   *int     `json:"deadline_ms,omitempty"`
}

// AssignmentDTO is one entry of a PlanResponse's assignments array.
type AssignmentDTO struct {
	ShiftType     entity.ShiftTypeID `json:"shift_type"`
	Start         time.Time          `json:"start_instant"`
	End           time.Time          `json:"end_instant"`
	EmployeeID    entity.EmployeeID  `json:"employee_id"`
	TemplateID    entity.TemplateID  `json:"template_id,omitempty"`
	AutoGenerated bool               `json:"auto_generated"`
}

// UnassignableDTO is one entry of a PlanResponse's unassignable array.
type UnassignableDTO struct {
	ShiftType entity.ShiftTypeID `json:"shift_type"`
	Start     time.Time          `json:"start_instant"`
	End       time.Time          `json:"end_instant"`
	Reason    string             `json:"reason"`
}

// EmployeeMetricsDTO is one entry of a PlanResponse's per_employee map.
type EmployeeMetricsDTO struct {
	AssignedDays    float64 `json:"assigned_days"`
	ProjectedLoad   float64 `json:"projected_load"`
	IndividualScore float64 `json:"individual_score"`
}

// MetricsDTO is the metrics block of a PlanResponse.
type MetricsDTO struct {
	PerEmployee            map[string]EmployeeMetricsDTO `json:"per_employee"`
	SystemScore            float64                       `json:"system_score"`
	AverageIndividualScore float64                       `json:"average_individual_score"`
}

// PlanResponse is the wire shape of a successful POST /plan response's data.
type PlanResponse struct {
	RunID        entity.PlanningRunID `json:"run_id"`
	Mode         string               `json:"mode"`
	Committed    bool                 `json:"committed"`
	Assignments  []AssignmentDTO      `json:"assignments"`
	Unassignable []UnassignableDTO    `json:"unassignable"`
	Metrics      MetricsDTO           `json:"metrics"`
}

func toPlanResponse(run *entity.PlanningRun) PlanResponse {
	resp := PlanResponse{
		RunID:     run.ID,
		Mode:      string(run.Mode),
		Committed: run.Committed,
		Metrics: MetricsDTO{
			PerEmployee: make(map[string]EmployeeMetricsDTO),
		},
	}
	if run.Outcome == nil {
		return resp
	}

	for _, a := range run.Outcome.Assignments {
		resp.Assignments = append(resp.Assignments, AssignmentDTO{
			ShiftType:     a.ShiftType,
			Start:         a.Start,
			End:           a.End,
			EmployeeID:    a.EmployeeID,
			TemplateID:    a.TemplateID,
			AutoGenerated: a.AutoGenerated,
		})
	}
	for _, u := range run.Outcome.Unassignable {
		resp.Unassignable = append(resp.Unassignable, UnassignableDTO{
			ShiftType: u.ShiftType,
			Start:     u.Start,
			End:       u.End,
			Reason:    u.Reason,
		})
	}
	for id, summary := range run.Outcome.PerEmployee {
		resp.Metrics.PerEmployee[id.String()] = EmployeeMetricsDTO{
			AssignedDays:    summary.AssignedDays,
			ProjectedLoad:   summary.ProjectedLoad,
			IndividualScore: summary.IndividualScore,
		}
	}
	resp.Metrics.SystemScore = run.Outcome.SystemScore
	resp.Metrics.AverageIndividualScore = run.Outcome.AverageIndividual

	return resp
}

// Plan handles POST /plan: runs a preview or apply planning invocation and
// returns the resulting assignments, unassignable windows, and fairness
// metrics.
func (h *Handlers) Plan(c echo.Context) error {
	var body PlanRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponseWithCode("INVALID_REQUEST", err.Error()))
	}

	horizonStart, err := time.Parse(time.RFC3339, body.HorizonStart)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponseWithCode("INVALID_HORIZON_START", err.Error()))
	}
	horizonEnd, err := time.Parse(time.RFC3339, body.HorizonEnd)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponseWithCode("INVALID_HORIZON_END", err.Error()))
	}

	mode := entity.ModePreview
	if body.Mode == string(entity.ModeApply) {
		mode = entity.ModeApply
	}

	shiftTypes := make([]shifttype.ID, 0, len(body.ShiftTypes))
	for _, st := range body.ShiftTypes {
		shiftTypes = append(shiftTypes, shifttype.ID(st))
	}

	req := service.Request{
		TeamScope:    body.TeamScope,
		HorizonStart: horizonStart,
		HorizonEnd:   horizonEnd,
		ShiftTypes:   shiftTypes,
		Mode:         mode,
		Strict:       body.Strict,
	}
	if body.DeadlineMS != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), time.Duration(*body.DeadlineMS)*time.Millisecond)
		defer cancel()
		c.SetRequest(c.Request().WithContext(ctx))
	}

	run, err := h.deps.Orchestrator.Plan(c.Request().Context(), req)
	if err != nil {
		return planError(c, err)
	}

	if req.Strict && len(run.Outcome.Unassignable) > 0 {
		resp := toPlanResponse(run)
		return c.JSON(http.StatusUnprocessableEntity, &APIResponse{
			Data:  resp,
			Error: &ErrorResponse{Code: "NO_ELIGIBLE_EMPLOYEES", Message: "strict run aborted on an unassignable window"},
			Meta:  newMeta(),
		})
	}

	return c.JSON(http.StatusOK, SuccessResponse(toPlanResponse(run), nil))
}

// planError maps a service-layer error to the status codes specified for
// the Planning API: 422 for an invalid horizon, 409 for an apply-time
// conflict, 504 for a deadline exceeded, 503 when the repository itself is
// unavailable.
func planError(c echo.Context, err error) error {
	var horizonErr *service.HorizonInvalidError
	if errors.As(err, &horizonErr) {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponseWithCode("HORIZON_INVALID", err.Error()))
	}

	var conflictErr *service.ConflictOnApplyError
	if errors.As(err, &conflictErr) {
		return c.JSON(http.StatusConflict, ErrorResponseWithCode("CONFLICT_ON_APPLY", err.Error()))
	}

	var deadlineErr *service.DeadlineExceededError
	if errors.As(err, &deadlineErr) {
		return c.JSON(http.StatusGatewayTimeout, ErrorResponseWithCode("DEADLINE_EXCEEDED", err.Error()))
	}

	var notPreviewableErr *service.RunNotPreviewableError
	if errors.As(err, &notPreviewableErr) {
		return c.JSON(http.StatusConflict, ErrorResponseWithCode("RUN_NOT_PREVIEWABLE", err.Error()))
	}

	if repository.IsNotFound(err) {
		return c.JSON(http.StatusNotFound, ErrorResponseWithCode("NOT_FOUND", err.Error()))
	}

	return c.JSON(http.StatusServiceUnavailable, ErrorResponseWithCode("REPOSITORY_UNAVAILABLE", err.Error()))
}

// ApplyAsync handles POST /api/plan/:runID/apply-async: enqueues a
// previously previewed run for asynchronous apply and returns a job id
// pollable at GET /api/jobs/:jobID/status.
func (h *Handlers) ApplyAsync(c echo.Context) error {
	if h.deps.Scheduler == nil {
		return c.JSON(http.StatusServiceUnavailable, ErrorResponseWithCode("ASYNC_UNAVAILABLE", "async apply is not configured on this deployment"))
	}

	runID, err := uuid.Parse(c.Param("runID"))
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponseWithCode("INVALID_RUN_ID", err.Error()))
	}

	info, err := h.deps.Scheduler.EnqueueApplyRun(c.Request().Context(), runID)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, ErrorResponseWithCode("ENQUEUE_FAILED", err.Error()))
	}

	return c.JSON(http.StatusAccepted, SuccessResponse(map[string]interface{}{
		"job_id": info.ID,
		"queue":  info.Queue,
		"status": "queued",
	}, nil))
}

// JobStatus handles GET /api/jobs/:jobID/status.
func (h *Handlers) JobStatus(c echo.Context) error {
	if h.deps.Scheduler == nil {
		return c.JSON(http.StatusServiceUnavailable, ErrorResponseWithCode("ASYNC_UNAVAILABLE", "async apply is not configured on this deployment"))
	}

	jobID := c.Param("jobID")
	info, err := h.deps.Scheduler.GetTaskInfo("default", jobID)
	if err != nil {
		return c.JSON(http.StatusNotFound, ErrorResponseWithCode("JOB_NOT_FOUND", err.Error()))
	}

	return c.JSON(http.StatusOK, SuccessResponse(map[string]interface{}{
		"job_id": jobID,
		"state":  info.State.String(),
	}, nil))
}

// Health reports process liveness.
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, SuccessResponse(map[string]string{"status": "UP"}, nil))
}

// HealthDB reports repository connectivity.
func (h *Handlers) HealthDB(c echo.Context) error {
	if err := h.deps.DB.Health(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, ErrorResponseWithCode("DB_UNAVAILABLE", fmt.Sprintf("database health check failed: %v", err)))
	}
	return c.JSON(http.StatusOK, SuccessResponse(map[string]string{"database": "UP"}, nil))
}
