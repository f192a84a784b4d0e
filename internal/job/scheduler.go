// Package job enqueues and executes asynchronous work for the planning
// engine via Asynq: applying a previewed run without holding the HTTP
// connection open past the apply deadline, and refreshing the fairness
// history cache for one team scope on request. Nothing in this module
// enqueues a history refresh on a schedule.
package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/crunchynapkin404/team-planner-sub001/internal/entity"
)

// Job type names registered with the Asynq mux.
const (
	TypeApplyRun       = "plan:apply"
	TypeHistoryRefresh = "plan:history_refresh"
)

// Scheduler enqueues jobs onto the Asynq/Redis queue.
type Scheduler struct {
	client    *asynq.Client
	redisAddr string
}

// NewScheduler returns a Scheduler backed by Redis at redisAddr.
// asynq.NewClient does not dial eagerly, so a bad address only surfaces on
// the first Enqueue call.
func NewScheduler(redisAddr string) (*Scheduler, error) {
	client := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
	return &Scheduler{client: client, redisAddr: redisAddr}, nil
}

// ApplyRunPayload is the Asynq task payload for an async apply.
type ApplyRunPayload struct {
	RunID entity.PlanningRunID `json:"run_id"`
}

// EnqueueApplyRun enqueues a previously previewed run for asynchronous
// apply, bounded by the same deadline the synchronous path uses.
func (s *Scheduler) EnqueueApplyRun(ctx context.Context, runID entity.PlanningRunID) (*asynq.TaskInfo, error) {
	payload, err := json.Marshal(ApplyRunPayload{RunID: runID})
	if err != nil {
		return nil, fmt.Errorf("marshal apply payload: %w", err)
	}
	task := asynq.NewTask(TypeApplyRun, payload)
	info, err := s.client.EnqueueContext(ctx, task, asynq.MaxRetry(1), asynq.Timeout(2*time.Minute))
	if err != nil {
		return nil, fmt.Errorf("enqueue apply run job: %w", err)
	}
	return info, nil
}

// HistoryRefreshPayload is the Asynq task payload for a history-cache
// refresh of one team scope.
type HistoryRefreshPayload struct {
	TeamScope string `json:"team_scope"`
}

// EnqueueHistoryRefresh enqueues a history-cache warm for teamScope.
func (s *Scheduler) EnqueueHistoryRefresh(ctx context.Context, teamScope string) (*asynq.TaskInfo, error) {
	payload, err := json.Marshal(HistoryRefreshPayload{TeamScope: teamScope})
	if err != nil {
		return nil, fmt.Errorf("marshal history refresh payload: %w", err)
	}
	task := asynq.NewTask(TypeHistoryRefresh, payload)
	info, err := s.client.EnqueueContext(ctx, task, asynq.MaxRetry(3), asynq.Timeout(30*time.Second))
	if err != nil {
		return nil, fmt.Errorf("enqueue history refresh job: %w", err)
	}
	return info, nil
}

// GetTaskInfo retrieves the status of a previously enqueued task.
func (s *Scheduler) GetTaskInfo(queue, taskID string) (*asynq.TaskInfo, error) {
	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: s.redisAddr})
	defer inspector.Close()
	return inspector.GetTaskInfo(queue, taskID)
}

// Close releases the underlying Redis connection.
func (s *Scheduler) Close() error {
	return s.client.Close()
}
