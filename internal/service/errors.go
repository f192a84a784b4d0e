package service

import "fmt"

// HorizonInvalidError wraps entity.ValidateHorizon failures with the
// offending request's team scope for caller-facing diagnostics.
type HorizonInvalidError struct {
	TeamScope string
	Err       error
}

func (e *HorizonInvalidError) Error() string {
	return fmt.Sprintf("invalid horizon for team %q: %v", e.TeamScope, e.Err)
}

func (e *HorizonInvalidError) Unwrap() error { return e.Err }

// ConflictOnApplyError is returned when the apply-time re-check finds the
// repository state has changed since the planning run being applied was
// computed, e.g. a concurrent apply already wrote an overlapping shift.
type ConflictOnApplyError struct {
	RunID   string
	Details string
}

func (e *ConflictOnApplyError) Error() string {
	return fmt.Sprintf("apply conflict on run %s: %s", e.RunID, e.Details)
}

// DeadlineExceededError is returned when an apply does not complete
// within config.ApplyDefaultDeadline (or a caller-supplied override).
type DeadlineExceededError struct {
	RunID string
}

func (e *DeadlineExceededError) Error() string {
	return fmt.Sprintf("apply exceeded its deadline for run %s", e.RunID)
}

// RunNotPreviewableError is returned when ApplyRun is called against a
// run that is not a pending, uncommitted preview.
type RunNotPreviewableError struct {
	RunID string
}

func (e *RunNotPreviewableError) Error() string {
	return fmt.Sprintf("run %s is not an uncommitted preview", e.RunID)
}
