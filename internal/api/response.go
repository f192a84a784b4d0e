package api

import (
	"time"

	"github.com/crunchynapkin404/team-planner-sub001/internal/validation"
)

// APIResponse is the standard envelope for every endpoint: Data or Error
// is populated (a strict-mode 422 from POST /plan carries both, the
// partial plan in Data and the failure in Error), ValidationResult carries
// per-window soft failures collected during a planning run.
type APIResponse struct {
	Data             interface{}        `json:"data,omitempty"`
	ValidationResult *validation.Result `json:"validation,omitempty"`
	Error            *ErrorResponse     `json:"error,omitempty"`
	Meta             ResponseMeta       `json:"meta"`
}

// ErrorResponse contains error details for a non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ResponseMeta contains response metadata.
type ResponseMeta struct {
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version,omitempty"`
}

func newMeta() ResponseMeta {
	return ResponseMeta{Timestamp: time.Now().UTC(), Version: "1.0"}
}

// SuccessResponse wraps data, and an optional validation result, for a 2xx
// response.
func SuccessResponse(data interface{}, result *validation.Result) *APIResponse {
	return &APIResponse{Data: data, ValidationResult: result, Meta: newMeta()}
}

// ErrorResponseWithCode wraps an error code/message for a non-2xx response.
func ErrorResponseWithCode(code, message string) *APIResponse {
	return &APIResponse{Error: &ErrorResponse{Code: code, Message: message}, Meta: newMeta()}
}
