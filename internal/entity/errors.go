package entity

import (
	"errors"
	"time"
)

// Domain-specific errors. Invariant violations (fairness weight <= 0,
// negative FTE, malformed interval) are bugs, not recoverable outcomes —
// callers are expected to let these propagate rather than coerce around
// them.
var (
	ErrInvalidInterval       = errors.New("shift interval: start must be before end")
	ErrHorizonInvalid        = errors.New("horizon invalid: end must be after start")
	ErrNegativeFTE           = errors.New("employee fte must not be negative")
	ErrInvalidFairnessWeight = errors.New("shift type fairness weight must be positive")
	ErrUnknownShiftType      = errors.New("unknown shift type")
	ErrInactiveEmployee      = errors.New("employee is inactive")
)

// ValidateFTE reports whether an FTE factor is a legal value.
func ValidateFTE(fte float64) error {
	if fte < 0 {
		return ErrNegativeFTE
	}
	return nil
}

// ValidateHorizon reports whether a horizon [start, end) is legal.
func ValidateHorizon(start, end time.Time) error {
	if !start.Before(end) {
		return ErrHorizonInvalid
	}
	return nil
}

// ValidateFairnessWeight reports whether a shift type's fairness weight is
// a legal (positive) value.
func ValidateFairnessWeight(weight float64) error {
	if weight <= 0 {
		return ErrInvalidFairnessWeight
	}
	return nil
}
