package recurrence

import (
	"errors"
	"fmt"
)

// Validation error codes (E200-E209)
const (
	ErrCodeUnknownKind   = "E200" // kind is not weekly/monthly/yearly
	ErrCodeEmptySchedule = "E201" // yearly schedule has no dates
	ErrCodeBadFormat     = "E202" // token is not MM-DD
	ErrCodeBadMonth      = "E203" // month outside 01-12
	ErrCodeBadDay        = "E204" // day outside the month's bound
)

// ValidationError reports a malformed schedule token.
type ValidationError struct {
	Code   string `json:"code"`
	Kind   Kind   `json:"kind"`
	Token  string `json:"token,omitempty"`
	Reason string `json:"reason"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("[%s] invalid %s dates: %q: %s", e.Code, e.Kind, e.Token, e.Reason)
	}
	return fmt.Sprintf("[%s] invalid %s dates: %s", e.Code, e.Kind, e.Reason)
}

// UnknownKindError signals a schedule whose kind is not recognized.
// It is a data error and is never treated as "does not match".
type UnknownKindError struct {
	Kind string
}

// Error implements the error interface.
func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("[%s] unknown recurrence type %q: must be one of weekly, monthly, yearly", ErrCodeUnknownKind, e.Kind)
}

// IsValidationError returns true if err wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsUnknownKind returns true if err wraps an *UnknownKindError.
func IsUnknownKind(err error) bool {
	var ue *UnknownKindError
	return errors.As(err, &ue)
}
