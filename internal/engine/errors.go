package engine

import (
	"errors"
	"fmt"
)

// Stage identifies where handling a routine failed.
type Stage string

const (
	// StageParse means the stored schedule could not be parsed (unknown kind
	// or malformed yearly dates).
	StageParse Stage = "parse"

	// StageMatch means the evaluator rejected the parsed spec.
	StageMatch Stage = "match"

	// StageCheck means the duplicate check against existing tasks failed.
	StageCheck Stage = "check"

	// StageCreate means the task could not be created. No task exists.
	StageCreate Stage = "create"

	// StageRecord means the task was created but LastApplied could not be
	// saved. TaskID names the created task.
	StageRecord Stage = "record"
)

// ApplyError reports the failure of one routine within an Apply call.
type ApplyError struct {
	RoutineID string
	Title     string
	Stage     Stage

	// TaskID is set when a task was created before the failure.
	TaskID string

	Err error
}

// Error implements the error interface.
func (e *ApplyError) Error() string {
	if e.TaskID != "" {
		return fmt.Sprintf("apply routine %s (%q): %s (task %s): %v", e.RoutineID, e.Title, e.Stage, e.TaskID, e.Err)
	}
	return fmt.Sprintf("apply routine %s (%q): %s: %v", e.RoutineID, e.Title, e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *ApplyError) Unwrap() error {
	return e.Err
}

// IsApplyError returns true if err wraps an *ApplyError.
// Uses errors.As to handle wrapped errors.
func IsApplyError(err error) bool {
	var ae *ApplyError
	return errors.As(err, &ae)
}
