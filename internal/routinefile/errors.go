package routinefile

import (
	"fmt"
)

// Error codes. Schedule problems reuse the recurrence codes (E200-E204).
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No routine files found
	ErrCodeLoadFailed  = "E004" // File could not be read or parsed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed

	ErrCodeMissingTitle  = "E101" // Title missing or blank
	ErrCodeMissingDates  = "E102" // Type or dates missing
	ErrCodeDuplicateName = "E103" // Two definitions share a name
	ErrCodeBadField      = "E104" // Field has the wrong type
)

// LoadError reports a problem with one definition or with the file itself.
type LoadError struct {
	Code    string
	Name    string // definition name, empty for file-level errors
	Message string

	File   string
	Line   int
	Column int
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	msg := e.Message
	if e.Name != "" {
		msg = fmt.Sprintf("routine %q: %s", e.Name, e.Message)
	}
	switch {
	case e.File != "" && e.Column > 0:
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.File, e.Line, e.Column, e.Code, msg)
	case e.File != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d: %s: %s", e.File, e.Line, e.Code, msg)
	case e.File != "":
		return fmt.Sprintf("%s: %s: %s", e.File, e.Code, msg)
	default:
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
}
