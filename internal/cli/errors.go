package cli

import (
	"errors"

	"github.com/Imhotep-Tech/imhotep-tasks/internal/agenda"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/model"
	"github.com/Imhotep-Tech/imhotep-tasks/internal/recurrence"
)

// Error code constants - unified across all CLI commands.
// Schedule validation reuses the recurrence codes (E200-E204) and routine
// files report their own (see routinefile).
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeNotFound    = "E005" // Routine or task not found
	ErrCodeConfig      = "E010" // Configuration could not be loaded
	ErrCodeDatabase    = "E011" // Database could not be opened
	ErrCodeInvalidArg  = "E012" // Malformed flag or argument
	ErrCodeInput       = "E101" // Rejected routine or task field
	ErrCodeApplyFailed = "E300" // One or more routines failed to apply
	ErrCodeInvalidFile = "E301" // Routine file has errors
)

// classify maps a domain error to an error code and exit code.
func classify(err error) (string, int) {
	var ve *recurrence.ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Code, ExitFailure
	case recurrence.IsUnknownKind(err):
		return recurrence.ErrCodeUnknownKind, ExitFailure
	case agenda.IsInputError(err):
		return ErrCodeInput, ExitFailure
	case errors.Is(err, model.ErrNotFound):
		return ErrCodeNotFound, ExitCommandError
	default:
		return ErrCodeGeneric, ExitCommandError
	}
}

// fail reports err through the formatter and returns the matching ExitError.
func fail(f *OutputFormatter, message string, err error) error {
	code, exit := classify(err)
	_ = f.Error(code, err.Error(), nil)
	return WrapExitError(exit, message, err)
}
