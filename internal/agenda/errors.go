package agenda

import (
	"errors"
	"fmt"
)

// InputError reports a rejected field in a create or update request.
type InputError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsInputError returns true if err wraps an *InputError.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}
