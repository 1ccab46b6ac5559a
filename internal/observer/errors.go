package observer

import (
	"errors"
	"strings"
)

// ErrValidationFailed matches every *ValidationError via errors.Is.
var ErrValidationFailed = errors.New("validation failed")

// ErrAdvisorRequired is returned by New when advisory validation is enabled
// without an advisor.
var ErrAdvisorRequired = errors.New("advisory validation enabled but no advisor configured")

// ValidationError is returned in strict mode when a record fails validation.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "Validation failed: " + strings.Join(e.Errors, ", ")
}

// Is reports whether target is ErrValidationFailed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}
