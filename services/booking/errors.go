package booking

import (
	"fmt"
	"strings"
)

// ValidationError lists the required booking fields that are missing.
type ValidationError struct {
	Code    string
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: missing %s", e.Code, strings.Join(e.Missing, ", "))
}

func NewValidationError(missing []string) error {
	return &ValidationError{
		Code:    "invalidBooking",
		Missing: missing,
	}
}
