package availability

import (
	"errors"
	"fmt"
)

// DayError is returned when a day reference cannot be resolved.
type DayError struct {
	Code    string
	Message string
	Input   string
}

func (e *DayError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewDayError(input string) error {
	return &DayError{
		Code:    "invalidDay",
		Message: "Invalid day format. Please use 'Monday', 'Tuesday', etc., or DD/MM/YYYY format.",
		Input:   input,
	}
}

var ErrInvalidDuration = errors.New("duration must be at least one hour")
