package errors

import (
	"context"
	"errors"
	"fmt"
)

// StopProcessingError ends a run early on user request, usually Ctrl-C.
// It unwraps to context.Canceled.
type StopProcessingError struct {
	Skipped int
	Total   int
}

func (e *StopProcessingError) Error() string {
	if e.Total == 0 {
		return "run interrupted"
	}
	return fmt.Sprintf("run interrupted, %d of %d tracks not attempted", e.Skipped, e.Total)
}

func (e *StopProcessingError) Unwrap() error {
	return context.Canceled
}

// NewStopProcessingError reports how many of total tracks were never tried.
func NewStopProcessingError(skipped, total int) *StopProcessingError {
	return &StopProcessingError{Skipped: skipped, Total: total}
}

// IsStopProcessingError reports whether err is a StopProcessingError (even when wrapped).
func IsStopProcessingError(err error) bool {
	var stopErr *StopProcessingError
	return errors.As(err, &stopErr)
}
