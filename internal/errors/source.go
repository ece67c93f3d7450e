package errors

import (
	stdErrors "errors"
	"fmt"
)

// SourceUnreachableError is returned when the mix or playlist metadata cannot be read.
// It is fatal for a run.
type SourceUnreachableError struct {
	Ref string
	Err error
}

func (e *SourceUnreachableError) Error() string {
	return fmt.Sprintf("source %s unreachable: %v", e.Ref, e.Err)
}

func (e *SourceUnreachableError) Unwrap() error {
	return e.Err
}

// NewSourceUnreachableError wraps err for the given source reference
func NewSourceUnreachableError(ref string, err error) *SourceUnreachableError {
	return &SourceUnreachableError{Ref: ref, Err: err}
}

// IsSourceUnreachableError checks if err is a SourceUnreachableError
func IsSourceUnreachableError(err error) bool {
	var srcErr *SourceUnreachableError
	return stdErrors.As(err, &srcErr)
}

// NoTracklistError signals that none of the extractors produced a tracklist.
type NoTracklistError struct {
	Ref string
}

func (e *NoTracklistError) Error() string {
	if e.Ref == "" {
		return "no tracklist found in description, chapters, or metadata"
	}
	return fmt.Sprintf("no tracklist found in description, chapters, or metadata of %s", e.Ref)
}

// NewNoTracklistError creates a NoTracklistError
func NewNoTracklistError(ref string) *NoTracklistError {
	return &NoTracklistError{Ref: ref}
}

// IsNoTracklistError checks if err is a NoTracklistError
func IsNoTracklistError(err error) bool {
	var ntErr *NoTracklistError
	return stdErrors.As(err, &ntErr)
}
