package errors

import (
	stdErrors "errors"
	"fmt"
	"strings"
	"time"
)

// RateLimitError represents a rate limit response from a remote service (HTTP 429)
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s (retry after %s)", e.Message, e.RetryAfter)
	}
	return e.Message
}

// NewRateLimitError creates a new RateLimitError with the given message
func NewRateLimitError(message string) *RateLimitError {
	return &RateLimitError{Message: message}
}

// NewRateLimitErrorWithRetry creates a RateLimitError carrying a retry hint
func NewRateLimitErrorWithRetry(message string, retryAfter time.Duration) *RateLimitError {
	return &RateLimitError{Message: message, RetryAfter: retryAfter}
}

// IsRateLimitError checks if err is a RateLimitError
func IsRateLimitError(err error) bool {
	var rlErr *RateLimitError
	return stdErrors.As(err, &rlErr)
}

// LooksRateLimited reports whether tool output mentions a 429 response.
func LooksRateLimited(output string) bool {
	lower := strings.ToLower(output)
	return strings.Contains(lower, "http error 429") || strings.Contains(lower, "too many requests")
}
