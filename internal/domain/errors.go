package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound means the user has no record of the requested kind yet.
// Handlers map it to 404; clients render it as an empty state.
var ErrNotFound = errors.New("record not found")

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// UpstreamError wraps a failure of the LLM provider. It is never retried
// automatically; the caller decides whether to try again.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return "agent provider: " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error { return e.Err }
