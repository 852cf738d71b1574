package core

import (
	"errors"
)

var (
	// ErrEmptyEmail is returned when the email text is empty or whitespace only
	ErrEmptyEmail = errors.New("email text is required")

	// ErrModelUnavailable is returned when the model artifacts were never
	// loaded. This is permanent until the process is restarted.
	ErrModelUnavailable = errors.New("model not loaded")
)

// UpstreamError wraps any failure of the external reasoning service: a
// transport error, a timeout, or an unusable response. It is never retried.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return "upstream analysis failed: " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
