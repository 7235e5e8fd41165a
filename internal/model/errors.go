package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrCredentialsMissing is returned by an adapter whose credentials are not
// configured. It is reported before any network call is attempted, and the
// aggregator treats it as "source skipped", not as a failure.
var ErrCredentialsMissing = errors.New("credentials missing")

// HTTPError wraps a non-success provider response so callers can inspect the
// status code.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}
