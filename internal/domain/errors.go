package domain

import (
	"errors"
	"fmt"
)

// ErrTooManyStops marks requests with more waypoints than the exact solver accepts.
var ErrTooManyStops = errors.New("too many stops for exact route optimization")

// ErrNotFound is returned when a lookup has no result (e.g. an unknown address).
var ErrNotFound = errors.New("not found")

// ValidationError reports missing or malformed client input.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// UpstreamServiceError reports a failed call to an external routing service.
type UpstreamServiceError struct {
	Service    string
	Op         string
	StatusCode int
	Err        error
}

func (e *UpstreamServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Service, e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Service, e.Op, e.Err)
}

func (e *UpstreamServiceError) Unwrap() error { return e.Err }
