package cms

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned when the repository has no usable credentials or space.
var ErrNotConfigured = errors.New("content repository is not configured")

// ErrUnavailable is matched by every connectivity failure, so callers can tell an
// unreachable CMS apart from missing content.
var ErrUnavailable = errors.New("content repository unavailable")

// UnavailableError represents a transport failure or a server-side CMS error.
type UnavailableError struct {
	Message    string
	StatusCode int
	Cause      error
}

func (e *UnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cms unavailable: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cms unavailable: %s", e.Message)
}

func (e *UnavailableError) Unwrap() error {
	return e.Cause
}

// Is reports ErrUnavailable as a match.
func (e *UnavailableError) Is(target error) bool {
	return target == ErrUnavailable
}

// ConfigError represents rejected credentials or an unknown space or environment.
type ConfigError struct {
	Message    string
	StatusCode int
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("cms configuration error: %s (status %d)", e.Message, e.StatusCode)
}

// Is reports ErrNotConfigured as a match.
func (e *ConfigError) Is(target error) bool {
	return target == ErrNotConfigured
}

// QueryError represents a query the CMS refused to answer.
type QueryError struct {
	Message    string
	StatusCode int
	Cause      error
}

func (e *QueryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cms query error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cms query error: %s", e.Message)
}

func (e *QueryError) Unwrap() error {
	return e.Cause
}
