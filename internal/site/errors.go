package site

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned for missing or invisible pages and for child pages requested
	// under a landing that does not list them.
	ErrNotFound = errors.New("page not found")
	// ErrRootMissing is returned when the root landing page does not exist. The whole site
	// depends on it, so it is never reported as a plain not-found.
	ErrRootMissing = errors.New("root landing page is missing")
)

// NotFoundError carries the path and reason of a not-found outcome.
type NotFoundError struct {
	Path   string
	Reason string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("page not found: %s (%s)", e.Path, e.Reason)
}

// Is reports ErrNotFound as a match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func notFound(path, reason string) error {
	return &NotFoundError{Path: path, Reason: reason}
}
