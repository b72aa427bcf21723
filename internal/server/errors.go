package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/landing-site/internal/payment"
)

// ErrUnauthorized indicates a missing or wrong credential
type ErrUnauthorized struct {
	Reason string
}

func (e *ErrUnauthorized) Error() string {
	return fmt.Sprintf("unauthorized: %s", e.Reason)
}

// ErrMisconfigured indicates a server setting required by the endpoint is missing
type ErrMisconfigured struct {
	Setting string
}

func (e *ErrMisconfigured) Error() string {
	return fmt.Sprintf("server misconfigured: %s is not set", e.Setting)
}

// ErrNotFound indicates the requested resource does not exist
type ErrNotFound struct {
	Resource string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("not found: %s", e.Resource)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var perr *payment.Error
	if errors.As(err, &perr) {
		return perr.Status()
	}
	switch err.(type) {
	case *ErrUnauthorized:
		return http.StatusUnauthorized
	case *ErrNotFound:
		return http.StatusNotFound
	case *ErrValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
