package payment

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrPlanNotFound          = errors.New("pricing plan not found")
	ErrMissingAPIConnection  = errors.New("API configuration not found")
	ErrMissingCouponEndpoint = errors.New("coupon endpoint not configured")
	ErrInvalidCoupon         = errors.New("invalid coupon")
	ErrCouponCheckFailed     = errors.New("coupon validation failed")
	ErrInvalidPlan           = errors.New("pricing plan is misconfigured")
	ErrContentUnavailable    = errors.New("content unavailable")
)

// Error is a checkout failure that maps onto an HTTP status. Message is safe to show.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches the error's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// Status returns the HTTP status of the failure.
func (e *Error) Status() int {
	switch e.Kind {
	case ErrPlanNotFound:
		return http.StatusNotFound
	case ErrMissingAPIConnection, ErrMissingCouponEndpoint, ErrInvalidCoupon:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func newError(kind error, message string, cause error) *Error {
	if message == "" {
		message = kind.Error()
	}
	return &Error{Kind: kind, Message: message, Cause: cause}
}
