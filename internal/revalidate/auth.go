package revalidate

import (
	"crypto/subtle"
	"errors"
)

var (
	// ErrUnauthorized is returned when the shared secret is missing or wrong.
	ErrUnauthorized = errors.New("invalid webhook secret")
	// ErrMisconfigured is returned when no secret is configured on the server.
	ErrMisconfigured = errors.New("webhook secret is not configured")
)

// Authenticate compares the provided secret with the configured one in constant time.
func Authenticate(provided, secret string) error {
	if secret == "" {
		return ErrMisconfigured
	}
	if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
		return ErrUnauthorized
	}
	return nil
}
