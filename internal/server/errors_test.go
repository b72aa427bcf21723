package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/landing-site/internal/payment"
)

func TestErrUnauthorized(t *testing.T) {
	err := &ErrUnauthorized{Reason: "invalid webhook secret"}
	assert.Equal(t, "unauthorized: invalid webhook secret", err.Error())
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(err))
}

func TestErrMisconfigured(t *testing.T) {
	err := &ErrMisconfigured{Setting: "REVALIDATE_SECRET"}
	assert.Equal(t, "server misconfigured: REVALIDATE_SECRET is not set", err.Error())
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(err))
}

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "planId", Message: "is required"}
	assert.Equal(t, "validation error: planId - is required", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"not found", &ErrNotFound{Resource: "plan"}, http.StatusNotFound},
		{"payment plan missing", &payment.Error{Kind: payment.ErrPlanNotFound, Message: "Pricing plan not found"}, http.StatusNotFound},
		{"wrapped invalid coupon", fmt.Errorf("checkout: %w", &payment.Error{Kind: payment.ErrInvalidCoupon, Message: "expired"}), http.StatusBadRequest},
		{"coupon endpoint down", &payment.Error{Kind: payment.ErrCouponCheckFailed, Message: "Failed"}, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}
