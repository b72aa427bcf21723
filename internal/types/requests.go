package types

import (
	"github.com/go-playground/validator/v10"
)

// PaymentRequest is the body of the payment-initiation endpoint.
type PaymentRequest struct {
	PlanID     string  `json:"planId" validate:"required"`
	CouponCode string  `json:"couponCode,omitempty" validate:"omitempty,max=64"`
	Discount   float64 `json:"discount,omitempty" validate:"gte=0,lte=100"`
}

// Validate validates the PaymentRequest using the validator.
func (r *PaymentRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// PaymentResponse points the browser at the plan's payment link.
type PaymentResponse struct {
	RedirectURL string  `json:"redirectUrl"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Discount    float64 `json:"discount,omitempty"`
}

// CouponResponse reports the outcome of a coupon check.
type CouponResponse struct {
	Valid    bool    `json:"valid"`
	Discount float64 `json:"discount"`
	Message  string  `json:"message,omitempty"`
}

// RevalidateResponse is returned by the webhook and admin revalidation endpoints.
type RevalidateResponse struct {
	Message     string   `json:"message"`
	RunID       string   `json:"runId,omitempty"`
	Revalidated []string `json:"revalidated"`
	Failed      []string `json:"failed,omitempty"`
}

// AdminRevalidateRequest asks for a manual revalidation. An empty request revalidates
// the full site.
type AdminRevalidateRequest struct {
	Scope string   `json:"scope,omitempty" validate:"omitempty,max=200"`
	Paths []string `json:"paths,omitempty" validate:"omitempty,dive,startswith=/"`
}

// Validate validates the AdminRevalidateRequest using the validator.
func (r *AdminRevalidateRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
