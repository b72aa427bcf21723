package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/jonathan/landing-site/internal/payment"
	"github.com/jonathan/landing-site/internal/types"
)

// maxPaymentBody bounds the size of a payment request.
const maxPaymentBody = 16 << 10

// handleProcessPayment validates a checkout and returns the payment link to redirect to.
func (s *Server) handleProcessPayment(w http.ResponseWriter, r *http.Request) {
	var req types.PaymentRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxPaymentBody)).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		verr := &ErrValidation{Field: "planId", Message: err.Error()}
		s.errorResponse(w, HTTPStatus(verr), "Invalid payment request")
		return
	}

	resp, err := s.checkout.Process(r.Context(), &req)
	if err != nil {
		s.paymentError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleCoupon checks a coupon for a plan: GET /api/coupon?planId=&coupon=.
func (s *Server) handleCoupon(w http.ResponseWriter, r *http.Request) {
	planID := r.URL.Query().Get("planId")
	code := r.URL.Query().Get("coupon")
	if planID == "" || code == "" {
		s.errorResponse(w, http.StatusBadRequest, "planId and coupon are required")
		return
	}

	resp, err := s.checkout.CheckCoupon(r.Context(), planID, code)
	if err != nil {
		s.paymentError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// paymentError writes the visitor-facing message of a checkout failure.
func (s *Server) paymentError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	message := "Payment processing failed"
	var perr *payment.Error
	if errors.As(err, &perr) {
		message = perr.Message
	}
	if status >= http.StatusInternalServerError {
		log.Printf("[payment] %v", err)
	}
	s.errorResponse(w, status, message)
}
