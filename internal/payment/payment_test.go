package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/landing-site/internal/types"
)

type planMap map[string]*types.PricingPlan

func (m planMap) PricingPlan(_ context.Context, id string) (*types.PricingPlan, error) {
	if id == "broken" {
		return nil, errors.New("cms down")
	}
	return m[id], nil
}

func couponServer(t *testing.T, handler func(q map[string][]string) any) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(handler(r.URL.Query()))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func plans(endpoint string) planMap {
	return planMap{
		"pro": {
			ID:              "pro",
			Price:           "$49.99 USD",
			PayLink:         "https://pay.example.com/pro",
			EnableCoupons:   true,
			CouponsEndpoint: endpoint,
			APIConnection:   &types.Entry{Sys: types.Sys{ID: "gateway"}},
		},
		"nocoupons": {
			ID:            "nocoupons",
			Price:         "10 EUR",
			PayLink:       "https://pay.example.com/basic",
			APIConnection: &types.Entry{Sys: types.Sys{ID: "gateway"}},
		},
		"free": {ID: "free", Price: "0", PayLink: "https://pay.example.com/free"},
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in       string
		amount   float64
		currency string
		wantErr  bool
	}{
		{"$49.99 USD", 49.99, "USD", false},
		{"19", 19, "USD", false},
		{"€10.50 eur", 10.5, "EUR", false},
		{"", 0, "", true},
		{"free", 0, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePrice(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.amount, got.Amount, 0.001)
			assert.Equal(t, tt.currency, got.Currency)
		})
	}
}

func TestApplyDiscount(t *testing.T) {
	assert.InDelta(t, 39.99, ApplyDiscount(49.99, 20), 0.001)
	assert.InDelta(t, 100.0, ApplyDiscount(100, 0), 0.001)
	assert.InDelta(t, 0.0, ApplyDiscount(100, 100), 0.001)
}

func TestProcess_NoCoupon(t *testing.T) {
	srv, calls := couponServer(t, func(map[string][]string) any { return couponResponse{Valid: true} })
	checkout := NewCheckout(plans(srv.URL), nil)

	resp, err := checkout.Process(context.Background(), &types.PaymentRequest{PlanID: "pro"})
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/pro", resp.RedirectURL)
	assert.InDelta(t, 49.99, resp.Amount, 0.001)
	assert.Equal(t, "USD", resp.Currency)
	assert.Zero(t, *calls)
}

func TestProcess_ValidCoupon(t *testing.T) {
	srv, calls := couponServer(t, func(q map[string][]string) any {
		assert.Equal(t, []string{"SAVE20"}, q["coupon"])
		assert.Equal(t, []string{"49.99"}, q["amount"])
		return couponResponse{Valid: true, Discount: 20}
	})
	checkout := NewCheckout(plans(srv.URL), nil)

	resp, err := checkout.Process(context.Background(), &types.PaymentRequest{PlanID: "pro", CouponCode: "SAVE20"})
	require.NoError(t, err)
	assert.Equal(t, 1, *calls)
	assert.InDelta(t, 39.99, resp.Amount, 0.001)
	assert.InDelta(t, 20.0, resp.Discount, 0.001)
	assert.Equal(t, "https://pay.example.com/pro?amount=39.99&discount=20", resp.RedirectURL)
}

func TestProcess_Errors(t *testing.T) {
	srv, _ := couponServer(t, func(map[string][]string) any {
		return couponResponse{Valid: false, Message: "Coupon expired"}
	})
	checkout := NewCheckout(plans(srv.URL), nil)

	tests := []struct {
		name    string
		req     types.PaymentRequest
		kind    error
		status  int
		message string
	}{
		{"unknown plan", types.PaymentRequest{PlanID: "missing"}, ErrPlanNotFound, http.StatusNotFound, "Pricing plan not found"},
		{"no api connection", types.PaymentRequest{PlanID: "free"}, ErrMissingAPIConnection, http.StatusBadRequest, "API configuration not found"},
		{"coupon without endpoint", types.PaymentRequest{PlanID: "nocoupons", CouponCode: "X"}, ErrMissingCouponEndpoint, http.StatusBadRequest, "Coupon validation not configured"},
		{"invalid coupon", types.PaymentRequest{PlanID: "pro", CouponCode: "OLD"}, ErrInvalidCoupon, http.StatusBadRequest, "Coupon expired"},
		{"plan lookup failure", types.PaymentRequest{PlanID: "broken"}, ErrContentUnavailable, http.StatusInternalServerError, "Failed to load pricing plan"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := checkout.Process(context.Background(), &tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			assert.Equal(t, tt.status, StatusOf(err))
			var perr *Error
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.message, perr.Message)
		})
	}
}

func TestProcess_CouponEndpointDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	checkout := NewCheckout(plans(srv.URL), nil)

	_, err := checkout.Process(context.Background(), &types.PaymentRequest{PlanID: "pro", CouponCode: "SAVE20"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCouponCheckFailed)
	assert.Equal(t, http.StatusInternalServerError, StatusOf(err))
}

func TestProcess_InvalidCouponDefaultMessage(t *testing.T) {
	srv, _ := couponServer(t, func(map[string][]string) any { return couponResponse{Valid: false} })
	checkout := NewCheckout(plans(srv.URL), nil)

	_, err := checkout.Process(context.Background(), &types.PaymentRequest{PlanID: "pro", CouponCode: "NOPE"})
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "Invalid coupon code", perr.Message)
}

func TestCheckCoupon(t *testing.T) {
	srv, _ := couponServer(t, func(q map[string][]string) any {
		assert.Equal(t, []string{"apply-coupon"}, q["action"])
		return couponResponse{Valid: true, Discount: 0.15}
	})
	checkout := NewCheckout(plans(srv.URL), nil)

	resp, err := checkout.CheckCoupon(context.Background(), "pro", " SPRING ")
	require.NoError(t, err)
	assert.True(t, resp.Valid)
	assert.InDelta(t, 15.0, resp.Discount, 0.001)

	_, err = checkout.CheckCoupon(context.Background(), "nocoupons", "SPRING")
	assert.ErrorIs(t, err, ErrMissingCouponEndpoint)
}

func TestStatusOf_Foreign(t *testing.T) {
	assert.Equal(t, 0, StatusOf(errors.New("other")))
}
