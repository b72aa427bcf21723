package payment

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jonathan/landing-site/internal/fetch"
)

// CouponResult is the answer of a coupon endpoint. Discount is a percentage.
type CouponResult struct {
	Valid    bool
	Discount float64
	Message  string
}

type couponResponse struct {
	Valid    bool    `json:"valid"`
	Discount float64 `json:"discount"`
	Message  string  `json:"message"`
}

// CouponClient queries coupon endpoints.
type CouponClient struct {
	opts *fetch.Options
}

// NewCouponClient creates a coupon client. A nil opts uses the fetch defaults.
func NewCouponClient(opts *fetch.Options) *CouponClient {
	if opts == nil {
		opts = fetch.DefaultOptions()
	}
	return &CouponClient{opts: opts}
}

// Check validates code for a purchase of amount: GET endpoint?coupon=&amount=. The
// endpoint answers with a percentage discount.
func (c *CouponClient) Check(ctx context.Context, endpoint, code string, amount float64) (*CouponResult, error) {
	resp, err := c.get(ctx, endpoint, url.Values{
		"coupon": {code},
		"amount": {strconv.FormatFloat(amount, 'f', -1, 64)},
	})
	if err != nil {
		return nil, err
	}
	return &CouponResult{Valid: resp.Valid, Discount: resp.Discount, Message: resp.Message}, nil
}

// Apply asks the endpoint to apply code: GET endpoint?coupon=&action=apply-coupon. This
// form answers with a fractional discount, which is returned as a percentage.
func (c *CouponClient) Apply(ctx context.Context, endpoint, code string) (*CouponResult, error) {
	resp, err := c.get(ctx, endpoint, url.Values{
		"coupon": {code},
		"action": {"apply-coupon"},
	})
	if err != nil {
		return nil, err
	}
	return &CouponResult{Valid: resp.Valid, Discount: roundCents(resp.Discount * 100), Message: resp.Message}, nil
}

func (c *CouponClient) get(ctx context.Context, endpoint string, query url.Values) (*couponResponse, error) {
	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	result, err := fetch.Do(ctx, http.MethodGet, endpoint+sep+query.Encode(), nil, c.opts)
	if err != nil && (result == nil || len(result.Body) == 0) {
		return nil, fmt.Errorf("coupon endpoint request failed: %w", err)
	}
	var resp couponResponse
	if decodeErr := fetch.DecodeJSON(result, &resp); decodeErr != nil {
		if err != nil {
			return nil, fmt.Errorf("coupon endpoint request failed: %w", err)
		}
		return nil, fmt.Errorf("coupon endpoint returned an invalid response: %w", decodeErr)
	}
	return &resp, nil
}
