package payment

import (
	"context"
	"errors"
	"log"
	"net/url"
	"strconv"
	"strings"

	"github.com/jonathan/landing-site/internal/config"
	"github.com/jonathan/landing-site/internal/fetch"
	"github.com/jonathan/landing-site/internal/types"
)

// PlanSource looks up pricing plans. It returns nil for an unknown plan.
type PlanSource interface {
	PricingPlan(ctx context.Context, id string) (*types.PricingPlan, error)
}

// Checkout turns a payment request into a redirect to the plan's payment link.
type Checkout struct {
	plans   PlanSource
	coupons *CouponClient
}

// NewCheckout creates a checkout over plans. Coupon calls are bounded by cfg.Timeout.
func NewCheckout(plans PlanSource, cfg *config.PaymentConfig) *Checkout {
	opts := fetch.DefaultOptions()
	if cfg != nil && cfg.Timeout > 0 {
		opts.Timeout = cfg.Timeout
	}
	return &Checkout{plans: plans, coupons: NewCouponClient(opts)}
}

// Coupons exposes the coupon client used by the checkout.
func (c *Checkout) Coupons() *CouponClient {
	return c.coupons
}

// Process validates the plan and the optional coupon and returns where to send the
// browser. A coupon code is only checked when one is given.
func (c *Checkout) Process(ctx context.Context, req *types.PaymentRequest) (*types.PaymentResponse, error) {
	plan, err := c.plans.PricingPlan(ctx, req.PlanID)
	if err != nil {
		return nil, newError(ErrContentUnavailable, "Failed to load pricing plan", err)
	}
	if plan == nil {
		return nil, newError(ErrPlanNotFound, "Pricing plan not found", nil)
	}
	if plan.APIConnection == nil {
		return nil, newError(ErrMissingAPIConnection, "API configuration not found", nil)
	}

	price, err := ParsePrice(plan.Price)
	if err != nil {
		return nil, newError(ErrInvalidPlan, "Invalid plan price", err)
	}

	resp := &types.PaymentResponse{
		RedirectURL: plan.PayLink,
		Amount:      price.Amount,
		Currency:    price.Currency,
	}

	code := strings.TrimSpace(req.CouponCode)
	if code == "" {
		return resp, nil
	}
	if plan.CouponsEndpoint == "" {
		return nil, newError(ErrMissingCouponEndpoint, "Coupon validation not configured", nil)
	}

	result, err := c.coupons.Check(ctx, plan.CouponsEndpoint, code, price.Amount)
	if err != nil {
		log.Printf("[payment] coupon check for plan %s failed: %v", plan.ID, err)
		return nil, newError(ErrCouponCheckFailed, "Failed to validate coupon", err)
	}
	if !result.Valid {
		msg := result.Message
		if msg == "" {
			msg = "Invalid coupon code"
		}
		return nil, newError(ErrInvalidCoupon, msg, nil)
	}

	if result.Discount > 0 {
		resp.Discount = result.Discount
		resp.Amount = ApplyDiscount(price.Amount, result.Discount)
		link, err := withDiscount(plan.PayLink, resp.Discount, resp.Amount)
		if err != nil {
			return nil, newError(ErrInvalidPlan, "Invalid payment link", err)
		}
		resp.RedirectURL = link
	}
	return resp, nil
}

// CheckCoupon applies code against the endpoint of plan id, as the pricing widget does
// before checkout.
func (c *Checkout) CheckCoupon(ctx context.Context, planID, code string) (*types.CouponResponse, error) {
	plan, err := c.plans.PricingPlan(ctx, planID)
	if err != nil {
		return nil, newError(ErrContentUnavailable, "Failed to load pricing plan", err)
	}
	if plan == nil {
		return nil, newError(ErrPlanNotFound, "Pricing plan not found", nil)
	}
	if !plan.EnableCoupons || plan.CouponsEndpoint == "" {
		return nil, newError(ErrMissingCouponEndpoint, "Coupons are not enabled for this plan", nil)
	}
	result, err := c.coupons.Apply(ctx, plan.CouponsEndpoint, strings.TrimSpace(code))
	if err != nil {
		return nil, newError(ErrCouponCheckFailed, "Failed to validate coupon", err)
	}
	return &types.CouponResponse{Valid: result.Valid, Discount: result.Discount, Message: result.Message}, nil
}

// StatusOf returns the HTTP status for a checkout error, or 0 when err is not one.
func StatusOf(err error) int {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Status()
	}
	return 0
}

func withDiscount(link string, discount, amount float64) (string, error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("discount", strconv.FormatFloat(discount, 'f', -1, 64))
	q.Set("amount", strconv.FormatFloat(amount, 'f', 2, 64))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
