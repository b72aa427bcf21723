// Package payment starts checkouts for pricing plans and validates coupons against the
// plan's external coupon endpoint.
package payment

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultCurrency is assumed when a price names none.
const DefaultCurrency = "USD"

// PriceInfo is a parsed display price.
type PriceInfo struct {
	Amount   float64
	Currency string
}

// ParsePrice reads a display price such as "$49.99 USD". The first token's digits and
// dots form the amount, the second token is the currency.
func ParsePrice(s string) (PriceInfo, error) {
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return PriceInfo{}, fmt.Errorf("empty price")
	}

	var digits strings.Builder
	for _, r := range parts[0] {
		if (r >= '0' && r <= '9') || r == '.' {
			digits.WriteRune(r)
		}
	}
	amount, err := strconv.ParseFloat(digits.String(), 64)
	if err != nil {
		return PriceInfo{}, fmt.Errorf("invalid price %q", s)
	}

	currency := DefaultCurrency
	if len(parts) > 1 {
		currency = strings.ToUpper(parts[1])
	}
	return PriceInfo{Amount: amount, Currency: currency}, nil
}

// ApplyDiscount reduces amount by a percentage, rounded to cents.
func ApplyDiscount(amount, percent float64) float64 {
	return roundCents(amount - amount*percent/100)
}

// Format renders the price as "49.99 USD".
func (p PriceInfo) Format() string {
	return strconv.FormatFloat(p.Amount, 'f', 2, 64) + " " + p.Currency
}

func roundCents(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
