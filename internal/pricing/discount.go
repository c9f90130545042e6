package pricing

import (
	"github.com/shopspring/decimal"

	dErrors "veritask/pkg/domain-errors"
)

// DiscountType distinguishes how a discount's value is interpreted.
type DiscountType string

const (
	// DiscountPercentage contributes subtotal × value/100.
	DiscountPercentage DiscountType = "percentage"
	// DiscountFixed contributes its value directly.
	DiscountFixed DiscountType = "fixed"
)

// Discount is a validated reduction applied after the surge subtotal.
// The engine caps the summed contributions at the subtotal, so discounts
// can never push a total negative.
type Discount struct {
	Code  string          `json:"code"`
	Type  DiscountType    `json:"type"`
	Value decimal.Decimal `json:"value"`
}

// NewDiscount creates a validated Discount.
func NewDiscount(code string, kind DiscountType, value decimal.Decimal) (Discount, error) {
	if code == "" {
		return Discount{}, dErrors.New(dErrors.CodeValidation, "discount code is required")
	}
	if kind != DiscountPercentage && kind != DiscountFixed {
		return Discount{}, dErrors.Newf(dErrors.CodeValidation, "unknown discount type %q", kind)
	}
	if value.IsNegative() || value.IsZero() {
		return Discount{}, dErrors.New(dErrors.CodeValidation, "discount value must be positive")
	}
	if kind == DiscountPercentage && value.GreaterThan(decimal.NewFromInt(100)) {
		return Discount{}, dErrors.New(dErrors.CodeValidation, "percentage discount cannot exceed 100")
	}
	return Discount{Code: code, Type: kind, Value: value}, nil
}

// MustDiscount creates a Discount, panicking if invalid. Use only in tests.
func MustDiscount(code string, kind DiscountType, value string) Discount {
	d, err := NewDiscount(code, kind, decimal.RequireFromString(value))
	if err != nil {
		panic(err)
	}
	return d
}

// contribution computes this discount's reduction against a subtotal,
// rounded to 2 decimal places.
func (d Discount) contribution(subtotal decimal.Decimal) decimal.Decimal {
	if d.Type == DiscountPercentage {
		return subtotal.Mul(d.Value).Div(decimal.NewFromInt(100)).Round(2)
	}
	return d.Value.Round(2)
}
