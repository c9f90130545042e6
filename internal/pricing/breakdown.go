package pricing

import (
	"github.com/shopspring/decimal"

	"veritask/internal/verification/models"
)

// AppliedDiscount records one discount's actual effect on a quote.
type AppliedDiscount struct {
	Code   string          `json:"code"`
	Type   DiscountType    `json:"type"`
	Amount decimal.Decimal `json:"amount"`
}

// Breakdown is the itemized output of a price computation.
//
// Invariants:
//   - Subtotal = BaseAmount + DistanceAmount + the five adjustments + SurgeAmount
//   - DiscountAmount ≤ Subtotal
//   - Total = Subtotal − DiscountAmount, hence Total ≥ 0
//
// Adjustments may be negative (an economy slot reduces the price), so the
// component amounts are plain decimals rather than Money; only the final
// total is guaranteed non-negative.
type Breakdown struct {
	BaseAmount           decimal.Decimal   `json:"base_amount"`
	DistanceAmount       decimal.Decimal   `json:"distance_amount"`
	TimeAdjustment       decimal.Decimal   `json:"time_adjustment"`
	TypeAdjustment       decimal.Decimal   `json:"type_adjustment"`
	DifficultyAdjustment decimal.Decimal   `json:"difficulty_adjustment"`
	ModeAdjustment       decimal.Decimal   `json:"mode_adjustment"`
	UrgencyAdjustment    decimal.Decimal   `json:"urgency_adjustment"`
	SurgeAmount          decimal.Decimal   `json:"surge_amount"`
	Subtotal             decimal.Decimal   `json:"subtotal"`
	DiscountAmount       decimal.Decimal   `json:"discount_amount"`
	Total                decimal.Decimal   `json:"total"`
	Currency             models.Currency   `json:"currency"`
	Factors              Factors           `json:"factors"`
	AppliedDiscounts     []AppliedDiscount `json:"applied_discounts"`
}

// TotalMoney converts the final total into a Money value for the aggregate.
func (b *Breakdown) TotalMoney() (models.Money, error) {
	return models.NewMoney(b.Total, b.Currency)
}
