// Package surge supplies demand multipliers to the pricing engine. The
// multiplier is maintained by an external demand model; this package only
// reads it, clamping anything below 1.0 back to neutral.
package surge

import (
	"context"

	"github.com/shopspring/decimal"
)

// Provider returns the current surge multiplier for a city. Implementations
// must return a value >= 1.0; 1.0 means no surge.
type Provider interface {
	Multiplier(ctx context.Context, city string) (decimal.Decimal, error)
}

var neutral = decimal.NewFromInt(1)

// Static is a fixed-multiplier Provider for tests and for deployments
// without a demand feed.
type Static struct {
	Value decimal.Decimal
}

// NewStatic creates a Static provider; a zero value clamps to 1.0.
func NewStatic(value decimal.Decimal) Static {
	if value.LessThan(neutral) {
		value = neutral
	}
	return Static{Value: value}
}

func (s Static) Multiplier(context.Context, string) (decimal.Decimal, error) {
	return s.Value, nil
}
