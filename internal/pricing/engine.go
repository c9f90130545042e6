package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"veritask/internal/verification/models"
)

// Engine computes itemized quotes from a rate table. It is a pure
// calculator: no I/O, no clock reads, no mutation of its inputs.
type Engine struct {
	config *Config
}

// NewEngine creates an Engine over the given rate table.
func NewEngine(config *Config) *Engine {
	return &Engine{config: config}
}

// round2 is the single rounding helper used after every multiply. Rounding
// each intermediate step, not just the total, is part of the pricing
// contract; quotes must reproduce to the cent.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

var one = decimal.NewFromInt(1)

// Quote computes the breakdown for a verification kind scheduled at a given
// time. Time slot and difficulty are derived here; distance, surge and
// discounts come from the caller's collaborators.
func (e *Engine) Quote(
	kind models.VerificationKind,
	scheduledAt time.Time,
	distanceKm float64,
	mode Mode,
	surgeMultiplier decimal.Decimal,
	discounts []Discount,
) (*Breakdown, error) {
	factors, err := NewFactors(
		e.config.BaseFee,
		distanceKm,
		TimeSlotFor(scheduledAt),
		kind.Category,
		kind.Urgency,
		mode,
		surgeMultiplier,
	)
	if err != nil {
		return nil, err
	}
	return e.Calculate(factors, discounts)
}

// Calculate runs the fixed pricing pipeline over a factors snapshot.
// Step order matters for rounding and reporting:
//
//  1. base amount from the config base fee
//  2. distance amount
//  3. five multiplier adjustments (time, category, difficulty, mode, urgency)
//  4. surge on the pre-surge subtotal
//  5. discounts capped at the subtotal
func (e *Engine) Calculate(factors Factors, discounts []Discount) (*Breakdown, error) {
	baseAmount := round2(factors.BaseFee)
	distanceAmount := round2(factors.DistanceKm.Mul(e.config.DistanceRatePerKm))

	timeAdj, err := adjustment(baseAmount, e.config.timeSlotMultiplier, factors.TimeSlot)
	if err != nil {
		return nil, err
	}
	typeAdj, err := adjustment(baseAmount, e.config.categoryMultiplier, factors.Category)
	if err != nil {
		return nil, err
	}
	difficultyAdj, err := adjustment(baseAmount, e.config.difficultyMultiplier, factors.Difficulty)
	if err != nil {
		return nil, err
	}
	modeAdj, err := adjustment(baseAmount, e.config.modeMultiplier, factors.Mode)
	if err != nil {
		return nil, err
	}
	urgencyAdj, err := adjustment(baseAmount, e.config.urgencyMultiplier, factors.Urgency)
	if err != nil {
		return nil, err
	}

	subtotalBeforeSurge := baseAmount.
		Add(distanceAmount).
		Add(timeAdj).
		Add(typeAdj).
		Add(difficultyAdj).
		Add(modeAdj).
		Add(urgencyAdj)

	surgeAmount := decimal.Zero
	if e.config.SurgePricingEnabled && factors.SurgeMultiplier.GreaterThan(one) {
		surgeAmount = round2(subtotalBeforeSurge.Mul(factors.SurgeMultiplier.Sub(one)))
	}
	subtotal := subtotalBeforeSurge.Add(surgeAmount)

	discountAmount := decimal.Zero
	applied := make([]AppliedDiscount, 0, len(discounts))
	for _, discount := range discounts {
		contribution := discount.contribution(subtotal)
		discountAmount = discountAmount.Add(contribution)
		applied = append(applied, AppliedDiscount{
			Code:   discount.Code,
			Type:   discount.Type,
			Amount: contribution,
		})
	}
	// Discounts never push the total negative.
	if discountAmount.GreaterThan(subtotal) {
		discountAmount = subtotal
	}

	return &Breakdown{
		BaseAmount:           baseAmount,
		DistanceAmount:       distanceAmount,
		TimeAdjustment:       timeAdj,
		TypeAdjustment:       typeAdj,
		DifficultyAdjustment: difficultyAdj,
		ModeAdjustment:       modeAdj,
		UrgencyAdjustment:    urgencyAdj,
		SurgeAmount:          surgeAmount,
		Subtotal:             subtotal,
		DiscountAmount:       discountAmount,
		Total:                subtotal.Sub(discountAmount),
		Currency:             e.config.Currency,
		Factors:              factors,
		AppliedDiscounts:     applied,
	}, nil
}

// adjustment computes round2(base x (multiplier - 1)) for one factor axis.
func adjustment[K any](base decimal.Decimal, lookup func(K) (decimal.Decimal, error), key K) (decimal.Decimal, error) {
	multiplier, err := lookup(key)
	if err != nil {
		return decimal.Zero, err
	}
	return round2(base.Mul(multiplier.Sub(one))), nil
}
