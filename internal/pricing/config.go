package pricing

import (
	"github.com/shopspring/decimal"

	"veritask/internal/verification/models"
	dErrors "veritask/pkg/domain-errors"
)

// Config is the engine's tunable rate table. It is deliberately separate
// from the category base-price table used for the flat creation-time
// estimate: operations tunes these rates without touching the catalog.
type Config struct {
	Currency          models.Currency
	BaseFee           decimal.Decimal
	DistanceRatePerKm decimal.Decimal
	DefaultAreaCost   decimal.Decimal

	TimeSlotMultipliers   map[TimeSlot]decimal.Decimal
	CategoryMultipliers   map[models.Category]decimal.Decimal
	DifficultyMultipliers map[Difficulty]decimal.Decimal
	ModeMultipliers       map[Mode]decimal.Decimal
	UrgencyMultipliers    map[models.Urgency]decimal.Decimal

	SurgePricingEnabled bool
}

func mustDec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// DefaultConfig returns the production rate table.
func DefaultConfig() *Config {
	return &Config{
		Currency:          models.DefaultCurrency,
		BaseFee:           mustDec("20.00"),
		DistanceRatePerKm: mustDec("2.00"),
		DefaultAreaCost:   mustDec("5.00"),
		TimeSlotMultipliers: map[TimeSlot]decimal.Decimal{
			TimeSlotRushHour: mustDec("1.3"),
			TimeSlotStandard: mustDec("1.0"),
			TimeSlotEconomy:  mustDec("0.85"),
		},
		CategoryMultipliers: map[models.Category]decimal.Decimal{
			models.CategoryDocument:           mustDec("1.0"),
			models.CategoryIdentity:           mustDec("1.1"),
			models.CategoryLocation:           mustDec("1.15"),
			models.CategoryBusiness:           mustDec("1.4"),
			models.CategoryAsset:              mustDec("1.3"),
			models.CategoryPropertyInspection: mustDec("1.6"),
			models.CategoryCustom:             mustDec("1.5"),
		},
		DifficultyMultipliers: map[Difficulty]decimal.Decimal{
			DifficultyEasy:   mustDec("1.0"),
			DifficultyMedium: mustDec("1.2"),
			DifficultyHard:   mustDec("1.5"),
		},
		ModeMultipliers: map[Mode]decimal.Decimal{
			ModeRecorded: mustDec("1.0"),
			ModeLive:     mustDec("1.25"),
		},
		UrgencyMultipliers: map[models.Urgency]decimal.Decimal{
			models.UrgencyStandard:  mustDec("1.0"),
			models.UrgencyUrgent:    mustDec("1.25"),
			models.UrgencyExpress:   mustDec("1.5"),
			models.UrgencyImmediate: mustDec("2.0"),
		},
		SurgePricingEnabled: true,
	}
}

// Lookup helpers. A missing key is a computation error: the engine refuses
// to guess a multiplier.

func (c *Config) timeSlotMultiplier(slot TimeSlot) (decimal.Decimal, error) {
	m, ok := c.TimeSlotMultipliers[slot]
	if !ok {
		return decimal.Zero, dErrors.Newf(dErrors.CodeInternal, "pricing config has no multiplier for time slot %s", slot)
	}
	return m, nil
}

func (c *Config) categoryMultiplier(category models.Category) (decimal.Decimal, error) {
	m, ok := c.CategoryMultipliers[category]
	if !ok {
		return decimal.Zero, dErrors.Newf(dErrors.CodeInternal, "pricing config has no multiplier for category %s", category)
	}
	return m, nil
}

func (c *Config) difficultyMultiplier(difficulty Difficulty) (decimal.Decimal, error) {
	m, ok := c.DifficultyMultipliers[difficulty]
	if !ok {
		return decimal.Zero, dErrors.Newf(dErrors.CodeInternal, "pricing config has no multiplier for difficulty %s", difficulty)
	}
	return m, nil
}

func (c *Config) modeMultiplier(mode Mode) (decimal.Decimal, error) {
	m, ok := c.ModeMultipliers[mode]
	if !ok {
		return decimal.Zero, dErrors.Newf(dErrors.CodeInternal, "pricing config has no multiplier for mode %s", mode)
	}
	return m, nil
}

func (c *Config) urgencyMultiplier(urgency models.Urgency) (decimal.Decimal, error) {
	m, ok := c.UrgencyMultipliers[urgency]
	if !ok {
		return decimal.Zero, dErrors.Newf(dErrors.CodeInternal, "pricing config has no multiplier for urgency %s", urgency)
	}
	return m, nil
}
