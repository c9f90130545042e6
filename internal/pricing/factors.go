// Package pricing turns a verification request's attributes into an
// itemized, reproducible price. The engine is a pure calculator: every
// input arrives as an argument, every intermediate amount is rounded to
// 2 decimal places, and the same factors always produce the same breakdown.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"veritask/internal/verification/models"
	dErrors "veritask/pkg/domain-errors"
)

// TimeSlot classifies the scheduled hour of a verification visit.
type TimeSlot string

const (
	TimeSlotRushHour TimeSlot = "RUSH_HOUR"
	TimeSlotStandard TimeSlot = "STANDARD"
	TimeSlotEconomy  TimeSlot = "ECONOMY"
)

// AllTimeSlots in suggestion order.
var AllTimeSlots = []TimeSlot{TimeSlotRushHour, TimeSlotStandard, TimeSlotEconomy}

// TimeSlotForHour derives the slot from an hour of day:
// [8,10) and [17,19) are rush hour, [10,17) is standard, the rest economy.
func TimeSlotForHour(hour int) TimeSlot {
	switch {
	case (hour >= 8 && hour < 10) || (hour >= 17 && hour < 19):
		return TimeSlotRushHour
	case hour >= 10 && hour < 17:
		return TimeSlotStandard
	default:
		return TimeSlotEconomy
	}
}

// TimeSlotFor derives the slot from a scheduled timestamp.
func TimeSlotFor(t time.Time) TimeSlot {
	return TimeSlotForHour(t.Hour())
}

// SuggestedHour returns the concrete clock hour quoted back to clients when
// suggesting a cheaper slot.
func (s TimeSlot) SuggestedHour() int {
	switch s {
	case TimeSlotRushHour:
		return 8
	case TimeSlotStandard:
		return 14
	default:
		return 20
	}
}

// Difficulty grades how demanding a verification category is for an agent.
// It is derived from the category, never supplied by the caller.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

var categoryDifficulty = map[models.Category]Difficulty{
	models.CategoryDocument:           DifficultyEasy,
	models.CategoryIdentity:           DifficultyEasy,
	models.CategoryLocation:           DifficultyEasy,
	models.CategoryBusiness:           DifficultyMedium,
	models.CategoryAsset:              DifficultyMedium,
	models.CategoryPropertyInspection: DifficultyHard,
	models.CategoryCustom:             DifficultyHard,
}

// DifficultyFor derives the difficulty grade for a category.
func DifficultyFor(category models.Category) Difficulty {
	return categoryDifficulty[category]
}

// Mode is how the verification evidence is delivered.
type Mode string

const (
	ModeRecorded Mode = "RECORDED"
	ModeLive     Mode = "LIVE"
)

// ParseMode constructs a Mode from external input.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if m != ModeRecorded && m != ModeLive {
		return "", dErrors.Newf(dErrors.CodeValidation, "unknown verification mode %q", s)
	}
	return m, nil
}

// ModeFor picks the default delivery mode for a kind: physical-presence
// tasks stream live, the rest submit recorded evidence.
func ModeFor(kind models.VerificationKind) Mode {
	if kind.RequiresPhysicalPresence {
		return ModeLive
	}
	return ModeRecorded
}

// Factors is the immutable snapshot of every calculation input. A breakdown
// carries its factors so any quote can be recomputed and audited.
type Factors struct {
	BaseFee         decimal.Decimal `json:"base_fee"`
	DistanceKm      decimal.Decimal `json:"distance_km"`
	TimeSlot        TimeSlot        `json:"time_slot"`
	Difficulty      Difficulty      `json:"difficulty"`
	Category        models.Category `json:"category"`
	Urgency         models.Urgency  `json:"urgency"`
	Mode            Mode            `json:"mode"`
	SurgeMultiplier decimal.Decimal `json:"surge_multiplier"`
}

// NewFactors validates and snapshots the calculation inputs.
func NewFactors(
	baseFee decimal.Decimal,
	distanceKm float64,
	slot TimeSlot,
	category models.Category,
	urgency models.Urgency,
	mode Mode,
	surgeMultiplier decimal.Decimal,
) (Factors, error) {
	if baseFee.IsNegative() {
		return Factors{}, dErrors.New(dErrors.CodeValidation, "base fee cannot be negative")
	}
	if distanceKm < 0 {
		return Factors{}, dErrors.New(dErrors.CodeValidation, "distance cannot be negative")
	}
	if !category.IsValid() {
		return Factors{}, dErrors.Newf(dErrors.CodeValidation, "unknown verification category %q", category)
	}
	if !urgency.IsValid() {
		return Factors{}, dErrors.Newf(dErrors.CodeValidation, "unknown urgency %q", urgency)
	}
	if surgeMultiplier.LessThan(decimal.NewFromInt(1)) {
		return Factors{}, dErrors.New(dErrors.CodeValidation, "surge multiplier must be at least 1.0")
	}
	return Factors{
		BaseFee:         baseFee,
		DistanceKm:      decimal.NewFromFloat(distanceKm),
		TimeSlot:        slot,
		Difficulty:      DifficultyFor(category),
		Category:        category,
		Urgency:         urgency,
		Mode:            mode,
		SurgeMultiplier: surgeMultiplier,
	}, nil
}
