package pricing

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"veritask/internal/verification/models"
)

// Suggestion tells a client how much they would save by moving the visit to
// a different time slot. Savings are computed at surge 1.0 so the advice
// does not bake in a demand spike that may have passed by the new time.
type Suggestion struct {
	TimeSlot      TimeSlot        `json:"time_slot"`
	SuggestedTime string          `json:"suggested_time"`
	Total         decimal.Decimal `json:"total"`
	Savings       decimal.Decimal `json:"savings"`
}

// Suggestions re-quotes each of the three time slots at surge 1.0 and
// returns the slots with positive savings versus the actual scheduled slot,
// sorted by savings descending. Each suggestion carries a concrete clock
// time (08:00 rush, 14:00 standard, 20:00 economy).
func (e *Engine) Suggestions(
	kind models.VerificationKind,
	scheduledAt time.Time,
	distanceKm float64,
	mode Mode,
	discounts []Discount,
) ([]Suggestion, error) {
	quoteSlot := func(slot TimeSlot) (decimal.Decimal, error) {
		factors, err := NewFactors(
			e.config.BaseFee, distanceKm, slot,
			kind.Category, kind.Urgency, mode, one,
		)
		if err != nil {
			return decimal.Zero, err
		}
		breakdown, err := e.Calculate(factors, discounts)
		if err != nil {
			return decimal.Zero, err
		}
		return breakdown.Total, nil
	}

	currentSlot := TimeSlotFor(scheduledAt)
	currentTotal, err := quoteSlot(currentSlot)
	if err != nil {
		return nil, err
	}

	suggestions := make([]Suggestion, 0, len(AllTimeSlots))
	for _, slot := range AllTimeSlots {
		if slot == currentSlot {
			continue
		}
		total, err := quoteSlot(slot)
		if err != nil {
			return nil, err
		}
		savings := currentTotal.Sub(total)
		if !savings.IsPositive() {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			TimeSlot:      slot,
			SuggestedTime: fmt.Sprintf("%02d:00", slot.SuggestedHour()),
			Total:         total,
			Savings:       savings,
		})
	}

	sort.Slice(suggestions, func(i, j int) bool {
		return suggestions[i].Savings.GreaterThan(suggestions[j].Savings)
	})
	return suggestions, nil
}
