package pricing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veritask/internal/pricing"
	"veritask/internal/verification/models"
)

func TestSuggestions(t *testing.T) {
	engine := pricing.NewEngine(pricing.DefaultConfig())
	kind := models.MustVerificationKind(models.CategoryDocument, models.UrgencyStandard, false, 30)

	t.Run("rush hour booking yields both cheaper slots", func(t *testing.T) {
		scheduledAt := time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC)

		suggestions, err := engine.Suggestions(kind, scheduledAt, 0, pricing.ModeRecorded, nil)
		require.NoError(t, err)
		require.Len(t, suggestions, 2)

		// Rush total 26.00, standard 20.00, economy 17.00: biggest
		// savings first.
		assert.Equal(t, pricing.TimeSlotEconomy, suggestions[0].TimeSlot)
		assert.Equal(t, "20:00", suggestions[0].SuggestedTime)
		assert.True(t, decimal.RequireFromString("9").Equal(suggestions[0].Savings), suggestions[0].Savings.String())

		assert.Equal(t, pricing.TimeSlotStandard, suggestions[1].TimeSlot)
		assert.Equal(t, "14:00", suggestions[1].SuggestedTime)
		assert.True(t, decimal.RequireFromString("6").Equal(suggestions[1].Savings), suggestions[1].Savings.String())
	})

	t.Run("economy booking has nothing cheaper", func(t *testing.T) {
		scheduledAt := time.Date(2026, 3, 10, 21, 0, 0, 0, time.UTC)

		suggestions, err := engine.Suggestions(kind, scheduledAt, 0, pricing.ModeRecorded, nil)
		require.NoError(t, err)
		assert.Empty(t, suggestions)
	})

	t.Run("standard booking suggests only economy", func(t *testing.T) {
		scheduledAt := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

		suggestions, err := engine.Suggestions(kind, scheduledAt, 0, pricing.ModeRecorded, nil)
		require.NoError(t, err)
		require.Len(t, suggestions, 1)
		assert.Equal(t, pricing.TimeSlotEconomy, suggestions[0].TimeSlot)
		assert.True(t, decimal.RequireFromString("3").Equal(suggestions[0].Savings))
	})

	t.Run("savings ignore the live surge", func(t *testing.T) {
		// Suggestions are always computed at surge 1.0, so they match the
		// no-surge totals regardless of current demand.
		scheduledAt := time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC)
		suggestions, err := engine.Suggestions(kind, scheduledAt, 0, pricing.ModeRecorded, nil)
		require.NoError(t, err)
		require.NotEmpty(t, suggestions)
		assert.True(t, decimal.RequireFromString("17").Equal(suggestions[0].Total))
	})
}
