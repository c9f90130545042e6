package pricing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"veritask/internal/pricing"
	"veritask/internal/verification/models"
)

func TestTimeSlotForHour(t *testing.T) {
	cases := map[int]pricing.TimeSlot{
		0:  pricing.TimeSlotEconomy,
		7:  pricing.TimeSlotEconomy,
		8:  pricing.TimeSlotRushHour,
		9:  pricing.TimeSlotRushHour,
		10: pricing.TimeSlotStandard,
		16: pricing.TimeSlotStandard,
		17: pricing.TimeSlotRushHour,
		18: pricing.TimeSlotRushHour,
		19: pricing.TimeSlotEconomy,
		23: pricing.TimeSlotEconomy,
	}
	for hour, want := range cases {
		assert.Equal(t, want, pricing.TimeSlotForHour(hour), "hour %d", hour)
	}
}

func TestTimeSlotFor(t *testing.T) {
	assert.Equal(t, pricing.TimeSlotRushHour,
		pricing.TimeSlotFor(time.Date(2026, 3, 10, 17, 45, 0, 0, time.UTC)))
	assert.Equal(t, pricing.TimeSlotEconomy,
		pricing.TimeSlotFor(time.Date(2026, 3, 10, 5, 0, 0, 0, time.UTC)))
}

func TestSuggestedHour(t *testing.T) {
	assert.Equal(t, 8, pricing.TimeSlotRushHour.SuggestedHour())
	assert.Equal(t, 14, pricing.TimeSlotStandard.SuggestedHour())
	assert.Equal(t, 20, pricing.TimeSlotEconomy.SuggestedHour())
}

func TestDifficultyFor(t *testing.T) {
	cases := map[models.Category]pricing.Difficulty{
		models.CategoryDocument:           pricing.DifficultyEasy,
		models.CategoryIdentity:           pricing.DifficultyEasy,
		models.CategoryLocation:           pricing.DifficultyEasy,
		models.CategoryBusiness:           pricing.DifficultyMedium,
		models.CategoryAsset:              pricing.DifficultyMedium,
		models.CategoryPropertyInspection: pricing.DifficultyHard,
		models.CategoryCustom:             pricing.DifficultyHard,
	}
	for category, want := range cases {
		assert.Equal(t, want, pricing.DifficultyFor(category), category)
	}
}

func TestModeFor(t *testing.T) {
	physical := models.MustVerificationKind(models.CategoryPropertyInspection, models.UrgencyStandard, true, 120)
	remote := models.MustVerificationKind(models.CategoryDocument, models.UrgencyStandard, false, 30)

	assert.Equal(t, pricing.ModeLive, pricing.ModeFor(physical))
	assert.Equal(t, pricing.ModeRecorded, pricing.ModeFor(remote))
}

func TestParseMode(t *testing.T) {
	m, err := pricing.ParseMode("LIVE")
	assert.NoError(t, err)
	assert.Equal(t, pricing.ModeLive, m)

	_, err = pricing.ParseMode("HOLOGRAM")
	assert.Error(t, err)
}
