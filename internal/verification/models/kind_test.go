package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veritask/internal/verification/models"
	dErrors "veritask/pkg/domain-errors"
)

func TestParseCategory(t *testing.T) {
	for _, name := range []string{
		"DOCUMENT_VERIFICATION", "IDENTITY_VERIFICATION", "LOCATION_VERIFICATION",
		"BUSINESS_VERIFICATION", "ASSET_VERIFICATION", "PROPERTY_INSPECTION", "CUSTOM",
	} {
		c, err := models.ParseCategory(name)
		require.NoError(t, err, name)
		assert.True(t, c.IsValid())
	}

	_, err := models.ParseCategory("PET_VERIFICATION")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestCategoryBasePrices(t *testing.T) {
	cases := map[models.Category]string{
		models.CategoryDocument:           "25.00",
		models.CategoryIdentity:           "30.00",
		models.CategoryLocation:           "35.00",
		models.CategoryBusiness:           "50.00",
		models.CategoryAsset:              "45.00",
		models.CategoryPropertyInspection: "60.00",
		models.CategoryCustom:             "40.00",
	}
	for category, want := range cases {
		assert.True(t, category.BasePrice().Equals(models.MustMoney(want, models.DefaultCurrency)), category)
	}
}

func TestCategoryRequiredDocuments(t *testing.T) {
	assert.Equal(t, []string{"government_id", "selfie_photo"}, models.CategoryIdentity.RequiredDocuments())
	assert.Empty(t, models.CategoryCustom.RequiredDocuments())

	// Callers get a copy, not the table itself.
	docs := models.CategoryDocument.RequiredDocuments()
	docs[0] = "mutated"
	assert.Equal(t, []string{"document_scan", "holder_id"}, models.CategoryDocument.RequiredDocuments())
}

func TestUrgencyProfiles(t *testing.T) {
	cases := []struct {
		urgency    models.Urgency
		multiplier string
		slaHours   int
	}{
		{models.UrgencyStandard, "1.0", 48},
		{models.UrgencyUrgent, "1.25", 24},
		{models.UrgencyExpress, "1.5", 12},
		{models.UrgencyImmediate, "2.0", 6},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.multiplier, tc.urgency.Multiplier().String(), tc.urgency)
		assert.Equal(t, tc.slaHours, tc.urgency.SLAHours(), tc.urgency)
	}

	_, err := models.ParseUrgency("WHENEVER")
	require.Error(t, err)
}

func TestNewVerificationKind(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		k, err := models.NewVerificationKind(models.CategoryIdentity, models.UrgencyUrgent, true, 60)
		require.NoError(t, err)
		assert.Equal(t, 24, k.SLAHours())
		assert.True(t, k.BasePrice().Equals(models.MustMoney("30.00", models.DefaultCurrency)))
	})

	t.Run("rejects non-positive duration", func(t *testing.T) {
		_, err := models.NewVerificationKind(models.CategoryIdentity, models.UrgencyUrgent, true, 0)
		require.Error(t, err)
	})

	t.Run("rejects duration above one working day", func(t *testing.T) {
		_, err := models.NewVerificationKind(models.CategoryIdentity, models.UrgencyUrgent, true, 481)
		require.Error(t, err)
		_, err = models.NewVerificationKind(models.CategoryIdentity, models.UrgencyUrgent, true, 480)
		require.NoError(t, err)
	})

	t.Run("rejects unknown category and urgency", func(t *testing.T) {
		_, err := models.NewVerificationKind(models.Category("NOPE"), models.UrgencyUrgent, true, 60)
		require.Error(t, err)
		_, err = models.NewVerificationKind(models.CategoryIdentity, models.Urgency("NOPE"), true, 60)
		require.Error(t, err)
	})

	t.Run("with instructions", func(t *testing.T) {
		k := models.MustVerificationKind(models.CategoryCustom, models.UrgencyStandard, false, 30).
			WithInstructions("call before arriving")
		assert.Equal(t, "call before arriving", k.SpecialInstructions)
	})
}
