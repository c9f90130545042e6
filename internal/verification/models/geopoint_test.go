package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veritask/internal/verification/models"
	dErrors "veritask/pkg/domain-errors"
)

func TestNewGeoPoint(t *testing.T) {
	t.Run("accepts a valid point", func(t *testing.T) {
		p, err := models.NewGeoPoint("12 Marina Road, Lagos Island", 6.4541, 3.3947)
		require.NoError(t, err)
		assert.Equal(t, 6.4541, p.Latitude)
		assert.False(t, p.IsZero())
	})

	t.Run("rejects a short address", func(t *testing.T) {
		_, err := models.NewGeoPoint("short", 6.45, 3.39)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects latitude out of range", func(t *testing.T) {
		_, err := models.NewGeoPoint("12 Marina Road, Lagos Island", 90.01, 3.39)
		require.Error(t, err)
		_, err = models.NewGeoPoint("12 Marina Road, Lagos Island", -90.01, 3.39)
		require.Error(t, err)
	})

	t.Run("rejects longitude out of range", func(t *testing.T) {
		_, err := models.NewGeoPoint("12 Marina Road, Lagos Island", 6.45, 180.5)
		require.Error(t, err)
		_, err = models.NewGeoPoint("12 Marina Road, Lagos Island", 6.45, -180.5)
		require.Error(t, err)
	})

	t.Run("accepts boundary coordinates", func(t *testing.T) {
		_, err := models.NewGeoPoint("South pole research station", -90, 180)
		require.NoError(t, err)
	})
}

func TestGeoPointWithDetails(t *testing.T) {
	p := models.MustGeoPoint("12 Marina Road, Lagos Island", 6.4541, 3.3947).
		WithDetails("place-123", "opposite the bank", "gate code 4421")
	assert.Equal(t, "place-123", p.PlaceID)
	assert.Equal(t, "opposite the bank", p.Landmark)
	assert.Equal(t, "gate code 4421", p.AccessInstructions)
}

func TestDistanceKm(t *testing.T) {
	london := models.MustGeoPoint("10 Downing Street, London", 51.5074, -0.1278)
	paris := models.MustGeoPoint("Champs-Elysees, Paris, France", 48.8566, 2.3522)

	t.Run("distance to self is zero", func(t *testing.T) {
		assert.InDelta(t, 0, london.DistanceKm(london), 1e-9)
	})

	t.Run("known city pair", func(t *testing.T) {
		assert.InDelta(t, 344, london.DistanceKm(paris), 5)
	})

	t.Run("symmetric", func(t *testing.T) {
		assert.InDelta(t, london.DistanceKm(paris), paris.DistanceKm(london), 1e-9)
	})
}
