package models

import (
	"math"
	"strings"

	dErrors "veritask/pkg/domain-errors"
)

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// GeoPoint is the validated location of a verification.
//
// Invariants:
//   - Address is at least 10 characters
//   - Latitude in [-90, 90], longitude in [-180, 180]
type GeoPoint struct {
	Address            string  `json:"address"`
	Latitude           float64 `json:"latitude"`
	Longitude          float64 `json:"longitude"`
	PlaceID            string  `json:"place_id,omitempty"`
	Landmark           string  `json:"landmark,omitempty"`
	AccessInstructions string  `json:"access_instructions,omitempty"`
}

// NewGeoPoint creates a validated GeoPoint.
func NewGeoPoint(address string, latitude, longitude float64) (GeoPoint, error) {
	if len(strings.TrimSpace(address)) < 10 {
		return GeoPoint{}, dErrors.New(dErrors.CodeValidation, "address must be at least 10 characters")
	}
	if latitude < -90 || latitude > 90 {
		return GeoPoint{}, dErrors.New(dErrors.CodeValidation, "latitude must be between -90 and 90")
	}
	if longitude < -180 || longitude > 180 {
		return GeoPoint{}, dErrors.New(dErrors.CodeValidation, "longitude must be between -180 and 180")
	}
	return GeoPoint{Address: address, Latitude: latitude, Longitude: longitude}, nil
}

// MustGeoPoint creates a GeoPoint, panicking if invalid. Use only in tests.
func MustGeoPoint(address string, latitude, longitude float64) GeoPoint {
	p, err := NewGeoPoint(address, latitude, longitude)
	if err != nil {
		panic(err)
	}
	return p
}

// WithDetails returns a copy carrying the optional place metadata.
func (p GeoPoint) WithDetails(placeID, landmark, accessInstructions string) GeoPoint {
	p.PlaceID = placeID
	p.Landmark = landmark
	p.AccessInstructions = accessInstructions
	return p
}

// IsZero reports the uninitialized value.
func (p GeoPoint) IsZero() bool {
	return p.Address == ""
}

// DistanceKm computes the great-circle distance to other in kilometers using
// the haversine formula.
func (p GeoPoint) DistanceKm(other GeoPoint) float64 {
	lat1 := toRadians(p.Latitude)
	lat2 := toRadians(other.Latitude)
	dLat := toRadians(other.Latitude - p.Latitude)
	dLon := toRadians(other.Longitude - p.Longitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
