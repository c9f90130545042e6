package service

import (
	"context"

	"github.com/shopspring/decimal"

	"veritask/internal/pricing"
	"veritask/internal/verification/models"
)

// SurgeProvider supplies the current demand multiplier for a city.
// surge.RedisProvider and surge.Static both satisfy it.
type SurgeProvider interface {
	Multiplier(ctx context.Context, city string) (decimal.Decimal, error)
}

// DistancePlanner supplies the travel distance an agent covers to reach a
// verification site. Production backs this with the maps collaborator; the
// default implementation measures great-circle distance from a dispatch hub.
type DistancePlanner interface {
	DistanceKm(ctx context.Context, location models.GeoPoint) (float64, error)
}

// DiscountProvider validates a discount code into zero or more discounts.
// An unknown code resolves to an empty slice, not an error.
type DiscountProvider interface {
	DiscountsForCode(ctx context.Context, code string) ([]pricing.Discount, error)
}

// HubPlanner measures straight-line distance from a fixed dispatch hub.
type HubPlanner struct {
	Hub models.GeoPoint
}

func (p HubPlanner) DistanceKm(_ context.Context, location models.GeoPoint) (float64, error) {
	return p.Hub.DistanceKm(location), nil
}

// NoDiscounts is the DiscountProvider for deployments without a promotions
// backend.
type NoDiscounts struct{}

func (NoDiscounts) DiscountsForCode(context.Context, string) ([]pricing.Discount, error) {
	return nil, nil
}

// StaticDiscounts resolves codes from a fixed table. Used in tests and
// seed environments.
type StaticDiscounts map[string][]pricing.Discount

func (d StaticDiscounts) DiscountsForCode(_ context.Context, code string) ([]pricing.Discount, error) {
	return d[code], nil
}
