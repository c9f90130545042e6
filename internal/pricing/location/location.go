// Package location resolves area-specific pricing records. A quote for
// (city, area) walks exact match, then the city-wide record, then the
// system default, and reports which tier answered for auditability.
package location

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	dErrors "veritask/pkg/domain-errors"
)

// Status gates whether a pricing record participates in resolution.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

// Pricing is a configured cost record for a city, optionally narrowed to an
// area. Area == nil means the record is the city-wide fallback.
type Pricing struct {
	City           string
	Area           *string
	CityCost       decimal.Decimal
	AreaCost       decimal.Decimal
	Status         Status
	EffectiveFrom  time.Time
	EffectiveUntil *time.Time
}

// NewPricing creates a validated Pricing record.
func NewPricing(city string, area *string, cityCost, areaCost decimal.Decimal, effectiveFrom time.Time) (*Pricing, error) {
	if strings.TrimSpace(city) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "city is required")
	}
	if cityCost.IsNegative() || areaCost.IsNegative() {
		return nil, dErrors.New(dErrors.CodeValidation, "location costs cannot be negative")
	}
	return &Pricing{
		City:          city,
		Area:          area,
		CityCost:      cityCost,
		AreaCost:      areaCost,
		Status:        StatusActive,
		EffectiveFrom: effectiveFrom,
	}, nil
}

// EffectiveAt reports whether the record is active and inside its window.
func (p *Pricing) EffectiveAt(now time.Time) bool {
	if p.Status != StatusActive {
		return false
	}
	if now.Before(p.EffectiveFrom) {
		return false
	}
	if p.EffectiveUntil != nil && now.After(*p.EffectiveUntil) {
		return false
	}
	return true
}

// Cost returns the record's resolved cost: the narrower area cost when the
// record targets an area, otherwise the city cost.
func (p *Pricing) Cost() decimal.Decimal {
	if p.Area != nil {
		return p.AreaCost
	}
	return p.CityCost
}

// Tier names which lookup answered a resolution.
type Tier string

const (
	TierExactMatch   Tier = "exact_match"
	TierCityFallback Tier = "city_fallback"
	TierDefault      Tier = "default"
)

// Resolution is the outcome of a location pricing lookup.
type Resolution struct {
	City string          `json:"city"`
	Area string          `json:"area,omitempty"`
	Cost decimal.Decimal `json:"cost"`
	Tier Tier            `json:"tier"`
}

// Store abstracts persistence of pricing records.
type Store interface {
	// FindExact returns the effective record for (city, area), or
	// sentinel.ErrNotFound.
	FindExact(ctx context.Context, city, area string, now time.Time) (*Pricing, error)
	// FindCityDefault returns the effective city-wide record (area nil), or
	// sentinel.ErrNotFound.
	FindCityDefault(ctx context.Context, city string, now time.Time) (*Pricing, error)
}

// Resolver performs the three-tier lookup over a store.
type Resolver struct {
	store       Store
	defaultCost decimal.Decimal
}

// NewResolver creates a Resolver with the system default cost.
func NewResolver(store Store, defaultCost decimal.Decimal) *Resolver {
	return &Resolver{store: store, defaultCost: defaultCost}
}

// Resolve walks exact match, city fallback, then the system default.
func (r *Resolver) Resolve(ctx context.Context, city, area string, now time.Time) (*Resolution, error) {
	if area != "" {
		record, err := r.store.FindExact(ctx, city, area, now)
		if err == nil {
			return &Resolution{City: city, Area: area, Cost: record.Cost(), Tier: TierExactMatch}, nil
		}
		if !isNotFound(err) {
			return nil, err
		}
	}

	record, err := r.store.FindCityDefault(ctx, city, now)
	if err == nil {
		return &Resolution{City: city, Area: area, Cost: record.Cost(), Tier: TierCityFallback}, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	return &Resolution{City: city, Area: area, Cost: r.defaultCost, Tier: TierDefault}, nil
}
