package models

import (
	"github.com/shopspring/decimal"

	dErrors "veritask/pkg/domain-errors"
)

// Category is the task category of a verification.
type Category string

// The seven supported verification categories.
const (
	CategoryDocument           Category = "DOCUMENT_VERIFICATION"
	CategoryIdentity           Category = "IDENTITY_VERIFICATION"
	CategoryLocation           Category = "LOCATION_VERIFICATION"
	CategoryBusiness           Category = "BUSINESS_VERIFICATION"
	CategoryAsset              Category = "ASSET_VERIFICATION"
	CategoryPropertyInspection Category = "PROPERTY_INSPECTION"
	CategoryCustom             Category = "CUSTOM"
)

var validCategories = map[Category]bool{
	CategoryDocument:           true,
	CategoryIdentity:           true,
	CategoryLocation:           true,
	CategoryBusiness:           true,
	CategoryAsset:              true,
	CategoryPropertyInspection: true,
	CategoryCustom:             true,
}

// categoryBasePrices is the creation-time rate table, keyed by category.
// The richer pricing engine carries its own tunable config; both must stay
// numerically consistent.
var categoryBasePrices = map[Category]string{
	CategoryDocument:           "25.00",
	CategoryIdentity:           "30.00",
	CategoryLocation:           "35.00",
	CategoryBusiness:           "50.00",
	CategoryAsset:              "45.00",
	CategoryPropertyInspection: "60.00",
	CategoryCustom:             "40.00",
}

// categoryRequiredDocuments lists the checklist a client must attach per
// category before an agent can complete the task.
var categoryRequiredDocuments = map[Category][]string{
	CategoryDocument:           {"document_scan", "holder_id"},
	CategoryIdentity:           {"government_id", "selfie_photo"},
	CategoryLocation:           {"address_proof"},
	CategoryBusiness:           {"registration_certificate", "tax_certificate", "premises_photo"},
	CategoryAsset:              {"ownership_proof", "asset_photo"},
	CategoryPropertyInspection: {"title_deed", "property_photo", "floor_plan"},
	CategoryCustom:             {},
}

// ParseCategory constructs a Category from external input.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !validCategories[c] {
		return "", dErrors.Newf(dErrors.CodeValidation, "unknown verification category %q", s)
	}
	return c, nil
}

// IsValid checks the category against the fixed set.
func (c Category) IsValid() bool {
	return validCategories[c]
}

func (c Category) String() string {
	return string(c)
}

// BasePrice returns the creation-time base price for the category.
func (c Category) BasePrice() Money {
	return MustMoney(categoryBasePrices[c], DefaultCurrency)
}

// RequiredDocuments returns the fixed document checklist for the category.
func (c Category) RequiredDocuments() []string {
	docs := categoryRequiredDocuments[c]
	out := make([]string, len(docs))
	copy(out, docs)
	return out
}

// Urgency is the requested turnaround level of a verification.
type Urgency string

// The four supported urgency levels.
const (
	UrgencyStandard  Urgency = "STANDARD"
	UrgencyUrgent    Urgency = "URGENT"
	UrgencyExpress   Urgency = "EXPRESS"
	UrgencyImmediate Urgency = "IMMEDIATE"
)

// urgencyProfile pairs the price multiplier with the SLA window.
type urgencyProfile struct {
	multiplier string
	slaHours   int
}

var urgencyProfiles = map[Urgency]urgencyProfile{
	UrgencyStandard:  {multiplier: "1.0", slaHours: 48},
	UrgencyUrgent:    {multiplier: "1.25", slaHours: 24},
	UrgencyExpress:   {multiplier: "1.5", slaHours: 12},
	UrgencyImmediate: {multiplier: "2.0", slaHours: 6},
}

// ParseUrgency constructs an Urgency from external input.
func ParseUrgency(s string) (Urgency, error) {
	u := Urgency(s)
	if _, ok := urgencyProfiles[u]; !ok {
		return "", dErrors.Newf(dErrors.CodeValidation, "unknown urgency %q", s)
	}
	return u, nil
}

// IsValid checks the urgency against the fixed set.
func (u Urgency) IsValid() bool {
	_, ok := urgencyProfiles[u]
	return ok
}

func (u Urgency) String() string {
	return string(u)
}

// Multiplier returns the price multiplier for the urgency level.
func (u Urgency) Multiplier() decimal.Decimal {
	return decimal.RequireFromString(urgencyProfiles[u].multiplier)
}

// SLAHours returns the completion window for the urgency level.
func (u Urgency) SLAHours() int {
	return urgencyProfiles[u].slaHours
}

// maxDurationMinutes caps a single verification visit at one working day.
const maxDurationMinutes = 480

// VerificationKind bundles what kind of task is requested: category, urgency
// and the expected on-site effort.
type VerificationKind struct {
	Category                 Category `json:"category"`
	Urgency                  Urgency  `json:"urgency"`
	RequiresPhysicalPresence bool     `json:"requires_physical_presence"`
	EstimatedDurationMinutes int      `json:"estimated_duration_minutes"`
	SpecialInstructions      string   `json:"special_instructions,omitempty"`
}

// NewVerificationKind creates a validated VerificationKind.
func NewVerificationKind(category Category, urgency Urgency, physical bool, durationMinutes int) (VerificationKind, error) {
	if !category.IsValid() {
		return VerificationKind{}, dErrors.Newf(dErrors.CodeValidation, "unknown verification category %q", category)
	}
	if !urgency.IsValid() {
		return VerificationKind{}, dErrors.Newf(dErrors.CodeValidation, "unknown urgency %q", urgency)
	}
	if durationMinutes <= 0 || durationMinutes > maxDurationMinutes {
		return VerificationKind{}, dErrors.Newf(dErrors.CodeValidation,
			"estimated duration must be between 1 and %d minutes", maxDurationMinutes)
	}
	return VerificationKind{
		Category:                 category,
		Urgency:                  urgency,
		RequiresPhysicalPresence: physical,
		EstimatedDurationMinutes: durationMinutes,
	}, nil
}

// MustVerificationKind creates a VerificationKind, panicking if invalid.
// Use only in tests.
func MustVerificationKind(category Category, urgency Urgency, physical bool, durationMinutes int) VerificationKind {
	k, err := NewVerificationKind(category, urgency, physical, durationMinutes)
	if err != nil {
		panic(err)
	}
	return k
}

// WithInstructions returns a copy carrying special instructions.
func (k VerificationKind) WithInstructions(instructions string) VerificationKind {
	k.SpecialInstructions = instructions
	return k
}

// BasePrice returns the creation-time base price for this kind's category.
func (k VerificationKind) BasePrice() Money {
	return k.Category.BasePrice()
}

// RequiredDocuments returns the document checklist for this kind's category.
func (k VerificationKind) RequiredDocuments() []string {
	return k.Category.RequiredDocuments()
}

// SLAHours returns the completion window for this kind's urgency.
func (k VerificationKind) SLAHours() int {
	return k.Urgency.SLAHours()
}
