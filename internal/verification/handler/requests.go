package handler

import (
	"encoding/json"
	"io"
	"time"

	"veritask/internal/verification/models"
	dErrors "veritask/pkg/domain-errors"
)

// createRequest is the wire shape for opening a verification request.
type createRequest struct {
	ClientID                 string  `json:"client_id"`
	Title                    string  `json:"title"`
	Description              string  `json:"description"`
	Category                 string  `json:"category"`
	Urgency                  string  `json:"urgency"`
	RequiresPhysicalPresence bool    `json:"requires_physical_presence"`
	EstimatedDurationMinutes int     `json:"estimated_duration_minutes"`
	SpecialInstructions      string  `json:"special_instructions"`
	Address                  string  `json:"address"`
	Latitude                 float64 `json:"latitude"`
	Longitude                float64 `json:"longitude"`
	PlaceID                  string  `json:"place_id"`
	Landmark                 string  `json:"landmark"`
	AccessInstructions       string  `json:"access_instructions"`
	Notes                    string  `json:"notes"`
}

// kind builds the validated VerificationKind from the raw payload.
func (r createRequest) kind() (models.VerificationKind, error) {
	category, err := models.ParseCategory(r.Category)
	if err != nil {
		return models.VerificationKind{}, err
	}
	urgency, err := models.ParseUrgency(r.Urgency)
	if err != nil {
		return models.VerificationKind{}, err
	}
	kind, err := models.NewVerificationKind(category, urgency, r.RequiresPhysicalPresence, r.EstimatedDurationMinutes)
	if err != nil {
		return models.VerificationKind{}, err
	}
	if r.SpecialInstructions != "" {
		kind = kind.WithInstructions(r.SpecialInstructions)
	}
	return kind, nil
}

// location builds the validated GeoPoint from the raw payload.
func (r createRequest) location() (models.GeoPoint, error) {
	point, err := models.NewGeoPoint(r.Address, r.Latitude, r.Longitude)
	if err != nil {
		return models.GeoPoint{}, err
	}
	if r.PlaceID != "" || r.Landmark != "" || r.AccessInstructions != "" {
		point = point.WithDetails(r.PlaceID, r.Landmark, r.AccessInstructions)
	}
	return point, nil
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

type assignRequest struct {
	AgentID string `json:"agent_id"`
}

type scheduleRequest struct {
	Date time.Time `json:"date"`
}

type attachmentRequest struct {
	URL string `json:"url"`
}

type pendingPaymentRequest struct {
	Reference string `json:"reference"`
}

type confirmPaymentRequest struct {
	PaymentID string `json:"payment_id"`
}

// decode unmarshals a request body into dst, translating malformed JSON
// into a bad-request domain error.
func decode(body io.Reader, dst any) error {
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid request body")
	}
	return nil
}
