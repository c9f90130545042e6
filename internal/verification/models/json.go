package models

import (
	"encoding/json"
	"time"

	id "veritask/pkg/domain"
	dErrors "veritask/pkg/domain-errors"
)

// requestJSON is the wire shape of the aggregate. Every field from the
// domain model appears here; dates serialize as RFC 3339 strings and owned
// value objects as nested objects, never flattened. The contract is exact
// and reversible: unmarshalling re-runs value-object validation and yields
// an aggregate whose serialization is byte-for-byte identical.
type requestJSON struct {
	ID                      id.VerificationID `json:"id"`
	ClientID                id.ClientID       `json:"client_id"`
	Title                   string            `json:"title"`
	Description             string            `json:"description"`
	Kind                    VerificationKind  `json:"kind"`
	Location                GeoPoint          `json:"location"`
	Price                   Money             `json:"price"`
	Status                  RequestStatus     `json:"status"`
	StatusHistory           []RequestStatus   `json:"status_history"`
	AssignedAgentID         *id.AgentID       `json:"assigned_agent_id,omitempty"`
	ScheduledDate           *time.Time        `json:"scheduled_date,omitempty"`
	EstimatedCompletionDate time.Time         `json:"estimated_completion_date"`
	ActualCompletionDate    *time.Time        `json:"actual_completion_date,omitempty"`
	Attachments             []string          `json:"attachments"`
	Notes                   string            `json:"notes,omitempty"`
	PaymentID               *id.PaymentID     `json:"payment_id,omitempty"`
	PaymentReference        string            `json:"payment_reference,omitempty"`
	PaymentStatus           PaymentStatus     `json:"payment_status"`
	CreatedAt               time.Time         `json:"created_at"`
	ModifiedAt              time.Time         `json:"modified_at"`
}

// MarshalJSON implements the serialization contract for the aggregate.
func (r *VerificationRequest) MarshalJSON() ([]byte, error) {
	attachments := r.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	return json.Marshal(requestJSON{
		ID:                      r.ID,
		ClientID:                r.ClientID,
		Title:                   r.Title,
		Description:             r.Description,
		Kind:                    r.Kind,
		Location:                r.Location,
		Price:                   r.Price,
		Status:                  r.Status,
		StatusHistory:           r.StatusHistory,
		AssignedAgentID:         r.AssignedAgentID,
		ScheduledDate:           r.ScheduledDate,
		EstimatedCompletionDate: r.EstimatedCompletionDate,
		ActualCompletionDate:    r.ActualCompletionDate,
		Attachments:             attachments,
		Notes:                   r.Notes,
		PaymentID:               r.PaymentID,
		PaymentReference:        r.PaymentReference,
		PaymentStatus:           r.PaymentStatus,
		CreatedAt:               r.CreatedAt,
		ModifiedAt:              r.ModifiedAt,
	})
}

// UnmarshalJSON rehydrates the aggregate, re-validating enum fields so a
// tampered document cannot smuggle in an illegal state.
func (r *VerificationRequest) UnmarshalJSON(data []byte) error {
	var raw requestJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !raw.Status.State.IsValid() {
		return dErrors.Newf(dErrors.CodeValidation, "unknown request state %q", raw.Status.State)
	}
	for _, entry := range raw.StatusHistory {
		if !entry.State.IsValid() {
			return dErrors.Newf(dErrors.CodeValidation, "unknown request state %q in history", entry.State)
		}
	}
	if !raw.Kind.Category.IsValid() {
		return dErrors.Newf(dErrors.CodeValidation, "unknown verification category %q", raw.Kind.Category)
	}
	if !raw.Kind.Urgency.IsValid() {
		return dErrors.Newf(dErrors.CodeValidation, "unknown urgency %q", raw.Kind.Urgency)
	}
	if raw.PaymentStatus != "" && !validPaymentStatuses[raw.PaymentStatus] {
		return dErrors.Newf(dErrors.CodeValidation, "unknown payment status %q", raw.PaymentStatus)
	}
	if raw.Attachments == nil {
		raw.Attachments = []string{}
	}

	*r = VerificationRequest{
		ID:                      raw.ID,
		ClientID:                raw.ClientID,
		Title:                   raw.Title,
		Description:             raw.Description,
		Kind:                    raw.Kind,
		Location:                raw.Location,
		Price:                   raw.Price,
		Status:                  raw.Status,
		StatusHistory:           raw.StatusHistory,
		AssignedAgentID:         raw.AssignedAgentID,
		ScheduledDate:           raw.ScheduledDate,
		EstimatedCompletionDate: raw.EstimatedCompletionDate,
		ActualCompletionDate:    raw.ActualCompletionDate,
		Attachments:             raw.Attachments,
		Notes:                   raw.Notes,
		PaymentID:               raw.PaymentID,
		PaymentReference:        raw.PaymentReference,
		PaymentStatus:           raw.PaymentStatus,
		CreatedAt:               raw.CreatedAt,
		ModifiedAt:              raw.ModifiedAt,
	}
	return nil
}

// Clone returns a deep copy via the serialization contract. Stores hand out
// clones so callers cannot mutate shared state.
func (r *VerificationRequest) Clone() (*VerificationRequest, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	var copied VerificationRequest
	if err := json.Unmarshal(data, &copied); err != nil {
		return nil, err
	}
	return &copied, nil
}
