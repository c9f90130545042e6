package models

import (
	"strings"
	"time"

	id "veritask/pkg/domain"
	dErrors "veritask/pkg/domain-errors"
)

// PaymentStatus tracks the payment linkage of a request.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

var validPaymentStatuses = map[PaymentStatus]bool{
	PaymentStatusPending:  true,
	PaymentStatusPaid:     true,
	PaymentStatusFailed:   true,
	PaymentStatusRefunded: true,
}

// ParsePaymentStatus constructs a PaymentStatus from external input.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	p := PaymentStatus(s)
	if !validPaymentStatuses[p] {
		return "", dErrors.Newf(dErrors.CodeValidation, "unknown payment status %q", s)
	}
	return p, nil
}

// VerificationRequest is the aggregate root for a verification task. All
// consistent mutation of its owned value objects goes through its methods;
// every successful mutator appends exactly one entry to the status history
// and bumps ModifiedAt. A failed mutator leaves the aggregate unchanged.
//
// Invariants:
//   - Title is at least 5 characters, description at least 20
//   - Status history is append-only and never empty
//   - Attachments form an ordered set (no duplicates)
//   - ScheduledDate, when set, is strictly in the future at the time of scheduling
//   - EstimatedCompletionDate is derived at creation from the urgency SLA
type VerificationRequest struct {
	ID                      id.VerificationID
	ClientID                id.ClientID
	Title                   string
	Description             string
	Kind                    VerificationKind
	Location                GeoPoint
	Price                   Money
	Status                  RequestStatus
	StatusHistory           []RequestStatus
	AssignedAgentID         *id.AgentID
	ScheduledDate           *time.Time
	EstimatedCompletionDate time.Time
	ActualCompletionDate    *time.Time
	Attachments             []string
	Notes                   string
	PaymentID               *id.PaymentID
	PaymentReference        string
	PaymentStatus           PaymentStatus
	CreatedAt               time.Time
	ModifiedAt              time.Time
}

// NewVerificationRequest creates a request in DRAFT with the creation-time
// flat price already computed. The caller supplies the generated ID and the
// clock reading so construction stays deterministic.
func NewVerificationRequest(
	requestID id.VerificationID,
	clientID id.ClientID,
	title, description string,
	kind VerificationKind,
	location GeoPoint,
	now time.Time,
) (*VerificationRequest, error) {
	if requestID.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "verification id is required")
	}
	if clientID.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "client id is required")
	}
	if len(strings.TrimSpace(title)) < 5 {
		return nil, dErrors.New(dErrors.CodeValidation, "title must be at least 5 characters")
	}
	if len(strings.TrimSpace(description)) < 20 {
		return nil, dErrors.New(dErrors.CodeValidation, "description must be at least 20 characters")
	}
	if location.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "location is required")
	}

	initial, err := NewRequestStatus(StateDraft, "", clientID.String(), now)
	if err != nil {
		return nil, err
	}

	r := &VerificationRequest{
		ID:                      requestID,
		ClientID:                clientID,
		Title:                   title,
		Description:             description,
		Kind:                    kind,
		Location:                location,
		Status:                  initial,
		StatusHistory:           []RequestStatus{initial},
		EstimatedCompletionDate: now.Add(time.Duration(kind.SLAHours()) * time.Hour),
		Attachments:             []string{},
		PaymentStatus:           PaymentStatusPending,
		CreatedAt:               now,
		ModifiedAt:              now,
	}
	r.Price = r.CalculateTotalPrice()
	return r, nil
}

// CalculateTotalPrice recomputes the flat creation-time price:
// category base price scaled by the urgency multiplier. The on-demand
// itemized quote lives in the pricing engine; the two paths share the same
// category and urgency tables.
func (r *VerificationRequest) CalculateTotalPrice() Money {
	return r.Kind.BasePrice().Multiply(r.Kind.Urgency.Multiplier())
}

// applyTransition validates the edge, then appends the successor status.
// The one-error-no-state-change contract of every mutator hangs on the
// validation happening before any field is touched.
func (r *VerificationRequest) applyTransition(target State, reason, actor string, now time.Time) error {
	next, err := r.Status.TransitionTo(target, reason, actor, now)
	if err != nil {
		return err
	}
	r.pushStatus(next, now)
	return nil
}

func (r *VerificationRequest) pushStatus(next RequestStatus, now time.Time) {
	r.Status = next
	r.StatusHistory = append(r.StatusHistory, next)
	r.ModifiedAt = now
}

// Submit moves the request to SUBMITTED.
func (r *VerificationRequest) Submit(actor string, now time.Time) error {
	return r.applyTransition(StateSubmitted, "", actor, now)
}

// AssignAgent records the agent and moves the request to ASSIGNED.
func (r *VerificationRequest) AssignAgent(agentID id.AgentID, actor string, now time.Time) error {
	if agentID.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "agent id is required")
	}
	if !r.Status.CanBeAssigned() {
		return dErrors.Newf(dErrors.CodeInvariantViolation,
			"request in state %s cannot be assigned", r.Status.State)
	}
	if err := r.applyTransition(StateAssigned, "", actor, now); err != nil {
		return err
	}
	r.AssignedAgentID = &agentID
	return nil
}

// StartVerification moves the request to IN_PROGRESS. Requires a prior
// agent assignment.
func (r *VerificationRequest) StartVerification(actor string, now time.Time) error {
	if r.AssignedAgentID == nil {
		return dErrors.New(dErrors.CodeInvariantViolation, "cannot start verification without an assigned agent")
	}
	if !r.Status.CanProgress() {
		return dErrors.Newf(dErrors.CodeInvariantViolation,
			"request in state %s cannot progress", r.Status.State)
	}
	return r.applyTransition(StateInProgress, "", actor, now)
}

// Complete finishes the field work, stamping the actual completion date.
func (r *VerificationRequest) Complete(actor string, now time.Time) error {
	if !r.Status.CanProgress() {
		return dErrors.Newf(dErrors.CodeInvariantViolation,
			"request in state %s cannot progress", r.Status.State)
	}
	if err := r.applyTransition(StateCompleted, "", actor, now); err != nil {
		return err
	}
	completed := now
	r.ActualCompletionDate = &completed
	return nil
}

// Cancel terminates the request with a mandatory reason.
func (r *VerificationRequest) Cancel(reason, actor string, now time.Time) error {
	if reason == "" {
		return dErrors.New(dErrors.CodeValidation, "cancellation requires a reason")
	}
	return r.applyTransition(StateCancelled, reason, actor, now)
}

// Reject terminates the request with a mandatory reason.
//
// Unlike every other mutator, Reject does not consult the transition table:
// a request can be rejected from any state, including terminal ones. The
// source system behaves this way and downstream operations depend on
// unconditional rejection, so the asymmetry is kept.
func (r *VerificationRequest) Reject(reason, actor string, now time.Time) error {
	rejected, err := NewRequestStatus(StateRejected, reason, actor, now)
	if err != nil {
		return err
	}
	r.pushStatus(rejected, now)
	return nil
}

// RequestRevision sends the request back for rework with a mandatory reason.
func (r *VerificationRequest) RequestRevision(reason, actor string, now time.Time) error {
	if reason == "" {
		return dErrors.New(dErrors.CodeValidation, "revision requires a reason")
	}
	return r.applyTransition(StateRequiresRevision, reason, actor, now)
}

// Schedule sets the visit date, which must be strictly in the future.
func (r *VerificationRequest) Schedule(date time.Time, now time.Time) error {
	if !date.After(now) {
		return dErrors.New(dErrors.CodeValidation, "scheduled date must be in the future")
	}
	scheduled := date
	r.ScheduledDate = &scheduled
	r.ModifiedAt = now
	return nil
}

// AddAttachment appends a supporting document URL, rejecting duplicates.
func (r *VerificationRequest) AddAttachment(url string, now time.Time) error {
	if url == "" {
		return dErrors.New(dErrors.CodeValidation, "attachment url is required")
	}
	for _, existing := range r.Attachments {
		if existing == url {
			return dErrors.New(dErrors.CodeInvariantViolation, "attachment already exists")
		}
	}
	r.Attachments = append(r.Attachments, url)
	r.ModifiedAt = now
	return nil
}

// RemoveAttachment removes a previously attached URL.
func (r *VerificationRequest) RemoveAttachment(url string, now time.Time) error {
	for i, existing := range r.Attachments {
		if existing == url {
			r.Attachments = append(r.Attachments[:i], r.Attachments[i+1:]...)
			r.ModifiedAt = now
			return nil
		}
	}
	return dErrors.New(dErrors.CodeInvariantViolation, "attachment not found")
}

// SetNotes replaces the free-form notes.
func (r *VerificationRequest) SetNotes(notes string, now time.Time) {
	r.Notes = notes
	r.ModifiedAt = now
}

// SetPendingPayment records the payment reference and moves the request to
// PENDING_PAYMENT.
func (r *VerificationRequest) SetPendingPayment(reference, actor string, now time.Time) error {
	if reference == "" {
		return dErrors.New(dErrors.CodeValidation, "payment reference is required")
	}
	if err := r.applyTransition(StatePendingPayment, "", actor, now); err != nil {
		return err
	}
	r.PaymentReference = reference
	return nil
}

// ConfirmPayment marks the request paid and advances it to SUBMITTED. Legal
// only from PENDING_PAYMENT.
//
// Note: the paid flag and the status advance are two field writes with no
// transactional guarantee from the persistence layer; a crash between save
// attempts can leave paymentStatus=paid with status=PENDING_PAYMENT. The
// service's reconciliation pass detects that combination.
func (r *VerificationRequest) ConfirmPayment(paymentID id.PaymentID, actor string, now time.Time) error {
	if paymentID.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "payment id is required")
	}
	if r.Status.State != StatePendingPayment {
		return dErrors.Newf(dErrors.CodeInvariantViolation,
			"payment can only be confirmed from %s, current state is %s",
			StatePendingPayment, r.Status.State)
	}
	if err := r.applyTransition(StateSubmitted, "", actor, now); err != nil {
		return err
	}
	pid := paymentID
	r.PaymentID = &pid
	r.PaymentStatus = PaymentStatusPaid
	return nil
}

// IsOverdue reports whether the request has blown its SLA estimate: an
// estimate exists, the work is not done, and now is past the estimate.
func (r *VerificationRequest) IsOverdue(now time.Time) bool {
	if r.EstimatedCompletionDate.IsZero() || r.ActualCompletionDate != nil {
		return false
	}
	return now.After(r.EstimatedCompletionDate)
}
