package models

import (
	"time"

	dErrors "veritask/pkg/domain-errors"
)

// State is a named lifecycle state of a verification request.
type State string

// The nine lifecycle states.
const (
	StateDraft            State = "DRAFT"
	StatePendingPayment   State = "PENDING_PAYMENT"
	StateSubmitted        State = "SUBMITTED"
	StateAssigned         State = "ASSIGNED"
	StateInProgress       State = "IN_PROGRESS"
	StateCompleted        State = "COMPLETED"
	StateCancelled        State = "CANCELLED"
	StateRejected         State = "REJECTED"
	StateRequiresRevision State = "REQUIRES_REVISION"
)

// legalTransitions is the single source of truth for the lifecycle edges.
// Terminal states map to an empty set.
var legalTransitions = map[State][]State{
	StateDraft:            {StatePendingPayment, StateSubmitted, StateCancelled},
	StatePendingPayment:   {StateSubmitted, StateCancelled},
	StateSubmitted:        {StateAssigned, StateRejected, StateCancelled},
	StateAssigned:         {StateInProgress, StateCancelled, StateRequiresRevision},
	StateInProgress:       {StateCompleted, StateRequiresRevision, StateCancelled},
	StateRequiresRevision: {StateSubmitted, StateCancelled},
	StateCompleted:        {},
	StateCancelled:        {},
	StateRejected:         {},
}

// statesRequiringReason lists the states that cannot be entered without a
// non-empty reason.
var statesRequiringReason = map[State]bool{
	StateCancelled:        true,
	StateRejected:         true,
	StateRequiresRevision: true,
}

// ParseState constructs a State from external input.
func ParseState(s string) (State, error) {
	st := State(s)
	if _, ok := legalTransitions[st]; !ok {
		return "", dErrors.Newf(dErrors.CodeValidation, "unknown request state %q", s)
	}
	return st, nil
}

// IsValid checks the state against the fixed set.
func (s State) IsValid() bool {
	_, ok := legalTransitions[s]
	return ok
}

func (s State) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is permitted.
func (s State) IsTerminal() bool {
	return len(legalTransitions[s]) == 0 && s.IsValid()
}

// CanTransitionTo reports whether target is a legal forward edge from s.
func (s State) CanTransitionTo(target State) bool {
	for _, next := range legalTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// RequestStatus is the status value object owned by the aggregate: the named
// state plus the context of how it was entered.
//
// Invariants:
//   - State is one of the nine named states
//   - CANCELLED, REJECTED and REQUIRES_REVISION carry a non-empty reason
type RequestStatus struct {
	State     State     `json:"state"`
	Reason    string    `json:"reason,omitempty"`
	ChangedAt time.Time `json:"changed_at"`
	ChangedBy string    `json:"changed_by,omitempty"`
}

// NewRequestStatus creates a validated RequestStatus.
func NewRequestStatus(state State, reason, changedBy string, changedAt time.Time) (RequestStatus, error) {
	if !state.IsValid() {
		return RequestStatus{}, dErrors.Newf(dErrors.CodeValidation, "unknown request state %q", state)
	}
	if statesRequiringReason[state] && reason == "" {
		return RequestStatus{}, dErrors.Newf(dErrors.CodeValidation, "state %s requires a reason", state)
	}
	return RequestStatus{
		State:     state,
		Reason:    reason,
		ChangedAt: changedAt,
		ChangedBy: changedBy,
	}, nil
}

// MustRequestStatus creates a RequestStatus, panicking if invalid.
// Use only in tests.
func MustRequestStatus(state State, reason, changedBy string, changedAt time.Time) RequestStatus {
	st, err := NewRequestStatus(state, reason, changedBy, changedAt)
	if err != nil {
		panic(err)
	}
	return st
}

// TransitionTo validates the edge and returns the successor status. The
// current status is never mutated.
func (s RequestStatus) TransitionTo(target State, reason, changedBy string, changedAt time.Time) (RequestStatus, error) {
	if !s.State.CanTransitionTo(target) {
		return RequestStatus{}, dErrors.Newf(dErrors.CodeInvariantViolation,
			"illegal status transition from %s to %s", s.State, target)
	}
	return NewRequestStatus(target, reason, changedBy, changedAt)
}

// Guard predicates used by the aggregate mutators.

// CanBeAssigned reports whether an agent may be assigned in this status.
func (s RequestStatus) CanBeAssigned() bool {
	return s.State == StateSubmitted || s.State == StateRequiresRevision
}

// CanProgress reports whether field work may advance in this status.
func (s RequestStatus) CanProgress() bool {
	return s.State == StateAssigned || s.State == StateInProgress
}

// CanBeCancelled reports whether the client may still cancel in this status.
func (s RequestStatus) CanBeCancelled() bool {
	return s.State == StateDraft || s.State == StateSubmitted || s.State == StateAssigned
}

// IsTerminal reports whether the status is a dead end.
func (s RequestStatus) IsTerminal() bool {
	return s.State.IsTerminal()
}
