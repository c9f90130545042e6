// Package domain holds shared domain primitives: typed identifiers and the
// enums that cross bounded-context boundaries.
//
// IDs are distinct uuid-backed types so the compiler rejects cross-type
// assignment. Construct via ParseX at trust boundaries; direct casting
// bypasses validation.
package domain

import (
	"github.com/google/uuid"

	dErrors "veritask/pkg/domain-errors"
)

// VerificationID identifies a verification request aggregate.
type VerificationID uuid.UUID

// ClientID identifies the customer who opened a verification request.
type ClientID uuid.UUID

// AgentID identifies the field agent assigned to perform a verification.
type AgentID uuid.UUID

// PaymentID identifies a payment record in the payment collaborator.
type PaymentID uuid.UUID

// NewVerificationID generates a random VerificationID. Entities never call
// this themselves; the service layer injects generated IDs at construction.
func NewVerificationID() VerificationID {
	return VerificationID(uuid.New())
}

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be the nil UUID")
	}
	return u, nil
}

// ParseVerificationID validates and returns a VerificationID.
func ParseVerificationID(s string) (VerificationID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return VerificationID{}, err
	}
	return VerificationID(u), nil
}

// ParseClientID validates and returns a ClientID.
func ParseClientID(s string) (ClientID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return ClientID{}, err
	}
	return ClientID(u), nil
}

// ParseAgentID validates and returns an AgentID.
func ParseAgentID(s string) (AgentID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return AgentID{}, err
	}
	return AgentID(u), nil
}

// ParsePaymentID validates and returns a PaymentID.
func ParsePaymentID(s string) (PaymentID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return PaymentID{}, err
	}
	return PaymentID(u), nil
}

func (id VerificationID) String() string { return uuid.UUID(id).String() }
func (id ClientID) String() string       { return uuid.UUID(id).String() }
func (id AgentID) String() string        { return uuid.UUID(id).String() }
func (id PaymentID) String() string      { return uuid.UUID(id).String() }

func (id VerificationID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }
func (id ClientID) IsZero() bool       { return uuid.UUID(id) == uuid.Nil }
func (id AgentID) IsZero() bool        { return uuid.UUID(id) == uuid.Nil }
func (id PaymentID) IsZero() bool      { return uuid.UUID(id) == uuid.Nil }

// Text marshalling so the defined types serialize as canonical UUID strings,
// not byte arrays.

func (id VerificationID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id ClientID) MarshalText() ([]byte, error)       { return []byte(id.String()), nil }
func (id AgentID) MarshalText() ([]byte, error)        { return []byte(id.String()), nil }
func (id PaymentID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }

func (id *VerificationID) UnmarshalText(b []byte) error {
	parsed, err := ParseVerificationID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *ClientID) UnmarshalText(b []byte) error {
	parsed, err := ParseClientID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *AgentID) UnmarshalText(b []byte) error {
	parsed, err := ParseAgentID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *PaymentID) UnmarshalText(b []byte) error {
	parsed, err := ParsePaymentID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
