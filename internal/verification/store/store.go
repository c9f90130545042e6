// Package store persists verification request aggregates. Implementations
// must round-trip every field, including the full status history, through
// the aggregate's serialization contract.
package store

import (
	"context"

	"veritask/internal/verification/models"
	id "veritask/pkg/domain"
)

// Store is the persistence port for the verification context.
type Store interface {
	// Load returns the aggregate or sentinel.ErrNotFound.
	Load(ctx context.Context, requestID id.VerificationID) (*models.VerificationRequest, error)
	// Save upserts the aggregate and returns the persisted copy.
	Save(ctx context.Context, request *models.VerificationRequest) (*models.VerificationRequest, error)
	// ListByClient returns a client's requests, newest first.
	ListByClient(ctx context.Context, clientID id.ClientID) ([]*models.VerificationRequest, error)
	// ListPaidPending returns requests whose payment is marked paid while the
	// status is still PENDING_PAYMENT. Feeds the reconciliation pass.
	ListPaidPending(ctx context.Context) ([]*models.VerificationRequest, error)
}
