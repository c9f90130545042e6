package store

import (
	"context"
	"sort"
	"sync"

	"veritask/internal/verification/models"
	id "veritask/pkg/domain"
	"veritask/pkg/platform/sentinel"
)

// MemoryStore keeps aggregates in memory. It hands out deep copies so two
// handlers never share a mutable aggregate; writes are last-write-wins,
// matching the persistence contract.
type MemoryStore struct {
	mu       sync.RWMutex
	requests map[id.VerificationID]*models.VerificationRequest
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		requests: make(map[id.VerificationID]*models.VerificationRequest),
	}
}

func (s *MemoryStore) Load(_ context.Context, requestID id.VerificationID) (*models.VerificationRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	request, ok := s.requests[requestID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return request.Clone()
}

func (s *MemoryStore) Save(_ context.Context, request *models.VerificationRequest) (*models.VerificationRequest, error) {
	stored, err := request.Clone()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.requests[request.ID] = stored
	s.mu.Unlock()

	return stored.Clone()
}

func (s *MemoryStore) ListByClient(_ context.Context, clientID id.ClientID) ([]*models.VerificationRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.VerificationRequest
	for _, request := range s.requests {
		if request.ClientID != clientID {
			continue
		}
		clone, err := request.Clone()
		if err != nil {
			return nil, err
		}
		out = append(out, clone)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) ListPaidPending(_ context.Context) ([]*models.VerificationRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.VerificationRequest
	for _, request := range s.requests {
		if request.PaymentStatus != models.PaymentStatusPaid {
			continue
		}
		if request.Status.State != models.StatePendingPayment {
			continue
		}
		clone, err := request.Clone()
		if err != nil {
			return nil, err
		}
		out = append(out, clone)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
