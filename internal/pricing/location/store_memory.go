package location

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"veritask/pkg/platform/sentinel"
)

func isNotFound(err error) bool {
	return errors.Is(err, sentinel.ErrNotFound)
}

// MemoryStore keeps pricing records in memory. City and area matching is
// case-insensitive.
type MemoryStore struct {
	mu      sync.RWMutex
	records []*Pricing
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Put adds or replaces the record for its (city, area) key.
func (s *MemoryStore) Put(record *Pricing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.records {
		if sameKey(existing, record) {
			s.records[i] = record
			return
		}
	}
	s.records = append(s.records, record)
}

func sameKey(a, b *Pricing) bool {
	if !strings.EqualFold(a.City, b.City) {
		return false
	}
	if (a.Area == nil) != (b.Area == nil) {
		return false
	}
	return a.Area == nil || strings.EqualFold(*a.Area, *b.Area)
}

func (s *MemoryStore) FindExact(_ context.Context, city, area string, now time.Time) (*Pricing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, record := range s.records {
		if record.Area == nil {
			continue
		}
		if strings.EqualFold(record.City, city) && strings.EqualFold(*record.Area, area) && record.EffectiveAt(now) {
			return record, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *MemoryStore) FindCityDefault(_ context.Context, city string, now time.Time) (*Pricing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, record := range s.records {
		if record.Area != nil {
			continue
		}
		if strings.EqualFold(record.City, city) && record.EffectiveAt(now) {
			return record, nil
		}
	}
	return nil, sentinel.ErrNotFound
}
