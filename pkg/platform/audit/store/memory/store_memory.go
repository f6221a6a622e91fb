package memory

import (
	"context"
	"slices"
	"sync"

	id "vaxtrack/pkg/domain"
	audit "vaxtrack/pkg/platform/audit"
)

// InMemoryStore keeps events in append order.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// ListRecent returns up to limit events, newest first.
func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newestFirst(s.events, limit, func(audit.Event) bool { return true }), nil
}

func (s *InMemoryStore) ListByFacility(_ context.Context, facility id.FacilityCode, limit int) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newestFirst(s.events, limit, func(e audit.Event) bool { return e.Facility == facility }), nil
}

// ListByUser returns a user's events in append order.
func (s *InMemoryStore) ListByUser(_ context.Context, userID id.UserID) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []audit.Event
	for _, e := range s.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}

func newestFirst(events []audit.Event, limit int, keep func(audit.Event) bool) []audit.Event {
	out := make([]audit.Event, 0)
	for _, e := range slices.Backward(events) {
		if limit > 0 && len(out) == limit {
			break
		}
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
