// Package store persists alerts in memory or Postgres.
package store

import (
	"context"
	"maps"
	"slices"
	"sync"

	"vaxtrack/internal/alert/models"
	id "vaxtrack/pkg/domain"
	"vaxtrack/pkg/platform/sentinel"
)

type InMemory struct {
	mu     sync.RWMutex
	alerts map[id.AlertID]*models.Alert
}

func NewInMemory() *InMemory {
	return &InMemory{alerts: make(map[id.AlertID]*models.Alert)}
}

func clone(a *models.Alert) *models.Alert {
	cp := *a
	cp.Metadata = maps.Clone(a.Metadata)
	if a.AcknowledgedAt != nil {
		t := *a.AcknowledgedAt
		cp.AcknowledgedAt = &t
	}
	return &cp
}

func (s *InMemory) CreateIfNoneOpen(_ context.Context, a *models.Alert) (*models.Alert, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.alerts {
		if existing.Facility == a.Facility && existing.Type == a.Type && existing.Subject == a.Subject && existing.IsOpen() {
			return clone(existing), false, nil
		}
	}
	s.alerts[a.ID] = clone(a)
	return clone(a), true, nil
}

func (s *InMemory) FindByID(_ context.Context, facility id.FacilityCode, alertID id.AlertID) (*models.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.alerts[alertID]
	if !ok || a.Facility != facility {
		return nil, sentinel.ErrNotFound
	}
	return clone(a), nil
}

// List returns the facility's alerts, newest first.
func (s *InMemory) List(_ context.Context, facility id.FacilityCode, openOnly bool) ([]*models.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Alert, 0)
	for _, a := range s.alerts {
		if a.Facility != facility || (openOnly && !a.IsOpen()) {
			continue
		}
		out = append(out, clone(a))
	}
	slices.SortFunc(out, func(a, b *models.Alert) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (s *InMemory) Update(_ context.Context, a *models.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.alerts[a.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.alerts[a.ID] = clone(a)
	return nil
}
