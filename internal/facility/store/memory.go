// Package store persists facilities in memory or Postgres.
package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"vaxtrack/internal/facility/models"
	id "vaxtrack/pkg/domain"
	"vaxtrack/pkg/platform/sentinel"
)

type InMemory struct {
	mu         sync.RWMutex
	facilities map[id.FacilityCode]*models.Facility
}

func NewInMemory() *InMemory {
	return &InMemory{facilities: make(map[id.FacilityCode]*models.Facility)}
}

func (s *InMemory) Create(_ context.Context, f *models.Facility) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.facilities[f.Code]; exists {
		return fmt.Errorf("facility %s: %w", f.Code, sentinel.ErrConflict)
	}
	cp := *f
	s.facilities[f.Code] = &cp
	return nil
}

func (s *InMemory) FindByCode(_ context.Context, code id.FacilityCode) (*models.Facility, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.facilities[code]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

// List returns facilities ordered by code.
func (s *InMemory) List(_ context.Context) ([]*models.Facility, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Facility, 0, len(s.facilities))
	for _, f := range s.facilities {
		cp := *f
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *models.Facility) int {
		return strings.Compare(string(a.Code), string(b.Code))
	})
	return out, nil
}

func (s *InMemory) Update(_ context.Context, f *models.Facility) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.facilities[f.Code]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *f
	s.facilities[f.Code] = &cp
	return nil
}
