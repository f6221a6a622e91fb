// Package store holds stock counters. Adjust is the only write path and is
// atomic per (facility, vaccine).
package store

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"vaxtrack/internal/schedule"
	"vaxtrack/internal/stock/models"
	id "vaxtrack/pkg/domain"
	"vaxtrack/pkg/platform/sentinel"
)

// AdjustFunc mutates a level in place. exists is false when the vaccine has
// never been stocked at the facility. Returning an error discards the change.
type AdjustFunc func(level *models.StockLevel, exists bool) error

type key struct {
	facility id.FacilityCode
	vaccine  schedule.VaccineID
}

type InMemory struct {
	mu     sync.Mutex
	levels map[key]*models.StockLevel
}

func NewInMemory() *InMemory {
	return &InMemory{levels: make(map[key]*models.StockLevel)}
}

func (s *InMemory) Adjust(_ context.Context, facility id.FacilityCode, vaccine schedule.VaccineID, fn AdjustFunc) (*models.StockLevel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key{facility, vaccine}
	current, exists := s.levels[k]
	var working *models.StockLevel
	if exists {
		working = current.Clone()
	} else {
		working = models.NewStockLevel(facility, vaccine, 0, time.Time{})
	}
	if err := fn(working, exists); err != nil {
		return nil, err
	}
	s.levels[k] = working.Clone()
	return working, nil
}

func (s *InMemory) Get(_ context.Context, facility id.FacilityCode, vaccine schedule.VaccineID) (*models.StockLevel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.levels[key{facility, vaccine}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return l.Clone(), nil
}

// List returns the facility's levels ordered by vaccine ID.
func (s *InMemory) List(_ context.Context, facility id.FacilityCode) ([]*models.StockLevel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.StockLevel, 0)
	for k, l := range s.levels {
		if k.facility == facility {
			out = append(out, l.Clone())
		}
	}
	slices.SortFunc(out, func(a, b *models.StockLevel) int {
		return strings.Compare(string(a.VaccineID), string(b.VaccineID))
	})
	return out, nil
}
