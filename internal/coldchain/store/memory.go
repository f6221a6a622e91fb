// Package store persists cold chain readings.
package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"vaxtrack/internal/coldchain/models"
	id "vaxtrack/pkg/domain"
	"vaxtrack/pkg/platform/sentinel"
)

// Filter narrows a reading query. Zero values mean no constraint. Outside,
// when set, keeps only readings beyond the band.
type Filter struct {
	EquipmentID string
	Since       time.Time
	Until       time.Time
	Outside     *models.Band
	Limit       int
}

func (f Filter) matches(r *models.Reading) bool {
	if f.EquipmentID != "" && r.EquipmentID != f.EquipmentID {
		return false
	}
	if !f.Since.IsZero() && r.RecordedAt.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && !r.RecordedAt.Before(f.Until) {
		return false
	}
	if f.Outside != nil && f.Outside.Contains(r.TemperatureC) {
		return false
	}
	return true
}

type InMemory struct {
	mu       sync.RWMutex
	readings map[id.FacilityCode][]*models.Reading
}

func NewInMemory() *InMemory {
	return &InMemory{readings: make(map[id.FacilityCode][]*models.Reading)}
}

func (s *InMemory) Save(_ context.Context, r *models.Reading) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.readings[r.Facility] {
		if existing.ID == r.ID {
			return sentinel.ErrConflict
		}
	}
	cp := *r
	s.readings[r.Facility] = append(s.readings[r.Facility], &cp)
	return nil
}

// List returns matching readings newest first.
func (s *InMemory) List(_ context.Context, facility id.FacilityCode, f Filter) ([]*models.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Reading, 0)
	for _, r := range s.readings[facility] {
		if f.matches(r) {
			cp := *r
			out = append(out, &cp)
		}
	}
	slices.SortStableFunc(out, func(a, b *models.Reading) int {
		return b.RecordedAt.Compare(a.RecordedAt)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// Summarize aggregates every reading matching f. Limit is ignored.
func (s *InMemory) Summarize(ctx context.Context, facility id.FacilityCode, f Filter, band models.Band) (models.Summary, error) {
	f.Limit = 0
	list, err := s.List(ctx, facility, f)
	if err != nil {
		return models.Summary{}, err
	}
	return models.Summarize(list, band), nil
}
