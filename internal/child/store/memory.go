// Package store persists children, their schedules and the per-facility
// registration sequence.
package store

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"vaxtrack/internal/child/models"
	id "vaxtrack/pkg/domain"
	"vaxtrack/pkg/platform/sentinel"
)

// Filter narrows a facility listing by registration time. RegisteredTo is
// exclusive. Zero values mean no constraint.
type Filter struct {
	RegisteredFrom time.Time
	RegisteredTo   time.Time
	Status         models.Status
}

func (f Filter) matches(c *models.Child) bool {
	if !f.RegisteredFrom.IsZero() && c.RegisteredAt.Before(f.RegisteredFrom) {
		return false
	}
	if !f.RegisteredTo.IsZero() && !c.RegisteredAt.Before(f.RegisteredTo) {
		return false
	}
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	return true
}

type seqKey struct {
	facility id.FacilityCode
	year     int
}

type InMemory struct {
	mu        sync.RWMutex
	children  map[id.ChildID]*models.Child
	sequences map[seqKey]int
}

func NewInMemory() *InMemory {
	return &InMemory{
		children:  make(map[id.ChildID]*models.Child),
		sequences: make(map[seqKey]int),
	}
}

// NextSequence returns the next registration number for the facility and
// year, starting at 1.
func (s *InMemory) NextSequence(_ context.Context, facility id.FacilityCode, year int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := seqKey{facility, year}
	s.sequences[k]++
	return s.sequences[k], nil
}

func (s *InMemory) Create(_ context.Context, c *models.Child) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.children[c.ID]; exists {
		return sentinel.ErrConflict
	}
	s.children[c.ID] = c.Clone()
	return nil
}

func (s *InMemory) FindByID(_ context.Context, childID id.ChildID) (*models.Child, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.children[childID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return c.Clone(), nil
}

// Update replaces the child when its stored version equals expectedVersion.
// The stored copy gets c.Version.
func (s *InMemory) Update(_ context.Context, c *models.Child, expectedVersion int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.children[c.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if current.Version != expectedVersion {
		return sentinel.ErrConflict
	}
	s.children[c.ID] = c.Clone()
	return nil
}

// List returns the facility's children, oldest registration first.
func (s *InMemory) List(_ context.Context, facility id.FacilityCode, f Filter) ([]*models.Child, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Child, 0)
	for _, c := range s.children {
		if c.Facility == facility && f.matches(c) {
			out = append(out, c.Clone())
		}
	}
	sortChildren(out)
	return out, nil
}

// ListActive returns active children across all facilities.
func (s *InMemory) ListActive(_ context.Context) ([]*models.Child, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Child, 0)
	for _, c := range s.children {
		if c.Status == models.StatusActive {
			out = append(out, c.Clone())
		}
	}
	sortChildren(out)
	return out, nil
}

func sortChildren(list []*models.Child) {
	slices.SortFunc(list, func(a, b *models.Child) int {
		if c := a.RegisteredAt.Compare(b.RegisteredAt); c != 0 {
			return c
		}
		return strings.Compare(string(a.ID), string(b.ID))
	})
}
