package models

import (
	"strings"
	"time"

	id "vaxtrack/pkg/domain"
	dErrors "vaxtrack/pkg/domain-errors"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// CanTransitionTo allows active <-> inactive only.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusActive:
		return next == StatusInactive
	case StatusInactive:
		return next == StatusActive
	default:
		return false
	}
}

// Facility is a health facility. Children, stock and cold-chain equipment all
// belong to exactly one.
//
// Invariants:
//   - Code is 2-10 uppercase alphanumerics and immutable
//   - Name is non-empty and at most 128 characters
//   - DefaultReorderLevel is not negative
//
// An inactive facility keeps its records readable but accepts no new
// registrations or administrations.
type Facility struct {
	Code                id.FacilityCode `json:"code"`
	Name                string          `json:"name"`
	District            string          `json:"district"`
	Region              string          `json:"region"`
	Status              Status          `json:"status"`
	DefaultReorderLevel int             `json:"default_reorder_level"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

func (f *Facility) IsActive() bool {
	return f.Status == StatusActive
}

// CanDeactivate checks if the facility can transition to inactive status.
func (f *Facility) CanDeactivate() error {
	if !f.Status.CanTransitionTo(StatusInactive) {
		return dErrors.New(dErrors.CodeInvariantViolation, "facility is already inactive")
	}
	return nil
}

func (f *Facility) ApplyDeactivation(now time.Time) {
	f.Status = StatusInactive
	f.UpdatedAt = now
}

// CanReactivate checks if the facility can transition to active status.
func (f *Facility) CanReactivate() error {
	if !f.Status.CanTransitionTo(StatusActive) {
		return dErrors.New(dErrors.CodeInvariantViolation, "facility is already active")
	}
	return nil
}

func (f *Facility) ApplyReactivation(now time.Time) {
	f.Status = StatusActive
	f.UpdatedAt = now
}

func NewFacility(code id.FacilityCode, name, district, region string, reorderLevel int, now time.Time) (*Facility, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "facility name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "facility name must be 128 characters or less")
	}
	if reorderLevel < 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "reorder level cannot be negative")
	}
	return &Facility{
		Code:                code,
		Name:                name,
		District:            strings.TrimSpace(district),
		Region:              strings.TrimSpace(region),
		Status:              StatusActive,
		DefaultReorderLevel: reorderLevel,
		CreatedAt:           now,
		UpdatedAt:           now,
	}, nil
}
