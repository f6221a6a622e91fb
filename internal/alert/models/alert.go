package models

import (
	"time"

	id "vaxtrack/pkg/domain"
	dErrors "vaxtrack/pkg/domain-errors"
)

type Type string

const (
	TypeLowStock           Type = "low_stock"
	TypeColdChainExcursion Type = "cold_chain_excursion"
)

func (t Type) IsValid() bool {
	return t == TypeLowStock || t == TypeColdChainExcursion
}

// Alert is a facility notice that stays open until someone acknowledges it.
// Subject is what the alert is about (a vaccine or an equipment ID); one
// facility has at most one open alert per type and subject.
type Alert struct {
	ID             id.AlertID        `json:"id"`
	Facility       id.FacilityCode   `json:"facility"`
	Type           Type              `json:"type"`
	Subject        string            `json:"subject"`
	Message        string            `json:"message"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	AcknowledgedAt *time.Time        `json:"acknowledged_at,omitempty"`
	AcknowledgedBy id.UserID         `json:"acknowledged_by"`
}

func (a *Alert) IsOpen() bool {
	return a.AcknowledgedAt == nil
}

// Acknowledge closes the alert. Acknowledging twice is a conflict.
func (a *Alert) Acknowledge(by id.UserID, now time.Time) error {
	if !a.IsOpen() {
		return dErrors.New(dErrors.CodeConflict, "alert already acknowledged")
	}
	a.AcknowledgedAt = &now
	a.AcknowledgedBy = by
	return nil
}
