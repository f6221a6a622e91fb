package models

import (
	"time"

	"vaxtrack/internal/schedule"
	id "vaxtrack/pkg/domain"
	dErrors "vaxtrack/pkg/domain-errors"
)

// Batch is one received delivery.
type Batch struct {
	Number     string    `json:"number"`
	Expiry     time.Time `json:"expiry"`
	Quantity   int       `json:"quantity"`
	ReceivedAt time.Time `json:"received_at"`
	ReceivedBy id.UserID `json:"received_by"`
}

// StockLevel is the dose counter for one vaccine at one facility.
//
// Invariants:
//   - Current = TotalReceived - TotalAdministered - TotalWastage
//   - Current never goes negative
type StockLevel struct {
	Facility          id.FacilityCode    `json:"facility"`
	VaccineID         schedule.VaccineID `json:"vaccine_id"`
	Current           int                `json:"current"`
	TotalReceived     int                `json:"total_received"`
	TotalAdministered int                `json:"total_administered"`
	TotalWastage      int                `json:"total_wastage"`
	ReorderLevel      int                `json:"reorder_level"`
	Batches           []Batch            `json:"batches"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// NewStockLevel is the empty counter used the first time a vaccine is touched.
func NewStockLevel(facility id.FacilityCode, vaccine schedule.VaccineID, reorderLevel int, now time.Time) *StockLevel {
	return &StockLevel{
		Facility:     facility,
		VaccineID:    vaccine,
		ReorderLevel: reorderLevel,
		Batches:      []Batch{},
		UpdatedAt:    now,
	}
}

// IsLow reports whether the level is at or below its reorder level.
func (l *StockLevel) IsLow() bool {
	return l.Current <= l.ReorderLevel
}

func (l *StockLevel) Receive(b Batch, now time.Time) error {
	if b.Quantity <= 0 {
		return dErrors.New(dErrors.CodeValidation, "quantity must be positive")
	}
	l.Current += b.Quantity
	l.TotalReceived += b.Quantity
	l.Batches = append(l.Batches, b)
	l.UpdatedAt = now
	return nil
}

func (l *StockLevel) Consume(quantity int, now time.Time) error {
	if err := l.take(quantity); err != nil {
		return err
	}
	l.TotalAdministered += quantity
	l.UpdatedAt = now
	return nil
}

func (l *StockLevel) Waste(quantity int, now time.Time) error {
	if err := l.take(quantity); err != nil {
		return err
	}
	l.TotalWastage += quantity
	l.UpdatedAt = now
	return nil
}

func (l *StockLevel) SetReorderLevel(level int, now time.Time) error {
	if level < 0 {
		return dErrors.New(dErrors.CodeValidation, "reorder level cannot be negative")
	}
	l.ReorderLevel = level
	l.UpdatedAt = now
	return nil
}

func (l *StockLevel) take(quantity int) error {
	if quantity <= 0 {
		return dErrors.New(dErrors.CodeValidation, "quantity must be positive")
	}
	if quantity > l.Current {
		return dErrors.New(dErrors.CodeConflict, "insufficient stock")
	}
	l.Current -= quantity
	return nil
}

// Clone deep-copies the level.
func (l *StockLevel) Clone() *StockLevel {
	cp := *l
	cp.Batches = append([]Batch(nil), l.Batches...)
	return &cp
}
