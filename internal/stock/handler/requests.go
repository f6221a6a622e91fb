package handler

import (
	"strings"
	"time"

	"vaxtrack/internal/schedule"
	dErrors "vaxtrack/pkg/domain-errors"
	"vaxtrack/pkg/platform/validation"
)

type ReceiveStockRequest struct {
	BatchNumber string `json:"batch_number" validate:"required,batch"`
	ExpiryDate  string `json:"expiry_date" validate:"required"`
	Quantity    int    `json:"quantity" validate:"gt=0"`

	expiry time.Time
}

func (r *ReceiveStockRequest) Normalize() {
	r.BatchNumber = strings.ToUpper(strings.TrimSpace(r.BatchNumber))
	r.ExpiryDate = strings.TrimSpace(r.ExpiryDate)
}

func (r *ReceiveStockRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	expiry, err := schedule.ParseDate(r.ExpiryDate)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "expiry_date: must be a YYYY-MM-DD date")
	}
	r.expiry = expiry
	return nil
}

type WastageRequest struct {
	Quantity int    `json:"quantity" validate:"gt=0"`
	Reason   string `json:"reason" validate:"max=256"`
}

func (r *WastageRequest) Normalize() {
	r.Reason = strings.TrimSpace(r.Reason)
}

func (r *WastageRequest) Validate() error {
	return validation.Struct(r)
}

type ReorderLevelRequest struct {
	ReorderLevel *int `json:"reorder_level" validate:"required,gte=0"`
}

func (r *ReorderLevelRequest) Validate() error {
	return validation.Struct(r)
}
