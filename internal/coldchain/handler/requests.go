package handler

import (
	"strings"
	"time"

	dErrors "vaxtrack/pkg/domain-errors"
	"vaxtrack/pkg/platform/validation"
)

type LogReadingRequest struct {
	EquipmentID  string     `json:"equipment_id" validate:"notblank,max=64"`
	TemperatureC *float64   `json:"temperature_c" validate:"required,gte=-50,lte=60"`
	HumidityPct  *float64   `json:"humidity_pct" validate:"omitempty,gte=0,lte=100"`
	RecordedAt   *time.Time `json:"recorded_at"`
	Source       string     `json:"source" validate:"omitempty,oneof=manual sensor"`
}

func (r *LogReadingRequest) Normalize() {
	r.EquipmentID = strings.TrimSpace(r.EquipmentID)
	r.Source = strings.ToLower(strings.TrimSpace(r.Source))
}

func (r *LogReadingRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	if r.RecordedAt != nil && r.RecordedAt.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "recorded_at: must be a timestamp")
	}
	return nil
}
