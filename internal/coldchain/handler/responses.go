package handler

import (
	"time"

	"vaxtrack/internal/coldchain/models"
)

type ReadingResponse struct {
	ID           string    `json:"id"`
	EquipmentID  string    `json:"equipment_id"`
	TemperatureC float64   `json:"temperature_c"`
	HumidityPct  *float64  `json:"humidity_pct,omitempty"`
	RecordedAt   time.Time `json:"recorded_at"`
	RecordedBy   string    `json:"recorded_by,omitempty"`
	Source       string    `json:"source"`
	Excursion    bool      `json:"excursion"`
}

type ReadingListResponse struct {
	Readings []ReadingResponse `json:"readings"`
	Summary  models.Summary    `json:"summary"`
}

func toReadingResponse(r *models.Reading, band models.Band) ReadingResponse {
	resp := ReadingResponse{
		ID:           r.ID.String(),
		EquipmentID:  r.EquipmentID,
		TemperatureC: r.TemperatureC,
		HumidityPct:  r.HumidityPct,
		RecordedAt:   r.RecordedAt,
		Source:       string(r.Source),
		Excursion:    !band.Contains(r.TemperatureC),
	}
	if !r.RecordedBy.IsNil() {
		resp.RecordedBy = r.RecordedBy.String()
	}
	return resp
}

func toReadingListResponse(list []*models.Reading, band models.Band) ReadingListResponse {
	resp := ReadingListResponse{
		Readings: make([]ReadingResponse, 0, len(list)),
		Summary:  models.Summarize(list, band),
	}
	for _, r := range list {
		resp.Readings = append(resp.Readings, toReadingResponse(r, band))
	}
	return resp
}
