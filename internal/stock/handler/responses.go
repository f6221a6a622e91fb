package handler

import (
	"time"

	"vaxtrack/internal/schedule"
	"vaxtrack/internal/stock/models"
)

type BatchResponse struct {
	Number     string    `json:"batch_number"`
	ExpiryDate string    `json:"expiry_date"`
	Quantity   int       `json:"quantity"`
	ReceivedAt time.Time `json:"received_at"`
}

type StockLevelResponse struct {
	VaccineID         string          `json:"vaccine_id"`
	Current           int             `json:"current_stock"`
	TotalReceived     int             `json:"total_received"`
	TotalAdministered int             `json:"total_administered"`
	TotalWastage      int             `json:"total_wastage"`
	ReorderLevel      int             `json:"reorder_level"`
	Low               bool            `json:"low"`
	Batches           []BatchResponse `json:"batches"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

type StockListResponse struct {
	Stock []StockLevelResponse `json:"stock"`
}

func toStockLevelResponse(l *models.StockLevel) StockLevelResponse {
	resp := StockLevelResponse{
		VaccineID:         l.VaccineID.String(),
		Current:           l.Current,
		TotalReceived:     l.TotalReceived,
		TotalAdministered: l.TotalAdministered,
		TotalWastage:      l.TotalWastage,
		ReorderLevel:      l.ReorderLevel,
		Low:               l.IsLow(),
		Batches:           make([]BatchResponse, 0, len(l.Batches)),
		UpdatedAt:         l.UpdatedAt,
	}
	for _, b := range l.Batches {
		resp.Batches = append(resp.Batches, BatchResponse{
			Number:     b.Number,
			ExpiryDate: b.Expiry.Format(schedule.DateLayout),
			Quantity:   b.Quantity,
			ReceivedAt: b.ReceivedAt,
		})
	}
	return resp
}
