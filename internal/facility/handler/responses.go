package handler

import (
	"time"

	"vaxtrack/internal/facility/models"
)

type FacilityResponse struct {
	Code                string    `json:"code"`
	Name                string    `json:"name"`
	District            string    `json:"district"`
	Region              string    `json:"region"`
	Status              string    `json:"status"`
	DefaultReorderLevel int       `json:"default_reorder_level"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func toFacilityResponse(f *models.Facility) FacilityResponse {
	return FacilityResponse{
		Code:                f.Code.String(),
		Name:                f.Name,
		District:            f.District,
		Region:              f.Region,
		Status:              string(f.Status),
		DefaultReorderLevel: f.DefaultReorderLevel,
		CreatedAt:           f.CreatedAt,
		UpdatedAt:           f.UpdatedAt,
	}
}

type FacilityListResponse struct {
	Facilities []FacilityResponse `json:"facilities"`
}
