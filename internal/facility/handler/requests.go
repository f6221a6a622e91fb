package handler

import (
	"strings"

	"vaxtrack/pkg/platform/validation"
)

type CreateFacilityRequest struct {
	Code                string `json:"code" validate:"required,facility_code"`
	Name                string `json:"name" validate:"notblank,max=128"`
	District            string `json:"district" validate:"max=128"`
	Region              string `json:"region" validate:"max=128"`
	DefaultReorderLevel int    `json:"default_reorder_level" validate:"gte=0"`
}

func (r *CreateFacilityRequest) Normalize() {
	r.Code = strings.ToUpper(strings.TrimSpace(r.Code))
	r.Name = strings.TrimSpace(r.Name)
	r.District = strings.TrimSpace(r.District)
	r.Region = strings.TrimSpace(r.Region)
}

func (r *CreateFacilityRequest) Validate() error {
	return validation.Struct(r)
}
