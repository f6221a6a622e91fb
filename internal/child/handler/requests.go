package handler

import (
	"strings"
	"time"

	"vaxtrack/internal/schedule"
	dErrors "vaxtrack/pkg/domain-errors"
	pstrings "vaxtrack/pkg/platform/strings"
	"vaxtrack/pkg/platform/validation"
)

type GuardianRequest struct {
	Name         string `json:"name" validate:"notblank,max=100"`
	Phone        string `json:"phone" validate:"required,gh_phone"`
	Relationship string `json:"relationship" validate:"max=50"`
}

type AddressRequest struct {
	Residence string `json:"residence" validate:"max=200"`
	Village   string `json:"village" validate:"max=100"`
	District  string `json:"district" validate:"max=100"`
}

type RegisterChildRequest struct {
	FirstName     string          `json:"first_name" validate:"notblank,max=100"`
	LastName      string          `json:"last_name" validate:"notblank,max=100"`
	DateOfBirth   string          `json:"date_of_birth" validate:"required"`
	Gender        string          `json:"gender" validate:"required,oneof=male female"`
	BirthWeightKg *float64        `json:"birth_weight_kg" validate:"omitempty,gte=0.5,lte=20"`
	Guardian      GuardianRequest `json:"guardian"`
	Address       AddressRequest  `json:"address"`
	Allergies     []string        `json:"allergies" validate:"max=20,dive,max=100"`
	Notes         string          `json:"notes" validate:"max=1000"`

	dob time.Time
}

func (r *RegisterChildRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.DateOfBirth = strings.TrimSpace(r.DateOfBirth)
	r.Gender = strings.ToLower(strings.TrimSpace(r.Gender))
	r.Guardian.Name = strings.TrimSpace(r.Guardian.Name)
	r.Guardian.Phone = strings.ReplaceAll(strings.TrimSpace(r.Guardian.Phone), " ", "")
	r.Guardian.Relationship = strings.TrimSpace(r.Guardian.Relationship)
	r.Allergies = pstrings.DedupeFold(r.Allergies)
	r.Notes = strings.TrimSpace(r.Notes)
}

func (r *RegisterChildRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	dob, err := schedule.ParseDate(r.DateOfBirth)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "date_of_birth: must be a YYYY-MM-DD date")
	}
	r.dob = dob
	return nil
}

type AdministerRequest struct {
	VaccineID        string `json:"vaccine_id" validate:"required,max=32"`
	AdministeredDate string `json:"administered_date"`
	BatchNumber      string `json:"batch_number" validate:"omitempty,batch"`
	Notes            string `json:"notes" validate:"max=1000"`

	given time.Time
}

func (r *AdministerRequest) Normalize() {
	r.VaccineID = strings.ToLower(strings.TrimSpace(r.VaccineID))
	r.AdministeredDate = strings.TrimSpace(r.AdministeredDate)
	r.BatchNumber = strings.ToUpper(strings.TrimSpace(r.BatchNumber))
	r.Notes = strings.TrimSpace(r.Notes)
}

func (r *AdministerRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	if r.AdministeredDate == "" {
		return nil
	}
	given, err := schedule.ParseDate(r.AdministeredDate)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "administered_date: must be a YYYY-MM-DD date")
	}
	r.given = given
	return nil
}

type CloseEntryRequest struct {
	Status string `json:"status" validate:"required,oneof=missed contraindicated"`
	Notes  string `json:"notes" validate:"max=1000"`
}

func (r *CloseEntryRequest) Normalize() {
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
	r.Notes = strings.TrimSpace(r.Notes)
}

func (r *CloseEntryRequest) Validate() error {
	return validation.Struct(r)
}
