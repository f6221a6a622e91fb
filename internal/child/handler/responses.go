package handler

import (
	"time"

	"vaxtrack/internal/child/models"
	"vaxtrack/internal/schedule"
)

type EntryResponse struct {
	VaccineID        string `json:"vaccine_id"`
	Name             string `json:"name"`
	Dose             int    `json:"dose"`
	DueDate          string `json:"due_date"`
	Status           string `json:"status"`
	AdministeredDate string `json:"administered_date,omitempty"`
	AdministeredBy   string `json:"administered_by,omitempty"`
	Facility         string `json:"facility,omitempty"`
	Batch            string `json:"batch_number,omitempty"`
	Notes            string `json:"notes,omitempty"`
}

type ChildResponse struct {
	ID            string           `json:"id"`
	FirstName     string           `json:"first_name"`
	LastName      string           `json:"last_name"`
	DateOfBirth   string           `json:"date_of_birth"`
	AgeMonths     int              `json:"age_months"`
	Gender        string           `json:"gender"`
	BirthWeightKg *float64         `json:"birth_weight_kg,omitempty"`
	Guardian      models.Guardian  `json:"guardian"`
	Address       models.Address   `json:"address"`
	Allergies     []string         `json:"allergies"`
	Notes         string           `json:"notes,omitempty"`
	Facility      string           `json:"facility"`
	Status        string           `json:"status"`
	RegisteredAt  time.Time        `json:"registered_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	Version       int              `json:"version"`
	Summary       schedule.Summary `json:"summary"`
	Schedule      []EntryResponse  `json:"schedule"`
}

// ChildSummaryResponse is the list form: no per-entry detail.
type ChildSummaryResponse struct {
	ID            string           `json:"id"`
	FullName      string           `json:"full_name"`
	DateOfBirth   string           `json:"date_of_birth"`
	GuardianPhone string           `json:"guardian_phone"`
	Status        string           `json:"status"`
	Summary       schedule.Summary `json:"summary"`
}

type ChildListResponse struct {
	Children []ChildSummaryResponse `json:"children"`
	Total    int                    `json:"total"`
}

func toEntryResponse(e schedule.Entry) EntryResponse {
	resp := EntryResponse{
		VaccineID:      e.VaccineID.String(),
		Name:           e.Name,
		Dose:           e.Dose,
		DueDate:        e.DueDate.Format(schedule.DateLayout),
		Status:         e.Status.String(),
		AdministeredBy: e.AdministeredBy,
		Facility:       e.Facility.String(),
		Batch:          e.Batch,
		Notes:          e.Notes,
	}
	if e.AdministeredDate != nil {
		resp.AdministeredDate = e.AdministeredDate.Format(schedule.DateLayout)
	}
	return resp
}

func toChildResponse(c *models.Child, today time.Time) ChildResponse {
	allergies := c.Allergies
	if allergies == nil {
		allergies = []string{}
	}
	resp := ChildResponse{
		ID:            c.ID.String(),
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		DateOfBirth:   c.DateOfBirth.Format(schedule.DateLayout),
		AgeMonths:     models.AgeInMonths(c.DateOfBirth, today),
		Gender:        string(c.Gender),
		BirthWeightKg: c.BirthWeightKg,
		Guardian:      c.Guardian,
		Address:       c.Address,
		Allergies:     allergies,
		Notes:         c.Notes,
		Facility:      c.Facility.String(),
		Status:        string(c.Status),
		RegisteredAt:  c.RegisteredAt,
		UpdatedAt:     c.UpdatedAt,
		Version:       c.Version,
		Summary:       c.Schedule.Summary(),
		Schedule:      make([]EntryResponse, 0, len(c.Schedule)),
	}
	for _, e := range c.Schedule {
		resp.Schedule = append(resp.Schedule, toEntryResponse(e))
	}
	return resp
}

func toChildSummaryResponse(c *models.Child) ChildSummaryResponse {
	return ChildSummaryResponse{
		ID:            c.ID.String(),
		FullName:      c.FullName(),
		DateOfBirth:   c.DateOfBirth.Format(schedule.DateLayout),
		GuardianPhone: c.Guardian.Phone,
		Status:        string(c.Status),
		Summary:       c.Schedule.Summary(),
	}
}
