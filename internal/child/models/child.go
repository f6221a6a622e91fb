package models

import (
	"regexp"
	"strings"
	"time"

	"vaxtrack/internal/schedule"
	id "vaxtrack/pkg/domain"
	dErrors "vaxtrack/pkg/domain-errors"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale
}

type Status string

const (
	StatusActive      Status = "active"
	StatusTransferred Status = "transferred"
	StatusDeceased    Status = "deceased"
)

// Registration limits.
const (
	MaxNameLength      = 100
	MaxAgeMonths       = 59
	MinBirthWeightKg   = 0.5
	MaxBirthWeightKg   = 20.0
	maxFreeTextLength  = 1000
	maxAllergyListSize = 20
)

// GhanaPhonePattern matches +233 or 0 followed by a nine digit number
// starting 2-5.
var GhanaPhonePattern = regexp.MustCompile(`^(?:\+233|0)[2345]\d{8}$`)

type Guardian struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship,omitempty"`
}

type Address struct {
	Residence string `json:"residence,omitempty"`
	Village   string `json:"village,omitempty"`
	District  string `json:"district,omitempty"`
}

// Child is a registered child and their immunization schedule.
//
// Invariants:
//   - ID embeds Facility and never changes
//   - Schedule has one entry per vaccine in the engine's table
//   - Version increases by one on every persisted change
type Child struct {
	ID            id.ChildID        `json:"id"`
	FirstName     string            `json:"first_name"`
	LastName      string            `json:"last_name"`
	DateOfBirth   time.Time         `json:"date_of_birth"`
	Gender        Gender            `json:"gender"`
	BirthWeightKg *float64          `json:"birth_weight_kg,omitempty"`
	Guardian      Guardian          `json:"guardian"`
	Address       Address           `json:"address"`
	Allergies     []string          `json:"allergies,omitempty"`
	Notes         string            `json:"notes,omitempty"`
	Facility      id.FacilityCode   `json:"facility"`
	RegisteredBy  id.UserID         `json:"registered_by"`
	RegisteredAt  time.Time         `json:"registered_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	Status        Status            `json:"status"`
	Schedule      schedule.Schedule `json:"schedule"`
	Version       int               `json:"version"`
}

func (c *Child) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Record is the engine's view of the child.
func (c *Child) Record() schedule.ChildRecord {
	return schedule.ChildRecord{
		ID:              c.ID,
		Name:            c.FullName(),
		DateOfBirth:     c.DateOfBirth,
		GuardianContact: c.Guardian.Phone,
		Facility:        c.Facility,
		Schedule:        c.Schedule,
	}
}

func (c *Child) Clone() *Child {
	cp := *c
	cp.Schedule = c.Schedule.Clone()
	cp.Allergies = append([]string(nil), c.Allergies...)
	if c.BirthWeightKg != nil {
		w := *c.BirthWeightKg
		cp.BirthWeightKg = &w
	}
	return &cp
}

// AgeInMonths counts whole calendar months from birth to today.
func AgeInMonths(dob, today time.Time) int {
	dob, today = schedule.Day(dob), schedule.Day(today)
	months := (today.Year()-dob.Year())*12 + int(today.Month()) - int(dob.Month())
	if today.Day() < dob.Day() {
		months--
	}
	return months
}

// ValidateRegistration checks a new child's fields against today.
func (c *Child) ValidateRegistration(today time.Time) error {
	switch {
	case c.FirstName == "" || c.LastName == "":
		return dErrors.New(dErrors.CodeValidation, "first and last name are required")
	case len(c.FirstName) > MaxNameLength || len(c.LastName) > MaxNameLength:
		return dErrors.New(dErrors.CodeValidation, "names must be at most 100 characters")
	case c.DateOfBirth.IsZero():
		return dErrors.New(dErrors.CodeValidation, "date of birth is required")
	case schedule.Day(c.DateOfBirth).After(schedule.Day(today)):
		return dErrors.New(dErrors.CodeValidation, "date of birth cannot be in the future")
	case AgeInMonths(c.DateOfBirth, today) > MaxAgeMonths:
		return dErrors.New(dErrors.CodeValidation, "child must be between 0 and 59 months old")
	case !c.Gender.IsValid():
		return dErrors.New(dErrors.CodeValidation, "gender must be male or female")
	case c.Guardian.Name == "":
		return dErrors.New(dErrors.CodeValidation, "guardian name is required")
	case len(c.Guardian.Name) > MaxNameLength:
		return dErrors.New(dErrors.CodeValidation, "guardian name must be at most 100 characters")
	case !GhanaPhonePattern.MatchString(c.Guardian.Phone):
		return dErrors.New(dErrors.CodeValidation, "guardian phone must be a Ghana number")
	case c.BirthWeightKg != nil && (*c.BirthWeightKg < MinBirthWeightKg || *c.BirthWeightKg > MaxBirthWeightKg):
		return dErrors.New(dErrors.CodeValidation, "birth weight must be between 0.5 and 20 kg")
	case len(c.Notes) > maxFreeTextLength:
		return dErrors.New(dErrors.CodeValidation, "notes must be at most 1000 characters")
	case len(c.Allergies) > maxAllergyListSize:
		return dErrors.New(dErrors.CodeValidation, "too many allergies listed")
	}
	return nil
}

// Matches reports whether the child satisfies the schedule part of a filter.
// With a vaccine and a status, that vaccine's entry must be in the status.
// A vaccine alone matches an entry that is still open. A status alone
// matches any entry in it.
func (c *Child) Matches(vaccine schedule.VaccineID, status schedule.Status) bool {
	if vaccine != "" {
		e, ok := c.Schedule.Get(vaccine)
		if !ok {
			return false
		}
		if status != "" {
			return e.Status == status
		}
		return !e.Status.IsTerminal()
	}
	if status != "" {
		return c.Schedule.Has(status)
	}
	return true
}
