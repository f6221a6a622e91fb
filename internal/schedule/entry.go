package schedule

import (
	"time"

	id "vaxtrack/pkg/domain"
)

// Entry is one child's record for one scheduled dose.
type Entry struct {
	VaccineID        VaccineID       `json:"vaccine_id"`
	Name             string          `json:"name"`
	Dose             int             `json:"dose"`
	DueDate          time.Time       `json:"due_date"`
	Status           Status          `json:"status"`
	AdministeredDate *time.Time      `json:"administered_date,omitempty"`
	AdministeredBy   string          `json:"administered_by,omitempty"`
	Facility         id.FacilityCode `json:"facility,omitempty"`
	Batch            string          `json:"batch,omitempty"`
	Notes            string          `json:"notes,omitempty"`
}

// Schedule maps vaccine IDs to entries, in table order. Each ID appears once.
type Schedule []Entry

// Get returns the entry for a vaccine.
func (s Schedule) Get(vaccine VaccineID) (Entry, bool) {
	if i := s.indexOf(vaccine); i >= 0 {
		return s[i], true
	}
	return Entry{}, false
}

// Has reports whether any entry carries status.
func (s Schedule) Has(status Status) bool {
	for _, e := range s {
		if e.Status == status {
			return true
		}
	}
	return false
}

func (s Schedule) indexOf(vaccine VaccineID) int {
	for i := range s {
		if s[i].VaccineID == vaccine {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy; mutating it never touches s.
func (s Schedule) Clone() Schedule {
	if s == nil {
		return nil
	}
	out := make(Schedule, len(s))
	copy(out, s)
	for i := range out {
		if out[i].AdministeredDate != nil {
			d := *out[i].AdministeredDate
			out[i].AdministeredDate = &d
		}
	}
	return out
}

// Equal compares statuses and administration details entry by entry.
func (s Schedule) Equal(other Schedule) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		a, b := s[i], other[i]
		if a.VaccineID != b.VaccineID || a.Status != b.Status || !a.DueDate.Equal(b.DueDate) {
			return false
		}
		if (a.AdministeredDate == nil) != (b.AdministeredDate == nil) {
			return false
		}
		if a.AdministeredDate != nil && !a.AdministeredDate.Equal(*b.AdministeredDate) {
			return false
		}
		if a.Batch != b.Batch || a.Facility != b.Facility || a.Notes != b.Notes {
			return false
		}
	}
	return true
}

// Summary counts entries per status.
type Summary struct {
	Pending         int `json:"pending"`
	DueSoon         int `json:"due_soon"`
	Overdue         int `json:"overdue"`
	Administered    int `json:"administered"`
	Missed          int `json:"missed"`
	Contraindicated int `json:"contraindicated"`
}

func (s Schedule) Summary() Summary {
	var out Summary
	for _, e := range s {
		switch e.Status {
		case StatusPending:
			out.Pending++
		case StatusDueSoon:
			out.DueSoon++
		case StatusOverdue:
			out.Overdue++
		case StatusAdministered:
			out.Administered++
		case StatusMissed:
			out.Missed++
		case StatusContraindicated:
			out.Contraindicated++
		}
	}
	return out
}

// AdministrationEvent is a recorded dose as collected from the clinic form.
type AdministrationEvent struct {
	ChildID          id.ChildID
	VaccineID        VaccineID
	AdministeredDate time.Time
	Facility         id.FacilityCode
	Batch            string
	Notes            string
	AdministeredBy   string
}

// ChildRecord is the engine's view of a registered child.
type ChildRecord struct {
	ID              id.ChildID
	Name            string
	DateOfBirth     time.Time
	GuardianContact string
	Facility        id.FacilityCode
	Schedule        Schedule
}
