// Package schedule computes immunization schedules from a canonical vaccine
// table. Everything here is pure: no I/O, no logging, no shared mutable state.
// Callers pass "today" explicitly and persist the returned values themselves.
package schedule

import (
	"strings"
	"time"
)

// Engine evaluates schedules against one immutable table. It is safe for
// concurrent use.
type Engine struct {
	table Table
}

// NewEngine validates the table and copies it.
func NewEngine(table Table) (*Engine, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	cp := make(Table, len(table))
	copy(cp, table)
	return &Engine{table: cp}, nil
}

// NewIA2030Engine returns an engine over the national schedule.
func NewIA2030Engine() *Engine {
	e, err := NewEngine(IA2030())
	if err != nil {
		panic(err)
	}
	return e
}

// Table returns a copy of the engine's table.
func (e *Engine) Table() Table {
	cp := make(Table, len(e.table))
	copy(cp, e.table)
	return cp
}

// Definition looks up a vaccine in the engine's table.
func (e *Engine) Definition(vaccine VaccineID) (VaccineDefinition, bool) {
	return e.table.Lookup(vaccine)
}

// Build produces the initial schedule for a child born on dob. Entries already
// past due on "today" start overdue, everything else pending.
func (e *Engine) Build(dob, today time.Time) (Schedule, error) {
	if dob.IsZero() {
		return nil, fail(ErrInvalidDateOfBirth, "date of birth is required")
	}
	birth := Day(dob)
	now := Day(today)

	out := make(Schedule, 0, len(e.table))
	for _, def := range e.table {
		due := AddDays(birth, def.OffsetDays)
		status := StatusPending
		if due.Before(now) {
			status = StatusOverdue
		}
		out = append(out, Entry{
			VaccineID: def.ID,
			Name:      def.Name,
			Dose:      def.Dose,
			DueDate:   due,
			Status:    status,
		})
	}
	return out, nil
}

// Classify re-derives an open entry's status from its due date. Terminal
// entries are returned unchanged.
func Classify(entry Entry, today time.Time) Entry {
	if entry.Status.IsTerminal() {
		return entry
	}
	daysUntilDue := DaysBetween(today, entry.DueDate)
	switch {
	case daysUntilDue < 0:
		entry.Status = StatusOverdue
	case daysUntilDue <= DueSoonWindowDays:
		entry.Status = StatusDueSoon
	default:
		entry.Status = StatusPending
	}
	return entry
}

// Reclassify applies Classify to every entry and returns a new schedule.
func Reclassify(s Schedule, today time.Time) Schedule {
	out := s.Clone()
	for i := range out {
		out[i] = Classify(out[i], today)
	}
	return out
}

// Record applies an administration event and returns the updated schedule.
// The child's schedule is never modified; on error nothing changes. An event
// naming another child is rejected; an event with no child is taken as
// addressed to this one.
func (e *Engine) Record(child ChildRecord, ev AdministrationEvent, today time.Time) (Schedule, error) {
	if ev.ChildID != "" && ev.ChildID != child.ID {
		return nil, fail(ErrChildMismatch, "event for child %s cannot be applied to child %s", ev.ChildID, child.ID)
	}
	i := child.Schedule.indexOf(ev.VaccineID)
	if i < 0 {
		return nil, fail(ErrVaccineNotInSchedule, "vaccine %q is not in the schedule of child %s", ev.VaccineID, child.ID)
	}
	current := child.Schedule[i]
	if current.Status == StatusAdministered {
		return nil, fail(ErrAlreadyAdministered, "%s already administered to child %s", current.Name, child.ID)
	}
	if current.Status.IsTerminal() {
		return nil, fail(ErrEntryClosed, "%s is marked %s for child %s", current.Name, current.Status, child.ID)
	}
	if child.DateOfBirth.IsZero() {
		return nil, fail(ErrInvalidDateOfBirth, "child %s has no date of birth", child.ID)
	}
	if ev.AdministeredDate.IsZero() {
		return nil, fail(ErrInvalidAdministrationDate, "administered date is required")
	}

	given := Day(ev.AdministeredDate)
	if given.Before(Day(child.DateOfBirth)) {
		return nil, fail(ErrInvalidAdministrationDate, "administered date %s is before date of birth", given.Format(DateLayout))
	}
	if given.After(Day(today)) {
		return nil, fail(ErrInvalidAdministrationDate, "administered date %s is in the future", given.Format(DateLayout))
	}

	out := child.Schedule.Clone()
	entry := &out[i]
	entry.Status = StatusAdministered
	entry.AdministeredDate = &given
	entry.Facility = ev.Facility
	entry.Batch = strings.TrimSpace(ev.Batch)
	entry.Notes = strings.TrimSpace(ev.Notes)
	entry.AdministeredBy = ev.AdministeredBy
	return out, nil
}

// Close marks an open entry missed or contraindicated.
func (e *Engine) Close(s Schedule, vaccine VaccineID, status Status, notes string) (Schedule, error) {
	if status != StatusMissed && status != StatusContraindicated {
		return nil, fail(ErrInvalidStatusTransition, "entries can only be closed as missed or contraindicated, not %q", status)
	}
	i := s.indexOf(vaccine)
	if i < 0 {
		return nil, fail(ErrVaccineNotInSchedule, "vaccine %q is not in the schedule", vaccine)
	}
	switch current := s[i].Status; {
	case current == StatusAdministered:
		return nil, fail(ErrAlreadyAdministered, "%s was already administered", s[i].Name)
	case current.IsTerminal():
		return nil, fail(ErrEntryClosed, "%s is already %s", s[i].Name, current)
	}

	out := s.Clone()
	out[i].Status = status
	if n := strings.TrimSpace(notes); n != "" {
		out[i].Notes = n
	}
	return out, nil
}
