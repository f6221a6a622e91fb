package schedule

import (
	"cmp"
	"slices"
	"time"

	id "vaxtrack/pkg/domain"
)

// AntigenCoverage is the coverage of one vaccine across a population.
type AntigenCoverage struct {
	VaccineID    VaccineID `json:"vaccine_id"`
	Name         string    `json:"name"`
	Eligible     int       `json:"eligible"`
	Administered int       `json:"administered"`
	Percentage   float64   `json:"percentage"`
}

// DropoutPair names an earlier and a later dose in one series.
type DropoutPair struct {
	From VaccineID `json:"from"`
	To   VaccineID `json:"to"`
}

// DropoutRate may be negative when more children received the later dose
// than the earlier one. That is left for callers to flag.
type DropoutRate struct {
	From      VaccineID `json:"from"`
	To        VaccineID `json:"to"`
	FromCount int       `json:"from_count"`
	ToCount   int       `json:"to_count"`
	Rate      float64   `json:"rate"`
}

type OverdueEntry struct {
	VaccineID   VaccineID `json:"vaccine_id"`
	Name        string    `json:"name"`
	DueDate     time.Time `json:"due_date"`
	DaysOverdue int       `json:"days_overdue"`
}

// Defaulter is a child with at least one overdue dose. DaysOverdue is the
// largest of its entries.
type Defaulter struct {
	ChildID         id.ChildID      `json:"child_id"`
	Name            string          `json:"name"`
	GuardianContact string          `json:"guardian_contact"`
	Facility        id.FacilityCode `json:"facility"`
	DaysOverdue     int             `json:"days_overdue"`
	Overdue         []OverdueEntry  `json:"overdue"`
}

// AggregateReport is a view over a population at one instant.
type AggregateReport struct {
	AsOf       time.Time         `json:"as_of"`
	Population int               `json:"population"`
	Coverage   []AntigenCoverage `json:"coverage"`
	Dropout    []DropoutRate     `json:"dropout"`
	Defaulters []Defaulter       `json:"defaulters"`
}

// Report computes coverage, the requested dropout rates and defaulters, all
// against the same "today".
func (e *Engine) Report(children []ChildRecord, today time.Time, pairs []DropoutPair) (AggregateReport, error) {
	dropout := make([]DropoutRate, 0, len(pairs))
	for _, p := range pairs {
		rate, err := e.Dropout(children, p)
		if err != nil {
			return AggregateReport{}, err
		}
		dropout = append(dropout, rate)
	}
	return AggregateReport{
		AsOf:       Day(today),
		Population: len(children),
		Coverage:   e.Coverage(children, today),
		Dropout:    dropout,
		Defaulters: e.Defaulters(children, today),
	}, nil
}

// Coverage returns one row per table entry, in table order. A child is
// eligible once its age in days reaches the vaccine's offset.
func (e *Engine) Coverage(children []ChildRecord, today time.Time) []AntigenCoverage {
	out := make([]AntigenCoverage, 0, len(e.table))
	for _, def := range e.table {
		row := AntigenCoverage{VaccineID: def.ID, Name: def.Name}
		for _, c := range children {
			if DaysBetween(c.DateOfBirth, today) < def.OffsetDays {
				continue
			}
			row.Eligible++
			if entry, ok := c.Schedule.Get(def.ID); ok && entry.Status == StatusAdministered {
				row.Administered++
			}
		}
		row.Percentage = percentage(row.Administered, row.Eligible)
		out = append(out, row)
	}
	return out
}

// Dropout computes (count(From) - count(To)) / count(From) * 100 over the
// whole population. It is 0 when nobody received From and is not clamped.
func (e *Engine) Dropout(children []ChildRecord, pair DropoutPair) (DropoutRate, error) {
	for _, v := range []VaccineID{pair.From, pair.To} {
		if _, ok := e.table.Lookup(v); !ok {
			return DropoutRate{}, fail(ErrVaccineNotInSchedule, "dropout vaccine %q is not in the schedule table", v)
		}
	}
	rate := DropoutRate{From: pair.From, To: pair.To}
	for _, c := range children {
		if entry, ok := c.Schedule.Get(pair.From); ok && entry.Status == StatusAdministered {
			rate.FromCount++
		}
		if entry, ok := c.Schedule.Get(pair.To); ok && entry.Status == StatusAdministered {
			rate.ToCount++
		}
	}
	if rate.FromCount > 0 {
		rate.Rate = float64(rate.FromCount-rate.ToCount) / float64(rate.FromCount) * 100
	}
	return rate, nil
}

// Defaulters lists children with overdue doses after reclassifying against
// today, most overdue first and ties broken by child ID.
func (e *Engine) Defaulters(children []ChildRecord, today time.Time) []Defaulter {
	out := make([]Defaulter, 0)
	for _, c := range children {
		var overdue []OverdueEntry
		for _, entry := range c.Schedule {
			entry = Classify(entry, today)
			if entry.Status != StatusOverdue {
				continue
			}
			overdue = append(overdue, OverdueEntry{
				VaccineID:   entry.VaccineID,
				Name:        entry.Name,
				DueDate:     entry.DueDate,
				DaysOverdue: DaysBetween(entry.DueDate, today),
			})
		}
		if len(overdue) == 0 {
			continue
		}
		// stable keeps schedule order among equally overdue doses
		slices.SortStableFunc(overdue, func(a, b OverdueEntry) int {
			return cmp.Compare(b.DaysOverdue, a.DaysOverdue)
		})
		out = append(out, Defaulter{
			ChildID:         c.ID,
			Name:            c.Name,
			GuardianContact: c.GuardianContact,
			Facility:        c.Facility,
			DaysOverdue:     overdue[0].DaysOverdue,
			Overdue:         overdue,
		})
	}
	slices.SortFunc(out, func(a, b Defaulter) int {
		if c := cmp.Compare(b.DaysOverdue, a.DaysOverdue); c != 0 {
			return c
		}
		return cmp.Compare(a.ChildID, b.ChildID)
	})
	return out
}

func percentage(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
