package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "vaxtrack/pkg/domain-errors"
)

// =============================================================================
// Schedule builder
// =============================================================================

func TestBuild(t *testing.T) {
	e := NewIA2030Engine()

	t.Run("one entry per definition in table order", func(t *testing.T) {
		s := mustBuild(t, e, date(2024, 1, 20), date(2024, 1, 20))
		table := e.Table()
		require.Len(t, s, len(table))
		for i, def := range table {
			assert.Equal(t, def.ID, s[i].VaccineID)
			assert.Equal(t, def.Dose, s[i].Dose)
			assert.Nil(t, s[i].AdministeredDate)
		}
	})

	t.Run("due date is exact calendar-day addition", func(t *testing.T) {
		s := mustBuild(t, e, date(2024, 1, 20), date(2024, 1, 20))

		penta3, ok := s.Get("penta3")
		require.True(t, ok)
		assert.Equal(t, date(2024, 4, 27), penta3.DueDate)

		penta1, _ := s.Get("penta1")
		assert.Equal(t, date(2024, 3, 2), penta1.DueDate, "42 days across a leap February")
	})

	t.Run("rolls over a year boundary", func(t *testing.T) {
		s := mustBuild(t, e, date(2023, 11, 15), date(2023, 11, 15))
		opv3, _ := s.Get("opv3")
		assert.Equal(t, date(2024, 2, 21), opv3.DueDate)
	})

	t.Run("holds for every birth date across two years", func(t *testing.T) {
		seen := make(map[VaccineID]struct{})
		for dob := date(2023, 1, 1); dob.Before(date(2025, 1, 1)); dob = dob.AddDate(0, 0, 1) {
			s := mustBuild(t, e, dob, dob)
			clear(seen)
			for _, entry := range s {
				_, dup := seen[entry.VaccineID]
				require.False(t, dup, "duplicate %s", entry.VaccineID)
				seen[entry.VaccineID] = struct{}{}

				def, _ := e.Definition(entry.VaccineID)
				require.Equal(t, def.OffsetDays, DaysBetween(dob, entry.DueDate), "dob %s vaccine %s", dob.Format(DateLayout), entry.VaccineID)
			}
			require.Len(t, seen, len(e.Table()))
		}
	})

	t.Run("initial status is pending or overdue only", func(t *testing.T) {
		dob := date(2024, 1, 1)
		s := mustBuild(t, e, dob, date(2024, 3, 8))

		opv1, _ := s.Get("opv1")
		assert.Equal(t, StatusOverdue, opv1.Status)
		opv2, _ := s.Get("opv2") // due 2024-03-11, three days away
		assert.Equal(t, StatusPending, opv2.Status)
	})

	t.Run("due today is not overdue", func(t *testing.T) {
		s := mustBuild(t, e, date(2024, 5, 5), date(2024, 5, 5))
		bcg, _ := s.Get("bcg")
		assert.Equal(t, StatusPending, bcg.Status)
	})

	t.Run("ignores time of day", func(t *testing.T) {
		dob := time.Date(2024, 1, 20, 23, 59, 0, 0, time.UTC)
		s := mustBuild(t, e, dob, dob)
		penta3, _ := s.Get("penta3")
		assert.Equal(t, date(2024, 4, 27), penta3.DueDate)
	})

	t.Run("rejects missing date of birth", func(t *testing.T) {
		_, err := e.Build(time.Time{}, date(2024, 1, 1))
		assert.ErrorIs(t, err, ErrInvalidDateOfBirth)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func TestParseDateOfBirth(t *testing.T) {
	dob, err := ParseDateOfBirth("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, date(2024, 2, 29), dob)

	for _, bad := range []string{"", "  ", "2023-02-29", "20/01/2024", "2024-13-01"} {
		_, err := ParseDateOfBirth(bad)
		assert.ErrorIs(t, err, ErrInvalidDateOfBirth, "input %q", bad)
	}
}

// =============================================================================
// Status classifier
// =============================================================================

func TestClassify(t *testing.T) {
	due := date(2024, 3, 11)
	entry := Entry{VaccineID: "opv2", DueDate: due, Status: StatusPending}

	tests := []struct {
		name  string
		today time.Time
		want  Status
	}{
		{"8 days before due", date(2024, 3, 3), StatusPending},
		{"7 days before due", date(2024, 3, 4), StatusDueSoon},
		{"due today", due, StatusDueSoon},
		{"1 day late", date(2024, 3, 12), StatusOverdue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(entry, tt.today).Status)
		})
	}

	t.Run("terminal statuses are never overwritten", func(t *testing.T) {
		given := date(2024, 3, 1)
		for _, status := range []Status{StatusAdministered, StatusMissed, StatusContraindicated} {
			e := Entry{VaccineID: "opv2", DueDate: due, Status: status, AdministeredDate: &given, Batch: "AB1234", Notes: "n"}
			got := Classify(e, date(2025, 1, 1))
			assert.Equal(t, e, got)
		}
	})

	t.Run("does not touch administration details", func(t *testing.T) {
		e := Entry{VaccineID: "opv2", DueDate: due, Status: StatusPending, Batch: "AB1234", Notes: "left arm"}
		got := Classify(e, date(2024, 4, 1))
		assert.Equal(t, "AB1234", got.Batch)
		assert.Equal(t, "left arm", got.Notes)
		assert.Nil(t, got.AdministeredDate)
	})

	t.Run("idempotent for a fixed today", func(t *testing.T) {
		for offset := -20; offset <= 20; offset++ {
			today := due.AddDate(0, 0, offset)
			once := Classify(entry, today)
			assert.Equal(t, once, Classify(once, today))
		}
	})

	t.Run("monotone as today advances", func(t *testing.T) {
		rank := map[Status]int{StatusPending: 0, StatusDueSoon: 1, StatusOverdue: 2}
		current := entry
		prev := -1
		for today := due.AddDate(0, 0, -30); today.Before(due.AddDate(0, 0, 30)); today = today.AddDate(0, 0, 1) {
			current = Classify(current, today)
			r := rank[current.Status]
			require.GreaterOrEqual(t, r, prev, "status went backwards on %s", today.Format(DateLayout))
			prev = r
		}
		assert.Equal(t, StatusOverdue, current.Status)
	})
}

func TestReclassifyReturnsNewSchedule(t *testing.T) {
	e := NewIA2030Engine()
	dob := date(2024, 1, 1)
	s := mustBuild(t, e, dob, dob)

	out := Reclassify(s, date(2024, 3, 1))

	bcg, _ := s.Get("bcg")
	assert.Equal(t, StatusPending, bcg.Status, "input untouched")
	bcg, _ = out.Get("bcg")
	assert.Equal(t, StatusOverdue, bcg.Status)
}

// =============================================================================
// Administration recorder
// =============================================================================

func TestRecord(t *testing.T) {
	e := NewIA2030Engine()
	dob := date(2024, 1, 1)
	today := date(2024, 3, 1)

	child := newChild(t, e, "KBTH-24-00001", dob, today)
	event := AdministrationEvent{
		ChildID:          child.ID,
		VaccineID:        "penta1",
		AdministeredDate: date(2024, 2, 14),
		Facility:         "KBTH",
		Batch:            " PN2024A ",
		Notes:            "right thigh",
		AdministeredBy:   "nurse-1",
	}

	t.Run("sets the target entry only", func(t *testing.T) {
		out, err := e.Record(child, event, today)
		require.NoError(t, err)

		penta1, _ := out.Get("penta1")
		assert.Equal(t, StatusAdministered, penta1.Status)
		require.NotNil(t, penta1.AdministeredDate)
		assert.Equal(t, date(2024, 2, 14), *penta1.AdministeredDate)
		assert.Equal(t, "PN2024A", penta1.Batch)
		assert.Equal(t, "right thigh", penta1.Notes)
		assert.Equal(t, "nurse-1", penta1.AdministeredBy)

		for i := range out {
			if out[i].VaccineID == "penta1" {
				continue
			}
			assert.Equal(t, child.Schedule[i], out[i])
		}
	})

	t.Run("does not mutate the input schedule", func(t *testing.T) {
		before := child.Schedule.Clone()
		_, err := e.Record(child, event, today)
		require.NoError(t, err)
		assert.Equal(t, before, child.Schedule)
	})

	t.Run("administered today is accepted", func(t *testing.T) {
		ev := event
		ev.AdministeredDate = today
		_, err := e.Record(child, ev, today)
		assert.NoError(t, err)
	})

	t.Run("administered on the date of birth is accepted", func(t *testing.T) {
		ev := event
		ev.VaccineID = "bcg"
		ev.AdministeredDate = dob
		_, err := e.Record(child, ev, today)
		assert.NoError(t, err)
	})

	t.Run("unknown vaccine", func(t *testing.T) {
		ev := event
		ev.VaccineID = "yellow_fever"
		_, err := e.Record(child, ev, today)
		assert.ErrorIs(t, err, ErrVaccineNotInSchedule)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("event for another child", func(t *testing.T) {
		ev := event
		ev.ChildID = "KBTH-24-00002"
		_, err := e.Record(child, ev, today)
		assert.ErrorIs(t, err, ErrChildMismatch)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("event without a child id applies to the given child", func(t *testing.T) {
		ev := event
		ev.ChildID = ""
		_, err := e.Record(child, ev, today)
		assert.NoError(t, err)
	})

	t.Run("date before birth", func(t *testing.T) {
		ev := event
		ev.AdministeredDate = date(2023, 12, 31)
		_, err := e.Record(child, ev, today)
		assert.ErrorIs(t, err, ErrInvalidAdministrationDate)
	})

	t.Run("date in the future", func(t *testing.T) {
		ev := event
		ev.AdministeredDate = date(2024, 3, 2)
		_, err := e.Record(child, ev, today)
		assert.ErrorIs(t, err, ErrInvalidAdministrationDate)
	})

	t.Run("missing date", func(t *testing.T) {
		ev := event
		ev.AdministeredDate = time.Time{}
		_, err := e.Record(child, ev, today)
		assert.ErrorIs(t, err, ErrInvalidAdministrationDate)
	})

	t.Run("second administration is rejected", func(t *testing.T) {
		out, err := e.Record(child, event, today)
		require.NoError(t, err)

		again := child
		again.Schedule = out
		_, err = e.Record(again, event, today)
		assert.ErrorIs(t, err, ErrAlreadyAdministered)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})

	t.Run("closed entry cannot be administered", func(t *testing.T) {
		closed, err := e.Close(child.Schedule, "penta1", StatusContraindicated, "allergy")
		require.NoError(t, err)

		c := child
		c.Schedule = closed
		_, err = e.Record(c, event, today)
		assert.ErrorIs(t, err, ErrEntryClosed)
	})
}

func TestClose(t *testing.T) {
	e := NewIA2030Engine()
	dob := date(2024, 1, 1)
	s := mustBuild(t, e, dob, dob)

	t.Run("marks missed and keeps notes", func(t *testing.T) {
		out, err := e.Close(s, "rota1", StatusMissed, "stock out")
		require.NoError(t, err)
		rota1, _ := out.Get("rota1")
		assert.Equal(t, StatusMissed, rota1.Status)
		assert.Equal(t, "stock out", rota1.Notes)

		orig, _ := s.Get("rota1")
		assert.Equal(t, StatusPending, orig.Status)
	})

	t.Run("rejects non-closing statuses", func(t *testing.T) {
		_, err := e.Close(s, "rota1", StatusAdministered, "")
		assert.ErrorIs(t, err, ErrInvalidStatusTransition)
		_, err = e.Close(s, "rota1", StatusOverdue, "")
		assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	})

	t.Run("rejects closing twice", func(t *testing.T) {
		out, err := e.Close(s, "rota1", StatusMissed, "")
		require.NoError(t, err)
		_, err = e.Close(out, "rota1", StatusContraindicated, "")
		assert.ErrorIs(t, err, ErrEntryClosed)
	})

	t.Run("rejects administered entries", func(t *testing.T) {
		c := administer(t, e, ChildRecord{ID: "KBTH-24-00009", DateOfBirth: dob, Schedule: s}, "bcg", dob)
		_, err := e.Close(c.Schedule, "bcg", StatusMissed, "")
		assert.ErrorIs(t, err, ErrAlreadyAdministered)
	})

	t.Run("unknown vaccine", func(t *testing.T) {
		_, err := e.Close(s, "nope", StatusMissed, "")
		assert.ErrorIs(t, err, ErrVaccineNotInSchedule)
	})
}

// =============================================================================
// End-to-end scenario
// =============================================================================

func TestScenarioSixtyDaysOld(t *testing.T) {
	e := NewIA2030Engine()
	dob := date(2024, 1, 1)
	today := date(2024, 3, 1)

	s := Reclassify(mustBuild(t, e, dob, today), today)

	for _, v := range []VaccineID{"opv1", "penta1", "pcv1", "rota1"} {
		entry, ok := s.Get(v)
		require.True(t, ok)
		assert.Equal(t, date(2024, 2, 12), entry.DueDate, v)
		assert.Equal(t, StatusOverdue, entry.Status, v)
	}
	for _, v := range []VaccineID{"opv3", "penta3", "pcv3", "rota3", "ipv1"} {
		entry, ok := s.Get(v)
		require.True(t, ok)
		assert.Equal(t, date(2024, 4, 8), entry.DueDate, v)
		assert.Equal(t, StatusPending, entry.Status, v)
	}

	summary := s.Summary()
	assert.Equal(t, 7, summary.Overdue, "birth doses and 6-week doses")
	assert.Equal(t, 0, summary.DueSoon)
	assert.Equal(t, len(s)-7, summary.Pending)
}
