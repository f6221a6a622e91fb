package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "vaxtrack/pkg/domain"
)

func coverageFor(rows []AntigenCoverage, v VaccineID) AntigenCoverage {
	for _, r := range rows {
		if r.VaccineID == v {
			return r
		}
	}
	return AntigenCoverage{}
}

func TestCoverage(t *testing.T) {
	e := NewIA2030Engine()
	today := date(2024, 6, 1)

	t.Run("zero eligible is zero percent", func(t *testing.T) {
		newborn := newChild(t, e, "KBTH-24-00001", today, today)
		rows := e.Coverage([]ChildRecord{newborn}, today)

		penta1 := coverageFor(rows, "penta1")
		assert.Equal(t, 0, penta1.Eligible)
		assert.Equal(t, 0, penta1.Administered)
		assert.Equal(t, 0.0, penta1.Percentage)
	})

	t.Run("empty population is zero everywhere", func(t *testing.T) {
		rows := e.Coverage(nil, today)
		require.Len(t, rows, len(e.Table()))
		for _, r := range rows {
			assert.Zero(t, r.Percentage)
		}
	})

	t.Run("eligibility uses age in days against offset", func(t *testing.T) {
		exactly42 := newChild(t, e, "KBTH-24-00001", today.AddDate(0, 0, -42), today)
		only41 := newChild(t, e, "KBTH-24-00002", today.AddDate(0, 0, -41), today)

		penta1 := coverageFor(e.Coverage([]ChildRecord{exactly42, only41}, today), "penta1")
		assert.Equal(t, 1, penta1.Eligible)
	})

	t.Run("percentage of eligible children administered", func(t *testing.T) {
		dob := date(2024, 1, 1)
		a := administer(t, e, newChild(t, e, "KBTH-24-00001", dob, dob), "bcg", dob)
		b := administer(t, e, newChild(t, e, "KBTH-24-00002", dob, dob), "bcg", dob)
		c := newChild(t, e, "KBTH-24-00003", dob, dob)
		d := administer(t, e, newChild(t, e, "KBTH-24-00004", dob, dob), "penta1", date(2024, 2, 12))

		rows := e.Coverage([]ChildRecord{a, b, c, d}, today)
		bcg := coverageFor(rows, "bcg")
		assert.Equal(t, 4, bcg.Eligible)
		assert.Equal(t, 2, bcg.Administered)
		assert.InDelta(t, 50.0, bcg.Percentage, 1e-9)

		penta1 := coverageFor(rows, "penta1")
		assert.InDelta(t, 25.0, penta1.Percentage, 1e-9)

		for _, r := range rows {
			assert.GreaterOrEqual(t, r.Percentage, 0.0)
			assert.LessOrEqual(t, r.Percentage, 100.0)
		}
	})

	t.Run("rows follow table order", func(t *testing.T) {
		rows := e.Coverage(nil, today)
		for i, def := range e.Table() {
			assert.Equal(t, def.ID, rows[i].VaccineID)
		}
	})
}

func TestDropout(t *testing.T) {
	e := NewIA2030Engine()
	dob := date(2023, 1, 1)
	later := date(2023, 6, 1)

	t.Run("standard formula", func(t *testing.T) {
		var children []ChildRecord
		for i := 1; i <= 4; i++ {
			c := newChild(t, e, string(id.NewChildID("KBTH", 2023, i)), dob, dob)
			c = administer(t, e, c, "penta1", date(2023, 2, 12))
			if i <= 3 {
				c = administer(t, e, c, "penta3", later)
			}
			children = append(children, c)
		}

		rate, err := e.Dropout(children, DropoutPenta)
		require.NoError(t, err)
		assert.Equal(t, 4, rate.FromCount)
		assert.Equal(t, 3, rate.ToCount)
		assert.InDelta(t, 25.0, rate.Rate, 1e-9)
	})

	t.Run("zero when nobody received the first dose", func(t *testing.T) {
		c := newChild(t, e, "KBTH-23-00001", dob, dob)
		rate, err := e.Dropout([]ChildRecord{c}, DropoutPenta)
		require.NoError(t, err)
		assert.Equal(t, 0.0, rate.Rate)
	})

	t.Run("negative when later dose outnumbers earlier dose", func(t *testing.T) {
		a := administer(t, e, newChild(t, e, "KBTH-23-00001", dob, dob), "penta1", date(2023, 2, 12))
		a = administer(t, e, a, "penta3", later)
		b := administer(t, e, newChild(t, e, "KBTH-23-00002", dob, dob), "penta3", later)

		rate, err := e.Dropout([]ChildRecord{a, b}, DropoutPenta)
		require.NoError(t, err)
		assert.Equal(t, 1, rate.FromCount)
		assert.Equal(t, 2, rate.ToCount)
		assert.InDelta(t, -100.0, rate.Rate, 1e-9)
	})

	t.Run("unknown vaccine", func(t *testing.T) {
		_, err := e.Dropout(nil, DropoutPair{From: "penta1", To: "penta9"})
		assert.ErrorIs(t, err, ErrVaccineNotInSchedule)
	})
}

func TestDefaulters(t *testing.T) {
	e := NewIA2030Engine()
	today := date(2024, 6, 1)

	t.Run("most overdue first", func(t *testing.T) {
		// bcg due on the birth date, so days overdue equals age in days
		ten := newChild(t, e, "KBTH-24-00001", today.AddDate(0, 0, -10), today)
		twenty := newChild(t, e, "KBTH-24-00002", today.AddDate(0, 0, -20), today)

		out := e.Defaulters([]ChildRecord{ten, twenty}, today)
		require.Len(t, out, 2)
		assert.Equal(t, id.ChildID("KBTH-24-00002"), out[0].ChildID)
		assert.Equal(t, 20, out[0].DaysOverdue)
		assert.Equal(t, 10, out[1].DaysOverdue)
	})

	t.Run("ties break on child id", func(t *testing.T) {
		dob := today.AddDate(0, 0, -15)
		b := newChild(t, e, "KBTH-24-00002", dob, today)
		a := newChild(t, e, "KBTH-24-00001", dob, today)

		out := e.Defaulters([]ChildRecord{b, a}, today)
		require.Len(t, out, 2)
		assert.Equal(t, id.ChildID("KBTH-24-00001"), out[0].ChildID)
		assert.Equal(t, id.ChildID("KBTH-24-00002"), out[1].ChildID)
	})

	t.Run("lists each overdue entry with days overdue", func(t *testing.T) {
		dob := date(2024, 1, 1)
		c := administer(t, e, newChild(t, e, "KBTH-24-00003", dob, dob), "bcg", dob)

		out := e.Defaulters([]ChildRecord{c}, date(2024, 3, 1))
		require.Len(t, out, 1)
		d := out[0]
		assert.Equal(t, 60, d.DaysOverdue)
		assert.Equal(t, "0244000000", d.GuardianContact)

		byID := make(map[VaccineID]OverdueEntry)
		for _, o := range d.Overdue {
			byID[o.VaccineID] = o
		}
		assert.NotContains(t, byID, VaccineID("bcg"))
		assert.Equal(t, 60, byID["opv0"].DaysOverdue)
		assert.Equal(t, 18, byID["penta1"].DaysOverdue)
		assert.Equal(t, VaccineID("opv0"), d.Overdue[0].VaccineID, "schedule order among equal days")
	})

	t.Run("stale stored statuses are reclassified", func(t *testing.T) {
		dob := date(2024, 1, 1)
		c := newChild(t, e, "KBTH-24-00004", dob, dob)
		// built on the birth date, so nothing was stored as overdue
		require.False(t, c.Schedule.Has(StatusOverdue))

		out := e.Defaulters([]ChildRecord{c}, date(2024, 1, 5))
		require.Len(t, out, 1)
		assert.Equal(t, 4, out[0].DaysOverdue)
	})

	t.Run("children with nothing overdue are excluded", func(t *testing.T) {
		c := newChild(t, e, "KBTH-24-00005", today, today)
		assert.Empty(t, e.Defaulters([]ChildRecord{c}, today))
	})
}

func TestReport(t *testing.T) {
	e := NewIA2030Engine()
	today := date(2024, 6, 1)
	c := newChild(t, e, "KBTH-24-00001", date(2024, 1, 1), today)

	r, err := e.Report([]ChildRecord{c}, today, StandardPairs)
	require.NoError(t, err)
	assert.Equal(t, today, r.AsOf)
	assert.Equal(t, 1, r.Population)
	assert.Len(t, r.Coverage, len(e.Table()))
	assert.Len(t, r.Dropout, len(StandardPairs))
	assert.Len(t, r.Defaulters, 1)

	_, err = e.Report(nil, today, []DropoutPair{{From: "x", To: "y"}})
	assert.ErrorIs(t, err, ErrVaccineNotInSchedule)
}
