package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	id "vaxtrack/pkg/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustBuild(t *testing.T, e *Engine, dob, today time.Time) Schedule {
	t.Helper()
	s, err := e.Build(dob, today)
	require.NoError(t, err)
	return s
}

func newChild(t *testing.T, e *Engine, childID string, dob, today time.Time) ChildRecord {
	t.Helper()
	return ChildRecord{
		ID:              id.ChildID(childID),
		Name:            "Child " + childID,
		DateOfBirth:     dob,
		GuardianContact: "0244000000",
		Facility:        "KBTH",
		Schedule:        mustBuild(t, e, dob, today),
	}
}

func administer(t *testing.T, e *Engine, c ChildRecord, vaccine VaccineID, on time.Time) ChildRecord {
	t.Helper()
	s, err := e.Record(c, AdministrationEvent{ChildID: c.ID, VaccineID: vaccine, AdministeredDate: on, Facility: c.Facility}, on)
	require.NoError(t, err)
	c.Schedule = s
	return c
}
