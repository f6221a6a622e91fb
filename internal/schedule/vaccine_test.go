package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIA2030TableIsValid(t *testing.T) {
	table := IA2030()
	require.NoError(t, table.Validate())
	assert.Len(t, table, 35)

	penta1, _ := table.Lookup("penta1")
	penta2, _ := table.Lookup("penta2")
	penta3, _ := table.Lookup("penta3")
	assert.Less(t, penta1.OffsetDays, penta2.OffsetDays)
	assert.Less(t, penta2.OffsetDays, penta3.OffsetDays)
}

func TestIA2030ReturnsFreshCopy(t *testing.T) {
	a := IA2030()
	a[0].OffsetDays = 999
	assert.Equal(t, 0, IA2030()[0].OffsetDays)
}

func TestTableValidate(t *testing.T) {
	tests := []struct {
		name  string
		table Table
	}{
		{"empty", Table{}},
		{"blank id", Table{{ID: "", Series: "x", Dose: 1}}},
		{"duplicate id", Table{{ID: "a", Series: "x", Dose: 1}, {ID: "a", Series: "y", Dose: 1}}},
		{"negative offset", Table{{ID: "a", Series: "x", Dose: 1, OffsetDays: -1}}},
		{"dose out of order", Table{{ID: "a2", Series: "x", Dose: 2, OffsetDays: 10}, {ID: "a1", Series: "x", Dose: 1, OffsetDays: 20}}},
		{"later dose due earlier", Table{{ID: "a1", Series: "x", Dose: 1, OffsetDays: 70}, {ID: "a2", Series: "x", Dose: 2, OffsetDays: 42}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate()
			assert.ErrorIs(t, err, ErrInvalidTable)
		})
	}

	t.Run("equal offsets within a series are allowed", func(t *testing.T) {
		table := Table{{ID: "a1", Series: "x", Dose: 1, OffsetDays: 42}, {ID: "a2", Series: "x", Dose: 2, OffsetDays: 42}}
		assert.NoError(t, table.Validate())
	})
}

func TestNewEngineRejectsInvalidTable(t *testing.T) {
	_, err := NewEngine(Table{{ID: "a", OffsetDays: -3}})
	assert.ErrorIs(t, err, ErrInvalidTable)
}

func TestStandardPairsReferenceTable(t *testing.T) {
	table := IA2030()
	for _, p := range StandardPairs {
		from, ok := table.Lookup(p.From)
		require.True(t, ok, p.From)
		to, ok := table.Lookup(p.To)
		require.True(t, ok, p.To)
		assert.Less(t, from.OffsetDays, to.OffsetDays)
	}
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("due-soon")
	require.NoError(t, err)
	assert.Equal(t, StatusDueSoon, s)

	s, err = ParseStatus(" Overdue ")
	require.NoError(t, err)
	assert.Equal(t, StatusOverdue, s)

	_, err = ParseStatus("done")
	assert.Error(t, err)
}
