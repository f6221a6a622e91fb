package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"vaxtrack/internal/report/models"
)

var table = models.Table{
	Title:  "Coverage",
	Header: []string{"Vaccine", "Eligible", "Administered", "Coverage %"},
	Rows: [][]string{
		{"BCG", "10", "9", "90.0"},
		{"Penta1, dose 1", "8", "6", "75.0"},
	},
}

func TestCSV(t *testing.T) {
	out, err := Render(models.FormatCSV, table)
	require.NoError(t, err)
	assert.Equal(t, "Vaccine,Eligible,Administered,Coverage %\nBCG,10,9,90.0\n\"Penta1, dose 1\",8,6,75.0\n", string(out))
}

func TestXLSX(t *testing.T) {
	out, err := Render(models.FormatXLSX, table)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Coverage"}, f.GetSheetList())
	rows, err := f.GetRows("Coverage")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, table.Header, rows[0])
	assert.Equal(t, []string{"Penta1, dose 1", "8", "6", "75.0"}, rows[2])

	styleID, err := f.GetCellStyle("Coverage", "A1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	assert.True(t, style.Font.Bold)
}

func TestXLSXTruncatesLongTitles(t *testing.T) {
	out, err := XLSX(models.Table{Title: "Cold chain readings and excursions", Header: []string{"A"}})
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Cold chain readings and excursi"}, f.GetSheetList())
}

func TestRenderRejectsJSON(t *testing.T) {
	_, err := Render(models.FormatJSON, table)
	assert.Error(t, err)
}
