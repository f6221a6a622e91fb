package service

import (
	"strconv"
	"strings"
	"time"

	ccmodels "vaxtrack/internal/coldchain/models"
	"vaxtrack/internal/report/models"
	"vaxtrack/internal/schedule"
	stockmodels "vaxtrack/internal/stock/models"
)

func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func coverageTable(rows []schedule.AntigenCoverage) models.Table {
	t := models.Table{
		Title:  "Coverage",
		Header: []string{"Vaccine ID", "Vaccine", "Eligible", "Administered", "Coverage %"},
		Rows:   make([][]string, 0, len(rows)),
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.VaccineID.String(), r.Name, strconv.Itoa(r.Eligible), strconv.Itoa(r.Administered), percent(r.Percentage),
		})
	}
	return t
}

func dropoutTable(rows []schedule.DropoutRate) models.Table {
	t := models.Table{
		Title:  "Dropout",
		Header: []string{"From", "To", "From Count", "To Count", "Dropout %"},
		Rows:   make([][]string, 0, len(rows)),
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.From.String(), r.To.String(), strconv.Itoa(r.FromCount), strconv.Itoa(r.ToCount), percent(r.Rate),
		})
	}
	return t
}

func defaultersTable(rows []schedule.Defaulter, today time.Time) models.Table {
	t := models.Table{
		Title:  "Defaulters " + schedule.Day(today).Format(schedule.DateLayout),
		Header: []string{"Child ID", "Name", "Guardian Contact", "Days Overdue", "Overdue Vaccines"},
		Rows:   make([][]string, 0, len(rows)),
	}
	for _, r := range rows {
		names := make([]string, 0, len(r.Overdue))
		for _, o := range r.Overdue {
			names = append(names, o.Name)
		}
		t.Rows = append(t.Rows, []string{
			r.ChildID.String(), r.Name, r.GuardianContact, strconv.Itoa(r.DaysOverdue), strings.Join(names, "; "),
		})
	}
	return t
}

func toStockRows(levels []*stockmodels.StockLevel) []models.StockRow {
	rows := make([]models.StockRow, 0, len(levels))
	for _, l := range levels {
		rows = append(rows, models.StockRow{
			VaccineID:         l.VaccineID,
			Current:           l.Current,
			TotalReceived:     l.TotalReceived,
			TotalAdministered: l.TotalAdministered,
			TotalWastage:      l.TotalWastage,
			ReorderLevel:      l.ReorderLevel,
			Low:               l.IsLow(),
		})
	}
	return rows
}

func stockTable(rows []models.StockRow) models.Table {
	t := models.Table{
		Title:  "Stock",
		Header: []string{"Vaccine ID", "Current", "Received", "Administered", "Wastage", "Reorder Level", "Low"},
		Rows:   make([][]string, 0, len(rows)),
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.VaccineID.String(),
			strconv.Itoa(r.Current),
			strconv.Itoa(r.TotalReceived),
			strconv.Itoa(r.TotalAdministered),
			strconv.Itoa(r.TotalWastage),
			strconv.Itoa(r.ReorderLevel),
			strconv.FormatBool(r.Low),
		})
	}
	return t
}

func coldChainTable(readings []*ccmodels.Reading, band ccmodels.Band) models.Table {
	t := models.Table{
		Title:  "Cold Chain",
		Header: []string{"Recorded At", "Equipment", "Temperature C", "Humidity %", "Source", "Excursion"},
		Rows:   make([][]string, 0, len(readings)),
	}
	for _, r := range readings {
		humidity := ""
		if r.HumidityPct != nil {
			humidity = strconv.FormatFloat(*r.HumidityPct, 'f', 1, 64)
		}
		t.Rows = append(t.Rows, []string{
			r.RecordedAt.UTC().Format(time.RFC3339),
			r.EquipmentID,
			strconv.FormatFloat(r.TemperatureC, 'f', 1, 64),
			humidity,
			string(r.Source),
			strconv.FormatBool(!band.Contains(r.TemperatureC)),
		})
	}
	return t
}
