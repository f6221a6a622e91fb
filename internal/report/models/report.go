package models

import (
	"strings"
	"time"

	ccmodels "vaxtrack/internal/coldchain/models"
	"vaxtrack/internal/schedule"
	id "vaxtrack/pkg/domain"
	dErrors "vaxtrack/pkg/domain-errors"
)

type Type string

const (
	TypeCoverage   Type = "coverage"
	TypeDropout    Type = "dropout"
	TypeDefaulters Type = "defaulters"
	TypeStock      Type = "stock"
	TypeColdChain  Type = "cold-chain"
)

var allTypes = []Type{TypeCoverage, TypeDropout, TypeDefaulters, TypeStock, TypeColdChain}

func ParseType(v string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(v)))
	for _, known := range allTypes {
		if t == known {
			return t, nil
		}
	}
	return "", dErrors.New(dErrors.CodeNotFound, "unknown report type")
}

// NeedsPopulation reports whether the type is computed from the facility's
// children.
func (t Type) NeedsPopulation() bool {
	return t == TypeCoverage || t == TypeDropout || t == TypeDefaulters
}

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

func ParseFormat(v string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(v))); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", dErrors.New(dErrors.CodeBadRequest, "format must be json, csv or xlsx")
	}
}

func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json"
	}
}

// Request selects a report. Since and Until only apply to cold-chain reports;
// Until is exclusive.
type Request struct {
	Type   Type
	Format Format
	Since  time.Time
	Until  time.Time
}

// Table is the flat form of a report used by file exports.
type Table struct {
	Title  string
	Header []string
	Rows   [][]string
}

// Report is a generated report. Data holds the type-specific payload.
type Report struct {
	Type        Type            `json:"type"`
	Facility    id.FacilityCode `json:"facility"`
	AsOf        string          `json:"as_of"`
	GeneratedAt time.Time       `json:"generated_at"`
	Since       *time.Time      `json:"since,omitempty"`
	Until       *time.Time      `json:"until,omitempty"`
	Population  int             `json:"population,omitempty"`
	Data        any             `json:"data"`
	Table       Table           `json:"-"`
}

// Filename is the attachment name for an export.
func (r *Report) Filename(f Format) string {
	return string(r.Type) + "-" + r.Facility.String() + "-" + r.AsOf + "." + string(f)
}

type StockRow struct {
	VaccineID         schedule.VaccineID `json:"vaccine_id"`
	Current           int                `json:"current_stock"`
	TotalReceived     int                `json:"total_received"`
	TotalAdministered int                `json:"total_administered"`
	TotalWastage      int                `json:"total_wastage"`
	ReorderLevel      int                `json:"reorder_level"`
	Low               bool               `json:"low"`
}

// ColdChainData lists at most the newest 1000 readings; Truncated reports
// that the period held more. Summary and Excursions always span the period.
type ColdChainData struct {
	Summary    ccmodels.Summary    `json:"summary"`
	Readings   []*ccmodels.Reading `json:"readings"`
	Excursions []*ccmodels.Reading `json:"excursions"`
	Truncated  bool                `json:"truncated"`
}

// Dashboard is the facility overview. Coverage and dropout are percentages.
type Dashboard struct {
	Facility              id.FacilityCode `json:"facility"`
	AsOf                  string          `json:"as_of"`
	GeneratedAt           time.Time       `json:"generated_at"`
	TotalChildren         int             `json:"total_children"`
	VaccinesAdministered  int             `json:"vaccines_administered"`
	AdministeredThisMonth int             `json:"administered_this_month"`
	DueSoon               int             `json:"due_soon"`
	Defaulters            int             `json:"defaulters"`
	OverallCoverage       float64         `json:"overall_coverage"`
	PentaDropout          float64         `json:"penta_dropout"`
	LowStock              int             `json:"low_stock"`
	OpenAlerts            int             `json:"open_alerts"`
	Cached                bool            `json:"cached"`
}
