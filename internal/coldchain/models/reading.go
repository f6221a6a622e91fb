package models

import (
	"strings"
	"time"

	id "vaxtrack/pkg/domain"
	dErrors "vaxtrack/pkg/domain-errors"
)

// Source records how a reading entered the system.
type Source string

const (
	SourceManual Source = "manual"
	SourceSensor Source = "sensor"
)

func (s Source) IsValid() bool {
	return s == SourceManual || s == SourceSensor
}

// Accepted range for any logged temperature.
const (
	MinTemperatureC = -50.0
	MaxTemperatureC = 60.0
)

// Reading is one temperature observation for a piece of cold chain equipment.
type Reading struct {
	ID           id.ReadingID    `json:"id"`
	Facility     id.FacilityCode `json:"facility"`
	EquipmentID  string          `json:"equipment_id"`
	TemperatureC float64         `json:"temperature_c"`
	HumidityPct  *float64        `json:"humidity_pct,omitempty"`
	RecordedAt   time.Time       `json:"recorded_at"`
	RecordedBy   id.UserID       `json:"recorded_by"`
	Source       Source          `json:"source"`
}

// Validate checks the reading's fields. It does not judge the temperature
// against a storage band.
func (r *Reading) Validate() error {
	if r.Facility.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "facility is required")
	}
	if strings.TrimSpace(r.EquipmentID) == "" {
		return dErrors.New(dErrors.CodeValidation, "equipment_id is required")
	}
	if r.TemperatureC < MinTemperatureC || r.TemperatureC > MaxTemperatureC {
		return dErrors.New(dErrors.CodeValidation, "temperature must be between -50 and 60")
	}
	if r.HumidityPct != nil && (*r.HumidityPct < 0 || *r.HumidityPct > 100) {
		return dErrors.New(dErrors.CodeValidation, "humidity must be between 0 and 100")
	}
	if !r.Source.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "source must be manual or sensor")
	}
	return nil
}

// Band is the safe storage range, inclusive at both ends.
type Band struct {
	MinC float64
	MaxC float64
}

// DefaultBand is the 2 to 8 °C range for refrigerated vaccines.
var DefaultBand = Band{MinC: 2, MaxC: 8}

func (b Band) Contains(tempC float64) bool {
	return tempC >= b.MinC && tempC <= b.MaxC
}

// Summary aggregates a set of readings.
type Summary struct {
	Count      int     `json:"count"`
	Excursions int     `json:"excursions"`
	MinC       float64 `json:"min_c"`
	MaxC       float64 `json:"max_c"`
	AverageC   float64 `json:"average_c"`
}

// Summarize computes min, max and mean temperature; an empty input yields a
// zero Summary.
func Summarize(readings []*Reading, band Band) Summary {
	var s Summary
	if len(readings) == 0 {
		return s
	}
	var total float64
	s.MinC, s.MaxC = readings[0].TemperatureC, readings[0].TemperatureC
	for _, r := range readings {
		t := r.TemperatureC
		total += t
		if t < s.MinC {
			s.MinC = t
		}
		if t > s.MaxC {
			s.MaxC = t
		}
		if !band.Contains(t) {
			s.Excursions++
		}
	}
	s.Count = len(readings)
	s.AverageC = total / float64(len(readings))
	return s
}
