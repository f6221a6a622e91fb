package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks dose movements per vaccine.
type Metrics struct {
	Doses         *prometheus.CounterVec
	CurrentDoses *prometheus.GaugeVec
}

func New() *Metrics {
	return &Metrics{
		Doses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vaxtrack_stock_doses_total",
			Help: "Doses received, consumed and wasted",
		}, []string{"vaccine", "movement"}),
		CurrentDoses: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vaxtrack_stock_current_doses",
			Help: "Current doses on hand after the last change",
		}, []string{"facility", "vaccine"}),
	}
}

func (m *Metrics) AddDoses(vaccine, movement string, n int) {
	if m == nil {
		return
	}
	m.Doses.WithLabelValues(vaccine, movement).Add(float64(n))
}

func (m *Metrics) SetCurrent(facility, vaccine string, n int) {
	if m == nil {
		return
	}
	m.CurrentDoses.WithLabelValues(facility, vaccine).Set(float64(n))
}
