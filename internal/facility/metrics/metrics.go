package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts facility lifecycle changes.
type Metrics struct {
	FacilitiesCreated prometheus.Counter
	StatusChanges     *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		FacilitiesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vaxtrack_facilities_created_total",
			Help: "Total number of facilities created",
		}),
		StatusChanges: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vaxtrack_facility_status_changes_total",
			Help: "Facility activations and deactivations",
		}, []string{"status"}),
	}
}

func (m *Metrics) IncrementCreated() {
	if m == nil {
		return
	}
	m.FacilitiesCreated.Inc()
}

func (m *Metrics) IncrementStatusChange(status string) {
	if m == nil {
		return
	}
	m.StatusChanges.WithLabelValues(status).Inc()
}
