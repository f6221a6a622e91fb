package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Generated    *prometheus.CounterVec
	Duration     *prometheus.HistogramVec
	CacheLookups *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		Generated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vaxtrack_reports_generated_total",
			Help: "Reports generated by type and format",
		}, []string{"type", "format"}),
		Duration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vaxtrack_report_duration_seconds",
			Help:    "Time to assemble a report or dashboard",
			Buckets: prometheus.DefBuckets,
		}, []string{"type"}),
		CacheLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vaxtrack_dashboard_cache_lookups_total",
			Help: "Dashboard cache lookups by result",
		}, []string{"result"}),
	}
}

func (m *Metrics) IncGenerated(typ, format string) {
	if m == nil {
		return
	}
	m.Generated.WithLabelValues(typ, format).Inc()
}

func (m *Metrics) ObserveDuration(typ string, start time.Time) {
	if m == nil {
		return
	}
	m.Duration.WithLabelValues(typ).Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncCache(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}
