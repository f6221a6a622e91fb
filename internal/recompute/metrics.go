package recompute

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Runs     *prometheus.CounterVec
	Changed  prometheus.Gauge
	Duration prometheus.Histogram
}

func NewMetrics() *Metrics {
	return &Metrics{
		Runs: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vaxtrack_recompute_runs_total",
			Help: "Schedule recomputation runs by result",
		}, []string{"result"}),
		Changed: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "vaxtrack_recompute_last_changed",
			Help: "Schedules changed by the most recent recomputation",
		}),
		Duration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vaxtrack_recompute_duration_seconds",
			Help:    "Duration of a recomputation run",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300},
		}),
	}
}

func (m *Metrics) observe(changed int, err error, start time.Time) {
	if m == nil {
		return
	}
	m.Duration.Observe(time.Since(start).Seconds())
	if err != nil {
		m.Runs.WithLabelValues("error").Inc()
		return
	}
	m.Runs.WithLabelValues("ok").Inc()
	m.Changed.Set(float64(changed))
}
