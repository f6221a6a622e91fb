package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Raised       *prometheus.CounterVec
	Acknowledged prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		Raised: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vaxtrack_alerts_raised_total",
			Help: "Alerts raised by type",
		}, []string{"type"}),
		Acknowledged: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vaxtrack_alerts_acknowledged_total",
			Help: "Alerts acknowledged by facility staff",
		}),
	}
}

func (m *Metrics) IncrementRaised(alertType string) {
	if m == nil {
		return
	}
	m.Raised.WithLabelValues(alertType).Inc()
}

func (m *Metrics) IncrementAcknowledged() {
	if m == nil {
		return
	}
	m.Acknowledged.Inc()
}
