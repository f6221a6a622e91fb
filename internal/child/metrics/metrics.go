package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Registered           prometheus.Counter
	Administered         *prometheus.CounterVec
	EntriesClosed        *prometheus.CounterVec
	VersionConflicts     prometheus.Counter
	StockConsumeFailures prometheus.Counter
	Reclassified         prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		Registered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vaxtrack_children_registered_total",
			Help: "Children registered",
		}),
		Administered: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vaxtrack_vaccines_administered_total",
			Help: "Doses recorded as administered",
		}, []string{"vaccine"}),
		EntriesClosed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vaxtrack_schedule_entries_closed_total",
			Help: "Schedule entries closed as missed or contraindicated",
		}, []string{"status"}),
		VersionConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vaxtrack_child_version_conflicts_total",
			Help: "Optimistic write retries caused by concurrent updates",
		}),
		StockConsumeFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vaxtrack_child_stock_consume_failures_total",
			Help: "Administrations whose stock decrement failed",
		}),
		Reclassified: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vaxtrack_children_reclassified_total",
			Help: "Children whose stored schedule changed during recomputation",
		}),
	}
}

func (m *Metrics) IncRegistered() {
	if m == nil {
		return
	}
	m.Registered.Inc()
}

func (m *Metrics) IncAdministered(vaccine string) {
	if m == nil {
		return
	}
	m.Administered.WithLabelValues(vaccine).Inc()
}

func (m *Metrics) IncEntryClosed(status string) {
	if m == nil {
		return
	}
	m.EntriesClosed.WithLabelValues(status).Inc()
}

func (m *Metrics) IncVersionConflict() {
	if m == nil {
		return
	}
	m.VersionConflicts.Inc()
}

func (m *Metrics) IncStockConsumeFailure() {
	if m == nil {
		return
	}
	m.StockConsumeFailures.Inc()
}

func (m *Metrics) AddReclassified(n int) {
	if m == nil {
		return
	}
	m.Reclassified.Add(float64(n))
}
