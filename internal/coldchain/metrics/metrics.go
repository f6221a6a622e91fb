package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ReadingsLogged    *prometheus.CounterVec
	Excursions        prometheus.Counter
	FeedResubscribes  prometheus.Counter
	FeedReadingErrors prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		ReadingsLogged: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vaxtrack_coldchain_readings_total",
			Help: "Temperature readings stored, by source",
		}, []string{"source"}),
		Excursions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vaxtrack_coldchain_excursions_total",
			Help: "Readings outside the safe storage band",
		}),
		FeedResubscribes: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vaxtrack_coldchain_feed_resubscribes_total",
			Help: "Times the sensor feed subscription was re-established",
		}),
		FeedReadingErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vaxtrack_coldchain_feed_rejected_total",
			Help: "Sensor feed readings that could not be logged",
		}),
	}
}

func (m *Metrics) IncReading(source string) {
	if m == nil {
		return
	}
	m.ReadingsLogged.WithLabelValues(source).Inc()
}

func (m *Metrics) IncExcursion() {
	if m == nil {
		return
	}
	m.Excursions.Inc()
}

func (m *Metrics) IncResubscribe() {
	if m == nil {
		return
	}
	m.FeedResubscribes.Inc()
}

func (m *Metrics) IncFeedRejected() {
	if m == nil {
		return
	}
	m.FeedReadingErrors.Inc()
}
