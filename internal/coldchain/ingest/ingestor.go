// Package ingest logs readings pushed by cold chain sensors.
package ingest

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"vaxtrack/internal/coldchain/feed"
	"vaxtrack/internal/coldchain/metrics"
	"vaxtrack/internal/coldchain/models"
)

const defaultBackoff = 2 * time.Second

type ReadingLogger interface {
	Log(ctx context.Context, r *models.Reading) (*models.Reading, error)
}

// Ingestor keeps a subscription to the feed open and logs every reading it
// receives. Subscription attempts are paced by a limiter so a dead broker is
// retried at most once per backoff interval.
type Ingestor struct {
	feed     feed.Feed
	readings ReadingLogger
	limiter  *rate.Limiter
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(*Ingestor)

func WithLogger(l *slog.Logger) Option {
	return func(i *Ingestor) { i.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(i *Ingestor) { i.metrics = m }
}

func WithBackoff(d time.Duration) Option {
	return func(i *Ingestor) {
		if d > 0 {
			i.limiter = rate.NewLimiter(rate.Every(d), 1)
		}
	}
}

func New(f feed.Feed, readings ReadingLogger, opts ...Option) *Ingestor {
	i := &Ingestor{
		feed:     f,
		readings: readings,
		limiter:  rate.NewLimiter(rate.Every(defaultBackoff), 1),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Run subscribes and logs readings until ctx is cancelled. An ended or failed
// subscription is re-established after the backoff.
func (i *Ingestor) Run(ctx context.Context) error {
	for attempt := 0; ; attempt++ {
		if err := i.limiter.Wait(ctx); err != nil {
			return ctx.Err()
		}
		if attempt > 0 {
			i.metrics.IncResubscribe()
		}

		readings, err := i.feed.Subscribe(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			i.logger.WarnContext(ctx, "cold chain feed subscribe failed", "attempt", attempt, "error", err)
			continue
		}
		i.logger.InfoContext(ctx, "cold chain feed subscribed", "attempt", attempt)

		i.drain(ctx, readings)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		i.logger.WarnContext(ctx, "cold chain feed subscription ended")
	}
}

func (i *Ingestor) drain(ctx context.Context, readings <-chan models.Reading) {
	for r := range readings {
		if r.Source == "" {
			r.Source = models.SourceSensor
		}
		if _, err := i.readings.Log(ctx, &r); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			i.metrics.IncFeedRejected()
			i.logger.WarnContext(ctx, "rejected sensor reading",
				"facility", r.Facility.String(),
				"equipment_id", r.EquipmentID,
				"error", err,
			)
		}
	}
}
