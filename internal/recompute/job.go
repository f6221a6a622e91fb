// Package recompute reclassifies every stored schedule on a cron schedule so
// stored statuses track the calendar between reads.
package recompute

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"vaxtrack/internal/platform/config"
	"vaxtrack/internal/schedule"
)

// DefaultSpec runs at 02:00 in the job's timezone.
const DefaultSpec = "0 2 * * *"

type Reclassifier interface {
	ReclassifyAll(ctx context.Context, today time.Time) (int, error)
}

type Job struct {
	reclassifier Reclassifier
	spec         string
	loc          *time.Location
	parser       cron.Parser
	now          func() time.Time
	logger       *slog.Logger
	metrics      *Metrics

	mu      sync.Mutex
	c       *cron.Cron
	running sync.Mutex
}

type Option func(*Job)

func WithLogger(logger *slog.Logger) Option {
	return func(j *Job) { j.logger = logger }
}

func WithMetrics(m *Metrics) Option {
	return func(j *Job) { j.metrics = m }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(j *Job) { j.now = now }
}

// New validates the cron spec and timezone. An empty spec means DefaultSpec
// and an empty timezone means UTC.
func New(r Reclassifier, cfg config.Recompute, opts ...Option) (*Job, error) {
	j := &Job{
		reclassifier: r,
		spec:         strings.TrimSpace(cfg.Cron),
		parser:       cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		now:          time.Now,
		logger:       slog.Default(),
	}
	if j.spec == "" {
		j.spec = DefaultSpec
	}
	if _, err := j.parser.Parse(j.spec); err != nil {
		return nil, fmt.Errorf("invalid recompute cron %q: %w", j.spec, err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("recompute: %w", err)
	}
	j.loc = loc

	for _, opt := range opts {
		opt(j)
	}
	return j, nil
}

// Start schedules the job until Stop is called or ctx is done.
func (j *Job) Start(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.c != nil {
		return nil
	}
	c := cron.New(cron.WithParser(j.parser), cron.WithLocation(j.loc))
	if _, err := c.AddFunc(j.spec, func() {
		if _, err := j.RunOnce(ctx); err != nil {
			j.logger.ErrorContext(ctx, "scheduled recompute failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule recompute: %w", err)
	}
	c.Start()
	j.c = c

	next := c.Entries()[0].Next
	j.logger.InfoContext(ctx, "recompute scheduled", "spec", j.spec, "tz", j.loc.String(), "next_run", next)
	return nil
}

// Stop waits for a running pass to finish, or for ctx to end.
func (j *Job) Stop(ctx context.Context) {
	j.mu.Lock()
	c := j.c
	j.c = nil
	j.mu.Unlock()
	if c == nil {
		return
	}
	select {
	case <-c.Stop().Done():
	case <-ctx.Done():
	}
}

// RunOnce reclassifies every active child as of today in the job's
// timezone. Overlapping runs are skipped.
func (j *Job) RunOnce(ctx context.Context) (int, error) {
	if !j.running.TryLock() {
		j.logger.WarnContext(ctx, "recompute already running, skipping")
		return 0, nil
	}
	defer j.running.Unlock()

	start := time.Now()
	today := schedule.Day(j.now().In(j.loc))
	changed, err := j.reclassifier.ReclassifyAll(ctx, today)
	j.metrics.observe(changed, err, start)
	if err != nil {
		return changed, err
	}
	j.logger.InfoContext(ctx, "recompute finished",
		"today", today.Format(schedule.DateLayout),
		"changed", changed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return changed, nil
}
