// Package service assembles facility reports and the dashboard from the
// child, stock, cold chain and alert modules.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	childmodels "vaxtrack/internal/child/models"
	childstore "vaxtrack/internal/child/store"
	ccmodels "vaxtrack/internal/coldchain/models"
	ccservice "vaxtrack/internal/coldchain/service"
	"vaxtrack/internal/report/export"
	"vaxtrack/internal/report/metrics"
	"vaxtrack/internal/report/models"
	"vaxtrack/internal/schedule"
	stockmodels "vaxtrack/internal/stock/models"
	id "vaxtrack/pkg/domain"
	dErrors "vaxtrack/pkg/domain-errors"
	"vaxtrack/pkg/platform/audit"
	"vaxtrack/pkg/requestcontext"
)

const (
	tracerName = "vaxtrack/report"

	// DefaultColdChainPeriod applies when a cold-chain report names no start.
	DefaultColdChainPeriod = 30 * 24 * time.Hour

	maxReadings = 1000
)

type ChildLister interface {
	List(ctx context.Context, facility id.FacilityCode, f childstore.Filter) ([]*childmodels.Child, error)
}

type Engine interface {
	Report(children []schedule.ChildRecord, today time.Time, pairs []schedule.DropoutPair) (schedule.AggregateReport, error)
}

type StockLister interface {
	List(ctx context.Context, facility id.FacilityCode) ([]*stockmodels.StockLevel, error)
}

type ReadingLister interface {
	List(ctx context.Context, facility id.FacilityCode, in ccservice.ListInput) ([]*ccmodels.Reading, error)
	ExcursionsBetween(ctx context.Context, facility id.FacilityCode, since, until time.Time) ([]*ccmodels.Reading, error)
	Summarize(ctx context.Context, facility id.FacilityCode, since, until time.Time) (ccmodels.Summary, error)
	Band() ccmodels.Band
}

type AlertCounter interface {
	CountOpen(ctx context.Context, facility id.FacilityCode) (int, error)
}

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type Service struct {
	children       ChildLister
	engine         Engine
	stock          StockLister
	readings       ReadingLister
	alerts         AlertCounter
	cache          Cache
	cacheTTL       time.Duration
	tracer         trace.Tracer
	logger         *slog.Logger
	auditPublisher audit.Emitter
	metrics        *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher audit.Emitter) Option {
	return func(s *Service) { s.auditPublisher = publisher }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithCache caches dashboards for ttl. A zero ttl disables caching.
func WithCache(c Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

func New(children ChildLister, engine Engine, stock StockLister, readings ReadingLister, alerts AlertCounter, opts ...Option) *Service {
	s := &Service{
		children: children,
		engine:   engine,
		stock:    stock,
		readings: readings,
		alerts:   alerts,
		tracer:   otel.Tracer(tracerName),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate builds a report and records that it was produced.
func (s *Service) Generate(ctx context.Context, facility id.FacilityCode, user id.UserID, req models.Request) (*models.Report, error) {
	if req.Format == "" {
		req.Format = models.FormatJSON
	}
	ctx, span := s.tracer.Start(ctx, "report.Generate", trace.WithAttributes(
		attribute.String("facility", facility.String()),
		attribute.String("report.type", string(req.Type)),
		attribute.String("report.format", string(req.Format)),
	))
	defer span.End()
	start := time.Now()
	defer s.metrics.ObserveDuration(string(req.Type), start)

	r, err := s.generate(ctx, facility, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "report generation failed")
		if _, ok := dErrors.As(err); ok {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate report")
	}

	s.metrics.IncGenerated(string(req.Type), string(req.Format))
	audit.Record(ctx, s.logger, s.auditPublisher, audit.ActionReportGenerated, user, facility,
		audit.AttrResourceID, string(req.Type),
		audit.AttrDescription, fmt.Sprintf("%s report generated as %s", req.Type, req.Format),
		"format", string(req.Format),
		"rows", len(r.Table.Rows),
	)
	return r, nil
}

// Export generates the report and renders it as a csv or xlsx file.
func (s *Service) Export(ctx context.Context, facility id.FacilityCode, user id.UserID, req models.Request) (*models.Report, []byte, error) {
	if req.Format != models.FormatCSV && req.Format != models.FormatXLSX {
		return nil, nil, dErrors.New(dErrors.CodeBadRequest, "export format must be csv or xlsx")
	}
	r, err := s.Generate(ctx, facility, user, req)
	if err != nil {
		return nil, nil, err
	}

	_, span := s.tracer.Start(ctx, "report.Render", trace.WithAttributes(attribute.String("report.format", string(req.Format))))
	defer span.End()
	out, err := export.Render(req.Format, r.Table)
	if err != nil {
		span.RecordError(err)
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to render report")
	}
	return r, out, nil
}

func (s *Service) generate(ctx context.Context, facility id.FacilityCode, req models.Request) (*models.Report, error) {
	now := requestcontext.Now(ctx)
	r := &models.Report{
		Type:        req.Type,
		Facility:    facility,
		AsOf:        schedule.Day(now).Format(schedule.DateLayout),
		GeneratedAt: now,
	}

	switch req.Type {
	case models.TypeCoverage, models.TypeDropout, models.TypeDefaulters:
		agg, err := s.aggregate(ctx, facility, now)
		if err != nil {
			return nil, err
		}
		r.Population = agg.Population
		switch req.Type {
		case models.TypeCoverage:
			r.Data, r.Table = agg.Coverage, coverageTable(agg.Coverage)
		case models.TypeDropout:
			r.Data, r.Table = agg.Dropout, dropoutTable(agg.Dropout)
		default:
			r.Data, r.Table = agg.Defaulters, defaultersTable(agg.Defaulters, now)
		}

	case models.TypeStock:
		levels, err := s.stock.List(ctx, facility)
		if err != nil {
			return nil, err
		}
		rows := toStockRows(levels)
		r.Data, r.Table = rows, stockTable(rows)

	case models.TypeColdChain:
		since, until := req.Since, req.Until
		if since.IsZero() {
			since = now.Add(-DefaultColdChainPeriod)
		}
		// Summary and excursions cover the whole period; only the reading
		// listing is capped.
		summary, err := s.readings.Summarize(ctx, facility, since, until)
		if err != nil {
			return nil, err
		}
		excursions, err := s.readings.ExcursionsBetween(ctx, facility, since, until)
		if err != nil {
			return nil, err
		}
		readings, err := s.readings.List(ctx, facility, ccservice.ListInput{Since: since, Until: until, Limit: maxReadings})
		if err != nil {
			return nil, err
		}
		band := s.readings.Band()
		data := models.ColdChainData{
			Summary:    summary,
			Readings:   readings,
			Excursions: excursions,
			Truncated:  summary.Count > len(readings),
		}
		if data.Truncated {
			s.logger.InfoContext(ctx, "cold chain report readings truncated",
				"facility", facility.String(),
				"total", summary.Count,
				"listed", len(readings),
			)
		}
		r.Since = &since
		if !until.IsZero() {
			r.Until = &until
		}
		r.Data, r.Table = data, coldChainTable(readings, band)

	default:
		return nil, dErrors.New(dErrors.CodeNotFound, "unknown report type")
	}
	return r, nil
}

// aggregate runs the engine over the facility's active children with one
// "today".
func (s *Service) aggregate(ctx context.Context, facility id.FacilityCode, today time.Time) (schedule.AggregateReport, error) {
	children, err := s.children.List(ctx, facility, childstore.Filter{Status: childmodels.StatusActive})
	if err != nil {
		return schedule.AggregateReport{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load children")
	}
	records := make([]schedule.ChildRecord, 0, len(children))
	for _, c := range children {
		rec := c.Record()
		rec.Schedule = schedule.Reclassify(rec.Schedule, today)
		records = append(records, rec)
	}
	return s.engine.Report(records, today, schedule.StandardPairs)
}

// Dashboard returns the facility overview, served from cache when a fresh
// copy for today exists.
func (s *Service) Dashboard(ctx context.Context, facility id.FacilityCode) (*models.Dashboard, error) {
	ctx, span := s.tracer.Start(ctx, "report.Dashboard", trace.WithAttributes(attribute.String("facility", facility.String())))
	defer span.End()

	now := requestcontext.Now(ctx)
	key := "dashboard:" + facility.String() + ":" + schedule.Day(now).Format(schedule.DateLayout)
	if d, ok := s.cached(ctx, key); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return d, nil
	}

	start := time.Now()
	defer s.metrics.ObserveDuration("dashboard", start)

	d := &models.Dashboard{
		Facility:    facility,
		AsOf:        schedule.Day(now).Format(schedule.DateLayout),
		GeneratedAt: now,
	}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		children, err := s.children.List(gctx, facility, childstore.Filter{Status: childmodels.StatusActive})
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load children")
		}
		records := make([]schedule.ChildRecord, 0, len(children))
		for _, c := range children {
			rec := c.Record()
			rec.Schedule = schedule.Reclassify(rec.Schedule, now)
			records = append(records, rec)

			sum := rec.Schedule.Summary()
			d.VaccinesAdministered += sum.Administered
			d.DueSoon += sum.DueSoon
			d.AdministeredThisMonth += administeredInMonth(rec.Schedule, now)
		}
		agg, err := s.engine.Report(records, now, []schedule.DropoutPair{schedule.DropoutPenta})
		if err != nil {
			return err
		}
		d.TotalChildren = agg.Population
		d.Defaulters = len(agg.Defaulters)
		d.OverallCoverage = overallCoverage(agg.Coverage)
		if len(agg.Dropout) > 0 {
			d.PentaDropout = agg.Dropout[0].Rate
		}
		return nil
	})

	g.Go(func() error {
		levels, err := s.stock.List(gctx, facility)
		if err != nil {
			return err
		}
		for _, l := range levels {
			if l.IsLow() {
				d.LowStock++
			}
		}
		return nil
	})

	g.Go(func() error {
		n, err := s.alerts.CountOpen(gctx, facility)
		if err != nil {
			return err
		}
		d.OpenAlerts = n
		return nil
	})

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dashboard failed")
		if _, ok := dErrors.As(err); ok {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build dashboard")
	}

	s.store(ctx, key, d)
	return d, nil
}

func (s *Service) cached(ctx context.Context, key string) (*models.Dashboard, bool) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil, false
	}
	b, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "dashboard cache read failed", "key", key, "error", err)
		s.metrics.IncCache("error")
		return nil, false
	}
	if !ok {
		s.metrics.IncCache("miss")
		return nil, false
	}
	var d models.Dashboard
	if err := json.Unmarshal(b, &d); err != nil {
		s.logger.WarnContext(ctx, "discarding unreadable cached dashboard", "key", key, "error", err)
		s.metrics.IncCache("error")
		return nil, false
	}
	s.metrics.IncCache("hit")
	d.Cached = true
	return &d, true
}

func (s *Service) store(ctx context.Context, key string, d *models.Dashboard) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	b, err := json.Marshal(d)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to encode dashboard for cache", "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, b, s.cacheTTL); err != nil {
		s.logger.WarnContext(ctx, "dashboard cache write failed", "key", key, "error", err)
	}
}

func administeredInMonth(sched schedule.Schedule, now time.Time) int {
	n := 0
	for _, e := range sched {
		if e.AdministeredDate == nil {
			continue
		}
		if e.AdministeredDate.Year() == now.Year() && e.AdministeredDate.Month() == now.Month() {
			n++
		}
	}
	return n
}

// overallCoverage pools administered over eligible across all antigens.
func overallCoverage(rows []schedule.AntigenCoverage) float64 {
	var administered, eligible int
	for _, r := range rows {
		administered += r.Administered
		eligible += r.Eligible
	}
	if eligible == 0 {
		return 0
	}
	return float64(administered) / float64(eligible) * 100
}
