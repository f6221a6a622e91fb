// Package service logs cold chain temperature readings and raises excursion
// alerts.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	alertmodels "vaxtrack/internal/alert/models"
	alertservice "vaxtrack/internal/alert/service"
	"vaxtrack/internal/coldchain/metrics"
	"vaxtrack/internal/coldchain/models"
	"vaxtrack/internal/coldchain/store"
	id "vaxtrack/pkg/domain"
	dErrors "vaxtrack/pkg/domain-errors"
	"vaxtrack/pkg/platform/audit"
	"vaxtrack/pkg/platform/sentinel"
	"vaxtrack/pkg/requestcontext"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

type Store interface {
	Save(ctx context.Context, r *models.Reading) error
	List(ctx context.Context, facility id.FacilityCode, f store.Filter) ([]*models.Reading, error)
	Summarize(ctx context.Context, facility id.FacilityCode, f store.Filter, band models.Band) (models.Summary, error)
}

type AlertRaiser interface {
	Raise(ctx context.Context, in alertservice.RaiseInput) (*alertmodels.Alert, error)
}

type Service struct {
	store          Store
	band           models.Band
	alerts         AlertRaiser
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

func WithAlertRaiser(a AlertRaiser) Option {
	return func(s *Service) { s.alerts = a }
}

// WithBand overrides the 2 to 8 °C safe range.
func WithBand(b models.Band) Option {
	return func(s *Service) { s.band = b }
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, band: models.DefaultBand}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Band() models.Band {
	return s.band
}

// Log validates and stores a reading. A missing ID, timestamp or source is
// filled in. Readings outside the band raise a cold_chain_excursion alert.
func (s *Service) Log(ctx context.Context, r *models.Reading) (*models.Reading, error) {
	now := requestcontext.Now(ctx)
	reading := *r
	reading.EquipmentID = strings.TrimSpace(reading.EquipmentID)
	if uuid.UUID(reading.ID) == uuid.Nil {
		reading.ID = id.ReadingID(uuid.New())
	}
	if reading.RecordedAt.IsZero() {
		reading.RecordedAt = now
	}
	if reading.Source == "" {
		reading.Source = models.SourceManual
	}
	if err := reading.Validate(); err != nil {
		return nil, err
	}
	if reading.RecordedAt.After(now.Add(5 * time.Minute)) {
		return nil, dErrors.New(dErrors.CodeValidation, "recorded_at cannot be in the future")
	}

	if err := s.store.Save(ctx, &reading); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "reading already logged")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save reading")
	}
	s.metrics.IncReading(string(reading.Source))

	audit.Record(ctx, s.logger, s.auditPublisher, audit.ActionTemperatureLogged, reading.RecordedBy, reading.Facility,
		audit.AttrResourceID, reading.EquipmentID,
		audit.AttrDescription, fmt.Sprintf("temperature %.1f°C logged for %s", reading.TemperatureC, reading.EquipmentID),
		"source", string(reading.Source),
	)

	if !s.band.Contains(reading.TemperatureC) {
		s.metrics.IncExcursion()
		s.raiseExcursion(ctx, &reading)
	}
	return &reading, nil
}

// ListInput selects readings for a facility. Limit defaults to 100.
type ListInput struct {
	EquipmentID string
	Since       time.Time
	Until       time.Time
	Limit       int
}

func (s *Service) List(ctx context.Context, facility id.FacilityCode, in ListInput) ([]*models.Reading, error) {
	return s.list(ctx, facility, store.Filter{
		EquipmentID: strings.TrimSpace(in.EquipmentID),
		Since:       in.Since,
		Until:       in.Until,
		Limit:       clampLimit(in.Limit),
	})
}

// Excursions returns readings outside the band since the given time.
func (s *Service) Excursions(ctx context.Context, facility id.FacilityCode, since time.Time) ([]*models.Reading, error) {
	return s.ExcursionsBetween(ctx, facility, since, time.Time{})
}

// ExcursionsBetween returns every out-of-band reading in [since, until). A
// zero until leaves the window open.
func (s *Service) ExcursionsBetween(ctx context.Context, facility id.FacilityCode, since, until time.Time) ([]*models.Reading, error) {
	band := s.band
	return s.list(ctx, facility, store.Filter{Since: since, Until: until, Outside: &band})
}

// Summarize aggregates all readings in [since, until), however many there are.
func (s *Service) Summarize(ctx context.Context, facility id.FacilityCode, since, until time.Time) (models.Summary, error) {
	if err := checkWindow(since, until); err != nil {
		return models.Summary{}, err
	}
	sum, err := s.store.Summarize(ctx, facility, store.Filter{Since: since, Until: until}, s.band)
	if err != nil {
		return models.Summary{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to summarize readings")
	}
	return sum, nil
}

func checkWindow(since, until time.Time) error {
	if !until.IsZero() && !since.IsZero() && !until.After(since) {
		return dErrors.New(dErrors.CodeValidation, "until must be after since")
	}
	return nil
}

func (s *Service) list(ctx context.Context, facility id.FacilityCode, f store.Filter) ([]*models.Reading, error) {
	if err := checkWindow(f.Since, f.Until); err != nil {
		return nil, err
	}
	list, err := s.store.List(ctx, facility, f)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list readings")
	}
	return list, nil
}

func (s *Service) raiseExcursion(ctx context.Context, r *models.Reading) {
	if s.alerts == nil {
		return
	}
	_, err := s.alerts.Raise(ctx, alertservice.RaiseInput{
		Facility: r.Facility,
		Type:     alertmodels.TypeColdChainExcursion,
		Subject:  r.EquipmentID,
		Message:  fmt.Sprintf("Temperature excursion detected: %.1f°C on %s", r.TemperatureC, r.EquipmentID),
		Metadata: map[string]string{
			"equipment_id":  r.EquipmentID,
			"temperature_c": strconv.FormatFloat(r.TemperatureC, 'f', -1, 64),
			"reading_id":    r.ID.String(),
		},
	})
	if err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "failed to raise excursion alert",
			"facility", r.Facility.String(),
			"equipment_id", r.EquipmentID,
			"error", err,
		)
	}
}

func clampLimit(n int) int {
	switch {
	case n <= 0:
		return defaultListLimit
	case n > maxListLimit:
		return maxListLimit
	default:
		return n
	}
}
