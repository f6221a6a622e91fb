// Package service moves vaccine doses in and out of facility stock and raises
// low-stock alerts.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	alertmodels "vaxtrack/internal/alert/models"
	alertservice "vaxtrack/internal/alert/service"
	"vaxtrack/internal/schedule"
	"vaxtrack/internal/stock/metrics"
	"vaxtrack/internal/stock/models"
	"vaxtrack/internal/stock/store"
	id "vaxtrack/pkg/domain"
	dErrors "vaxtrack/pkg/domain-errors"
	"vaxtrack/pkg/platform/audit"
	"vaxtrack/pkg/platform/sentinel"
	"vaxtrack/pkg/requestcontext"
)

type Store interface {
	Adjust(ctx context.Context, facility id.FacilityCode, vaccine schedule.VaccineID, fn store.AdjustFunc) (*models.StockLevel, error)
	Get(ctx context.Context, facility id.FacilityCode, vaccine schedule.VaccineID) (*models.StockLevel, error)
	List(ctx context.Context, facility id.FacilityCode) ([]*models.StockLevel, error)
}

// VaccineCatalog resolves vaccine IDs; *schedule.Engine satisfies it.
type VaccineCatalog interface {
	Definition(vaccine schedule.VaccineID) (schedule.VaccineDefinition, bool)
}

type AlertRaiser interface {
	Raise(ctx context.Context, in alertservice.RaiseInput) (*alertmodels.Alert, error)
}

type Service struct {
	store               Store
	catalog             VaccineCatalog
	alerts              AlertRaiser
	defaultReorderLevel int
	logger              *slog.Logger
	auditPublisher      audit.Emitter
	metrics             *metrics.Metrics
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

// WithDefaultReorderLevel sets the reorder level given to a vaccine the first
// time it is stocked.
func WithDefaultReorderLevel(n int) Option {
	return func(s *Service) { s.defaultReorderLevel = n }
}

func New(store Store, catalog VaccineCatalog, opts ...Option) *Service {
	s := &Service{store: store, catalog: catalog}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ReceiveInput is a delivery of one batch.
type ReceiveInput struct {
	Batch    string
	Expiry   time.Time
	Quantity int
}

func (s *Service) Receive(ctx context.Context, facility id.FacilityCode, user id.UserID, vaccine schedule.VaccineID, in ReceiveInput) (*models.StockLevel, error) {
	if err := s.checkVaccine(vaccine); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	batch := strings.ToUpper(strings.TrimSpace(in.Batch))
	if batch == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "batch number is required")
	}
	if !schedule.Day(in.Expiry).After(schedule.Day(now)) {
		return nil, dErrors.New(dErrors.CodeValidation, "batch has expired")
	}

	level, err := s.adjust(ctx, facility, vaccine, func(l *models.StockLevel) error {
		return l.Receive(models.Batch{
			Number:     batch,
			Expiry:     schedule.Day(in.Expiry),
			Quantity:   in.Quantity,
			ReceivedAt: now,
			ReceivedBy: user,
		}, now)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.AddDoses(vaccine.String(), "received", in.Quantity)
	audit.Record(ctx, s.logger, s.auditPublisher, audit.ActionStockReceived, user, facility,
		audit.AttrResourceID, vaccine.String(),
		audit.AttrDescription, fmt.Sprintf("received %d doses of %s", in.Quantity, vaccine),
		"batch", batch,
		"quantity", in.Quantity,
	)
	s.checkLow(ctx, level)
	return level, nil
}

// Consume takes one administered dose out of stock.
func (s *Service) Consume(ctx context.Context, facility id.FacilityCode, user id.UserID, vaccine schedule.VaccineID) (*models.StockLevel, error) {
	if err := s.checkVaccine(vaccine); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	level, err := s.adjust(ctx, facility, vaccine, func(l *models.StockLevel) error {
		return l.Consume(1, now)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.AddDoses(vaccine.String(), "consumed", 1)
	audit.Record(ctx, s.logger, s.auditPublisher, audit.ActionStockConsumed, user, facility,
		audit.AttrResourceID, vaccine.String(),
		"remaining", level.Current,
	)
	s.checkLow(ctx, level)
	return level, nil
}

func (s *Service) RecordWastage(ctx context.Context, facility id.FacilityCode, user id.UserID, vaccine schedule.VaccineID, quantity int, reason string) (*models.StockLevel, error) {
	if err := s.checkVaccine(vaccine); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	level, err := s.adjust(ctx, facility, vaccine, func(l *models.StockLevel) error {
		return l.Waste(quantity, now)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.AddDoses(vaccine.String(), "wasted", quantity)
	audit.Record(ctx, s.logger, s.auditPublisher, audit.ActionStockWasted, user, facility,
		audit.AttrResourceID, vaccine.String(),
		audit.AttrDescription, strings.TrimSpace(reason),
		"quantity", quantity,
	)
	s.checkLow(ctx, level)
	return level, nil
}

func (s *Service) SetReorderLevel(ctx context.Context, facility id.FacilityCode, user id.UserID, vaccine schedule.VaccineID, level int) (*models.StockLevel, error) {
	if err := s.checkVaccine(vaccine); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	updated, err := s.adjust(ctx, facility, vaccine, func(l *models.StockLevel) error {
		return l.SetReorderLevel(level, now)
	})
	if err != nil {
		return nil, err
	}

	audit.Record(ctx, s.logger, s.auditPublisher, audit.ActionReorderLevelChanged, user, facility,
		audit.AttrResourceID, vaccine.String(),
		"reorder_level", level,
	)
	s.checkLow(ctx, updated)
	return updated, nil
}

func (s *Service) Get(ctx context.Context, facility id.FacilityCode, vaccine schedule.VaccineID) (*models.StockLevel, error) {
	if err := s.checkVaccine(vaccine); err != nil {
		return nil, err
	}
	level, err := s.store.Get(ctx, facility, vaccine)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "no stock recorded for "+vaccine.String())
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load stock level")
	}
	return level, nil
}

func (s *Service) List(ctx context.Context, facility id.FacilityCode) ([]*models.StockLevel, error) {
	list, err := s.store.List(ctx, facility)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list stock levels")
	}
	return list, nil
}

func (s *Service) adjust(ctx context.Context, facility id.FacilityCode, vaccine schedule.VaccineID, change func(*models.StockLevel) error) (*models.StockLevel, error) {
	level, err := s.store.Adjust(ctx, facility, vaccine, func(l *models.StockLevel, exists bool) error {
		if !exists {
			l.ReorderLevel = s.defaultReorderLevel
		}
		return change(l)
	})
	if err != nil {
		if _, ok := dErrors.As(err); ok {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update stock")
	}
	s.metrics.SetCurrent(facility.String(), vaccine.String(), level.Current)
	return level, nil
}

// checkLow raises the low-stock alert. Failures are logged; the stock change
// already committed.
func (s *Service) checkLow(ctx context.Context, level *models.StockLevel) {
	if s.alerts == nil || !level.IsLow() {
		return
	}
	_, err := s.alerts.Raise(ctx, alertservice.RaiseInput{
		Facility: level.Facility,
		Type:     alertmodels.TypeLowStock,
		Subject:  level.VaccineID.String(),
		Message:  fmt.Sprintf("%s stock is low", level.VaccineID),
		Metadata: map[string]string{
			"vaccine_id":    level.VaccineID.String(),
			"current_stock": strconv.Itoa(level.Current),
			"reorder_level": strconv.Itoa(level.ReorderLevel),
		},
	})
	if err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "failed to raise low stock alert",
			"facility", level.Facility.String(),
			"vaccine", level.VaccineID.String(),
			"error", err,
		)
	}
}

func (s *Service) checkVaccine(vaccine schedule.VaccineID) error {
	if _, ok := s.catalog.Definition(vaccine); !ok {
		return dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("unknown vaccine %q", vaccine))
	}
	return nil
}
