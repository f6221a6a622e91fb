// Package service manages facilities and answers "may this facility record
// new data" for the other modules.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"vaxtrack/internal/facility/metrics"
	"vaxtrack/internal/facility/models"
	id "vaxtrack/pkg/domain"
	dErrors "vaxtrack/pkg/domain-errors"
	"vaxtrack/pkg/platform/audit"
	"vaxtrack/pkg/platform/sentinel"
	"vaxtrack/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, f *models.Facility) error
	FindByCode(ctx context.Context, code id.FacilityCode) (*models.Facility, error)
	List(ctx context.Context) ([]*models.Facility, error)
	Update(ctx context.Context, f *models.Facility) error
}

// Service orchestrates facility management.
type Service struct {
	store          Store
	logger         *slog.Logger
	auditPublisher audit.Emitter
	metrics        *metrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher audit.Emitter) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateInput is the admin form for a new facility.
type CreateInput struct {
	Code                string
	Name                string
	District            string
	Region              string
	DefaultReorderLevel int
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Facility, error) {
	code, err := id.ParseFacilityCode(in.Code)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, err.Error())
	}

	f, err := models.NewFacility(code, in.Name, in.District, in.Region, in.DefaultReorderLevel, requestcontext.Now(ctx))
	if err != nil {
		// Convert invariant violations to validation errors for API response
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}

	if err := s.store.Create(ctx, f); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "facility code must be unique")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create facility")
	}

	audit.Record(ctx, s.logger, s.auditPublisher, audit.ActionFacilityCreated, requestcontext.UserID(ctx), f.Code,
		audit.AttrResourceID, f.Code.String(),
		audit.AttrDescription, f.Name,
	)
	s.metrics.IncrementCreated()
	return f, nil
}

func (s *Service) Get(ctx context.Context, code id.FacilityCode) (*models.Facility, error) {
	f, err := s.store.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "facility not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load facility")
	}
	return f, nil
}

func (s *Service) List(ctx context.Context) ([]*models.Facility, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list facilities")
	}
	return list, nil
}

// RequireActive returns the facility when it may record new data.
func (s *Service) RequireActive(ctx context.Context, code id.FacilityCode) (*models.Facility, error) {
	f, err := s.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	if !f.IsActive() {
		return nil, dErrors.New(dErrors.CodeForbidden, "facility is inactive")
	}
	return f, nil
}

func (s *Service) Deactivate(ctx context.Context, code id.FacilityCode) (*models.Facility, error) {
	return s.transition(ctx, code, (*models.Facility).CanDeactivate, (*models.Facility).ApplyDeactivation)
}

func (s *Service) Reactivate(ctx context.Context, code id.FacilityCode) (*models.Facility, error) {
	return s.transition(ctx, code, (*models.Facility).CanReactivate, (*models.Facility).ApplyReactivation)
}

func (s *Service) transition(
	ctx context.Context,
	code id.FacilityCode,
	check func(*models.Facility) error,
	apply func(*models.Facility, time.Time),
) (*models.Facility, error) {
	f, err := s.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := check(f); err != nil {
		return nil, dErrors.New(dErrors.CodeConflict, err.Error())
	}
	apply(f, requestcontext.Now(ctx))
	if err := s.store.Update(ctx, f); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update facility")
	}

	audit.Record(ctx, s.logger, s.auditPublisher, audit.ActionFacilityStatusChanged, requestcontext.UserID(ctx), f.Code,
		audit.AttrResourceID, f.Code.String(),
		"status", string(f.Status),
	)
	s.metrics.IncrementStatusChange(string(f.Status))
	return f, nil
}
