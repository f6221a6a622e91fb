// Package service raises and acknowledges facility alerts.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"vaxtrack/internal/alert/metrics"
	"vaxtrack/internal/alert/models"
	id "vaxtrack/pkg/domain"
	dErrors "vaxtrack/pkg/domain-errors"
	"vaxtrack/pkg/platform/audit"
	"vaxtrack/pkg/platform/sentinel"
	"vaxtrack/pkg/requestcontext"
)

type Store interface {
	CreateIfNoneOpen(ctx context.Context, a *models.Alert) (*models.Alert, bool, error)
	FindByID(ctx context.Context, facility id.FacilityCode, alertID id.AlertID) (*models.Alert, error)
	List(ctx context.Context, facility id.FacilityCode, openOnly bool) ([]*models.Alert, error)
	Update(ctx context.Context, a *models.Alert) error
}

type Service struct {
	store          Store
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

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RaiseInput describes a new alert. Subject scopes deduplication.
type RaiseInput struct {
	Facility id.FacilityCode
	Type     models.Type
	Subject  string
	Message  string
	Metadata map[string]string
}

// Raise opens an alert, or returns the already-open one for the same type
// and subject.
func (s *Service) Raise(ctx context.Context, in RaiseInput) (*models.Alert, error) {
	if !in.Type.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown alert type")
	}
	if in.Facility.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "facility is required")
	}
	a := &models.Alert{
		ID:        id.AlertID(uuid.New()),
		Facility:  in.Facility,
		Type:      in.Type,
		Subject:   strings.TrimSpace(in.Subject),
		Message:   strings.TrimSpace(in.Message),
		Metadata:  in.Metadata,
		CreatedAt: requestcontext.Now(ctx),
	}
	stored, created, err := s.store.CreateIfNoneOpen(ctx, a)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to raise alert")
	}
	if created {
		s.metrics.IncrementRaised(string(a.Type))
		if s.logger != nil {
			s.logger.WarnContext(ctx, "alert raised",
				"facility", a.Facility.String(),
				"type", string(a.Type),
				"subject", a.Subject,
				"message", a.Message,
			)
		}
	}
	return stored, nil
}

func (s *Service) List(ctx context.Context, facility id.FacilityCode, openOnly bool) ([]*models.Alert, error) {
	list, err := s.store.List(ctx, facility, openOnly)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list alerts")
	}
	return list, nil
}

// CountOpen feeds the dashboard.
func (s *Service) CountOpen(ctx context.Context, facility id.FacilityCode) (int, error) {
	list, err := s.List(ctx, facility, true)
	if err != nil {
		return 0, err
	}
	return len(list), nil
}

func (s *Service) Acknowledge(ctx context.Context, facility id.FacilityCode, user id.UserID, alertID id.AlertID) (*models.Alert, error) {
	a, err := s.store.FindByID(ctx, facility, alertID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "alert not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load alert")
	}
	if err := a.Acknowledge(user, requestcontext.Now(ctx)); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, a); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to acknowledge alert")
	}

	audit.Record(ctx, s.logger, s.auditPublisher, audit.ActionAlertAcknowledged, user, facility,
		audit.AttrResourceID, a.ID.String(),
		"type", string(a.Type),
		"subject", a.Subject,
	)
	s.metrics.IncrementAcknowledged()
	return a, nil
}
