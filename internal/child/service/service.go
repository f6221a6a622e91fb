// Package service registers children and records what happens to their
// immunization schedules.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"vaxtrack/internal/child/metrics"
	"vaxtrack/internal/child/models"
	"vaxtrack/internal/child/store"
	facilitymodels "vaxtrack/internal/facility/models"
	"vaxtrack/internal/schedule"
	stockmodels "vaxtrack/internal/stock/models"
	id "vaxtrack/pkg/domain"
	dErrors "vaxtrack/pkg/domain-errors"
	"vaxtrack/pkg/platform/audit"
	"vaxtrack/pkg/platform/sentinel"
	pstrings "vaxtrack/pkg/platform/strings"
	"vaxtrack/pkg/requestcontext"
)

// maxWriteAttempts bounds the reload-and-reapply loop on version conflicts.
const maxWriteAttempts = 3

type Store interface {
	NextSequence(ctx context.Context, facility id.FacilityCode, year int) (int, error)
	Create(ctx context.Context, c *models.Child) error
	FindByID(ctx context.Context, childID id.ChildID) (*models.Child, error)
	Update(ctx context.Context, c *models.Child, expectedVersion int) error
	List(ctx context.Context, facility id.FacilityCode, f store.Filter) ([]*models.Child, error)
	ListActive(ctx context.Context) ([]*models.Child, error)
}

// Engine is the part of *schedule.Engine the service drives.
type Engine interface {
	Build(dob, today time.Time) (schedule.Schedule, error)
	Record(child schedule.ChildRecord, ev schedule.AdministrationEvent, today time.Time) (schedule.Schedule, error)
	Close(s schedule.Schedule, vaccine schedule.VaccineID, status schedule.Status, notes string) (schedule.Schedule, error)
}

type FacilityGate interface {
	RequireActive(ctx context.Context, code id.FacilityCode) (*facilitymodels.Facility, error)
}

type StockConsumer interface {
	Consume(ctx context.Context, facility id.FacilityCode, user id.UserID, vaccine schedule.VaccineID) (*stockmodels.StockLevel, error)
}

type Service struct {
	store          Store
	engine         Engine
	facilities     FacilityGate
	stock          StockConsumer
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

// WithFacilityGate rejects writes for inactive or unknown facilities.
func WithFacilityGate(g FacilityGate) Option {
	return func(s *Service) { s.facilities = g }
}

// WithStockConsumer decrements stock after each administration.
func WithStockConsumer(c StockConsumer) Option {
	return func(s *Service) { s.stock = c }
}

func New(store Store, engine Engine, opts ...Option) *Service {
	s := &Service{store: store, engine: engine, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type RegisterInput struct {
	FirstName     string
	LastName      string
	DateOfBirth   time.Time
	Gender        models.Gender
	BirthWeightKg *float64
	Guardian      models.Guardian
	Address       models.Address
	Allergies     []string
	Notes         string
}

func (s *Service) Register(ctx context.Context, facility id.FacilityCode, user id.UserID, in RegisterInput) (*models.Child, error) {
	now := requestcontext.Now(ctx)
	if err := s.requireActive(ctx, facility); err != nil {
		return nil, err
	}

	c := &models.Child{
		FirstName:     strings.TrimSpace(in.FirstName),
		LastName:      strings.TrimSpace(in.LastName),
		DateOfBirth:   schedule.Day(in.DateOfBirth),
		Gender:        models.Gender(strings.ToLower(strings.TrimSpace(string(in.Gender)))),
		BirthWeightKg: in.BirthWeightKg,
		Guardian: models.Guardian{
			Name:         strings.TrimSpace(in.Guardian.Name),
			Phone:        strings.ReplaceAll(strings.TrimSpace(in.Guardian.Phone), " ", ""),
			Relationship: strings.TrimSpace(in.Guardian.Relationship),
		},
		Address: models.Address{
			Residence: strings.TrimSpace(in.Address.Residence),
			Village:   strings.TrimSpace(in.Address.Village),
			District:  strings.TrimSpace(in.Address.District),
		},
		Allergies:    pstrings.DedupeFold(in.Allergies),
		Notes:        strings.TrimSpace(in.Notes),
		Facility:     facility,
		RegisteredBy: user,
		RegisteredAt: now,
		UpdatedAt:    now,
		Status:       models.StatusActive,
		Version:      1,
	}
	if err := c.ValidateRegistration(now); err != nil {
		return nil, err
	}

	sched, err := s.engine.Build(c.DateOfBirth, now)
	if err != nil {
		return nil, err
	}
	c.Schedule = schedule.Reclassify(sched, now)

	seq, err := s.store.NextSequence(ctx, facility, now.Year())
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to allocate child ID")
	}
	c.ID = id.NewChildID(facility, now.Year(), seq)

	if err := s.store.Create(ctx, c); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Wrap(err, dErrors.CodeConflict, "child ID already in use")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save child")
	}

	s.metrics.IncRegistered()
	audit.Record(ctx, s.logger, s.auditPublisher, audit.ActionChildRegistered, user, facility,
		audit.AttrResourceID, c.ID.String(),
		audit.AttrDescription, fmt.Sprintf("Child %s registered", c.ID),
	)
	return c, nil
}

// Get returns the child with its schedule classified against today. A child
// held by another facility reads as not found.
func (s *Service) Get(ctx context.Context, facility id.FacilityCode, childID id.ChildID) (*models.Child, error) {
	c, err := s.load(ctx, facility, childID)
	if err != nil {
		return nil, err
	}
	c.Schedule = schedule.Reclassify(c.Schedule, requestcontext.Now(ctx))
	return c, nil
}

// ListFilter narrows List. Status and VaccineID are matched against the
// reclassified schedule; see models.Child.Matches.
type ListFilter struct {
	Status         schedule.Status
	VaccineID      schedule.VaccineID
	RegisteredFrom time.Time
	RegisteredTo   time.Time
	ChildStatus    models.Status
}

func (s *Service) List(ctx context.Context, facility id.FacilityCode, f ListFilter) ([]*models.Child, error) {
	if f.Status != "" && !f.Status.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown schedule status")
	}
	list, err := s.store.List(ctx, facility, store.Filter{
		RegisteredFrom: f.RegisteredFrom,
		RegisteredTo:   f.RegisteredTo,
		Status:         f.ChildStatus,
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list children")
	}

	today := requestcontext.Now(ctx)
	out := make([]*models.Child, 0, len(list))
	for _, c := range list {
		c.Schedule = schedule.Reclassify(c.Schedule, today)
		if c.Matches(f.VaccineID, f.Status) {
			out = append(out, c)
		}
	}
	return out, nil
}

type AdministerInput struct {
	VaccineID        schedule.VaccineID
	AdministeredDate time.Time
	Batch            string
	Notes            string
}

// Administer records a dose and decrements the facility's stock for it. A
// failed stock decrement is logged; the administration stands.
func (s *Service) Administer(ctx context.Context, facility id.FacilityCode, user id.UserID, childID id.ChildID, in AdministerInput) (*models.Child, error) {
	today := requestcontext.Now(ctx)
	if err := s.requireActive(ctx, facility); err != nil {
		return nil, err
	}
	given := in.AdministeredDate
	if given.IsZero() {
		given = today
	}

	updated, err := s.mutate(ctx, facility, childID, func(c *models.Child) (schedule.Schedule, error) {
		return s.engine.Record(c.Record(), schedule.AdministrationEvent{
			ChildID:          c.ID,
			VaccineID:        in.VaccineID,
			AdministeredDate: given,
			Facility:         facility,
			Batch:            strings.ToUpper(strings.TrimSpace(in.Batch)),
			Notes:            in.Notes,
			AdministeredBy:   user.String(),
		}, today)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncAdministered(in.VaccineID.String())
	if s.stock != nil {
		if _, err := s.stock.Consume(ctx, facility, user, in.VaccineID); err != nil {
			s.metrics.IncStockConsumeFailure()
			s.logger.WarnContext(ctx, "stock not decremented for administration",
				"child_id", childID.String(),
				"vaccine", in.VaccineID.String(),
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
		}
	}

	entry, _ := updated.Schedule.Get(in.VaccineID)
	audit.Record(ctx, s.logger, s.auditPublisher, audit.ActionVaccineAdministered, user, facility,
		audit.AttrResourceID, childID.String(),
		audit.AttrDescription, fmt.Sprintf("%s administered to %s", entry.Name, childID),
		"vaccine_id", in.VaccineID.String(),
		"batch", entry.Batch,
	)
	return updated, nil
}

// CloseEntry marks an open entry missed or contraindicated.
func (s *Service) CloseEntry(ctx context.Context, facility id.FacilityCode, user id.UserID, childID id.ChildID, vaccine schedule.VaccineID, status schedule.Status, notes string) (*models.Child, error) {
	updated, err := s.mutate(ctx, facility, childID, func(c *models.Child) (schedule.Schedule, error) {
		return s.engine.Close(c.Schedule, vaccine, status, notes)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncEntryClosed(status.String())
	audit.Record(ctx, s.logger, s.auditPublisher, audit.ActionScheduleEntryClosed, user, facility,
		audit.AttrResourceID, childID.String(),
		audit.AttrDescription, fmt.Sprintf("%s marked %s", vaccine, status),
		"vaccine_id", vaccine.String(),
		"status", status.String(),
	)
	return updated, nil
}

// ReclassifyAll rewrites the stored schedule of every active child whose
// classification changed as of today, and returns how many changed. A child
// written concurrently is skipped; its next read classifies it anyway.
func (s *Service) ReclassifyAll(ctx context.Context, today time.Time) (int, error) {
	children, err := s.store.ListActive(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list active children")
	}

	changed := 0
	for _, c := range children {
		if err := ctx.Err(); err != nil {
			return changed, err
		}
		next := schedule.Reclassify(c.Schedule, today)
		if next.Equal(c.Schedule) {
			continue
		}
		updated := c.Clone()
		updated.Schedule = next
		updated.Version = c.Version + 1
		updated.UpdatedAt = today
		if err := s.store.Update(ctx, updated, c.Version); err != nil {
			if errors.Is(err, sentinel.ErrConflict) || errors.Is(err, sentinel.ErrNotFound) {
				s.logger.InfoContext(ctx, "skipping child changed during recompute", "child_id", c.ID.String())
				continue
			}
			return changed, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save reclassified schedule")
		}
		changed++
	}

	s.metrics.AddReclassified(changed)
	audit.Record(ctx, s.logger, s.auditPublisher, audit.ActionScheduleRecomputed, id.UserID{}, "",
		audit.AttrDescription, fmt.Sprintf("%d of %d schedules changed", changed, len(children)),
		"as_of", today.Format(schedule.DateLayout),
	)
	return changed, nil
}

// mutate loads the child, applies change and writes with a version check,
// reloading and reapplying on conflict.
func (s *Service) mutate(ctx context.Context, facility id.FacilityCode, childID id.ChildID, change func(*models.Child) (schedule.Schedule, error)) (*models.Child, error) {
	today := requestcontext.Now(ctx)
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		current, err := s.load(ctx, facility, childID)
		if err != nil {
			return nil, err
		}
		next, err := change(current)
		if err != nil {
			return nil, err
		}

		updated := current.Clone()
		updated.Schedule = schedule.Reclassify(next, today)
		updated.Version = current.Version + 1
		updated.UpdatedAt = today

		err = s.store.Update(ctx, updated, current.Version)
		if err == nil {
			return updated, nil
		}
		if !errors.Is(err, sentinel.ErrConflict) {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, dErrors.New(dErrors.CodeNotFound, "child not found")
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save child")
		}
		s.metrics.IncVersionConflict()
		s.logger.InfoContext(ctx, "child version conflict, retrying", "child_id", childID.String(), "attempt", attempt)
	}
	return nil, dErrors.New(dErrors.CodeConflict, "child was modified concurrently, try again")
}

func (s *Service) load(ctx context.Context, facility id.FacilityCode, childID id.ChildID) (*models.Child, error) {
	c, err := s.store.FindByID(ctx, childID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "child not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load child")
	}
	if c.Facility != facility {
		return nil, dErrors.New(dErrors.CodeNotFound, "child not found")
	}
	return c, nil
}

func (s *Service) requireActive(ctx context.Context, facility id.FacilityCode) error {
	if facility.IsZero() {
		return dErrors.New(dErrors.CodeUnauthorized, "no facility in session")
	}
	if s.facilities == nil {
		return nil
	}
	_, err := s.facilities.RequireActive(ctx, facility)
	return err
}
