package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"vaxtrack/internal/child/models"
	"vaxtrack/internal/child/service/mocks"
	"vaxtrack/internal/child/store"
	facilitymodels "vaxtrack/internal/facility/models"
	"vaxtrack/internal/schedule"
	stockmodels "vaxtrack/internal/stock/models"
	id "vaxtrack/pkg/domain"
	dErrors "vaxtrack/pkg/domain-errors"
	"vaxtrack/pkg/platform/audit"
	auditmemory "vaxtrack/pkg/platform/audit/store/memory"
	"vaxtrack/pkg/platform/sentinel"
	"vaxtrack/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks FacilityGate StockConsumer

const facility = id.FacilityCode("KBTH")

type syncEmitter struct {
	store audit.Store
}

func (e syncEmitter) Emit(ctx context.Context, event audit.Event) error {
	return e.store.Append(ctx, event)
}

// racingStore fails the first n updates with a version conflict.
type racingStore struct {
	*store.InMemory
	conflicts int
	updates   int
}

func (r *racingStore) Update(ctx context.Context, c *models.Child, expectedVersion int) error {
	r.updates++
	if r.conflicts > 0 {
		r.conflicts--
		return sentinel.ErrConflict
	}
	return r.InMemory.Update(ctx, c, expectedVersion)
}

type ChildServiceSuite struct {
	suite.Suite
	ctx    context.Context
	now    time.Time
	user   id.UserID
	store  *racingStore
	gate   *mocks.MockFacilityGate
	stock  *mocks.MockStockConsumer
	audits *auditmemory.InMemoryStore
	svc    *Service
}

func TestChildServiceSuite(t *testing.T) {
	suite.Run(t, new(ChildServiceSuite))
}

func (s *ChildServiceSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.gate = mocks.NewMockFacilityGate(ctrl)
	s.stock = mocks.NewMockStockConsumer(ctrl)
	s.audits = auditmemory.NewInMemoryStore()
	s.store = &racingStore{InMemory: store.NewInMemory()}
	s.now = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.user = id.UserID(uuid.New())
	s.svc = New(s.store, schedule.NewIA2030Engine(),
		WithFacilityGate(s.gate),
		WithStockConsumer(s.stock),
		WithAuditPublisher(syncEmitter{store: s.audits}),
	)
	s.gate.EXPECT().RequireActive(gomock.Any(), gomock.Any()).
		Return(&facilitymodels.Facility{Code: facility, Status: facilitymodels.StatusActive}, nil).AnyTimes()
}

func (s *ChildServiceSuite) validInput() RegisterInput {
	return RegisterInput{
		FirstName:   " Ama ",
		LastName:    "Mensah",
		DateOfBirth: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Gender:      "Female",
		Guardian:    models.Guardian{Name: "Akosua Mensah", Phone: "024 412 3456"},
		Allergies:   []string{" penicillin", "penicillin", ""},
	}
}

func (s *ChildServiceSuite) register() *models.Child {
	c, err := s.svc.Register(s.ctx, facility, s.user, s.validInput())
	s.Require().NoError(err)
	return c
}

func (s *ChildServiceSuite) TestRegister() {
	s.Run("assigns a sequential facility ID and builds the schedule", func() {
		first := s.register()
		second := s.register()

		s.Equal(id.ChildID("KBTH-24-00001"), first.ID)
		s.Equal(id.ChildID("KBTH-24-00002"), second.ID)
		s.Equal("Ama", first.FirstName)
		s.Equal(models.GenderFemale, first.Gender)
		s.Equal("0244123456", first.Guardian.Phone)
		s.Equal([]string{"penicillin"}, first.Allergies)
		s.Equal(1, first.Version)
		s.Equal(models.StatusActive, first.Status)

		bcg, ok := first.Schedule.Get("bcg")
		s.Require().True(ok)
		s.Equal(schedule.StatusOverdue, bcg.Status)
		penta1, ok := first.Schedule.Get("penta1")
		s.Require().True(ok)
		s.Equal(time.Date(2024, 2, 12, 0, 0, 0, 0, time.UTC), penta1.DueDate)
	})

	s.Run("records a child_registered audit event", func() {
		events, err := s.audits.ListRecent(s.ctx, 10)
		s.Require().NoError(err)
		s.Require().NotEmpty(events)
		s.Equal(audit.ActionChildRegistered, events[0].Action)
		s.Equal("KBTH-24-00002", events[0].ResourceID)
	})

	s.Run("rejects invalid registrations", func() {
		cases := map[string]func(*RegisterInput){
			"future birth":   func(in *RegisterInput) { in.DateOfBirth = s.now.AddDate(0, 0, 1) },
			"too old":        func(in *RegisterInput) { in.DateOfBirth = s.now.AddDate(-5, 0, -1) },
			"bad phone":      func(in *RegisterInput) { in.Guardian.Phone = "12345" },
			"missing name":   func(in *RegisterInput) { in.FirstName = "  " },
			"unknown gender": func(in *RegisterInput) { in.Gender = "other" },
		}
		for name, mutate := range cases {
			in := s.validInput()
			mutate(&in)
			_, err := s.svc.Register(s.ctx, facility, s.user, in)
			s.True(dErrors.HasCode(err, dErrors.CodeValidation), name)
		}
	})
}

func (s *ChildServiceSuite) TestRegisterRequiresActiveFacility() {
	ctrl := gomock.NewController(s.T())
	gate := mocks.NewMockFacilityGate(ctrl)
	gate.EXPECT().RequireActive(gomock.Any(), facility).
		Return(nil, dErrors.New(dErrors.CodeForbidden, "facility is inactive"))
	svc := New(store.NewInMemory(), schedule.NewIA2030Engine(), WithFacilityGate(gate))

	_, err := svc.Register(s.ctx, facility, s.user, s.validInput())
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *ChildServiceSuite) TestGetHidesOtherFacilities() {
	c := s.register()

	got, err := s.svc.Get(s.ctx, facility, c.ID)
	s.Require().NoError(err)
	s.Equal(c.ID, got.ID)

	_, err = s.svc.Get(s.ctx, "ACCRA", c.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = s.svc.Get(s.ctx, facility, "KBTH-24-09999")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ChildServiceSuite) TestGetReclassifiesAgainstToday() {
	c := s.register()
	penta1, _ := c.Schedule.Get("penta1")
	s.Equal(schedule.StatusOverdue, penta1.Status)

	early := requestcontext.WithTime(context.Background(), time.Date(2024, 2, 6, 9, 0, 0, 0, time.UTC))
	got, err := s.svc.Get(early, facility, c.ID)
	s.Require().NoError(err)
	penta1, _ = got.Schedule.Get("penta1")
	s.Equal(schedule.StatusDueSoon, penta1.Status)
}

func (s *ChildServiceSuite) TestAdminister() {
	c := s.register()

	s.Run("records the dose and consumes stock", func() {
		s.stock.EXPECT().Consume(gomock.Any(), facility, s.user, schedule.VaccineID("bcg")).
			Return(&stockmodels.StockLevel{Current: 9}, nil)

		updated, err := s.svc.Administer(s.ctx, facility, s.user, c.ID, AdministerInput{
			VaccineID: "bcg", AdministeredDate: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Batch: " bcg24a01 ",
		})
		s.Require().NoError(err)
		s.Equal(2, updated.Version)
		bcg, _ := updated.Schedule.Get("bcg")
		s.Equal(schedule.StatusAdministered, bcg.Status)
		s.Equal("BCG24A01", bcg.Batch)
		s.Equal(facility, bcg.Facility)
		s.Equal(s.user.String(), bcg.AdministeredBy)

		stored, err := s.store.FindByID(s.ctx, c.ID)
		s.Require().NoError(err)
		s.Equal(2, stored.Version)
	})

	s.Run("second administration of the same vaccine conflicts", func() {
		_, err := s.svc.Administer(s.ctx, facility, s.user, c.ID, AdministerInput{VaccineID: "bcg"})
		s.True(errors.Is(err, schedule.ErrAlreadyAdministered))
	})

	s.Run("unknown vaccine", func() {
		_, err := s.svc.Administer(s.ctx, facility, s.user, c.ID, AdministerInput{VaccineID: "yellow_fever"})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("date defaults to today", func() {
		s.stock.EXPECT().Consume(gomock.Any(), facility, s.user, schedule.VaccineID("opv0")).
			Return(&stockmodels.StockLevel{}, nil)
		updated, err := s.svc.Administer(s.ctx, facility, s.user, c.ID, AdministerInput{VaccineID: "opv0"})
		s.Require().NoError(err)
		opv0, _ := updated.Schedule.Get("opv0")
		s.Require().NotNil(opv0.AdministeredDate)
		s.Equal(schedule.Day(s.now), *opv0.AdministeredDate)
	})
}

func (s *ChildServiceSuite) TestAdministerKeepsDoseWhenStockFails() {
	c := s.register()
	s.stock.EXPECT().Consume(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeConflict, "insufficient stock"))

	updated, err := s.svc.Administer(s.ctx, facility, s.user, c.ID, AdministerInput{VaccineID: "hepb0"})
	s.Require().NoError(err)
	entry, _ := updated.Schedule.Get("hepb0")
	s.Equal(schedule.StatusAdministered, entry.Status)
}

func (s *ChildServiceSuite) TestAdministerRetriesVersionConflicts() {
	c := s.register()

	s.Run("succeeds after a transient conflict", func() {
		s.store.conflicts, s.store.updates = 2, 0
		s.stock.EXPECT().Consume(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(&stockmodels.StockLevel{}, nil)

		_, err := s.svc.Administer(s.ctx, facility, s.user, c.ID, AdministerInput{VaccineID: "bcg"})
		s.Require().NoError(err)
		s.Equal(3, s.store.updates)
	})

	s.Run("gives up after three attempts", func() {
		s.store.conflicts, s.store.updates = 3, 0

		_, err := s.svc.Administer(s.ctx, facility, s.user, c.ID, AdministerInput{VaccineID: "opv0"})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.Equal(3, s.store.updates)
	})
}

func (s *ChildServiceSuite) TestCloseEntry() {
	c := s.register()

	updated, err := s.svc.CloseEntry(s.ctx, facility, s.user, c.ID, "rota1", schedule.StatusContraindicated, "intussusception history")
	s.Require().NoError(err)
	rota1, _ := updated.Schedule.Get("rota1")
	s.Equal(schedule.StatusContraindicated, rota1.Status)
	s.Equal("intussusception history", rota1.Notes)

	_, err = s.svc.CloseEntry(s.ctx, facility, s.user, c.ID, "rota1", schedule.StatusMissed, "")
	s.True(errors.Is(err, schedule.ErrEntryClosed))

	_, err = s.svc.CloseEntry(s.ctx, facility, s.user, c.ID, "rota2", schedule.StatusAdministered, "")
	s.True(errors.Is(err, schedule.ErrInvalidStatusTransition))

	events, err := s.audits.ListRecent(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(audit.ActionScheduleEntryClosed, events[0].Action)
}

func (s *ChildServiceSuite) TestList() {
	c := s.register()
	other := s.register()
	s.stock.EXPECT().Consume(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(&stockmodels.StockLevel{}, nil)
	_, err := s.svc.Administer(s.ctx, facility, s.user, c.ID, AdministerInput{VaccineID: "penta1"})
	s.Require().NoError(err)

	s.Run("vaccine alone keeps children with the dose still open", func() {
		list, err := s.svc.List(s.ctx, facility, ListFilter{VaccineID: "penta1"})
		s.Require().NoError(err)
		s.Require().Len(list, 1)
		s.Equal(other.ID, list[0].ID)
	})

	s.Run("vaccine and status", func() {
		list, err := s.svc.List(s.ctx, facility, ListFilter{VaccineID: "penta1", Status: schedule.StatusAdministered})
		s.Require().NoError(err)
		s.Require().Len(list, 1)
		s.Equal(c.ID, list[0].ID)
	})

	s.Run("status alone", func() {
		list, err := s.svc.List(s.ctx, facility, ListFilter{Status: schedule.StatusOverdue})
		s.Require().NoError(err)
		s.Len(list, 2)
	})

	s.Run("unknown status is rejected", func() {
		_, err := s.svc.List(s.ctx, facility, ListFilter{Status: "late"})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("other facilities see nothing", func() {
		list, err := s.svc.List(s.ctx, "ACCRA", ListFilter{})
		s.Require().NoError(err)
		s.Empty(list)
	})
}

func (s *ChildServiceSuite) TestReclassifyAll() {
	early := requestcontext.WithTime(context.Background(), time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC))
	c, err := s.svc.Register(early, facility, s.user, s.validInput())
	s.Require().NoError(err)

	changed, err := s.svc.ReclassifyAll(s.ctx, s.now)
	s.Require().NoError(err)
	s.Equal(1, changed)

	stored, err := s.store.FindByID(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(2, stored.Version)
	penta1, _ := stored.Schedule.Get("penta1")
	s.Equal(schedule.StatusOverdue, penta1.Status)

	changed, err = s.svc.ReclassifyAll(s.ctx, s.now)
	s.Require().NoError(err)
	s.Zero(changed)

	events, err := s.audits.ListRecent(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(audit.ActionScheduleRecomputed, events[0].Action)
}
