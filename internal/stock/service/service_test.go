package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	alertmodels "vaxtrack/internal/alert/models"
	alertservice "vaxtrack/internal/alert/service"
	"vaxtrack/internal/schedule"
	"vaxtrack/internal/stock/service/mocks"
	"vaxtrack/internal/stock/store"
	id "vaxtrack/pkg/domain"
	dErrors "vaxtrack/pkg/domain-errors"
	"vaxtrack/pkg/platform/audit"
	auditmemory "vaxtrack/pkg/platform/audit/store/memory"
	"vaxtrack/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks AlertRaiser

const facility = id.FacilityCode("KBTH")

type syncEmitter struct {
	store audit.Store
}

func (e syncEmitter) Emit(ctx context.Context, event audit.Event) error {
	return e.store.Append(ctx, event)
}

type StockServiceSuite struct {
	suite.Suite
	ctx    context.Context
	now    time.Time
	user   id.UserID
	alerts *mocks.MockAlertRaiser
	audits *auditmemory.InMemoryStore
	svc    *Service
}

func TestStockServiceSuite(t *testing.T) {
	suite.Run(t, new(StockServiceSuite))
}

func (s *StockServiceSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.alerts = mocks.NewMockAlertRaiser(ctrl)
	s.audits = auditmemory.NewInMemoryStore()
	s.now = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.user = id.UserID(uuid.New())
	s.svc = New(store.NewInMemory(), schedule.NewIA2030Engine(),
		WithAlertRaiser(s.alerts),
		WithDefaultReorderLevel(10),
		WithAuditPublisher(syncEmitter{store: s.audits}),
	)
}

func (s *StockServiceSuite) receive(vaccine schedule.VaccineID, qty int) {
	_, err := s.svc.Receive(s.ctx, facility, s.user, vaccine, ReceiveInput{
		Batch: "BCG24A01", Expiry: s.now.AddDate(1, 0, 0), Quantity: qty,
	})
	s.Require().NoError(err)
}

func (s *StockServiceSuite) TestReceive() {
	s.Run("creates the level with the default reorder level", func() {
		level, err := s.svc.Receive(s.ctx, facility, s.user, "bcg", ReceiveInput{
			Batch: " bcg24a01 ", Expiry: s.now.AddDate(1, 0, 0), Quantity: 50,
		})
		s.Require().NoError(err)
		s.Equal(50, level.Current)
		s.Equal(50, level.TotalReceived)
		s.Equal(10, level.ReorderLevel)
		s.Require().Len(level.Batches, 1)
		s.Equal("BCG24A01", level.Batches[0].Number)
		s.Equal(s.user, level.Batches[0].ReceivedBy)

		events, err := s.audits.ListByFacility(s.ctx, facility, 10)
		s.Require().NoError(err)
		s.Require().Len(events, 1)
		s.Equal(audit.ActionStockReceived, events[0].Action)
		s.Equal("bcg", events[0].ResourceID)
		s.Equal("50", events[0].Metadata["quantity"])
	})

	s.Run("rejects expired batch", func() {
		_, err := s.svc.Receive(s.ctx, facility, s.user, "bcg", ReceiveInput{
			Batch: "BCG24A01", Expiry: s.now, Quantity: 5,
		})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("rejects non-positive quantity", func() {
		_, err := s.svc.Receive(s.ctx, facility, s.user, "bcg", ReceiveInput{
			Batch: "BCG24A01", Expiry: s.now.AddDate(0, 6, 0), Quantity: 0,
		})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("unknown vaccine", func() {
		_, err := s.svc.Receive(s.ctx, facility, s.user, "smallpox", ReceiveInput{
			Batch: "SPX00001", Expiry: s.now.AddDate(1, 0, 0), Quantity: 5,
		})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *StockServiceSuite) TestConsume() {
	s.receive("penta1", 12)

	s.Run("decrements without alert above reorder level", func() {
		level, err := s.svc.Consume(s.ctx, facility, s.user, "penta1")
		s.Require().NoError(err)
		s.Equal(11, level.Current)
		s.Equal(1, level.TotalAdministered)
	})

	s.Run("raises low stock alert at reorder level", func() {
		s.alerts.EXPECT().Raise(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, in alertservice.RaiseInput) (*alertmodels.Alert, error) {
				s.Equal(alertmodels.TypeLowStock, in.Type)
				s.Equal("penta1", in.Subject)
				s.Equal("10", in.Metadata["current_stock"])
				return &alertmodels.Alert{}, nil
			})
		level, err := s.svc.Consume(s.ctx, facility, s.user, "penta1")
		s.Require().NoError(err)
		s.Equal(10, level.Current)
	})

	s.Run("alert failure does not undo the change", func() {
		s.alerts.EXPECT().Raise(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))
		level, err := s.svc.Consume(s.ctx, facility, s.user, "penta1")
		s.Require().NoError(err)
		s.Equal(9, level.Current)
	})
}

func (s *StockServiceSuite) TestConsumeWithoutStock() {
	_, err := s.svc.Consume(s.ctx, facility, s.user, "mr1")
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	_, err = s.svc.Get(s.ctx, facility, "mr1")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *StockServiceSuite) TestRecordWastage() {
	s.receive("opv1", 40)

	level, err := s.svc.RecordWastage(s.ctx, facility, s.user, "opv1", 5, "vial broken")
	s.Require().NoError(err)
	s.Equal(35, level.Current)
	s.Equal(5, level.TotalWastage)
	s.Equal(level.TotalReceived-level.TotalAdministered-level.TotalWastage, level.Current)

	_, err = s.svc.RecordWastage(s.ctx, facility, s.user, "opv1", 100, "")
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	events, err := s.audits.ListByFacility(s.ctx, facility, 1)
	s.Require().NoError(err)
	s.Equal(audit.ActionStockWasted, events[0].Action)
	s.Equal("vial broken", events[0].Description)
}

func (s *StockServiceSuite) TestSetReorderLevel() {
	s.receive("bcg", 20)

	s.alerts.EXPECT().Raise(gomock.Any(), gomock.Any()).Return(&alertmodels.Alert{}, nil)
	level, err := s.svc.SetReorderLevel(s.ctx, facility, s.user, "bcg", 25)
	s.Require().NoError(err)
	s.Equal(25, level.ReorderLevel)
	s.True(level.IsLow())

	_, err = s.svc.SetReorderLevel(s.ctx, facility, s.user, "bcg", -1)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *StockServiceSuite) TestList() {
	s.receive("opv1", 40)
	s.receive("bcg", 40)

	list, err := s.svc.List(s.ctx, facility)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(schedule.VaccineID("bcg"), list[0].VaccineID)

	other, err := s.svc.List(s.ctx, "TMLE")
	s.Require().NoError(err)
	s.Empty(other)
}
