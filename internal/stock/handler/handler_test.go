package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"vaxtrack/internal/schedule"
	"vaxtrack/internal/stock/handler/mocks"
	"vaxtrack/internal/stock/models"
	"vaxtrack/internal/stock/service"
	id "vaxtrack/pkg/domain"
	dErrors "vaxtrack/pkg/domain-errors"
	"vaxtrack/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

type StockHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  http.Handler
	user    id.UserID
	now     time.Time
}

func TestStockHandlerSuite(t *testing.T) {
	suite.Run(t, new(StockHandlerSuite))
}

func (s *StockHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	s.user = id.UserID(uuid.New())
	s.now = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	r := chi.NewRouter()
	New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	s.router = r
}

func (s *StockHandlerSuite) session(req *http.Request) *http.Request {
	return testutil.WithSession(req, s.user, "KBTH", "nurse")
}

func (s *StockHandlerSuite) level(vaccine schedule.VaccineID, current int) *models.StockLevel {
	l := models.NewStockLevel("KBTH", vaccine, 10, s.now)
	l.Current = current
	l.TotalReceived = current
	return l
}

func (s *StockHandlerSuite) TestList() {
	s.service.EXPECT().List(gomock.Any(), id.FacilityCode("KBTH")).Return([]*models.StockLevel{
		s.level("bcg", 40), s.level("mr1", 4),
	}, nil)

	rec := testutil.DoRequest(s.router, s.session(testutil.NewRequest(s.T(), http.MethodGet, "/stock")))
	testutil.AssertStatusOK(s.T(), rec)
	resp := testutil.UnmarshalResponse[StockListResponse](s.T(), rec)
	s.Require().Len(resp.Stock, 2)
	s.False(resp.Stock[0].Low)
	s.True(resp.Stock[1].Low)
}

func (s *StockHandlerSuite) TestGetNotFound() {
	s.service.EXPECT().Get(gomock.Any(), id.FacilityCode("KBTH"), schedule.VaccineID("bcg")).
		Return(nil, dErrors.New(dErrors.CodeNotFound, "no stock recorded for bcg"))

	rec := testutil.DoRequest(s.router, s.session(testutil.NewRequest(s.T(), http.MethodGet, "/stock/bcg")))
	testutil.AssertStatusAndError(s.T(), rec, http.StatusNotFound, "not_found")
}

func (s *StockHandlerSuite) TestReceive() {
	s.Run("passes the parsed batch to the service", func() {
		expiry := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
		s.service.EXPECT().Receive(gomock.Any(), id.FacilityCode("KBTH"), s.user, schedule.VaccineID("bcg"), service.ReceiveInput{
			Batch: "BCG24A01", Expiry: expiry, Quantity: 50,
		}).Return(s.level("bcg", 50), nil)

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/stock/bcg/receipts", map[string]any{
			"batch_number": "bcg24a01", "expiry_date": "2025-06-30", "quantity": 50,
		})
		rec := testutil.DoRequest(s.router, s.session(req))
		testutil.AssertStatus(s.T(), rec, http.StatusCreated)
		testutil.AssertJSONContains(s.T(), rec, "current_stock", float64(50))
	})

	s.Run("rejects malformed batch number", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/stock/bcg/receipts", map[string]any{
			"batch_number": "ab", "expiry_date": "2025-06-30", "quantity": 50,
		})
		rec := testutil.DoRequest(s.router, s.session(req))
		testutil.AssertStatusAndError(s.T(), rec, http.StatusBadRequest, "validation_error")
	})

	s.Run("rejects bad expiry date", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/stock/bcg/receipts", map[string]any{
			"batch_number": "BCG24A01", "expiry_date": "30/06/2025", "quantity": 50,
		})
		rec := testutil.DoRequest(s.router, s.session(req))
		testutil.AssertStatusAndError(s.T(), rec, http.StatusBadRequest, "validation_error")
	})
}

func (s *StockHandlerSuite) TestWastage() {
	s.Run("insufficient stock is a conflict", func() {
		s.service.EXPECT().RecordWastage(gomock.Any(), id.FacilityCode("KBTH"), s.user, schedule.VaccineID("opv1"), 5, "expired").
			Return(nil, dErrors.New(dErrors.CodeConflict, "insufficient stock"))

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/stock/opv1/wastage", map[string]any{
			"quantity": 5, "reason": " expired ",
		})
		rec := testutil.DoRequest(s.router, s.session(req))
		testutil.AssertStatusAndError(s.T(), rec, http.StatusConflict, "conflict")
	})

	s.Run("zero quantity fails validation", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/stock/opv1/wastage", map[string]any{"quantity": 0})
		rec := testutil.DoRequest(s.router, s.session(req))
		testutil.AssertStatus(s.T(), rec, http.StatusBadRequest)
	})
}

func (s *StockHandlerSuite) TestSetReorderLevel() {
	s.Run("accepts zero", func() {
		s.service.EXPECT().SetReorderLevel(gomock.Any(), id.FacilityCode("KBTH"), s.user, schedule.VaccineID("bcg"), 0).
			Return(s.level("bcg", 5), nil)

		req := testutil.NewJSONRequest(s.T(), http.MethodPut, "/stock/bcg/reorder-level", map[string]any{"reorder_level": 0})
		rec := testutil.DoRequest(s.router, s.session(req))
		testutil.AssertStatusOK(s.T(), rec)
	})

	s.Run("missing level fails validation", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPut, "/stock/bcg/reorder-level", map[string]any{})
		rec := testutil.DoRequest(s.router, s.session(req))
		testutil.AssertStatusAndError(s.T(), rec, http.StatusBadRequest, "validation_error")
	})
}
