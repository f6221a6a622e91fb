package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"vaxtrack/pkg/platform/audit"
	auditmemory "vaxtrack/pkg/platform/audit/store/memory"
	"vaxtrack/pkg/testutil"
)

type AuditHandlerSuite struct {
	suite.Suite
	store  *auditmemory.InMemoryStore
	router http.Handler
}

func TestAuditHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuditHandlerSuite))
}

func (s *AuditHandlerSuite) SetupTest() {
	s.store = auditmemory.NewInMemoryStore()
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	events := []audit.Event{
		{Action: audit.ActionChildRegistered, Facility: "KBTH", ResourceID: "KBTH-24-00001", Timestamp: base},
		{Action: audit.ActionStockReceived, Facility: "ACCRA", ResourceID: "bcg", Timestamp: base.Add(time.Minute)},
		{Action: audit.ActionVaccineAdministered, Facility: "KBTH", ResourceID: "KBTH-24-00001", Timestamp: base.Add(2 * time.Minute)},
	}
	for _, e := range events {
		s.Require().NoError(s.store.Append(ctx, e))
	}

	r := chi.NewRouter()
	New(s.store, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	s.router = r
}

func (s *AuditHandlerSuite) TestListRecent() {
	rec := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/admin/audit?limit=2"))
	testutil.AssertStatusOK(s.T(), rec)
	resp := testutil.UnmarshalResponse[EventListResponse](s.T(), rec)
	s.Require().Len(resp.Events, 2)
	s.Equal(audit.ActionVaccineAdministered, resp.Events[0].Action)
	s.Equal(audit.ActionStockReceived, resp.Events[1].Action)
}

func (s *AuditHandlerSuite) TestListByFacility() {
	rec := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/admin/audit?facility=kbth"))
	testutil.AssertStatusOK(s.T(), rec)
	resp := testutil.UnmarshalResponse[EventListResponse](s.T(), rec)
	s.Require().Len(resp.Events, 2)
	for _, e := range resp.Events {
		s.Equal("KBTH", e.Facility.String())
	}
}

func (s *AuditHandlerSuite) TestRejectsBadLimit() {
	rec := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/admin/audit?limit=-1"))
	testutil.AssertStatusAndError(s.T(), rec, http.StatusBadRequest, "bad_request")
}
