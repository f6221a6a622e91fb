package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	childmodels "vaxtrack/internal/child/models"
	childstore "vaxtrack/internal/child/store"
	ccmodels "vaxtrack/internal/coldchain/models"
	ccservice "vaxtrack/internal/coldchain/service"
	ccstore "vaxtrack/internal/coldchain/store"
	"vaxtrack/internal/report/models"
	"vaxtrack/internal/report/service/mocks"
	"vaxtrack/internal/schedule"
	stockmodels "vaxtrack/internal/stock/models"
	id "vaxtrack/pkg/domain"
	dErrors "vaxtrack/pkg/domain-errors"
	"vaxtrack/pkg/platform/audit"
	auditmemory "vaxtrack/pkg/platform/audit/store/memory"
	"vaxtrack/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks StockLister ReadingLister AlertCounter

const facility = id.FacilityCode("KBTH")

type syncEmitter struct {
	store audit.Store
}

func (e syncEmitter) Emit(ctx context.Context, event audit.Event) error {
	return e.store.Append(ctx, event)
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	ttls    map[string]time.Duration
	failGet bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return nil, false, errors.New("connection refused")
	}
	b, ok := c.entries[key]
	return b, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	c.ttls[key] = ttl
	return nil
}

type ReportServiceSuite struct {
	suite.Suite
	ctx      context.Context
	now      time.Time
	user     id.UserID
	children *childstore.InMemory
	stock    *mocks.MockStockLister
	readings *mocks.MockReadingLister
	alerts   *mocks.MockAlertCounter
	cache    *memoryCache
	audits   *auditmemory.InMemoryStore
	svc      *Service
}

func TestReportServiceSuite(t *testing.T) {
	suite.Run(t, new(ReportServiceSuite))
}

func (s *ReportServiceSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.stock = mocks.NewMockStockLister(ctrl)
	s.readings = mocks.NewMockReadingLister(ctrl)
	s.alerts = mocks.NewMockAlertCounter(ctrl)
	s.children = childstore.NewInMemory()
	s.cache = newMemoryCache()
	s.audits = auditmemory.NewInMemoryStore()
	s.now = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.user = id.UserID(uuid.New())
	s.svc = New(s.children, schedule.NewIA2030Engine(), s.stock, s.readings, s.alerts,
		WithCache(s.cache, 5*time.Minute),
		WithAuditPublisher(syncEmitter{store: s.audits}),
	)

	s.seed(1, map[schedule.VaccineID]time.Time{
		"bcg":    time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		"opv0":   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		"hepb0":  time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		"penta1": time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
		"opv1":   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	s.seed(2, nil)
}

// seed registers a child born 2024-01-01 with the given doses administered.
func (s *ReportServiceSuite) seed(seq int, given map[schedule.VaccineID]time.Time) {
	dob := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	sched, err := schedule.NewIA2030Engine().Build(dob, s.now)
	s.Require().NoError(err)
	for i := range sched {
		if d, ok := given[sched[i].VaccineID]; ok {
			sched[i].Status = schedule.StatusAdministered
			sched[i].AdministeredDate = &d
		}
	}
	s.Require().NoError(s.children.Create(s.ctx, &childmodels.Child{
		ID:           id.NewChildID(facility, 2024, seq),
		FirstName:    "Child",
		LastName:     string(rune('A' + seq - 1)),
		DateOfBirth:  dob,
		Guardian:     childmodels.Guardian{Name: "Guardian", Phone: "0244123456"},
		Facility:     facility,
		Status:       childmodels.StatusActive,
		Schedule:     sched,
		RegisteredAt: s.now.Add(time.Duration(seq) * time.Minute),
		Version:      1,
	}))
}

func (s *ReportServiceSuite) levels() []*stockmodels.StockLevel {
	ok := stockmodels.NewStockLevel(facility, "bcg", 10, s.now)
	ok.Current = 50
	low := stockmodels.NewStockLevel(facility, "penta", 10, s.now)
	low.Current = 5
	return []*stockmodels.StockLevel{ok, low}
}

func (s *ReportServiceSuite) TestDashboard() {
	s.stock.EXPECT().List(gomock.Any(), facility).Return(s.levels(), nil)
	s.alerts.EXPECT().CountOpen(gomock.Any(), facility).Return(3, nil)

	d, err := s.svc.Dashboard(s.ctx, facility)
	s.Require().NoError(err)
	s.Equal(2, d.TotalChildren)
	s.Equal(5, d.VaccinesAdministered)
	s.Equal(1, d.AdministeredThisMonth)
	s.Equal(2, d.Defaulters)
	s.InDelta(100.0, d.PentaDropout, 0.001)
	s.InDelta(5.0/14.0*100, d.OverallCoverage, 0.001)
	s.Equal(1, d.LowStock)
	s.Equal(3, d.OpenAlerts)
	s.False(d.Cached)

	s.Run("second call is served from cache", func() {
		cached, err := s.svc.Dashboard(s.ctx, facility)
		s.Require().NoError(err)
		s.True(cached.Cached)
		s.Equal(d.TotalChildren, cached.TotalChildren)
		s.Equal(5*time.Minute, s.cache.ttls["dashboard:KBTH:2024-03-01"])
	})
}

func (s *ReportServiceSuite) TestDashboardCacheErrorsFallThrough() {
	s.cache.failGet = true
	s.stock.EXPECT().List(gomock.Any(), facility).Return(nil, nil)
	s.alerts.EXPECT().CountOpen(gomock.Any(), facility).Return(0, nil)

	d, err := s.svc.Dashboard(s.ctx, facility)
	s.Require().NoError(err)
	s.Equal(2, d.TotalChildren)
}

func (s *ReportServiceSuite) TestDashboardFailsWhenAnInputFails() {
	s.stock.EXPECT().List(gomock.Any(), facility).Return(nil, dErrors.New(dErrors.CodeInternal, "failed to list stock"))
	s.alerts.EXPECT().CountOpen(gomock.Any(), facility).Return(0, nil).AnyTimes()

	_, err := s.svc.Dashboard(s.ctx, facility)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	s.Empty(s.cache.entries)
}

func (s *ReportServiceSuite) TestGenerateCoverage() {
	r, err := s.svc.Generate(s.ctx, facility, s.user, models.Request{Type: models.TypeCoverage})
	s.Require().NoError(err)
	s.Equal(2, r.Population)
	s.Equal("2024-03-01", r.AsOf)

	rows, ok := r.Data.([]schedule.AntigenCoverage)
	s.Require().True(ok)
	s.Len(rows, len(schedule.IA2030()))
	s.Equal(schedule.VaccineID("bcg"), rows[0].VaccineID)
	s.Equal(2, rows[0].Eligible)
	s.Equal(1, rows[0].Administered)
	s.Equal([]string{"bcg", "BCG", "2", "1", "50.0"}, r.Table.Rows[0])

	events, err := s.audits.ListRecent(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(audit.ActionReportGenerated, events[0].Action)
	s.Equal("coverage", events[0].ResourceID)
	s.Equal("json", events[0].Metadata["format"])
}

func (s *ReportServiceSuite) TestGenerateDropoutAndDefaulters() {
	r, err := s.svc.Generate(s.ctx, facility, s.user, models.Request{Type: models.TypeDropout})
	s.Require().NoError(err)
	rates, ok := r.Data.([]schedule.DropoutRate)
	s.Require().True(ok)
	s.Len(rates, len(schedule.StandardPairs))
	s.Equal(schedule.DropoutPenta.From, rates[0].From)

	r, err = s.svc.Generate(s.ctx, facility, s.user, models.Request{Type: models.TypeDefaulters})
	s.Require().NoError(err)
	defaulters, ok := r.Data.([]schedule.Defaulter)
	s.Require().True(ok)
	s.Require().Len(defaulters, 2)
	s.Equal(id.NewChildID(facility, 2024, 2), defaulters[0].ChildID)
	s.Equal(60, defaulters[0].DaysOverdue)
}

func (s *ReportServiceSuite) TestGenerateStock() {
	s.stock.EXPECT().List(gomock.Any(), facility).Return(s.levels(), nil)

	r, err := s.svc.Generate(s.ctx, facility, s.user, models.Request{Type: models.TypeStock})
	s.Require().NoError(err)
	rows, ok := r.Data.([]models.StockRow)
	s.Require().True(ok)
	s.Require().Len(rows, 2)
	s.False(rows[0].Low)
	s.True(rows[1].Low)
	s.Equal("true", r.Table.Rows[1][6])
}

func (s *ReportServiceSuite) TestGenerateColdChain() {
	since := s.now.Add(-DefaultColdChainPeriod)
	readings := []*ccmodels.Reading{
		{Facility: facility, EquipmentID: "FRIDGE-1", TemperatureC: 4, RecordedAt: s.now.Add(-time.Hour), Source: ccmodels.SourceSensor},
		{Facility: facility, EquipmentID: "FRIDGE-1", TemperatureC: 9.5, RecordedAt: s.now.Add(-2 * time.Hour), Source: ccmodels.SourceSensor},
		{Facility: facility, EquipmentID: "FRIDGE-2", TemperatureC: 6, RecordedAt: s.now.Add(-3 * time.Hour), Source: ccmodels.SourceManual},
	}
	s.readings.EXPECT().Summarize(gomock.Any(), facility, since, time.Time{}).
		Return(ccmodels.Summarize(readings, ccmodels.DefaultBand), nil)
	s.readings.EXPECT().ExcursionsBetween(gomock.Any(), facility, since, time.Time{}).
		Return(readings[1:2], nil)
	s.readings.EXPECT().List(gomock.Any(), facility, ccservice.ListInput{Since: since, Limit: maxReadings}).
		Return(readings, nil)
	s.readings.EXPECT().Band().Return(ccmodels.DefaultBand)

	r, err := s.svc.Generate(s.ctx, facility, s.user, models.Request{Type: models.TypeColdChain})
	s.Require().NoError(err)
	data, ok := r.Data.(models.ColdChainData)
	s.Require().True(ok)
	s.Equal(3, data.Summary.Count)
	s.Equal(1, data.Summary.Excursions)
	s.InDelta(9.5, data.Summary.MaxC, 0.001)
	s.Require().Len(data.Excursions, 1)
	s.Equal("FRIDGE-1", data.Excursions[0].EquipmentID)
	s.False(data.Truncated)
	s.Len(r.Table.Rows, 3)
	s.Require().NotNil(r.Since)
	s.Nil(r.Until)
}

func (s *ReportServiceSuite) TestGenerateColdChainSummaryFailure() {
	s.readings.EXPECT().Summarize(gomock.Any(), facility, gomock.Any(), gomock.Any()).
		Return(ccmodels.Summary{}, dErrors.New(dErrors.CodeInternal, "failed to summarize readings"))

	_, err := s.svc.Generate(s.ctx, facility, s.user, models.Request{Type: models.TypeColdChain})
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

// A busy sensor logs more readings than the report lists; older excursions
// must still be reported.
func (s *ReportServiceSuite) TestGenerateColdChainKeepsOlderExcursions() {
	readings := ccservice.New(ccstore.NewInMemory())
	svc := New(s.children, schedule.NewIA2030Engine(), s.stock, readings, s.alerts)

	old := &ccmodels.Reading{Facility: facility, EquipmentID: "FRIDGE-1", TemperatureC: 15, RecordedAt: s.now.Add(-10 * 24 * time.Hour), Source: ccmodels.SourceSensor}
	_, err := readings.Log(s.ctx, old)
	s.Require().NoError(err)
	for i := range maxReadings {
		_, err := readings.Log(s.ctx, &ccmodels.Reading{
			Facility: facility, EquipmentID: "FRIDGE-1", TemperatureC: 5,
			RecordedAt: s.now.Add(-time.Duration(i+1) * time.Minute), Source: ccmodels.SourceSensor,
		})
		s.Require().NoError(err)
	}

	r, err := svc.Generate(s.ctx, facility, s.user, models.Request{Type: models.TypeColdChain})
	s.Require().NoError(err)
	data := r.Data.(models.ColdChainData)
	s.Equal(maxReadings+1, data.Summary.Count)
	s.Equal(1, data.Summary.Excursions)
	s.InDelta(15, data.Summary.MaxC, 0.001)
	s.InDelta(5, data.Summary.MinC, 0.001)
	s.Require().Len(data.Excursions, 1)
	s.InDelta(15, data.Excursions[0].TemperatureC, 0.001)
	s.Len(data.Readings, maxReadings)
	s.True(data.Truncated)
}

func (s *ReportServiceSuite) TestGenerateUnknownType() {
	_, err := s.svc.Generate(s.ctx, facility, s.user, models.Request{Type: "immunity"})
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ReportServiceSuite) TestExport() {
	s.Run("csv", func() {
		r, out, err := s.svc.Export(s.ctx, facility, s.user, models.Request{Type: models.TypeCoverage, Format: models.FormatCSV})
		s.Require().NoError(err)
		s.Equal("coverage-KBTH-2024-03-01.csv", r.Filename(models.FormatCSV))
		s.True(strings.HasPrefix(string(out), "Vaccine ID,Vaccine,Eligible,Administered,Coverage %\nbcg,BCG,2,1,50.0\n"))

		events, err := s.audits.ListRecent(s.ctx, 1)
		s.Require().NoError(err)
		s.Equal("csv", events[0].Metadata["format"])
	})

	s.Run("xlsx", func() {
		_, out, err := s.svc.Export(s.ctx, facility, s.user, models.Request{Type: models.TypeDropout, Format: models.FormatXLSX})
		s.Require().NoError(err)
		s.True(strings.HasPrefix(string(out), "PK"))
	})

	s.Run("json is not an export format", func() {
		_, _, err := s.svc.Export(s.ctx, facility, s.user, models.Request{Type: models.TypeCoverage, Format: models.FormatJSON})
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}
