//go:build integration

package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"vaxtrack/internal/alert/models"
	"vaxtrack/internal/alert/store"
	id "vaxtrack/pkg/domain"
	"vaxtrack/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "alerts"))
}

func (s *PostgresStoreSuite) lowStock(now time.Time) *models.Alert {
	return &models.Alert{
		ID: id.AlertID(uuid.New()), Facility: "KBTH", Type: models.TypeLowStock,
		Subject: "penta1", Message: "penta1 stock is low", Metadata: map[string]string{}, CreatedAt: now,
	}
}

// TestConcurrentRaiseKeepsOneOpenAlert races writers on the same key; the
// unique index must leave exactly one open alert.
func (s *PostgresStoreSuite) TestConcurrentRaiseKeepsOneOpenAlert() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		ids     = map[id.AlertID]struct{}{}
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, isNew, err := s.store.CreateIfNoneOpen(ctx, s.lowStock(now))
			s.NoError(err)
			if err != nil {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			ids[got.ID] = struct{}{}
			if isNew {
				created++
			}
		}()
	}
	wg.Wait()

	s.Equal(1, created)
	s.Len(ids, 1)
	open, err := s.store.List(ctx, "KBTH", true)
	s.Require().NoError(err)
	s.Len(open, 1)
}

func (s *PostgresStoreSuite) TestRaiseAgainAfterAcknowledge() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	first, created, err := s.store.CreateIfNoneOpen(ctx, s.lowStock(now))
	s.Require().NoError(err)
	s.Require().True(created)
	s.Require().NoError(first.Acknowledge(id.UserID(uuid.New()), now.Add(time.Minute)))
	s.Require().NoError(s.store.Update(ctx, first))

	second, created, err := s.store.CreateIfNoneOpen(ctx, s.lowStock(now.Add(2*time.Minute)))
	s.Require().NoError(err)
	s.True(created)
	s.NotEqual(first.ID, second.ID)
}
