package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaxtrack/internal/alert/models"
	id "vaxtrack/pkg/domain"
	"vaxtrack/pkg/platform/sentinel"
)

var alertColumns = []string{"id", "facility_code", "type", "subject", "message", "metadata", "created_at", "acknowledged_at", "acknowledged_by"}

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgres(db), mock
}

func TestPostgresCreateIfNoneOpen(t *testing.T) {
	ts := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	alert := &models.Alert{
		ID: id.AlertID(uuid.New()), Facility: "KBTH", Type: models.TypeLowStock,
		Subject: "bcg", Message: "bcg stock is low", Metadata: map[string]string{"current_stock": "3"}, CreatedAt: ts,
	}

	t.Run("inserts when none open", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(`SELECT (.+) FROM alerts\s+WHERE facility_code = \$1 AND type = \$2 AND subject = \$3 AND acknowledged_at IS NULL`).
			WithArgs("KBTH", "low_stock", "bcg").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`INSERT INTO alerts (.+) ON CONFLICT \(facility_code, type, subject\) WHERE acknowledged_at IS NULL DO NOTHING RETURNING id`).
			WithArgs(uuid.UUID(alert.ID), "KBTH", "low_stock", "bcg", "bcg stock is low", []byte(`{"current_stock":"3"}`), ts).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.UUID(alert.ID).String()))

		got, created, err := store.CreateIfNoneOpen(context.Background(), alert)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, alert.ID, got.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns the open alert", func(t *testing.T) {
		store, mock := newMockStore(t)
		existingID := uuid.New()
		mock.ExpectQuery(`SELECT (.+) FROM alerts`).
			WillReturnRows(sqlmock.NewRows(alertColumns).
				AddRow(existingID.String(), "KBTH", "low_stock", "bcg", "old", []byte(`{}`), ts, nil, nil))

		got, created, err := store.CreateIfNoneOpen(context.Background(), alert)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, id.AlertID(existingID), got.ID)
		assert.True(t, got.IsOpen())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("losing a concurrent insert returns the winner", func(t *testing.T) {
		store, mock := newMockStore(t)
		winnerID := uuid.New()
		mock.ExpectQuery(`SELECT (.+) FROM alerts`).WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`INSERT INTO alerts`).WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectQuery(`SELECT (.+) FROM alerts`).
			WithArgs("KBTH", "low_stock", "bcg").
			WillReturnRows(sqlmock.NewRows(alertColumns).
				AddRow(winnerID.String(), "KBTH", "low_stock", "bcg", "bcg stock is low", []byte(`{}`), ts, nil, nil))

		got, created, err := store.CreateIfNoneOpen(context.Background(), alert)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, id.AlertID(winnerID), got.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("winner acknowledged before read back", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(`SELECT (.+) FROM alerts`).WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`INSERT INTO alerts`).WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectQuery(`SELECT (.+) FROM alerts`).WillReturnError(sql.ErrNoRows)

		_, _, err := store.CreateIfNoneOpen(context.Background(), alert)
		assert.ErrorIs(t, err, sentinel.ErrConflict)
	})
}

func TestPostgresFindByIDScansAcknowledgement(t *testing.T) {
	store, mock := newMockStore(t)
	alertID := uuid.New()
	userID := uuid.New()
	ts := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT (.+) FROM alerts WHERE id = \$1 AND facility_code = \$2`).
		WithArgs(alertID, "KBTH").
		WillReturnRows(sqlmock.NewRows(alertColumns).
			AddRow(alertID.String(), "KBTH", "cold_chain_excursion", "FRIDGE-1", "too warm", []byte(`{"temperature_c":"9.5"}`), ts, ts, userID.String()))

	got, err := store.FindByID(context.Background(), "KBTH", id.AlertID(alertID))
	require.NoError(t, err)
	assert.False(t, got.IsOpen())
	assert.Equal(t, id.UserID(userID), got.AcknowledgedBy)
	assert.Equal(t, "9.5", got.Metadata["temperature_c"])
}

func TestPostgresFindByIDNotFound(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT (.+) FROM alerts`).WillReturnError(sql.ErrNoRows)

	_, err := store.FindByID(context.Background(), "KBTH", id.AlertID(uuid.New()))
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestPostgresListOpenOnly(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`WHERE facility_code = \$1 AND acknowledged_at IS NULL ORDER BY created_at DESC`).
		WithArgs("KBTH").
		WillReturnRows(sqlmock.NewRows(alertColumns))

	list, err := store.List(context.Background(), "KBTH", true)
	require.NoError(t, err)
	assert.Empty(t, list)
	require.NoError(t, mock.ExpectationsWereMet())
}
