package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"vaxtrack/internal/alert/models"
	id "vaxtrack/pkg/domain"
	"vaxtrack/pkg/platform/sentinel"
	txcontext "vaxtrack/pkg/platform/tx"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const selectAlerts = `
	SELECT id, facility_code, type, subject, message, metadata, created_at, acknowledged_at, acknowledged_by
	FROM alerts
`

// CreateIfNoneOpen inserts the alert unless an open one with the same
// facility, type and subject exists, in which case that one is returned.
// idx_alerts_open_key makes the check hold across concurrent writers: a
// losing insert is skipped and the winner's row is read back.
func (s *PostgresStore) CreateIfNoneOpen(ctx context.Context, a *models.Alert) (*models.Alert, bool, error) {
	exec := txcontext.Exec(ctx, s.db)
	existing, err := findOpen(ctx, exec, a)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("find open alert: %w", err)
	}

	metadata, err := json.Marshal(a.Metadata)
	if err != nil {
		return nil, false, fmt.Errorf("marshal alert metadata: %w", err)
	}
	var inserted uuid.UUID
	err = exec.QueryRowContext(ctx, `
		INSERT INTO alerts (id, facility_code, type, subject, message, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (facility_code, type, subject) WHERE acknowledged_at IS NULL DO NOTHING
		RETURNING id`,
		uuid.UUID(a.ID), string(a.Facility), string(a.Type), a.Subject, a.Message, metadata, a.CreatedAt,
	).Scan(&inserted)
	if err == nil {
		return a, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("insert alert: %w", err)
	}

	existing, err = findOpen(ctx, exec, a)
	if errors.Is(err, sql.ErrNoRows) {
		// The conflicting alert was acknowledged before we could read it.
		return nil, false, fmt.Errorf("insert alert: %w", sentinel.ErrConflict)
	}
	if err != nil {
		return nil, false, fmt.Errorf("find open alert: %w", err)
	}
	return existing, false, nil
}

func findOpen(ctx context.Context, exec txcontext.Executor, a *models.Alert) (*models.Alert, error) {
	row := exec.QueryRowContext(ctx, selectAlerts+`
		WHERE facility_code = $1 AND type = $2 AND subject = $3 AND acknowledged_at IS NULL
		ORDER BY created_at DESC LIMIT 1`,
		string(a.Facility), string(a.Type), a.Subject)
	return scanAlert(row)
}

func (s *PostgresStore) FindByID(ctx context.Context, facility id.FacilityCode, alertID id.AlertID) (*models.Alert, error) {
	row := txcontext.Exec(ctx, s.db).QueryRowContext(ctx,
		selectAlerts+` WHERE id = $1 AND facility_code = $2`,
		uuid.UUID(alertID), string(facility))
	a, err := scanAlert(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find alert: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) List(ctx context.Context, facility id.FacilityCode, openOnly bool) ([]*models.Alert, error) {
	query := selectAlerts + ` WHERE facility_code = $1`
	if openOnly {
		query += ` AND acknowledged_at IS NULL`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, string(facility))
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Alert, 0)
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alerts: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Update(ctx context.Context, a *models.Alert) error {
	var by *uuid.UUID
	if !a.AcknowledgedBy.IsNil() {
		u := uuid.UUID(a.AcknowledgedBy)
		by = &u
	}
	res, err := txcontext.Exec(ctx, s.db).ExecContext(ctx,
		`UPDATE alerts SET acknowledged_at = $2, acknowledged_by = $3 WHERE id = $1`,
		uuid.UUID(a.ID), a.AcknowledgedAt, by)
	if err != nil {
		return fmt.Errorf("update alert: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAlert(row rowScanner) (*models.Alert, error) {
	var (
		a        models.Alert
		alertID  uuid.UUID
		facility string
		typ      string
		metadata []byte
		ackAt    sql.NullTime
		ackBy    *uuid.UUID
	)
	if err := row.Scan(&alertID, &facility, &typ, &a.Subject, &a.Message, &metadata, &a.CreatedAt, &ackAt, &ackBy); err != nil {
		return nil, err
	}
	a.ID = id.AlertID(alertID)
	a.Facility = id.FacilityCode(facility)
	a.Type = models.Type(typ)
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &a.Metadata); err != nil {
			return nil, fmt.Errorf("decode alert metadata: %w", err)
		}
	}
	if ackAt.Valid {
		t := ackAt.Time
		a.AcknowledgedAt = &t
	}
	if ackBy != nil {
		a.AcknowledgedBy = id.UserID(*ackBy)
	}
	return &a, nil
}
