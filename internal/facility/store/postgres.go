package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"vaxtrack/internal/facility/models"
	id "vaxtrack/pkg/domain"
	"vaxtrack/pkg/platform/sentinel"
	txcontext "vaxtrack/pkg/platform/tx"
)

// uniqueViolation is the Postgres SQLSTATE for a duplicate key.
const uniqueViolation = "23505"

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, f *models.Facility) error {
	query := `
		INSERT INTO facilities (code, name, district, region, status, default_reorder_level, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, query,
		string(f.Code), f.Name, f.District, f.Region, string(f.Status),
		f.DefaultReorderLevel, f.CreatedAt, f.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("facility %s: %w", f.Code, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert facility: %w", err)
	}
	return nil
}

const selectFacilities = `
	SELECT code, name, district, region, status, default_reorder_level, created_at, updated_at
	FROM facilities
`

func (s *PostgresStore) FindByCode(ctx context.Context, code id.FacilityCode) (*models.Facility, error) {
	row := txcontext.Exec(ctx, s.db).QueryRowContext(ctx, selectFacilities+` WHERE code = $1`, string(code))
	f, err := scanFacility(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find facility: %w", err)
	}
	return f, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Facility, error) {
	rows, err := s.db.QueryContext(ctx, selectFacilities+` ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list facilities: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Facility, 0)
	for rows.Next() {
		f, err := scanFacility(rows)
		if err != nil {
			return nil, fmt.Errorf("scan facility: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate facilities: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Update(ctx context.Context, f *models.Facility) error {
	query := `
		UPDATE facilities
		SET name = $2, district = $3, region = $4, status = $5, default_reorder_level = $6, updated_at = $7
		WHERE code = $1
	`
	res, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, query,
		string(f.Code), f.Name, f.District, f.Region, string(f.Status), f.DefaultReorderLevel, f.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update facility: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update facility: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFacility(row rowScanner) (*models.Facility, error) {
	var (
		f      models.Facility
		code   string
		status string
	)
	err := row.Scan(&code, &f.Name, &f.District, &f.Region, &status, &f.DefaultReorderLevel, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	f.Code = id.FacilityCode(code)
	f.Status = models.Status(status)
	return &f, nil
}
