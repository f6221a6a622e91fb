package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"vaxtrack/internal/platform/postgres"
	"vaxtrack/internal/schedule"
	"vaxtrack/internal/stock/models"
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

const selectLevels = `
	SELECT facility_code, vaccine_id, current_stock, total_received, total_administered,
	       total_wastage, reorder_level, batches, updated_at
	FROM stock_levels
`

// Adjust locks the row with SELECT ... FOR UPDATE, applies fn and upserts,
// all in one transaction. Concurrent adjusters of the same row serialise on
// the lock; a missing row is created by the upsert.
func (s *PostgresStore) Adjust(ctx context.Context, facility id.FacilityCode, vaccine schedule.VaccineID, fn AdjustFunc) (*models.StockLevel, error) {
	var out *models.StockLevel
	err := postgres.RunInTx(ctx, s.db, func(ctx context.Context) error {
		exec := txcontext.Exec(ctx, s.db)
		row := exec.QueryRowContext(ctx,
			selectLevels+` WHERE facility_code = $1 AND vaccine_id = $2 FOR UPDATE`,
			string(facility), string(vaccine))
		level, err := scanLevel(row)
		exists := true
		if errors.Is(err, sql.ErrNoRows) {
			exists = false
			level = models.NewStockLevel(facility, vaccine, 0, time.Time{})
		} else if err != nil {
			return fmt.Errorf("lock stock level: %w", err)
		}

		if err := fn(level, exists); err != nil {
			return err
		}

		batches, err := json.Marshal(level.Batches)
		if err != nil {
			return fmt.Errorf("marshal batches: %w", err)
		}
		_, err = exec.ExecContext(ctx, `
			INSERT INTO stock_levels (
				facility_code, vaccine_id, current_stock, total_received, total_administered,
				total_wastage, reorder_level, batches, updated_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (facility_code, vaccine_id) DO UPDATE SET
				current_stock = EXCLUDED.current_stock,
				total_received = EXCLUDED.total_received,
				total_administered = EXCLUDED.total_administered,
				total_wastage = EXCLUDED.total_wastage,
				reorder_level = EXCLUDED.reorder_level,
				batches = EXCLUDED.batches,
				updated_at = EXCLUDED.updated_at`,
			string(level.Facility), string(level.VaccineID), level.Current, level.TotalReceived,
			level.TotalAdministered, level.TotalWastage, level.ReorderLevel, batches, level.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("upsert stock level: %w", err)
		}
		out = level
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) Get(ctx context.Context, facility id.FacilityCode, vaccine schedule.VaccineID) (*models.StockLevel, error) {
	row := txcontext.Exec(ctx, s.db).QueryRowContext(ctx,
		selectLevels+` WHERE facility_code = $1 AND vaccine_id = $2`,
		string(facility), string(vaccine))
	level, err := scanLevel(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get stock level: %w", err)
	}
	return level, nil
}

func (s *PostgresStore) List(ctx context.Context, facility id.FacilityCode) ([]*models.StockLevel, error) {
	rows, err := s.db.QueryContext(ctx, selectLevels+` WHERE facility_code = $1 ORDER BY vaccine_id`, string(facility))
	if err != nil {
		return nil, fmt.Errorf("list stock levels: %w", err)
	}
	defer rows.Close()

	out := make([]*models.StockLevel, 0)
	for rows.Next() {
		level, err := scanLevel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		out = append(out, level)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stock levels: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLevel(row rowScanner) (*models.StockLevel, error) {
	var (
		l        models.StockLevel
		facility string
		vaccine  string
		batches  []byte
	)
	err := row.Scan(&facility, &vaccine, &l.Current, &l.TotalReceived, &l.TotalAdministered,
		&l.TotalWastage, &l.ReorderLevel, &batches, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	l.Facility = id.FacilityCode(facility)
	l.VaccineID = schedule.VaccineID(vaccine)
	l.Batches = []models.Batch{}
	if len(batches) > 0 {
		if err := json.Unmarshal(batches, &l.Batches); err != nil {
			return nil, fmt.Errorf("decode batches: %w", err)
		}
	}
	return &l, nil
}
