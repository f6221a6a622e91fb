package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"vaxtrack/internal/coldchain/models"
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

func (s *PostgresStore) Save(ctx context.Context, r *models.Reading) error {
	var recordedBy any
	if !r.RecordedBy.IsNil() {
		recordedBy = uuid.UUID(r.RecordedBy)
	}
	var humidity any
	if r.HumidityPct != nil {
		humidity = *r.HumidityPct
	}
	_, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, `
		INSERT INTO coldchain_readings (id, facility_code, equipment_id, temperature_c, humidity_pct, recorded_at, recorded_by, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.UUID(r.ID), string(r.Facility), r.EquipmentID, r.TemperatureC, humidity, r.RecordedAt, recordedBy, string(r.Source),
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert reading: %w", err)
	}
	return nil
}

// query accumulates positional arguments for a filtered reading query.
type query struct {
	where []string
	args  []any
}

func (q *query) arg(v any) string {
	q.args = append(q.args, v)
	return "$" + strconv.Itoa(len(q.args))
}

func filterQuery(facility id.FacilityCode, f Filter) *query {
	q := &query{where: []string{"facility_code = $1"}, args: []any{string(facility)}}
	if f.EquipmentID != "" {
		q.where = append(q.where, "equipment_id = "+q.arg(f.EquipmentID))
	}
	if !f.Since.IsZero() {
		q.where = append(q.where, "recorded_at >= "+q.arg(f.Since))
	}
	if !f.Until.IsZero() {
		q.where = append(q.where, "recorded_at < "+q.arg(f.Until))
	}
	if f.Outside != nil {
		q.where = append(q.where, fmt.Sprintf("(temperature_c < %s OR temperature_c > %s)", q.arg(f.Outside.MinC), q.arg(f.Outside.MaxC)))
	}
	return q
}

func (s *PostgresStore) List(ctx context.Context, facility id.FacilityCode, f Filter) ([]*models.Reading, error) {
	q := filterQuery(facility, f)
	query := `
		SELECT id, facility_code, equipment_id, temperature_c, humidity_pct, recorded_at, recorded_by, source
		FROM coldchain_readings
		WHERE ` + strings.Join(q.where, " AND ") + `
		ORDER BY recorded_at DESC`
	if f.Limit > 0 {
		query += " LIMIT " + q.arg(f.Limit)
	}
	args := q.args

	rows, err := txcontext.Exec(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list readings: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Reading, 0)
	for rows.Next() {
		var (
			r          models.Reading
			readingID  uuid.UUID
			facility   string
			humidity   sql.NullFloat64
			recordedBy uuid.NullUUID
			source     string
		)
		if err := rows.Scan(&readingID, &facility, &r.EquipmentID, &r.TemperatureC, &humidity, &r.RecordedAt, &recordedBy, &source); err != nil {
			return nil, fmt.Errorf("scan reading: %w", err)
		}
		r.ID = id.ReadingID(readingID)
		r.Facility = id.FacilityCode(facility)
		r.Source = models.Source(source)
		if humidity.Valid {
			h := humidity.Float64
			r.HumidityPct = &h
		}
		if recordedBy.Valid {
			r.RecordedBy = id.UserID(recordedBy.UUID)
		}
		out = append(out, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate readings: %w", err)
	}
	return out, nil
}

// Summarize aggregates every reading matching f. Limit is ignored.
func (s *PostgresStore) Summarize(ctx context.Context, facility id.FacilityCode, f Filter, band models.Band) (models.Summary, error) {
	q := filterQuery(facility, f)
	minArg, maxArg := q.arg(band.MinC), q.arg(band.MaxC)
	query := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE temperature_c < ` + minArg + ` OR temperature_c > ` + maxArg + `),
			MIN(temperature_c), MAX(temperature_c), AVG(temperature_c)
		FROM coldchain_readings
		WHERE ` + strings.Join(q.where, " AND ")

	var (
		sum         models.Summary
		lo, hi, avg sql.NullFloat64
	)
	err := txcontext.Exec(ctx, s.db).QueryRowContext(ctx, query, q.args...).
		Scan(&sum.Count, &sum.Excursions, &lo, &hi, &avg)
	if err != nil {
		return models.Summary{}, fmt.Errorf("summarize readings: %w", err)
	}
	sum.MinC, sum.MaxC, sum.AverageC = lo.Float64, hi.Float64, avg.Float64
	return sum, nil
}
