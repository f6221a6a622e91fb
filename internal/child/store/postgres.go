package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"vaxtrack/internal/child/models"
	"vaxtrack/internal/schedule"
	id "vaxtrack/pkg/domain"
	"vaxtrack/pkg/platform/sentinel"
	txcontext "vaxtrack/pkg/platform/tx"
)

const uniqueViolation = "23505"

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// details holds the fields that are never filtered on.
type details struct {
	BirthWeightKg        *float64       `json:"birth_weight_kg,omitempty"`
	GuardianRelationship string         `json:"guardian_relationship,omitempty"`
	Address              models.Address `json:"address"`
	Allergies            []string       `json:"allergies,omitempty"`
	Notes                string         `json:"notes,omitempty"`
}

// NextSequence bumps the facility's counter for the year in a single upsert.
func (s *PostgresStore) NextSequence(ctx context.Context, facility id.FacilityCode, year int) (int, error) {
	var next int
	err := txcontext.Exec(ctx, s.db).QueryRowContext(ctx, `
		INSERT INTO child_sequences (facility_code, year, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (facility_code, year) DO UPDATE SET last_value = child_sequences.last_value + 1
		RETURNING last_value`,
		string(facility), year,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next child sequence: %w", err)
	}
	return next, nil
}

func (s *PostgresStore) Create(ctx context.Context, c *models.Child) error {
	detailsJSON, scheduleJSON, err := encode(c)
	if err != nil {
		return err
	}
	_, err = txcontext.Exec(ctx, s.db).ExecContext(ctx, `
		INSERT INTO children (
			id, facility_code, first_name, last_name, date_of_birth, gender,
			guardian_name, guardian_phone, status, details, schedule,
			registered_by, registered_at, updated_at, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		string(c.ID), string(c.Facility), c.FirstName, c.LastName, schedule.Day(c.DateOfBirth), string(c.Gender),
		c.Guardian.Name, c.Guardian.Phone, string(c.Status), detailsJSON, scheduleJSON,
		nullableUser(c.RegisteredBy), c.RegisteredAt, c.UpdatedAt, c.Version,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("child %s: %w", c.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert child: %w", err)
	}
	return nil
}

// Update writes the child only if the stored version still equals
// expectedVersion.
func (s *PostgresStore) Update(ctx context.Context, c *models.Child, expectedVersion int) error {
	detailsJSON, scheduleJSON, err := encode(c)
	if err != nil {
		return err
	}
	exec := txcontext.Exec(ctx, s.db)
	res, err := exec.ExecContext(ctx, `
		UPDATE children SET
			first_name = $3, last_name = $4, gender = $5, guardian_name = $6, guardian_phone = $7,
			status = $8, details = $9, schedule = $10, updated_at = $11, version = $12
		WHERE id = $1 AND version = $2`,
		string(c.ID), expectedVersion,
		c.FirstName, c.LastName, string(c.Gender), c.Guardian.Name, c.Guardian.Phone,
		string(c.Status), detailsJSON, scheduleJSON, c.UpdatedAt, c.Version,
	)
	if err != nil {
		return fmt.Errorf("update child: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update child: %w", err)
	}
	if n == 1 {
		return nil
	}

	var exists bool
	if err := exec.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM children WHERE id = $1)`, string(c.ID)).Scan(&exists); err != nil {
		return fmt.Errorf("check child: %w", err)
	}
	if !exists {
		return sentinel.ErrNotFound
	}
	return sentinel.ErrConflict
}

const selectChildren = `
	SELECT id, facility_code, first_name, last_name, date_of_birth, gender,
		guardian_name, guardian_phone, status, details, schedule,
		registered_by, registered_at, updated_at, version
	FROM children
`

func (s *PostgresStore) FindByID(ctx context.Context, childID id.ChildID) (*models.Child, error) {
	row := txcontext.Exec(ctx, s.db).QueryRowContext(ctx, selectChildren+` WHERE id = $1`, string(childID))
	c, err := scanChild(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find child: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) List(ctx context.Context, facility id.FacilityCode, f Filter) ([]*models.Child, error) {
	var (
		where = []string{"facility_code = $1"}
		args  = []any{string(facility)}
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if !f.RegisteredFrom.IsZero() {
		where = append(where, "registered_at >= "+arg(f.RegisteredFrom))
	}
	if !f.RegisteredTo.IsZero() {
		where = append(where, "registered_at < "+arg(f.RegisteredTo))
	}
	if f.Status != "" {
		where = append(where, "status = "+arg(string(f.Status)))
	}
	return s.query(ctx, selectChildren+` WHERE `+strings.Join(where, " AND ")+` ORDER BY registered_at, id`, args...)
}

func (s *PostgresStore) ListActive(ctx context.Context) ([]*models.Child, error) {
	return s.query(ctx, selectChildren+` WHERE status = $1 ORDER BY registered_at, id`, string(models.StatusActive))
}

func (s *PostgresStore) query(ctx context.Context, query string, args ...any) ([]*models.Child, error) {
	rows, err := txcontext.Exec(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Child, 0)
	for rows.Next() {
		c, err := scanChild(rows)
		if err != nil {
			return nil, fmt.Errorf("scan child: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate children: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanChild(row scanner) (*models.Child, error) {
	var (
		c            models.Child
		childID      string
		facility     string
		gender       string
		status       string
		detailsJSON  []byte
		scheduleJSON []byte
		registeredBy uuid.NullUUID
	)
	err := row.Scan(&childID, &facility, &c.FirstName, &c.LastName, &c.DateOfBirth, &gender,
		&c.Guardian.Name, &c.Guardian.Phone, &status, &detailsJSON, &scheduleJSON,
		&registeredBy, &c.RegisteredAt, &c.UpdatedAt, &c.Version)
	if err != nil {
		return nil, err
	}
	var d details
	if len(detailsJSON) > 0 {
		if err := json.Unmarshal(detailsJSON, &d); err != nil {
			return nil, fmt.Errorf("decode child details: %w", err)
		}
	}
	if err := json.Unmarshal(scheduleJSON, &c.Schedule); err != nil {
		return nil, fmt.Errorf("decode child schedule: %w", err)
	}
	c.ID = id.ChildID(childID)
	c.Facility = id.FacilityCode(facility)
	c.Gender = models.Gender(gender)
	c.Status = models.Status(status)
	c.DateOfBirth = schedule.Day(c.DateOfBirth)
	c.BirthWeightKg = d.BirthWeightKg
	c.Guardian.Relationship = d.GuardianRelationship
	c.Address = d.Address
	c.Allergies = d.Allergies
	c.Notes = d.Notes
	if registeredBy.Valid {
		c.RegisteredBy = id.UserID(registeredBy.UUID)
	}
	return &c, nil
}

func encode(c *models.Child) ([]byte, []byte, error) {
	detailsJSON, err := json.Marshal(details{
		BirthWeightKg:        c.BirthWeightKg,
		GuardianRelationship: c.Guardian.Relationship,
		Address:              c.Address,
		Allergies:            c.Allergies,
		Notes:                c.Notes,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("encode child details: %w", err)
	}
	scheduleJSON, err := json.Marshal(c.Schedule)
	if err != nil {
		return nil, nil, fmt.Errorf("encode child schedule: %w", err)
	}
	return detailsJSON, scheduleJSON, nil
}

func nullableUser(u id.UserID) any {
	if u.IsNil() {
		return nil
	}
	return uuid.UUID(u)
}
