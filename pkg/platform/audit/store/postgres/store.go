package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	id "vaxtrack/pkg/domain"
	audit "vaxtrack/pkg/platform/audit"
	txcontext "vaxtrack/pkg/platform/tx"
)

// Store implements audit.Store and audit.Reader on the audit_events table.
// Appends join the caller's transaction when one is in the context, so an
// event commits or rolls back with the change it describes.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append inserts the event. Duplicate IDs are ignored, so replays from the
// queue are harmless.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	metadata, err := json.Marshal(event.Metadata)
	if err != nil {
		return fmt.Errorf("marshal audit metadata: %w", err)
	}
	if event.Metadata == nil {
		metadata = []byte("{}")
	}

	var userID *uuid.UUID
	if !event.UserID.IsNil() {
		u := uuid.UUID(event.UserID)
		userID = &u
	}

	query := `
		INSERT INTO audit_events (
			id, action, user_id, facility_code, resource_id,
			description, metadata, request_id, timestamp
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
	`
	_, err = txcontext.Exec(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(event.ID),
		string(event.Action),
		userID,
		string(event.Facility),
		event.ResourceID,
		event.Description,
		metadata,
		event.RequestID,
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

const selectEvents = `
	SELECT id, action, user_id, facility_code, resource_id,
	       description, metadata, request_id, timestamp
	FROM audit_events
`

// ListRecent returns the N most recent events.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	rows, err := s.db.QueryContext(ctx, selectEvents+` ORDER BY timestamp DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (s *Store) ListByFacility(ctx context.Context, facility id.FacilityCode, limit int) ([]audit.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		selectEvents+` WHERE facility_code = $1 ORDER BY timestamp DESC LIMIT $2`,
		string(facility), limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]audit.Event, error) {
	events := make([]audit.Event, 0)
	for rows.Next() {
		var (
			event    audit.Event
			eventID  uuid.UUID
			action   string
			facility string
			userID   *uuid.UUID
			metadata []byte
		)
		err := rows.Scan(
			&eventID,
			&action,
			&userID,
			&facility,
			&event.ResourceID,
			&event.Description,
			&metadata,
			&event.RequestID,
			&event.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.ID = id.EventID(eventID)
		event.Action = audit.Action(action)
		event.Facility = id.FacilityCode(facility)
		if userID != nil {
			event.UserID = id.UserID(*userID)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &event.Metadata); err != nil {
				return nil, fmt.Errorf("decode audit metadata: %w", err)
			}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
