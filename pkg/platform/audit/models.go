// Package audit records the activity log: who did what, at which facility,
// to which resource.
package audit

import (
	"context"
	"errors"
	"time"

	id "vaxtrack/pkg/domain"
)

// Action names an activity log entry.
type Action string

const (
	ActionChildRegistered       Action = "child_registered"
	ActionVaccineAdministered   Action = "vaccine_administered"
	ActionScheduleEntryClosed   Action = "schedule_entry_closed"
	ActionScheduleRecomputed    Action = "schedule_recomputed"
	ActionStockReceived         Action = "stock_received"
	ActionStockConsumed         Action = "stock_consumed"
	ActionStockWasted           Action = "stock_wasted"
	ActionReorderLevelChanged   Action = "reorder_level_changed"
	ActionTemperatureLogged     Action = "temperature_logged"
	ActionAlertAcknowledged     Action = "alert_acknowledged"
	ActionReportGenerated       Action = "report_generated"
	ActionFacilityCreated       Action = "facility_created"
	ActionFacilityStatusChanged Action = "facility_status_changed"
)

// Event is one activity log entry. Keep it transport-agnostic so stores and
// sinks can fan out.
type Event struct {
	ID          id.EventID        `json:"id"`
	Action      Action            `json:"action"`
	UserID      id.UserID         `json:"user_id"`
	Facility    id.FacilityCode   `json:"facility,omitempty"`
	ResourceID  string            `json:"resource_id,omitempty"`
	Description string            `json:"description,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	RequestID   string            `json:"request_id,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}

// Store persists events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Reader serves the admin activity log.
type Reader interface {
	ListRecent(ctx context.Context, limit int) ([]Event, error)
	ListByFacility(ctx context.Context, facility id.FacilityCode, limit int) ([]Event, error)
}

// Fanout appends to every store and joins their errors. The first store is
// usually the queryable one and later ones are sinks.
type Fanout []Store

func (f Fanout) Append(ctx context.Context, event Event) error {
	var errs []error
	for _, s := range f {
		if err := s.Append(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
