package audit

import (
	"context"
	"log/slog"

	"vaxtrack/pkg/attrs"
	id "vaxtrack/pkg/domain"
	"vaxtrack/pkg/requestcontext"
)

// Emitter is the publisher side services depend on.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}

// Reserved attribute keys lifted into Event fields instead of metadata.
const (
	AttrResourceID  = "resource_id"
	AttrDescription = "description"
)

// Record writes an audit line to the logger and emits the event. attrList is
// slog-style key/value pairs; resource_id and description become event fields
// and every other pair lands in Metadata. Either sink may be nil.
func Record(ctx context.Context, logger *slog.Logger, emitter Emitter, action Action, actor id.UserID, facility id.FacilityCode, attrList ...any) {
	requestID := requestcontext.RequestID(ctx)
	if logger != nil {
		args := append([]any{
			"event", string(action),
			"log_type", "audit",
			"facility", facility.String(),
			"user_id", actor.String(),
			"request_id", requestID,
		}, attrList...)
		logger.InfoContext(ctx, string(action), args...)
	}
	if emitter == nil {
		return
	}
	err := emitter.Emit(ctx, Event{
		Action:      action,
		UserID:      actor,
		Facility:    facility,
		ResourceID:  attrs.ExtractString(attrList, AttrResourceID),
		Description: attrs.ExtractString(attrList, AttrDescription),
		Metadata:    attrs.ToMap(attrList, AttrResourceID, AttrDescription),
		RequestID:   requestID,
	})
	if err != nil && logger != nil {
		logger.WarnContext(ctx, "failed to emit audit event", "event", string(action), "error", err)
	}
}
