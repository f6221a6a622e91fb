// Package handler serves the activity log to administrators.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	id "vaxtrack/pkg/domain"
	dErrors "vaxtrack/pkg/domain-errors"
	"vaxtrack/pkg/platform/audit"
	"vaxtrack/pkg/platform/httputil"
	"vaxtrack/pkg/requestcontext"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

// Lister reads events newest first.
type Lister interface {
	ListRecent(ctx context.Context, limit int) ([]audit.Event, error)
	ListByFacility(ctx context.Context, facility id.FacilityCode, limit int) ([]audit.Event, error)
}

type Handler struct {
	events Lister
	logger *slog.Logger
}

func New(events Lister, logger *slog.Logger) *Handler {
	return &Handler{events: events, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/audit", h.HandleList)
}

type EventListResponse struct {
	Events []audit.Event `json:"events"`
}

// HandleList accepts ?limit (default 100, at most 1000) and ?facility.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	limit := defaultLimit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be a positive integer"))
			return
		}
		limit = min(n, maxLimit)
	}

	var (
		events []audit.Event
		err    error
	)
	if v := q.Get("facility"); v != "" {
		facility, perr := id.ParseFacilityCode(v)
		if perr != nil {
			httputil.WriteError(w, perr)
			return
		}
		events, err = h.events.ListByFacility(ctx, facility, limit)
	} else {
		events, err = h.events.ListRecent(ctx, limit)
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list audit events", "request_id", requestcontext.RequestID(ctx), "error", err)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit events"))
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	httputil.WriteJSON(w, http.StatusOK, EventListResponse{Events: events})
}
