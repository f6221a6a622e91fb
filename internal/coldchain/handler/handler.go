// Package handler serves cold chain readings and excursions.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"vaxtrack/internal/coldchain/models"
	"vaxtrack/internal/coldchain/service"
	"vaxtrack/internal/schedule"
	id "vaxtrack/pkg/domain"
	dErrors "vaxtrack/pkg/domain-errors"
	"vaxtrack/pkg/platform/httputil"
	"vaxtrack/pkg/requestcontext"
)

// defaultExcursionWindow applies when /coldchain/excursions has no since.
const defaultExcursionWindow = 30

type Service interface {
	Log(ctx context.Context, r *models.Reading) (*models.Reading, error)
	List(ctx context.Context, facility id.FacilityCode, in service.ListInput) ([]*models.Reading, error)
	Excursions(ctx context.Context, facility id.FacilityCode, since time.Time) ([]*models.Reading, error)
	Band() models.Band
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/coldchain/readings", h.HandleLog)
	r.Get("/coldchain/readings", h.HandleList)
	r.Get("/coldchain/excursions", h.HandleExcursions)
}

func (h *Handler) HandleLog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[LogReadingRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	reading := &models.Reading{
		Facility:     requestcontext.Facility(ctx),
		EquipmentID:  req.EquipmentID,
		TemperatureC: *req.TemperatureC,
		HumidityPct:  req.HumidityPct,
		RecordedBy:   requestcontext.UserID(ctx),
		Source:       models.Source(req.Source),
	}
	if req.RecordedAt != nil {
		reading.RecordedAt = req.RecordedAt.UTC()
	}

	saved, err := h.service.Log(ctx, reading)
	if err != nil {
		h.logError(ctx, "failed to log reading", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toReadingResponse(saved, h.service.Band()))
}

// HandleList filters by equipment_id, since and until (both YYYY-MM-DD,
// until inclusive) and limit.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	in := service.ListInput{EquipmentID: q.Get("equipment_id")}

	var err error
	if in.Since, err = dateParam(q.Get("since")); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "since must be YYYY-MM-DD"))
		return
	}
	until, err := dateParam(q.Get("until"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "until must be YYYY-MM-DD"))
		return
	}
	if !until.IsZero() {
		in.Until = schedule.AddDays(until, 1)
	}
	if v := q.Get("limit"); v != "" {
		if in.Limit, err = strconv.Atoi(v); err != nil || in.Limit < 0 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be a positive integer"))
			return
		}
	}

	list, err := h.service.List(ctx, requestcontext.Facility(ctx), in)
	if err != nil {
		h.logError(ctx, "failed to list readings", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toReadingListResponse(list, h.service.Band()))
}

func (h *Handler) HandleExcursions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	since, err := dateParam(r.URL.Query().Get("since"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "since must be YYYY-MM-DD"))
		return
	}
	if since.IsZero() {
		since = schedule.AddDays(requestcontext.Now(ctx), -defaultExcursionWindow)
	}

	list, err := h.service.Excursions(ctx, requestcontext.Facility(ctx), since)
	if err != nil {
		h.logError(ctx, "failed to list excursions", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toReadingListResponse(list, h.service.Band()))
}

func dateParam(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	return schedule.ParseDate(v)
}

func (h *Handler) logError(ctx context.Context, msg string, err error, args ...any) {
	args = append(args, "request_id", requestcontext.RequestID(ctx), "error", err)
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, msg, args...)
		return
	}
	h.logger.WarnContext(ctx, msg, args...)
}
