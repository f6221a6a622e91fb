// Package handler serves reports and the facility dashboard.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"vaxtrack/internal/report/models"
	"vaxtrack/internal/schedule"
	id "vaxtrack/pkg/domain"
	dErrors "vaxtrack/pkg/domain-errors"
	"vaxtrack/pkg/platform/httputil"
	"vaxtrack/pkg/requestcontext"
)

type Service interface {
	Generate(ctx context.Context, facility id.FacilityCode, user id.UserID, req models.Request) (*models.Report, error)
	Export(ctx context.Context, facility id.FacilityCode, user id.UserID, req models.Request) (*models.Report, []byte, error)
	Dashboard(ctx context.Context, facility id.FacilityCode) (*models.Dashboard, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/reports/{type}", h.HandleReport)
	r.Get("/dashboard", h.HandleDashboard)
}

// HandleReport serves a report as JSON or, with ?format=csv|xlsx, as a file
// download. Cold-chain reports accept since and until dates; until is
// inclusive.
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	req, err := parseRequest(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	facility := requestcontext.Facility(ctx)
	user := requestcontext.UserID(ctx)

	if req.Format == models.FormatJSON {
		report, err := h.service.Generate(ctx, facility, user, req)
		if err != nil {
			h.logError(ctx, "failed to generate report", err, "type", string(req.Type))
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, report)
		h.logDone(ctx, req, start)
		return
	}

	report, body, err := h.service.Export(ctx, facility, user, req)
	if err != nil {
		h.logError(ctx, "failed to export report", err, "type", string(req.Type), "format", string(req.Format))
		httputil.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", req.Format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.Filename(req.Format)+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.logger.WarnContext(ctx, "failed to write report body", "request_id", requestcontext.RequestID(ctx), "error", err)
		return
	}
	h.logDone(ctx, req, start)
}

func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	d, err := h.service.Dashboard(ctx, requestcontext.Facility(ctx))
	if err != nil {
		h.logError(ctx, "failed to build dashboard", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, d)
}

func parseRequest(r *http.Request) (models.Request, error) {
	typ, err := models.ParseType(chi.URLParam(r, "type"))
	if err != nil {
		return models.Request{}, err
	}
	q := r.URL.Query()
	format, err := models.ParseFormat(q.Get("format"))
	if err != nil {
		return models.Request{}, err
	}
	req := models.Request{Type: typ, Format: format}

	if v := q.Get("since"); v != "" {
		since, err := schedule.ParseDate(v)
		if err != nil {
			return req, dErrors.New(dErrors.CodeBadRequest, "since must be a YYYY-MM-DD date")
		}
		req.Since = since
	}
	if v := q.Get("until"); v != "" {
		until, err := schedule.ParseDate(v)
		if err != nil {
			return req, dErrors.New(dErrors.CodeBadRequest, "until must be a YYYY-MM-DD date")
		}
		req.Until = schedule.AddDays(until, 1)
	}
	return req, nil
}

func (h *Handler) logDone(ctx context.Context, req models.Request, start time.Time) {
	h.logger.InfoContext(ctx, "report served",
		"request_id", requestcontext.RequestID(ctx),
		"type", string(req.Type),
		"format", string(req.Format),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

func (h *Handler) logError(ctx context.Context, msg string, err error, args ...any) {
	args = append(args, "request_id", requestcontext.RequestID(ctx), "error", err)
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, msg, args...)
		return
	}
	h.logger.WarnContext(ctx, msg, args...)
}
