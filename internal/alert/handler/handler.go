// Package handler serves the facility alert inbox.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"vaxtrack/internal/alert/models"
	id "vaxtrack/pkg/domain"
	dErrors "vaxtrack/pkg/domain-errors"
	"vaxtrack/pkg/platform/httputil"
	"vaxtrack/pkg/requestcontext"
)

type Service interface {
	List(ctx context.Context, facility id.FacilityCode, openOnly bool) ([]*models.Alert, error)
	Acknowledge(ctx context.Context, facility id.FacilityCode, user id.UserID, alertID id.AlertID) (*models.Alert, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/alerts", h.HandleList)
	r.Post("/alerts/{id}/acknowledge", h.HandleAcknowledge)
}

type AlertResponse struct {
	ID             string            `json:"id"`
	Type           string            `json:"type"`
	Subject        string            `json:"subject"`
	Message        string            `json:"message"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	AcknowledgedAt *time.Time        `json:"acknowledged_at,omitempty"`
	AcknowledgedBy string            `json:"acknowledged_by,omitempty"`
}

type AlertListResponse struct {
	Alerts []AlertResponse `json:"alerts"`
}

func toAlertResponse(a *models.Alert) AlertResponse {
	resp := AlertResponse{
		ID:             a.ID.String(),
		Type:           string(a.Type),
		Subject:        a.Subject,
		Message:        a.Message,
		Metadata:       a.Metadata,
		CreatedAt:      a.CreatedAt,
		AcknowledgedAt: a.AcknowledgedAt,
	}
	if !a.AcknowledgedBy.IsNil() {
		resp.AcknowledgedBy = a.AcknowledgedBy.String()
	}
	return resp
}

// HandleList returns the facility's alerts; ?open=true limits to unacknowledged.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	openOnly := false
	if v := r.URL.Query().Get("open"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "open must be true or false"))
			return
		}
		openOnly = parsed
	}

	list, err := h.service.List(ctx, requestcontext.Facility(ctx), openOnly)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list alerts", "request_id", requestcontext.RequestID(ctx), "error", err)
		httputil.WriteError(w, err)
		return
	}
	resp := AlertListResponse{Alerts: make([]AlertResponse, 0, len(list))}
	for _, a := range list {
		resp.Alerts = append(resp.Alerts, toAlertResponse(a))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleAcknowledge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	alertID, err := id.ParseAlertID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid alert id"))
		return
	}

	a, err := h.service.Acknowledge(ctx, requestcontext.Facility(ctx), requestcontext.UserID(ctx), alertID)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to acknowledge alert",
			"request_id", requestcontext.RequestID(ctx),
			"alert_id", alertID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toAlertResponse(a))
}
