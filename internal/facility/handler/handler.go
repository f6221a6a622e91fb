// Package handler exposes facility administration under /admin/facilities.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vaxtrack/internal/facility/models"
	"vaxtrack/internal/facility/service"
	id "vaxtrack/pkg/domain"
	dErrors "vaxtrack/pkg/domain-errors"
	"vaxtrack/pkg/platform/httputil"
	"vaxtrack/pkg/requestcontext"
)

type Service interface {
	Create(ctx context.Context, in service.CreateInput) (*models.Facility, error)
	Get(ctx context.Context, code id.FacilityCode) (*models.Facility, error)
	List(ctx context.Context) ([]*models.Facility, error)
	Deactivate(ctx context.Context, code id.FacilityCode) (*models.Facility, error)
	Reactivate(ctx context.Context, code id.FacilityCode) (*models.Facility, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Register mounts the admin routes. The caller applies the admin token guard.
func (h *Handler) Register(r chi.Router) {
	r.Post("/admin/facilities", h.HandleCreate)
	r.Get("/admin/facilities", h.HandleList)
	r.Get("/admin/facilities/{code}", h.HandleGet)
	r.Post("/admin/facilities/{code}/deactivate", h.HandleDeactivate)
	r.Post("/admin/facilities/{code}/reactivate", h.HandleReactivate)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateFacilityRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	f, err := h.service.Create(ctx, service.CreateInput{
		Code:                req.Code,
		Name:                req.Name,
		District:            req.District,
		Region:              req.Region,
		DefaultReorderLevel: req.DefaultReorderLevel,
	})
	if err != nil {
		h.logError(ctx, "failed to create facility", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toFacilityResponse(f))
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, err := h.service.List(ctx)
	if err != nil {
		h.logError(ctx, "failed to list facilities", err)
		httputil.WriteError(w, err)
		return
	}
	resp := FacilityListResponse{Facilities: make([]FacilityResponse, 0, len(list))}
	for _, f := range list {
		resp.Facilities = append(resp.Facilities, toFacilityResponse(f))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	h.withFacility(w, r, h.service.Get)
}

func (h *Handler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	h.withFacility(w, r, h.service.Deactivate)
}

func (h *Handler) HandleReactivate(w http.ResponseWriter, r *http.Request) {
	h.withFacility(w, r, h.service.Reactivate)
}

func (h *Handler) withFacility(w http.ResponseWriter, r *http.Request, op func(context.Context, id.FacilityCode) (*models.Facility, error)) {
	ctx := r.Context()
	code, err := id.ParseFacilityCode(chi.URLParam(r, "code"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, err.Error()))
		return
	}
	f, err := op(ctx, code)
	if err != nil {
		h.logError(ctx, "facility operation failed", err, "facility", code.String())
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toFacilityResponse(f))
}

func (h *Handler) logError(ctx context.Context, msg string, err error, args ...any) {
	args = append(args, "request_id", requestcontext.RequestID(ctx), "error", err)
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, msg, args...)
		return
	}
	h.logger.WarnContext(ctx, msg, args...)
}
