// Package handler serves facility stock levels and dose movements.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vaxtrack/internal/schedule"
	"vaxtrack/internal/stock/models"
	"vaxtrack/internal/stock/service"
	id "vaxtrack/pkg/domain"
	dErrors "vaxtrack/pkg/domain-errors"
	"vaxtrack/pkg/platform/httputil"
	"vaxtrack/pkg/requestcontext"
)

type Service interface {
	Receive(ctx context.Context, facility id.FacilityCode, user id.UserID, vaccine schedule.VaccineID, in service.ReceiveInput) (*models.StockLevel, error)
	RecordWastage(ctx context.Context, facility id.FacilityCode, user id.UserID, vaccine schedule.VaccineID, quantity int, reason string) (*models.StockLevel, error)
	SetReorderLevel(ctx context.Context, facility id.FacilityCode, user id.UserID, vaccine schedule.VaccineID, level int) (*models.StockLevel, error)
	Get(ctx context.Context, facility id.FacilityCode, vaccine schedule.VaccineID) (*models.StockLevel, error)
	List(ctx context.Context, facility id.FacilityCode) ([]*models.StockLevel, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/stock", h.HandleList)
	r.Get("/stock/{vaccine}", h.HandleGet)
	r.Post("/stock/{vaccine}/receipts", h.HandleReceive)
	r.Post("/stock/{vaccine}/wastage", h.HandleWastage)
	r.Put("/stock/{vaccine}/reorder-level", h.HandleSetReorderLevel)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, err := h.service.List(ctx, requestcontext.Facility(ctx))
	if err != nil {
		h.logError(ctx, "failed to list stock", err)
		httputil.WriteError(w, err)
		return
	}
	resp := StockListResponse{Stock: make([]StockLevelResponse, 0, len(list))}
	for _, l := range list {
		resp.Stock = append(resp.Stock, toStockLevelResponse(l))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vaccine := vaccineParam(r)
	level, err := h.service.Get(ctx, requestcontext.Facility(ctx), vaccine)
	if err != nil {
		h.logError(ctx, "failed to get stock level", err, "vaccine", vaccine.String())
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toStockLevelResponse(level))
}

func (h *Handler) HandleReceive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[ReceiveStockRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	vaccine := vaccineParam(r)
	level, err := h.service.Receive(ctx, requestcontext.Facility(ctx), requestcontext.UserID(ctx), vaccine, service.ReceiveInput{
		Batch:    req.BatchNumber,
		Expiry:   req.expiry,
		Quantity: req.Quantity,
	})
	if err != nil {
		h.logError(ctx, "failed to receive stock", err, "vaccine", vaccine.String())
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toStockLevelResponse(level))
}

func (h *Handler) HandleWastage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[WastageRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	vaccine := vaccineParam(r)
	level, err := h.service.RecordWastage(ctx, requestcontext.Facility(ctx), requestcontext.UserID(ctx), vaccine, req.Quantity, req.Reason)
	if err != nil {
		h.logError(ctx, "failed to record wastage", err, "vaccine", vaccine.String())
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toStockLevelResponse(level))
}

func (h *Handler) HandleSetReorderLevel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[ReorderLevelRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	vaccine := vaccineParam(r)
	level, err := h.service.SetReorderLevel(ctx, requestcontext.Facility(ctx), requestcontext.UserID(ctx), vaccine, *req.ReorderLevel)
	if err != nil {
		h.logError(ctx, "failed to set reorder level", err, "vaccine", vaccine.String())
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toStockLevelResponse(level))
}

func vaccineParam(r *http.Request) schedule.VaccineID {
	return schedule.VaccineID(chi.URLParam(r, "vaccine"))
}

func (h *Handler) logError(ctx context.Context, msg string, err error, args ...any) {
	args = append(args, "request_id", requestcontext.RequestID(ctx), "error", err)
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, msg, args...)
		return
	}
	h.logger.WarnContext(ctx, msg, args...)
}
