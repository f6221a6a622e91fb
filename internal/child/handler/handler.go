// Package handler serves child registration and schedule updates.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"vaxtrack/internal/child/models"
	"vaxtrack/internal/child/service"
	"vaxtrack/internal/schedule"
	id "vaxtrack/pkg/domain"
	dErrors "vaxtrack/pkg/domain-errors"
	"vaxtrack/pkg/platform/httputil"
	"vaxtrack/pkg/requestcontext"
)

type Service interface {
	Register(ctx context.Context, facility id.FacilityCode, user id.UserID, in service.RegisterInput) (*models.Child, error)
	Get(ctx context.Context, facility id.FacilityCode, childID id.ChildID) (*models.Child, error)
	List(ctx context.Context, facility id.FacilityCode, f service.ListFilter) ([]*models.Child, error)
	Administer(ctx context.Context, facility id.FacilityCode, user id.UserID, childID id.ChildID, in service.AdministerInput) (*models.Child, error)
	CloseEntry(ctx context.Context, facility id.FacilityCode, user id.UserID, childID id.ChildID, vaccine schedule.VaccineID, status schedule.Status, notes string) (*models.Child, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/children", h.HandleRegister)
	r.Get("/children", h.HandleList)
	r.Get("/children/{id}", h.HandleGet)
	r.Post("/children/{id}/administrations", h.HandleAdminister)
	r.Post("/children/{id}/schedule/{vaccine}/close", h.HandleCloseEntry)
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[RegisterChildRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	c, err := h.service.Register(ctx, requestcontext.Facility(ctx), requestcontext.UserID(ctx), service.RegisterInput{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		DateOfBirth:   req.dob,
		Gender:        models.Gender(req.Gender),
		BirthWeightKg: req.BirthWeightKg,
		Guardian: models.Guardian{
			Name:         req.Guardian.Name,
			Phone:        req.Guardian.Phone,
			Relationship: req.Guardian.Relationship,
		},
		Address: models.Address{
			Residence: req.Address.Residence,
			Village:   req.Address.Village,
			District:  req.Address.District,
		},
		Allergies: req.Allergies,
		Notes:     req.Notes,
	})
	if err != nil {
		h.logError(ctx, "failed to register child", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toChildResponse(c, requestcontext.Now(ctx)))
}

// HandleList accepts status, vaccine, registered_from and registered_to
// (inclusive dates).
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	f, err := parseListFilter(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	list, err := h.service.List(ctx, requestcontext.Facility(ctx), f)
	if err != nil {
		h.logError(ctx, "failed to list children", err)
		httputil.WriteError(w, err)
		return
	}
	resp := ChildListResponse{Children: make([]ChildSummaryResponse, 0, len(list)), Total: len(list)}
	for _, c := range list {
		resp.Children = append(resp.Children, toChildSummaryResponse(c))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	childID, err := id.ParseChildID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	c, err := h.service.Get(ctx, requestcontext.Facility(ctx), childID)
	if err != nil {
		h.logError(ctx, "failed to get child", err, "child_id", childID.String())
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toChildResponse(c, requestcontext.Now(ctx)))
}

func (h *Handler) HandleAdminister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	childID, err := id.ParseChildID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[AdministerRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	c, err := h.service.Administer(ctx, requestcontext.Facility(ctx), requestcontext.UserID(ctx), childID, service.AdministerInput{
		VaccineID:        schedule.VaccineID(req.VaccineID),
		AdministeredDate: req.given,
		Batch:            req.BatchNumber,
		Notes:            req.Notes,
	})
	if err != nil {
		h.logError(ctx, "failed to record administration", err, "child_id", childID.String(), "vaccine", req.VaccineID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toChildResponse(c, requestcontext.Now(ctx)))
}

func (h *Handler) HandleCloseEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	childID, err := id.ParseChildID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[CloseEntryRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	vaccine := schedule.VaccineID(chi.URLParam(r, "vaccine"))
	c, err := h.service.CloseEntry(ctx, requestcontext.Facility(ctx), requestcontext.UserID(ctx), childID, vaccine, schedule.Status(req.Status), req.Notes)
	if err != nil {
		h.logError(ctx, "failed to close schedule entry", err, "child_id", childID.String(), "vaccine", vaccine.String())
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toChildResponse(c, requestcontext.Now(ctx)))
}

func parseListFilter(r *http.Request) (service.ListFilter, error) {
	q := r.URL.Query()
	var f service.ListFilter
	if v := q.Get("status"); v != "" {
		status, err := schedule.ParseStatus(v)
		if err != nil {
			return f, dErrors.New(dErrors.CodeBadRequest, "unknown status")
		}
		f.Status = status
	}
	f.VaccineID = schedule.VaccineID(q.Get("vaccine"))

	from, err := parseOptionalDate(q.Get("registered_from"), "registered_from")
	if err != nil {
		return f, err
	}
	to, err := parseOptionalDate(q.Get("registered_to"), "registered_to")
	if err != nil {
		return f, err
	}
	f.RegisteredFrom = from
	if !to.IsZero() {
		f.RegisteredTo = schedule.AddDays(to, 1)
	}
	if !f.RegisteredFrom.IsZero() && !f.RegisteredTo.IsZero() && !f.RegisteredTo.After(f.RegisteredFrom) {
		return f, dErrors.New(dErrors.CodeBadRequest, "registered_to is before registered_from")
	}
	return f, nil
}

func parseOptionalDate(v, name string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := schedule.ParseDate(v)
	if err != nil {
		return time.Time{}, dErrors.New(dErrors.CodeBadRequest, name+" must be a YYYY-MM-DD date")
	}
	return t, nil
}

func (h *Handler) logError(ctx context.Context, msg string, err error, args ...any) {
	args = append(args, "request_id", requestcontext.RequestID(ctx), "error", err)
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, msg, args...)
		return
	}
	h.logger.WarnContext(ctx, msg, args...)
}
