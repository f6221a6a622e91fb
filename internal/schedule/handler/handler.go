// Package handler exposes the canonical vaccine table.
package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"vaxtrack/internal/schedule"
	"vaxtrack/pkg/platform/httputil"
)

type Catalog interface {
	Table() schedule.Table
}

type Handler struct {
	catalog Catalog
}

func New(catalog Catalog) *Handler {
	return &Handler{catalog: catalog}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/schedule/vaccines", h.HandleListVaccines)
}

type VaccineResponse struct {
	schedule.VaccineDefinition
	AgeLabel string `json:"age_label"`
}

type VaccineListResponse struct {
	Vaccines []VaccineResponse `json:"vaccines"`
}

func (h *Handler) HandleListVaccines(w http.ResponseWriter, _ *http.Request) {
	table := h.catalog.Table()
	resp := VaccineListResponse{Vaccines: make([]VaccineResponse, 0, len(table))}
	for _, def := range table {
		resp.Vaccines = append(resp.Vaccines, VaccineResponse{VaccineDefinition: def, AgeLabel: ageLabel(def.OffsetDays)})
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// ageLabel renders an offset the way clinic cards print it.
func ageLabel(days int) string {
	switch {
	case days == 0:
		return "At birth"
	case days < 180 && days%7 == 0:
		return strconv.Itoa(days/7) + " weeks"
	case days%30 == 0:
		return strconv.Itoa(days/30) + " months"
	case days == 365:
		return "12 months"
	default:
		return strconv.Itoa(days) + " days"
	}
}
