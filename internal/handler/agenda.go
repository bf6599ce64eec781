package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hotelops/roster/internal/agenda"
	"github.com/hotelops/roster/internal/export"
	"github.com/hotelops/roster/internal/middleware"
	"github.com/hotelops/roster/internal/repository"
)

type AgendaHandler struct {
	agendaRepo *repository.AgendaRepository
	agendaEng  *agenda.Engine
}

func NewAgendaHandler(agendaRepo *repository.AgendaRepository, agendaEng *agenda.Engine) *AgendaHandler {
	return &AgendaHandler{agendaRepo: agendaRepo, agendaEng: agendaEng}
}

type generateAgendaRequest struct {
	SectorID      uuid.UUID `json:"sector_id"`
	PlanID        uuid.UUID `json:"plan_id"`
	ForecastRunID uuid.UUID `json:"forecast_run_id"`
	TargetDate    time.Time `json:"target_date"`
}

func (h *AgendaHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateAgendaRequest
	if err := middleware.DecodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	agendas, err := h.agendaEng.Generate(r.Context(), req.SectorID, req.PlanID, req.ForecastRunID, req.TargetDate)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, agendas)
}

func (h *AgendaHandler) ListByPlan(w http.ResponseWriter, r *http.Request) {
	planID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid schedule plan id")
		return
	}
	agendas, err := h.agendaRepo.ListByPlan(r.Context(), planID)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, agendas)
}

func (h *AgendaHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid agenda id")
		return
	}
	a, err := h.agendaRepo.GetByID(r.Context(), id)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, a)
}

// ExportPDF renders one employee's daily agenda as a downloadable PDF.
func (h *AgendaHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid agenda id")
		return
	}
	a, err := h.agendaRepo.GetByID(r.Context(), id)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	data, err := export.DailyAgendaPDF(a)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to render agenda pdf")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="daily-agenda.pdf"`)
	_, _ = w.Write(data)
}
