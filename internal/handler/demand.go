package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hotelops/roster/internal/demand"
	"github.com/hotelops/roster/internal/middleware"
	"github.com/hotelops/roster/internal/repository"
)

type DemandHandler struct {
	demandRepo *repository.DemandRepository
	demandEng  *demand.Engine
}

func NewDemandHandler(demandRepo *repository.DemandRepository, demandEng *demand.Engine) *DemandHandler {
	return &DemandHandler{demandRepo: demandRepo, demandEng: demandEng}
}

type computeDemandRequest struct {
	RunID uuid.UUID `json:"run_id"`
}

func (h *DemandHandler) Compute(w http.ResponseWriter, r *http.Request) {
	var req computeDemandRequest
	if err := middleware.DecodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rows, err := h.demandEng.Compute(r.Context(), req.RunID)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

func (h *DemandHandler) ListByRun(w http.ResponseWriter, r *http.Request) {
	runID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid forecast run id")
		return
	}
	rows, err := h.demandRepo.ListByRun(r.Context(), runID)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rows)
}
