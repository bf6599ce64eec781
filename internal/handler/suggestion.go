package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hotelops/roster/internal/middleware"
	"github.com/hotelops/roster/internal/model"
	"github.com/hotelops/roster/internal/repository"
	"github.com/hotelops/roster/internal/suggestion"
)

type SuggestionHandler struct {
	suggestionRepo *repository.SuggestionRepository
	suggestionEng  *suggestion.Engine
}

func NewSuggestionHandler(suggestionRepo *repository.SuggestionRepository, suggestionEng *suggestion.Engine) *SuggestionHandler {
	return &SuggestionHandler{suggestionRepo: suggestionRepo, suggestionEng: suggestionEng}
}

type compareToBaselineRequest struct {
	BaselinePlanID uuid.UUID `json:"baseline_plan_id"`
	LatestRunID    uuid.UUID `json:"latest_run_id"`
}

func (h *SuggestionHandler) CompareToBaseline(w http.ResponseWriter, r *http.Request) {
	var req compareToBaselineRequest
	if err := middleware.DecodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	suggestions, err := h.suggestionEng.CompareToBaseline(r.Context(), req.BaselinePlanID, req.LatestRunID, suggestion.DefaultThresholds())
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, suggestions)
}

type decideReplanRequest struct {
	Accept bool `json:"accept"`
}

func (h *SuggestionHandler) DecideReplan(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid replan suggestion id")
		return
	}
	var req decideReplanRequest
	if err := middleware.DecodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rs, err := h.suggestionEng.DecideReplan(r.Context(), id, req.Accept)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rs)
}

type emitDailySuggestionsRequest struct {
	SectorID      uuid.UUID                    `json:"sector_id"`
	Demand        model.HousekeepingDemandDaily `json:"demand"`
	LegalErrors   []string                     `json:"legal_errors"`
	LegalWarnings []string                     `json:"legal_warnings"`
}

func (h *SuggestionHandler) EmitDailySuggestions(w http.ResponseWriter, r *http.Request) {
	var req emitDailySuggestionsRequest
	if err := middleware.DecodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	suggestions, err := h.suggestionEng.EmitDailySuggestions(r.Context(), req.SectorID, req.Demand, req.LegalErrors, req.LegalWarnings)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, suggestions)
}

type decideDailySuggestionRequest struct {
	Status model.SuggestionStatus `json:"status"`
}

func (h *SuggestionHandler) DecideDailySuggestion(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid suggestion id")
		return
	}
	var req decideDailySuggestionRequest
	if err := middleware.DecodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s, err := h.suggestionEng.DecideDailySuggestion(r.Context(), id, req.Status)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s)
}

func (h *SuggestionHandler) ListOpenBySectorAndDate(w http.ResponseWriter, r *http.Request) {
	sectorID, err := uuid.Parse(r.URL.Query().Get("sector_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "sector_id query param required")
		return
	}
	dateStr := r.URL.Query().Get("date")
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}
	suggestions, err := h.suggestionRepo.ListOpenBySectorAndDate(r.Context(), sectorID, date)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, suggestions)
}

func (h *SuggestionHandler) ListReplanByBaseline(w http.ResponseWriter, r *http.Request) {
	baselinePlanID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid baseline plan id")
		return
	}
	suggestions, err := h.suggestionRepo.ListReplanByBaseline(r.Context(), baselinePlanID)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, suggestions)
}
