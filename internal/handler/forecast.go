package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hotelops/roster/internal/export"
	"github.com/hotelops/roster/internal/forecast"
	"github.com/hotelops/roster/internal/middleware"
	"github.com/hotelops/roster/internal/repository"
)

type ForecastHandler struct {
	forecastRepo *repository.ForecastRunRepository
	forecastEng  *forecast.Engine
}

func NewForecastHandler(forecastRepo *repository.ForecastRunRepository, forecastEng *forecast.Engine) *ForecastHandler {
	return &ForecastHandler{forecastRepo: forecastRepo, forecastEng: forecastEng}
}

func parseWeekStart(r *http.Request) (time.Time, error) {
	return time.Parse("2006-01-02", r.URL.Query().Get("week_start"))
}

func (h *ForecastHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid forecast run id")
		return
	}
	run, err := h.forecastRepo.GetByID(r.Context(), id)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, run)
}

func (h *ForecastHandler) CheckPrerequisites(w http.ResponseWriter, r *http.Request) {
	sectorID, err := uuid.Parse(r.URL.Query().Get("sector_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "sector_id query param required")
		return
	}
	weekStart, err := parseWeekStart(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid week_start, expected YYYY-MM-DD")
		return
	}
	verdict, err := h.forecastEng.CheckPrerequisites(r.Context(), sectorID, weekStart)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, verdict)
}

type createForecastRunRequest struct {
	SectorID  uuid.UUID `json:"sector_id"`
	WeekStart time.Time `json:"week_start"`
	AsOf      time.Time `json:"as_of"`
}

func (h *ForecastHandler) CreateBaseline(w http.ResponseWriter, r *http.Request) {
	var req createForecastRunRequest
	if err := middleware.DecodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}
	run, err := h.forecastEng.CreateBaseline(r.Context(), req.SectorID, req.WeekStart, asOf)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, run)
}

func (h *ForecastHandler) CreateDailyUpdate(w http.ResponseWriter, r *http.Request) {
	var req createForecastRunRequest
	if err := middleware.DecodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}
	run, err := h.forecastEng.CreateDailyUpdate(r.Context(), req.SectorID, req.WeekStart, asOf)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, run)
}

func (h *ForecastHandler) Lock(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid forecast run id")
		return
	}
	run, err := h.forecastEng.Lock(r.Context(), id)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, run)
}

func (h *ForecastHandler) Compare(w http.ResponseWriter, r *http.Request) {
	runAID, err := uuid.Parse(r.URL.Query().Get("run_a"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid run_a")
		return
	}
	runBID, err := uuid.Parse(r.URL.Query().Get("run_b"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid run_b")
		return
	}
	rows, avgDeltaPct, err := h.forecastEng.Compare(r.Context(), runAID, runBID)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"rows": rows, "avg_delta_pct": avgDeltaPct})
}

func (h *ForecastHandler) ForecastError(w http.ResponseWriter, r *http.Request) {
	runID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid forecast run id")
		return
	}
	today := time.Now().UTC()
	if todayStr := r.URL.Query().Get("today"); todayStr != "" {
		parsed, err := time.Parse("2006-01-02", todayStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid today, expected YYYY-MM-DD")
			return
		}
		today = parsed
	}
	result, err := h.forecastEng.ForecastError(r.Context(), runID, today)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *ForecastHandler) ExecutiveSummary(w http.ResponseWriter, r *http.Request) {
	baselineID, err := uuid.Parse(r.URL.Query().Get("baseline_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid baseline_id")
		return
	}
	latestDailyID, err := uuid.Parse(r.URL.Query().Get("latest_daily_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid latest_daily_id")
		return
	}
	threshold := forecast.DefaultExecutiveSummaryThresholdPP
	items, err := h.forecastEng.ExecutiveSummary(r.Context(), baselineID, latestDailyID, threshold)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// ExecutiveSummaryXLSX renders the same comparison as a downloadable
// workbook, one row per flagged day, for reviewers who want it offline.
func (h *ForecastHandler) ExecutiveSummaryXLSX(w http.ResponseWriter, r *http.Request) {
	baselineID, err := uuid.Parse(r.URL.Query().Get("baseline_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid baseline_id")
		return
	}
	latestDailyID, err := uuid.Parse(r.URL.Query().Get("latest_daily_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid latest_daily_id")
		return
	}
	items, err := h.forecastEng.ExecutiveSummary(r.Context(), baselineID, latestDailyID, forecast.DefaultExecutiveSummaryThresholdPP)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	data, err := export.ExecutiveSummaryWorkbook(items)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to render workbook")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="executive-summary.xlsx"`)
	_, _ = w.Write(data)
}
