package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/hotelops/roster/internal/middleware"
	"github.com/hotelops/roster/internal/model"
	"github.com/hotelops/roster/internal/stats"
)

type StatsHandler struct {
	statsEng *stats.Engine
}

func NewStatsHandler(statsEng *stats.Engine) *StatsHandler {
	return &StatsHandler{statsEng: statsEng}
}

type updateWeekdayBiasRequest struct {
	SectorID uuid.UUID `json:"sector_id"`
	From     time.Time `json:"from"`
	To       time.Time `json:"to"`
	Alpha    float64   `json:"alpha"`
}

func (h *StatsHandler) UpdateWeekdayBias(w http.ResponseWriter, r *http.Request) {
	var req updateWeekdayBiasRequest
	if err := middleware.DecodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.statsEng.UpdateWeekdayBias(r.Context(), req.SectorID, req.From, req.To, req.Alpha); err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

type bootstrapWeekdayBiasRequest struct {
	SectorID uuid.UUID     `json:"sector_id"`
	Weekday  model.Weekday `json:"weekday"`
	BiasPP   float64       `json:"bias_pp"`
}

func (h *StatsHandler) BootstrapWeekdayBias(w http.ResponseWriter, r *http.Request) {
	var req bootstrapWeekdayBiasRequest
	if err := middleware.DecodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.statsEng.BootstrapWeekdayBias(r.Context(), req.SectorID, req.Weekday, req.BiasPP); err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "bootstrapped"})
}

type updateHourlyDistributionRequest struct {
	SectorID  uuid.UUID                `json:"sector_id"`
	EventType model.FrontdeskEventType `json:"event_type"`
}

func (h *StatsHandler) UpdateHourlyDistribution(w http.ResponseWriter, r *http.Request) {
	var req updateHourlyDistributionRequest
	if err := middleware.DecodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.statsEng.UpdateHourlyDistribution(r.Context(), req.SectorID, req.EventType); err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}
