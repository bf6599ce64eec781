package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hotelops/roster/internal/export"
	"github.com/hotelops/roster/internal/middleware"
	"github.com/hotelops/roster/internal/repository"
	"github.com/hotelops/roster/internal/rulesengine"
	"github.com/hotelops/roster/internal/scheduler"
)

type SchedulerHandler struct {
	scheduleRepo *repository.ScheduleRepository
	forecastRepo *repository.ForecastRunRepository
	demandRepo   *repository.DemandRepository
	schedulerEng *scheduler.Engine
	rules        *rulesengine.Engine
}

func NewSchedulerHandler(scheduleRepo *repository.ScheduleRepository, forecastRepo *repository.ForecastRunRepository, demandRepo *repository.DemandRepository, schedulerEng *scheduler.Engine, rules *rulesengine.Engine) *SchedulerHandler {
	return &SchedulerHandler{scheduleRepo: scheduleRepo, forecastRepo: forecastRepo, demandRepo: demandRepo, schedulerEng: schedulerEng, rules: rules}
}

func (h *SchedulerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid schedule plan id")
		return
	}
	plan, err := h.scheduleRepo.GetPlanByID(r.Context(), id)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, plan)
}

type generatePlanRequest struct {
	WeekStart      time.Time `json:"week_start"`
	ForecastRunID  uuid.UUID `json:"forecast_run_id"`
	BaselinePlanID uuid.UUID `json:"baseline_plan_id,omitempty"`
}

func (h *SchedulerHandler) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	var req generatePlanRequest
	if err := middleware.DecodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	run, err := h.forecastRepo.GetByID(r.Context(), req.ForecastRunID)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	demandRows, err := h.demandRepo.ListByRun(r.Context(), req.ForecastRunID)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	plan, err := h.schedulerEng.GeneratePlan(r.Context(), req.WeekStart, run, demandRows)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, plan)
}

func (h *SchedulerHandler) GenerateAdjustment(w http.ResponseWriter, r *http.Request) {
	var req generatePlanRequest
	if err := middleware.DecodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	run, err := h.forecastRepo.GetByID(r.Context(), req.ForecastRunID)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	demandRows, err := h.demandRepo.ListByRun(r.Context(), req.ForecastRunID)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	plan, err := h.schedulerEng.GenerateAdjustment(r.Context(), req.WeekStart, run, demandRows, req.BaselinePlanID)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, plan)
}

func (h *SchedulerHandler) ValidateLegal(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid schedule plan id")
		return
	}
	plan, err := h.scheduleRepo.GetPlanByID(r.Context(), id)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	now := time.Now().UTC()
	constraints, err := h.rules.GetConstraints(r.Context(), plan.SectorID, now)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	entries, ok := h.schedulerEng.ValidateLegal(r.Context(), plan, constraints, now)
	respondJSON(w, http.StatusOK, map[string]any{"entries": entries, "passed": ok})
}

func (h *SchedulerHandler) ConvocationPreview(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid schedule plan id")
		return
	}
	plan, err := h.scheduleRepo.GetPlanByID(r.Context(), id)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	now := time.Now().UTC()
	constraints, err := h.rules.GetConstraints(r.Context(), plan.SectorID, now)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	preview := h.schedulerEng.ConvocationPreview(r.Context(), plan, constraints, now)
	respondJSON(w, http.StatusOK, preview)
}

type overrideHeadcountRequest struct {
	TargetDate  time.Time  `json:"target_date"`
	NewHeadcount int       `json:"new_headcount"`
	PerformedBy *uuid.UUID `json:"performed_by,omitempty"`
	Reason      string     `json:"reason,omitempty"`
}

// OverrideHeadcount removes unassigned slots to bring targetDate's headcount
// down to new_headcount, logging the change atomically with the removal.
func (h *SchedulerHandler) OverrideHeadcount(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid schedule plan id")
		return
	}
	var req overrideHeadcountRequest
	if err := middleware.DecodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	log, err := h.schedulerEng.OverrideHeadcount(r.Context(), id, req.TargetDate, req.NewHeadcount, req.PerformedBy, req.Reason)
	if err != nil {
		if errors.Is(err, repository.ErrHeadcountNotLower) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, log)
}

// ExportXLSX renders a schedule plan's shift slots as a downloadable
// workbook for offline review.
func (h *SchedulerHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid schedule plan id")
		return
	}
	plan, err := h.scheduleRepo.GetPlanByID(r.Context(), id)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	slots, err := h.scheduleRepo.ListSlotsByPlan(r.Context(), id)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	data, err := export.SchedulePlanWorkbook(plan, slots)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to render workbook")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="schedule-plan.xlsx"`)
	_, _ = w.Write(data)
}
