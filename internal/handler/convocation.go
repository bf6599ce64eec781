package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hotelops/roster/internal/assignment"
	"github.com/hotelops/roster/internal/convocation"
	"github.com/hotelops/roster/internal/export"
	"github.com/hotelops/roster/internal/middleware"
	"github.com/hotelops/roster/internal/repository"
)

type ConvocationHandler struct {
	convocationRepo *repository.ConvocationRepository
	scheduleRepo    *repository.ScheduleRepository
	convocationEng  *convocation.Engine
	assignmentEng   *assignment.Engine
}

func NewConvocationHandler(convocationRepo *repository.ConvocationRepository, scheduleRepo *repository.ScheduleRepository, convocationEng *convocation.Engine, assignmentEng *assignment.Engine) *ConvocationHandler {
	return &ConvocationHandler{convocationRepo: convocationRepo, scheduleRepo: scheduleRepo, convocationEng: convocationEng, assignmentEng: assignmentEng}
}

// rebind looks up the slot and sector behind slotID and delegates to the
// assignment engine's single-slot picker, excluding excludeEmployeeID.
func (h *ConvocationHandler) rebind(ctx context.Context, slotID uuid.UUID, excludeEmployeeID uuid.UUID) (*uuid.UUID, error) {
	slot, err := h.scheduleRepo.GetSlotByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	plan, err := h.scheduleRepo.GetPlanByID(ctx, slot.SchedulePlanID)
	if err != nil {
		return nil, err
	}
	return h.assignmentEng.AssignOne(ctx, plan.SectorID, *slot, excludeEmployeeID, time.Now().UTC())
}

type createConvocationRequest struct {
	convocation.CreateInput
}

func (h *ConvocationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createConvocationRequest
	if err := middleware.DecodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	convo, result, err := h.convocationEng.Create(r.Context(), req.CreateInput, time.Now().UTC())
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"convocation": convo, "validation": result})
}

func (h *ConvocationHandler) Accept(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid convocation id")
		return
	}
	convo, err := h.convocationEng.Accept(r.Context(), id, time.Now().UTC())
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, convo)
}

func (h *ConvocationHandler) Decline(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid convocation id")
		return
	}
	declined, successor, err := h.convocationEng.Decline(r.Context(), id, time.Now().UTC(), h.rebind)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"declined": declined, "successor": successor})
}

type cancelConvocationRequest struct {
	Reason string `json:"reason"`
}

func (h *ConvocationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid convocation id")
		return
	}
	var req cancelConvocationRequest
	if err := middleware.DecodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	convo, err := h.convocationEng.Cancel(r.Context(), id, req.Reason)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, convo)
}

func (h *ConvocationHandler) SweepExpired(w http.ResponseWriter, r *http.Request) {
	expired, err := h.convocationEng.SweepExpired(r.Context(), time.Now().UTC(), h.rebind)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, expired)
}

func (h *ConvocationHandler) ListBySlot(w http.ResponseWriter, r *http.Request) {
	slotID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid shift slot id")
		return
	}
	convos, err := h.convocationRepo.ListBySlot(r.Context(), slotID)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, convos)
}

func (h *ConvocationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid convocation id")
		return
	}
	convo, err := h.convocationRepo.GetByID(r.Context(), id)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, convo)
}

// ExportWeeklySummaryPDF renders one employee's accepted convocations over
// a week as a downloadable PDF summary.
func (h *ConvocationHandler) ExportWeeklySummaryPDF(w http.ResponseWriter, r *http.Request) {
	employeeID, err := uuid.Parse(r.URL.Query().Get("employee_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid employee_id")
		return
	}
	weekStart, err := time.Parse("2006-01-02", r.URL.Query().Get("week_start"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid week_start, expected YYYY-MM-DD")
		return
	}
	weekEnd := weekStart.AddDate(0, 0, 6)
	convos, err := h.convocationRepo.AcceptedInWeek(r.Context(), employeeID, weekStart, weekEnd)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	data, err := export.WeeklyConvocationSummaryPDF(nil, convos)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to render summary pdf")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="weekly-convocations.pdf"`)
	_, _ = w.Write(data)
}
