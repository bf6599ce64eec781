package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/hotelops/roster/internal/assignment"
	"github.com/hotelops/roster/internal/middleware"
)

type AssignmentHandler struct {
	assignmentEng *assignment.Engine
}

func NewAssignmentHandler(assignmentEng *assignment.Engine) *AssignmentHandler {
	return &AssignmentHandler{assignmentEng: assignmentEng}
}

type assignRequest struct {
	SectorID uuid.UUID `json:"sector_id"`
	PlanID   uuid.UUID `json:"plan_id"`
}

func (h *AssignmentHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := middleware.DecodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := h.assignmentEng.Assign(r.Context(), req.SectorID, req.PlanID, time.Now().UTC())
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
