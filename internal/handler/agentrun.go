package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hotelops/roster/internal/repository"
)

// AgentRunHandler exposes the audit trail every engine writes to AgentRun
// as it executes — a trace viewer for the planning pipeline's decisions.
type AgentRunHandler struct {
	agentRunRepo *repository.AgentRunRepository
}

func NewAgentRunHandler(agentRunRepo *repository.AgentRunRepository) *AgentRunHandler {
	return &AgentRunHandler{agentRunRepo: agentRunRepo}
}

func (h *AgentRunHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid agent run id")
		return
	}
	run, err := h.agentRunRepo.GetByID(r.Context(), id)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, run)
}

func (h *AgentRunHandler) ListBySubject(w http.ResponseWriter, r *http.Request) {
	subjectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid subject id")
		return
	}
	runs, err := h.agentRunRepo.ListBySubject(r.Context(), subjectID)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, runs)
}
