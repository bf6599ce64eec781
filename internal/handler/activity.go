package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hotelops/roster/internal/middleware"
	"github.com/hotelops/roster/internal/model"
	"github.com/hotelops/roster/internal/repository"
)

type ActivityHandler struct {
	activityRepo *repository.ActivityRepository
}

func NewActivityHandler(activityRepo *repository.ActivityRepository) *ActivityHandler {
	return &ActivityHandler{activityRepo: activityRepo}
}

func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	sectorID, err := uuid.Parse(r.URL.Query().Get("sector_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "sector_id query param required")
		return
	}
	if classification := r.URL.Query().Get("classification"); classification != "" {
		activities, err := h.activityRepo.ListByClassification(r.Context(), sectorID, model.ActivityClassification(classification))
		if err != nil {
			respondEngineError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, activities)
		return
	}
	activities, err := h.activityRepo.ListActiveBySector(r.Context(), sectorID)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, activities)
}

func (h *ActivityHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid activity id")
		return
	}
	a, err := h.activityRepo.GetByID(r.Context(), id)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, a)
}

func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var a model.GovernanceActivity
	if err := middleware.DecodeJSONBody(r, &a); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.activityRepo.Create(r.Context(), &a); err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, a)
}

func (h *ActivityHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid activity id")
		return
	}
	a, err := h.activityRepo.GetByID(r.Context(), id)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	if err := middleware.DecodeJSONBody(r, a); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	a.ID = id
	if err := h.activityRepo.Update(r.Context(), a); err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, a)
}

func (h *ActivityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid activity id")
		return
	}
	if err := h.activityRepo.Delete(r.Context(), id); err != nil {
		respondEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
