package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hotelops/roster/internal/middleware"
	"github.com/hotelops/roster/internal/model"
	"github.com/hotelops/roster/internal/repository"
)

type SectorHandler struct {
	sectorRepo *repository.SectorRepository
}

func NewSectorHandler(sectorRepo *repository.SectorRepository) *SectorHandler {
	return &SectorHandler{sectorRepo: sectorRepo}
}

func (h *SectorHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active_only") == "true"
	sectors, err := h.sectorRepo.List(r.Context(), activeOnly)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sectors)
}

func (h *SectorHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid sector id")
		return
	}
	sector, err := h.sectorRepo.GetByID(r.Context(), id)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sector)
}

func (h *SectorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var sector model.Sector
	if err := middleware.DecodeJSONBody(r, &sector); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.sectorRepo.Create(r.Context(), &sector); err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, sector)
}

func (h *SectorHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid sector id")
		return
	}
	sector, err := h.sectorRepo.GetByID(r.Context(), id)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	if err := middleware.DecodeJSONBody(r, sector); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sector.ID = id
	if err := h.sectorRepo.Update(r.Context(), sector); err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sector)
}

func (h *SectorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid sector id")
		return
	}
	if err := h.sectorRepo.Delete(r.Context(), id); err != nil {
		respondEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SectorHandler) GetOperationalParameters(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid sector id")
		return
	}
	params, err := h.sectorRepo.GetOperationalParameters(r.Context(), id)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, params)
}

func (h *SectorHandler) UpsertOperationalParameters(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid sector id")
		return
	}
	var params model.SectorOperationalParameters
	if err := middleware.DecodeJSONBody(r, &params); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	params.SectorID = id
	if err := h.sectorRepo.UpsertOperationalParameters(r.Context(), &params); err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, params)
}
