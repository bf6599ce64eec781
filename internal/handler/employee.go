package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hotelops/roster/internal/middleware"
	"github.com/hotelops/roster/internal/model"
	"github.com/hotelops/roster/internal/repository"
)

type EmployeeHandler struct {
	employeeRepo *repository.EmployeeRepository
}

func NewEmployeeHandler(employeeRepo *repository.EmployeeRepository) *EmployeeHandler {
	return &EmployeeHandler{employeeRepo: employeeRepo}
}

func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter repository.EmployeeFilter
	if sectorIDStr := r.URL.Query().Get("sector_id"); sectorIDStr != "" {
		sectorID, err := uuid.Parse(sectorIDStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid sector_id")
			return
		}
		filter.SectorID = sectorID
	}
	if r.URL.Query().Get("active_only") == "true" {
		active := true
		filter.IsActive = &active
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	employees, total, err := h.employeeRepo.List(r.Context(), filter)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"employees": employees, "total": total})
}

func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid employee id")
		return
	}
	emp, err := h.employeeRepo.GetByID(r.Context(), id)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, emp)
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var emp model.Employee
	if err := middleware.DecodeJSONBody(r, &emp); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.employeeRepo.Create(r.Context(), &emp); err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, emp)
}

func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid employee id")
		return
	}
	emp, err := h.employeeRepo.GetByID(r.Context(), id)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	if err := middleware.DecodeJSONBody(r, emp); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	emp.ID = id
	if err := h.employeeRepo.Update(r.Context(), emp); err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, emp)
}

func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid employee id")
		return
	}
	if err := h.employeeRepo.Delete(r.Context(), id); err != nil {
		respondEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
