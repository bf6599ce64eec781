package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/hotelops/roster/internal/calendar"
	"github.com/hotelops/roster/internal/middleware"
	"github.com/hotelops/roster/internal/model"
	"github.com/hotelops/roster/internal/repository"
)

type CalendarHandler struct {
	calendarRepo *repository.CalendarRepository
	calendarEng  *calendar.Engine
}

func NewCalendarHandler(calendarRepo *repository.CalendarRepository, calendarEng *calendar.Engine) *CalendarHandler {
	return &CalendarHandler{calendarRepo: calendarRepo, calendarEng: calendarEng}
}

func (h *CalendarHandler) Create(w http.ResponseWriter, r *http.Request) {
	var event model.CalendarEvent
	if err := middleware.DecodeJSONBody(r, &event); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.calendarRepo.Create(r.Context(), &event); err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, event)
}

func (h *CalendarHandler) GetFactors(w http.ResponseWriter, r *http.Request) {
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
	factors, err := h.calendarEng.GetFactors(r.Context(), sectorID, date)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, factors)
}
