package handler

import (
	"errors"
	"net/http"

	"github.com/hotelops/roster/internal/middleware"
	"github.com/hotelops/roster/internal/model"
	"github.com/hotelops/roster/internal/repository"
)

// DatalakeHandler accepts already-normalized occupancy and front-desk
// records from the upstream ingestion pipeline and folds them into the
// Data-Lake Store's projections.
type DatalakeHandler struct {
	occupancyRepo *repository.OccupancyRepository
	frontdeskRepo *repository.FrontdeskRepository
}

func NewDatalakeHandler(occupancyRepo *repository.OccupancyRepository, frontdeskRepo *repository.FrontdeskRepository) *DatalakeHandler {
	return &DatalakeHandler{occupancyRepo: occupancyRepo, frontdeskRepo: frontdeskRepo}
}

func (h *DatalakeHandler) IngestOccupancy(w http.ResponseWriter, r *http.Request) {
	var snap model.OccupancySnapshot
	if err := middleware.DecodeJSONBody(r, &snap); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := h.occupancyRepo.Ingest(r.Context(), &snap)
	if errors.Is(err, repository.ErrOccupancySnapshotExists) {
		respondJSON(w, http.StatusOK, result)
		return
	}
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

func (h *DatalakeHandler) IngestFrontdeskEvent(w http.ResponseWriter, r *http.Request) {
	var event model.FrontdeskEvent
	if err := middleware.DecodeJSONBody(r, &event); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.frontdeskRepo.CreateEvent(r.Context(), &event); err != nil {
		respondEngineError(w, err)
		return
	}

	operationalDate := event.AnchorDate
	weekday := model.WeekdayFromGoWeekday(int(operationalDate.Weekday()))
	hourTimeline := 0
	if event.EventTime != nil {
		hourTimeline = model.HourTimelineFromEventTime(event.EventType, event.AnchorDate, *event.EventTime)
	}
	if err := h.frontdeskRepo.IncrementAgg(r.Context(), event.SectorID, operationalDate, weekday, hourTimeline, event.EventType); err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, event)
}
