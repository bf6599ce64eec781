package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotelops/roster/internal/handler"
	"github.com/hotelops/roster/internal/model"
	"github.com/hotelops/roster/internal/repository"
	"github.com/hotelops/roster/internal/testutil"
)

func TestDatalakeHandler_IngestOccupancy(t *testing.T) {
	db := testutil.SetupTestDB(t)
	sectorRepo := repository.NewSectorRepository(db)
	occupancyRepo := repository.NewOccupancyRepository(db)
	frontdeskRepo := repository.NewFrontdeskRepository(db)
	h := handler.NewDatalakeHandler(occupancyRepo, frontdeskRepo)

	sector := &model.Sector{Name: "Test", Slug: "test-sector"}
	require.NoError(t, sectorRepo.Create(t.Context(), sector))

	body := map[string]any{
		"sector_id":        sector.ID,
		"target_date":      "2026-03-10T00:00:00Z",
		"generated_at":     "2026-03-09T10:00:00Z",
		"period_start":     "2026-03-10T00:00:00Z",
		"period_end":       "2026-03-10T00:00:00Z",
		"occupancy_pct":    82.5,
		"is_real":          true,
		"source_upload_id": "upload-1",
	}
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/datalake/occupancy", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	h.IngestOccupancy(rr, req)
	assert.Equal(t, http.StatusCreated, rr.Code)

	// Re-posting the identical idempotency key reports success without
	// creating a second row.
	req2 := httptest.NewRequest(http.MethodPost, "/datalake/occupancy", bytes.NewReader(payload))
	req2.Header.Set("Content-Type", "application/json")
	rr2 := httptest.NewRecorder()
	h.IngestOccupancy(rr2, req2)
	assert.Equal(t, http.StatusOK, rr2.Code)
}

func TestDatalakeHandler_IngestOccupancy_InvalidBody(t *testing.T) {
	db := testutil.SetupTestDB(t)
	occupancyRepo := repository.NewOccupancyRepository(db)
	frontdeskRepo := repository.NewFrontdeskRepository(db)
	h := handler.NewDatalakeHandler(occupancyRepo, frontdeskRepo)

	req := httptest.NewRequest(http.MethodPost, "/datalake/occupancy", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	h.IngestOccupancy(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDatalakeHandler_IngestFrontdeskEvent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	sectorRepo := repository.NewSectorRepository(db)
	occupancyRepo := repository.NewOccupancyRepository(db)
	frontdeskRepo := repository.NewFrontdeskRepository(db)
	h := handler.NewDatalakeHandler(occupancyRepo, frontdeskRepo)

	sector := &model.Sector{Name: "Test", Slug: "test-sector-2"}
	require.NoError(t, sectorRepo.Create(t.Context(), sector))

	eventTime := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	body := map[string]any{
		"sector_id":        sector.ID,
		"event_type":       "CHECKIN",
		"anchor_date":      "2026-03-10T00:00:00Z",
		"event_time":       eventTime.Format(time.RFC3339),
		"source_upload_id": "upload-2",
	}
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/datalake/frontdesk-events", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	h.IngestFrontdeskEvent(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	anchorDate := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	count, err := frontdeskRepo.CountByDateAndType(t.Context(), sector.ID, anchorDate, model.EventCheckin)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
