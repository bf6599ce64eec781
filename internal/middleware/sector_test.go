package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotelops/roster/internal/middleware"
	"github.com/hotelops/roster/internal/model"
	"github.com/hotelops/roster/internal/repository"
	"github.com/hotelops/roster/internal/testutil"
)

func setupSectorMiddleware(t *testing.T) (*middleware.SectorMiddleware, *repository.SectorRepository) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewSectorRepository(db)
	mw := middleware.NewSectorMiddleware(repo, nil)
	return mw, repo
}

func TestSectorFromContext_Found(t *testing.T) {
	sectorID := uuid.New()
	ctx := context.WithValue(context.Background(), middleware.SectorContextKey, sectorID)

	got, ok := middleware.SectorFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, sectorID, got)
}

func TestSectorFromContext_NotFound(t *testing.T) {
	ctx := context.Background()

	_, ok := middleware.SectorFromContext(ctx)
	assert.False(t, ok)
}

func TestRequireSector_Success(t *testing.T) {
	mw, repo := setupSectorMiddleware(t)
	ctx := context.Background()

	sector := &model.Sector{Name: "Test Sector", Slug: "test-" + uuid.New().String()[:8], IsActive: true}
	require.NoError(t, repo.Create(ctx, sector))
	require.NoError(t, repo.UpsertOperationalParameters(ctx, &model.SectorOperationalParameters{SectorID: sector.ID, TotalRooms: 100}))

	handler := mw.RequireSector(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sectorID, ok := middleware.SectorFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, sector.ID, sectorID)
		params, ok := middleware.SectorParamsFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, 100, params.TotalRooms)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Sector-ID", sector.ID.String())
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequireSector_MissingOperationalParameters(t *testing.T) {
	mw, repo := setupSectorMiddleware(t)
	ctx := context.Background()

	sector := &model.Sector{Name: "Unconfigured Sector", Slug: "unconfigured-" + uuid.New().String()[:8], IsActive: true}
	require.NoError(t, repo.Create(ctx, sector))

	handler := mw.RequireSector(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Sector-ID", sector.ID.String())
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "operational parameters")
}

func TestRequireSector_MissingHeader(t *testing.T) {
	mw, _ := setupSectorMiddleware(t)

	handler := mw.RequireSector(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "sector ID required")
}

func TestRequireSector_InvalidUUID(t *testing.T) {
	mw, _ := setupSectorMiddleware(t)

	handler := mw.RequireSector(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Sector-ID", "not-a-uuid")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid sector ID")
}

func TestRequireSector_SectorNotFound(t *testing.T) {
	mw, _ := setupSectorMiddleware(t)

	handler := mw.RequireSector(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Sector-ID", uuid.New().String())
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "sector not found")
}

func TestRequireSector_InactiveSector(t *testing.T) {
	mw, repo := setupSectorMiddleware(t)
	ctx := context.Background()

	sector := &model.Sector{Name: "Inactive Sector", Slug: "inactive-" + uuid.New().String()[:8], IsActive: true}
	require.NoError(t, repo.Create(ctx, sector))
	sector.IsActive = false
	require.NoError(t, repo.Update(ctx, sector))

	handler := mw.RequireSector(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Sector-ID", sector.ID.String())
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "sector is inactive")
}

func TestOptionalSector_WithValidHeader(t *testing.T) {
	mw, repo := setupSectorMiddleware(t)
	ctx := context.Background()

	sector := &model.Sector{Name: "Test Sector", Slug: "test-" + uuid.New().String()[:8], IsActive: true}
	require.NoError(t, repo.Create(ctx, sector))

	handler := mw.OptionalSector(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sectorID, ok := middleware.SectorFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, sector.ID, sectorID)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Sector-ID", sector.ID.String())
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestOptionalSector_WithoutHeader(t *testing.T) {
	mw, _ := setupSectorMiddleware(t)

	handler := mw.OptionalSector(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := middleware.SectorFromContext(r.Context())
		assert.False(t, ok)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}
