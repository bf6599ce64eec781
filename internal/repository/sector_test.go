package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotelops/roster/internal/model"
	"github.com/hotelops/roster/internal/repository"
	"github.com/hotelops/roster/internal/testutil"
)

func TestSectorRepository_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewSectorRepository(db)
	ctx := context.Background()

	sector := &model.Sector{
		Name:     "Test Sector",
		Slug:     "test-sector",
		IsActive: true,
	}

	err := repo.Create(ctx, sector)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, sector.ID)
}

func TestSectorRepository_GetByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewSectorRepository(db)
	ctx := context.Background()

	sector := &model.Sector{Name: "Test", Slug: "test"}
	require.NoError(t, repo.Create(ctx, sector))

	found, err := repo.GetByID(ctx, sector.ID)
	require.NoError(t, err)
	assert.Equal(t, sector.ID, found.ID)
	assert.Equal(t, sector.Name, found.Name)
}

func TestSectorRepository_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewSectorRepository(db)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrSectorNotFound)
}

func TestSectorRepository_GetBySlug(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewSectorRepository(db)
	ctx := context.Background()

	sector := &model.Sector{Name: "Test", Slug: "unique-slug"}
	require.NoError(t, repo.Create(ctx, sector))

	found, err := repo.GetBySlug(ctx, "unique-slug")
	require.NoError(t, err)
	assert.Equal(t, sector.ID, found.ID)
}

func TestSectorRepository_GetBySlug_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewSectorRepository(db)
	ctx := context.Background()

	_, err := repo.GetBySlug(ctx, "nonexistent-slug")
	assert.ErrorIs(t, err, repository.ErrSectorNotFound)
}

func TestSectorRepository_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewSectorRepository(db)
	ctx := context.Background()

	sector := &model.Sector{Name: "Original", Slug: "test"}
	require.NoError(t, repo.Create(ctx, sector))

	sector.Name = "Updated"
	err := repo.Update(ctx, sector)
	require.NoError(t, err)

	found, err := repo.GetByID(ctx, sector.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated", found.Name)
}

func TestSectorRepository_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewSectorRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Sector{Name: "Active", Slug: "active", IsActive: true}))

	inactive := &model.Sector{Name: "Inactive", Slug: "inactive"}
	require.NoError(t, repo.Create(ctx, inactive))
	inactive.IsActive = false
	require.NoError(t, repo.Update(ctx, inactive))

	all, err := repo.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, active, 1)
	assert.Equal(t, "Active", active[0].Name)
}

func TestSectorRepository_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewSectorRepository(db)
	ctx := context.Background()

	sector := &model.Sector{Name: "ToDelete", Slug: "delete"}
	require.NoError(t, repo.Create(ctx, sector))

	err := repo.Delete(ctx, sector.ID)
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, sector.ID)
	assert.ErrorIs(t, err, repository.ErrSectorNotFound)
}

func TestSectorRepository_Delete_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewSectorRepository(db)
	ctx := context.Background()

	err := repo.Delete(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrSectorNotFound)
}

func TestSectorRepository_OperationalParameters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewSectorRepository(db)
	ctx := context.Background()

	sector := &model.Sector{Name: "Test", Slug: "test-params"}
	require.NoError(t, repo.Create(ctx, sector))

	params := &model.SectorOperationalParameters{
		SectorID:   sector.ID,
		TotalRooms: 120,
	}
	require.NoError(t, repo.UpsertOperationalParameters(ctx, params))

	found, err := repo.GetOperationalParameters(ctx, sector.ID)
	require.NoError(t, err)
	assert.Equal(t, 120, found.TotalRooms)
}
