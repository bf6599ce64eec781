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

func createTestSectorForUser(t *testing.T, db *repository.DB) *model.Sector {
	t.Helper()
	sectorRepo := repository.NewSectorRepository(db)
	sector := &model.Sector{
		Name: "Test Sector " + uuid.New().String()[:8],
		Slug: "test-" + uuid.New().String()[:8],
	}
	require.NoError(t, sectorRepo.Create(context.Background(), sector))
	return sector
}

func TestUserRepository_GetByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	sector := createTestSectorForUser(t, db)
	user := &model.User{
		SectorID:    &sector.ID,
		Email:       "test@example.com",
		DisplayName: "Test User",
		IsActive:    true,
	}
	require.NoError(t, repo.Create(ctx, user))

	found, err := repo.GetByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, user.Email, found.Email)
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	_, err := repo.GetByEmail(ctx, "nonexistent@example.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestUserRepository_ListBySector(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	sector := createTestSectorForUser(t, db)
	require.NoError(t, repo.Create(ctx, &model.User{
		SectorID:    &sector.ID,
		Email:       "user1@example.com",
		DisplayName: "User 1",
		IsActive:    true,
	}))
	require.NoError(t, repo.Create(ctx, &model.User{
		SectorID:    &sector.ID,
		Email:       "user2@example.com",
		DisplayName: "User 2",
		IsActive:    true,
	}))

	users, err := repo.ListBySector(ctx, sector.ID, true)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestUserRepository_ListBySector_ActiveOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	sector := createTestSectorForUser(t, db)
	require.NoError(t, repo.Create(ctx, &model.User{
		SectorID:    &sector.ID,
		Email:       "user1@example.com",
		DisplayName: "User 1",
		IsActive:    true,
	}))

	inactiveUser := &model.User{
		SectorID:    &sector.ID,
		Email:       "user2@example.com",
		DisplayName: "User 2",
	}
	require.NoError(t, repo.Create(ctx, inactiveUser))
	inactiveUser.IsActive = false
	require.NoError(t, repo.Update(ctx, inactiveUser))

	users, err := repo.ListBySector(ctx, sector.ID, false)
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.True(t, users[0].IsActive)
}

func TestUserRepository_ListBySector_Isolation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	sector1 := createTestSectorForUser(t, db)
	sector2 := createTestSectorForUser(t, db)

	require.NoError(t, repo.Create(ctx, &model.User{
		SectorID:    &sector1.ID,
		Email:       "user1@example.com",
		DisplayName: "Sector1 User",
		IsActive:    true,
	}))
	require.NoError(t, repo.Create(ctx, &model.User{
		SectorID:    &sector2.ID,
		Email:       "user2@example.com",
		DisplayName: "Sector2 User",
		IsActive:    true,
	}))

	users1, err := repo.ListBySector(ctx, sector1.ID, true)
	require.NoError(t, err)
	assert.Len(t, users1, 1)
	assert.Equal(t, "Sector1 User", users1[0].DisplayName)

	users2, err := repo.ListBySector(ctx, sector2.ID, true)
	require.NoError(t, err)
	assert.Len(t, users2, 1)
	assert.Equal(t, "Sector2 User", users2[0].DisplayName)
}

func TestUserRepository_ListBySector_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	sector := createTestSectorForUser(t, db)

	users, err := repo.ListBySector(ctx, sector.ID, true)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestUserRepository_GetWithRelations(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	sector := createTestSectorForUser(t, db)
	user := &model.User{
		SectorID:    &sector.ID,
		Email:       "test@example.com",
		DisplayName: "Test User",
		IsActive:    true,
	}
	require.NoError(t, repo.Create(ctx, user))

	found, err := repo.GetWithRelations(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)
	assert.NotNil(t, found.Sector)
	assert.Equal(t, sector.ID, found.Sector.ID)
}

func TestUserRepository_GetWithRelations_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	_, err := repo.GetWithRelations(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestUserRepository_UserHasAccess(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	sector := createTestSectorForUser(t, db)
	otherSector := createTestSectorForUser(t, db)

	sectorUser := &model.User{SectorID: &sector.ID, Email: "scoped@example.com", DisplayName: "Scoped", IsActive: true, Role: model.RoleUser}
	require.NoError(t, repo.Create(ctx, sectorUser))

	admin := &model.User{Email: "admin@example.com", DisplayName: "Admin", IsActive: true, Role: model.RoleAdmin}
	require.NoError(t, repo.Create(ctx, admin))

	ok, err := repo.UserHasAccess(ctx, sectorUser.ID, sector.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.UserHasAccess(ctx, sectorUser.ID, otherSector.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.UserHasAccess(ctx, admin.ID, otherSector.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}
