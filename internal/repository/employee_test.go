package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotelops/roster/internal/model"
	"github.com/hotelops/roster/internal/repository"
	"github.com/hotelops/roster/internal/testutil"
)

func mustParseDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func createTestSectorForEmployee(t *testing.T, db *repository.DB) *model.Sector {
	t.Helper()
	sectorRepo := repository.NewSectorRepository(db)
	sector := &model.Sector{
		Name: "Test Sector " + uuid.New().String()[:8],
		Slug: "test-" + uuid.New().String()[:8],
	}
	require.NoError(t, sectorRepo.Create(context.Background(), sector))
	return sector
}

func TestEmployeeRepository_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewEmployeeRepository(db)
	ctx := context.Background()

	sector := createTestSectorForEmployee(t, db)
	emp := &model.Employee{
		SectorID:        sector.ID,
		FirstName:       "John",
		LastName:        "Doe",
		ContractVariant: model.ContractPermanent,
		MaxWeeklyHours:  40,
		IsActive:        true,
	}

	err := repo.Create(ctx, emp)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, emp.ID)
}

func TestEmployeeRepository_GetByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewEmployeeRepository(db)
	ctx := context.Background()

	sector := createTestSectorForEmployee(t, db)
	emp := &model.Employee{
		SectorID:  sector.ID,
		FirstName: "John",
		LastName:  "Doe",
	}
	require.NoError(t, repo.Create(ctx, emp))

	found, err := repo.GetByID(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, emp.ID, found.ID)
	assert.Equal(t, "John", found.FirstName)
	assert.Equal(t, "Doe", found.LastName)
}

func TestEmployeeRepository_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewEmployeeRepository(db)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrEmployeeNotFound)
}

func TestEmployeeRepository_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewEmployeeRepository(db)
	ctx := context.Background()

	sector := createTestSectorForEmployee(t, db)
	emp := &model.Employee{
		SectorID:  sector.ID,
		FirstName: "John",
		LastName:  "Doe",
	}
	require.NoError(t, repo.Create(ctx, emp))

	emp.LastName = "Smith"
	err := repo.Update(ctx, emp)
	require.NoError(t, err)

	found, err := repo.GetByID(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Smith", found.LastName)
}

func TestEmployeeRepository_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewEmployeeRepository(db)
	ctx := context.Background()

	sector := createTestSectorForEmployee(t, db)
	emp := &model.Employee{
		SectorID:  sector.ID,
		FirstName: "John",
		LastName:  "Doe",
	}
	require.NoError(t, repo.Create(ctx, emp))

	err := repo.Delete(ctx, emp.ID)
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, emp.ID)
	assert.ErrorIs(t, err, repository.ErrEmployeeNotFound)
}

func TestEmployeeRepository_Delete_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewEmployeeRepository(db)
	ctx := context.Background()

	err := repo.Delete(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrEmployeeNotFound)
}

func TestEmployeeRepository_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewEmployeeRepository(db)
	ctx := context.Background()

	sector := createTestSectorForEmployee(t, db)
	for _, name := range []string{"Alice", "Bob", "Charlie"} {
		emp := &model.Employee{
			SectorID:  sector.ID,
			FirstName: name,
			LastName:  "Test",
			IsActive:  true,
		}
		require.NoError(t, repo.Create(ctx, emp))
	}

	filter := repository.EmployeeFilter{
		SectorID: sector.ID,
		Limit:    10,
	}
	employees, total, err := repo.List(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, employees, 3)
}

func TestEmployeeRepository_List_WithPagination(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewEmployeeRepository(db)
	ctx := context.Background()

	sector := createTestSectorForEmployee(t, db)
	for i := range 5 {
		emp := &model.Employee{
			SectorID:  sector.ID,
			FirstName: "Employee",
			LastName:  string(rune('A' + i)),
			IsActive:  true,
		}
		require.NoError(t, repo.Create(ctx, emp))
	}

	filter := repository.EmployeeFilter{
		SectorID: sector.ID,
		Limit:    2,
		Offset:   0,
	}
	employees, total, err := repo.List(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, employees, 2)

	filter.Offset = 2
	employees, total, err = repo.List(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, employees, 2)
}

func TestEmployeeRepository_List_FilterByActive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewEmployeeRepository(db)
	ctx := context.Background()

	sector := createTestSectorForEmployee(t, db)

	active := &model.Employee{
		SectorID:  sector.ID,
		FirstName: "Active",
		LastName:  "User",
		IsActive:  true,
	}
	require.NoError(t, repo.Create(ctx, active))

	inactive := &model.Employee{
		SectorID:  sector.ID,
		FirstName: "Inactive",
		LastName:  "User",
		IsActive:  true,
	}
	require.NoError(t, repo.Create(ctx, inactive))

	inactive.IsActive = false
	require.NoError(t, repo.Update(ctx, inactive))

	isActive := true
	filter := repository.EmployeeFilter{
		SectorID: sector.ID,
		IsActive: &isActive,
		Limit:    10,
	}
	employees, total, err := repo.List(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, employees, 1)
	assert.Equal(t, "Active", employees[0].FirstName)
}

func TestEmployeeRepository_List_Search(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewEmployeeRepository(db)
	ctx := context.Background()

	sector := createTestSectorForEmployee(t, db)
	emp1 := &model.Employee{
		SectorID:  sector.ID,
		FirstName: "John",
		LastName:  "Smith",
		IsActive:  true,
	}
	emp2 := &model.Employee{
		SectorID:  sector.ID,
		FirstName: "Jane",
		LastName:  "Doe",
		IsActive:  true,
	}
	require.NoError(t, repo.Create(ctx, emp1))
	require.NoError(t, repo.Create(ctx, emp2))

	filter := repository.EmployeeFilter{
		SectorID:    sector.ID,
		SearchQuery: "john",
		Limit:       10,
	}
	employees, total, err := repo.List(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, employees, 1)
	assert.Equal(t, "John", employees[0].FirstName)
}

func TestEmployeeRepository_List_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewEmployeeRepository(db)
	ctx := context.Background()

	sector := createTestSectorForEmployee(t, db)

	filter := repository.EmployeeFilter{
		SectorID: sector.ID,
		Limit:    10,
	}
	employees, total, err := repo.List(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, employees)
}

func TestEmployeeRepository_ListActiveBySector(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewEmployeeRepository(db)
	ctx := context.Background()

	sector := createTestSectorForEmployee(t, db)
	active := &model.Employee{SectorID: sector.ID, FirstName: "Active", LastName: "User", IsActive: true}
	require.NoError(t, repo.Create(ctx, active))
	inactive := &model.Employee{SectorID: sector.ID, FirstName: "Inactive", LastName: "User", IsActive: true}
	require.NoError(t, repo.Create(ctx, inactive))
	inactive.IsActive = false
	require.NoError(t, repo.Update(ctx, inactive))

	employees, err := repo.ListActiveBySector(ctx, sector.ID)
	require.NoError(t, err)
	assert.Len(t, employees, 1)
	assert.Equal(t, "Active", employees[0].FirstName)
}

func TestEmployee_UnavailableDateSet(t *testing.T) {
	emp := &model.Employee{UnavailableDates: []byte(`["2026-08-01","2026-08-02"]`)}
	unavailable, err := emp.IsUnavailableOn(mustParseDate(t, "2026-08-01"))
	require.NoError(t, err)
	assert.True(t, unavailable)

	unavailable, err = emp.IsUnavailableOn(mustParseDate(t, "2026-08-03"))
	require.NoError(t, err)
	assert.False(t, unavailable)
}
