package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotelops/roster/internal/model"
	"github.com/hotelops/roster/internal/repository"
	"github.com/hotelops/roster/internal/testutil"
)

func TestOccupancyRepository_Ingest_FoldsIntoLatest(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewOccupancyRepository(db)
	ctx := context.Background()

	sector := createTestSectorForEmployee(t, db)
	targetDate := mustParseDate(t, "2026-03-10")

	snap := &model.OccupancySnapshot{
		SectorID:       sector.ID,
		TargetDate:     targetDate,
		GeneratedAt:    time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC),
		PeriodStart:    targetDate,
		PeriodEnd:      targetDate,
		OccupancyPct:   75,
		IsReal:         false,
		IsForecast:     true,
		SourceUploadID: "upload-1",
	}
	result, err := repo.Ingest(ctx, snap)
	require.NoError(t, err)
	assert.Equal(t, snap.ID, result.ID)

	latest, err := repo.GetLatest(ctx, sector.ID, targetDate)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.False(t, latest.IsReal)
	require.NotNil(t, latest.OccupancyPct)
	assert.Equal(t, 75.0, *latest.OccupancyPct)
}

func TestOccupancyRepository_Ingest_DuplicateReturnsExistingRow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewOccupancyRepository(db)
	ctx := context.Background()

	sector := createTestSectorForEmployee(t, db)
	targetDate := mustParseDate(t, "2026-03-10")
	generatedAt := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)

	snap := &model.OccupancySnapshot{
		SectorID:       sector.ID,
		TargetDate:     targetDate,
		GeneratedAt:    generatedAt,
		PeriodStart:    targetDate,
		PeriodEnd:      targetDate,
		OccupancyPct:   75,
		IsReal:         true,
		SourceUploadID: "upload-2",
	}
	first, err := repo.Ingest(ctx, snap)
	require.NoError(t, err)

	dupe := &model.OccupancySnapshot{
		SectorID:       sector.ID,
		TargetDate:     targetDate,
		GeneratedAt:    generatedAt,
		PeriodStart:    targetDate,
		PeriodEnd:      targetDate,
		OccupancyPct:   90,
		IsReal:         true,
		SourceUploadID: "upload-2",
	}
	second, err := repo.Ingest(ctx, dupe)
	assert.ErrorIs(t, err, repository.ErrOccupancySnapshotExists)
	require.NotNil(t, second)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 75.0, second.OccupancyPct)
}

func TestOccupancyRepository_HasAnyHistorical(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewOccupancyRepository(db)
	ctx := context.Background()

	sector := createTestSectorForEmployee(t, db)

	has, err := repo.HasAnyHistorical(ctx, sector.ID)
	require.NoError(t, err)
	assert.False(t, has)

	targetDate := mustParseDate(t, "2026-03-10")
	_, err = repo.Ingest(ctx, &model.OccupancySnapshot{
		SectorID:       sector.ID,
		TargetDate:     targetDate,
		GeneratedAt:    time.Now().UTC(),
		PeriodStart:    targetDate,
		PeriodEnd:      targetDate,
		OccupancyPct:   50,
		IsReal:         true,
		SourceUploadID: "upload-3",
	})
	require.NoError(t, err)

	has, err = repo.HasAnyHistorical(ctx, sector.ID)
	require.NoError(t, err)
	assert.True(t, has)
}
