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

func TestFrontdeskRepository_IncrementAgg_AccumulatesCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewFrontdeskRepository(db)
	ctx := context.Background()

	sector := createTestSectorForEmployee(t, db)
	operationalDate := mustParseDate(t, "2026-03-10")

	for i := 0; i < 3; i++ {
		err := repo.IncrementAgg(ctx, sector.ID, operationalDate, model.Tuesday, 14, model.EventCheckin)
		require.NoError(t, err)
	}

	count, err := repo.CountByDateAndType(ctx, sector.ID, operationalDate, model.EventCheckin)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestFrontdeskRepository_IncrementAgg_SeparatesByHourAndType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewFrontdeskRepository(db)
	ctx := context.Background()

	sector := createTestSectorForEmployee(t, db)
	operationalDate := mustParseDate(t, "2026-03-10")

	require.NoError(t, repo.IncrementAgg(ctx, sector.ID, operationalDate, model.Tuesday, 10, model.EventCheckout))
	require.NoError(t, repo.IncrementAgg(ctx, sector.ID, operationalDate, model.Tuesday, 15, model.EventCheckin))

	checkoutCount, err := repo.CountByDateAndType(ctx, sector.ID, operationalDate, model.EventCheckout)
	require.NoError(t, err)
	assert.Equal(t, 1, checkoutCount)

	checkinCount, err := repo.CountByDateAndType(ctx, sector.ID, operationalDate, model.EventCheckin)
	require.NoError(t, err)
	assert.Equal(t, 1, checkinCount)
}

func TestFrontdeskRepository_CreateEvent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewFrontdeskRepository(db)
	ctx := context.Background()

	sector := createTestSectorForEmployee(t, db)
	eventTime := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	event := &model.FrontdeskEvent{
		SectorID:       sector.ID,
		EventType:      model.EventCheckin,
		AnchorDate:     mustParseDate(t, "2026-03-10"),
		EventTime:      &eventTime,
		SourceUploadID: "upload-1",
	}

	err := repo.CreateEvent(ctx, event)
	require.NoError(t, err)
	assert.NotEmpty(t, event.ID.String())
}
