package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotelops/roster/internal/model"
	"github.com/hotelops/roster/internal/repository"
	"github.com/hotelops/roster/internal/testutil"
)

func createTestEmployee(t *testing.T, db *repository.DB, sectorID uuid.UUID) *model.Employee {
	t.Helper()
	repo := repository.NewEmployeeRepository(db)
	emp := &model.Employee{
		SectorID:        sectorID,
		FirstName:       "Jane",
		LastName:        "Doe",
		ContractVariant: model.ContractPermanent,
		MaxWeeklyHours:  40,
		IsActive:        true,
	}
	require.NoError(t, repo.Create(context.Background(), emp))
	return emp
}

func TestConvocationRepository_AcceptedInWeek(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewConvocationRepository(db)
	ctx := context.Background()

	sector := createTestSectorForEmployee(t, db)
	employee := createTestEmployee(t, db, sector.ID)

	inWeek := mustParseDate(t, "2026-03-10")
	outOfWeek := mustParseDate(t, "2026-03-20")
	now := time.Now().UTC()

	accepted := &model.Convocation{
		EmployeeID:       employee.ID,
		SectorID:         sector.ID,
		Date:             inWeek,
		StartTime:        480,
		EndTime:          960,
		TotalHours:       decimal.NewFromFloat(8),
		Status:           model.ConvocationAccepted,
		Origin:           model.OriginBaseline,
		SentAt:           now,
		ResponseDeadline: now.Add(24 * time.Hour),
	}
	require.NoError(t, repo.Create(ctx, accepted))

	pending := &model.Convocation{
		EmployeeID:       employee.ID,
		SectorID:         sector.ID,
		Date:             inWeek.AddDate(0, 0, 1),
		StartTime:        480,
		EndTime:          960,
		TotalHours:       decimal.NewFromFloat(8),
		Status:           model.ConvocationPending,
		Origin:           model.OriginBaseline,
		SentAt:           now,
		ResponseDeadline: now.Add(24 * time.Hour),
	}
	require.NoError(t, repo.Create(ctx, pending))

	outside := &model.Convocation{
		EmployeeID:       employee.ID,
		SectorID:         sector.ID,
		Date:             outOfWeek,
		StartTime:        480,
		EndTime:          960,
		TotalHours:       decimal.NewFromFloat(8),
		Status:           model.ConvocationAccepted,
		Origin:           model.OriginBaseline,
		SentAt:           now,
		ResponseDeadline: now.Add(24 * time.Hour),
	}
	require.NoError(t, repo.Create(ctx, outside))

	weekStart := mustParseDate(t, "2026-03-09")
	weekEnd := mustParseDate(t, "2026-03-15")
	results, err := repo.AcceptedInWeek(ctx, employee.ID, weekStart, weekEnd)
	require.NoError(t, err)
	if assert.Len(t, results, 1) {
		assert.Equal(t, accepted.ID, results[0].ID)
	}
}
