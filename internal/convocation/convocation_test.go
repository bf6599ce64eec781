package convocation_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotelops/roster/internal/calendar"
	"github.com/hotelops/roster/internal/convocation"
	"github.com/hotelops/roster/internal/model"
	"github.com/hotelops/roster/internal/repository"
	"github.com/hotelops/roster/internal/rulesengine"
	"github.com/hotelops/roster/internal/testutil"
)

func newConvocationEngine(db *repository.DB) (*convocation.Engine, *repository.EmployeeRepository, *repository.ConvocationRepository) {
	convocationRepo := repository.NewConvocationRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	ruleRepo := repository.NewRuleRepository(db)
	rules := rulesengine.NewEngine(ruleRepo)
	calendarRepo := repository.NewCalendarRepository(db)
	calendarEng := calendar.NewEngine(calendarRepo)
	return convocation.NewEngine(convocationRepo, employeeRepo, scheduleRepo, rules, calendarEng), employeeRepo, convocationRepo
}

func createEligibleEmployee(t *testing.T, employeeRepo *repository.EmployeeRepository, sectorID uuid.UUID, name string) model.Employee {
	t.Helper()
	emp := model.Employee{SectorID: sectorID, FirstName: name, LastName: "Worker", MaxWeeklyHours: 40, IsActive: true}
	require.NoError(t, employeeRepo.Create(context.Background(), &emp))
	return emp
}

func TestEngine_Create_PassesWithinLimits(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	sectorRepo := repository.NewSectorRepository(db)
	sector := &model.Sector{Name: "Convo Sector " + uuid.New().String()[:8], Slug: "convo-" + uuid.New().String()[:8], IsActive: true}
	require.NoError(t, sectorRepo.Create(ctx, sector))

	engine, employeeRepo, _ := newConvocationEngine(db)
	emp := createEligibleEmployee(t, employeeRepo, sector.ID, "Jane")

	now := time.Now().UTC()
	date := now.AddDate(0, 0, 10)
	convo, validation, err := engine.Create(ctx, convocation.CreateInput{
		EmployeeID: emp.ID,
		SectorID:   sector.ID,
		Date:       date,
		StartTime:  7 * 60,
		EndTime:    15 * 60,
		Origin:     model.OriginBaseline,
	}, now)
	require.NoError(t, err)
	assert.True(t, validation.Passed)
	require.NotNil(t, convo)
	assert.Equal(t, model.ConvocationPending, convo.Status)
}

func TestEngine_Create_FailsWhenDailyHoursExceedEmployeeCap(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	sectorRepo := repository.NewSectorRepository(db)
	sector := &model.Sector{Name: "Convo Sector " + uuid.New().String()[:8], Slug: "convo-" + uuid.New().String()[:8], IsActive: true}
	require.NoError(t, sectorRepo.Create(ctx, sector))

	engine, employeeRepo, _ := newConvocationEngine(db)
	emp := model.Employee{SectorID: sector.ID, FirstName: "Short", LastName: "Capped", MaxWeeklyHours: 4, IsActive: true}
	require.NoError(t, employeeRepo.Create(ctx, &emp))

	now := time.Now().UTC()
	date := now.AddDate(0, 0, 10)
	convo, validation, err := engine.Create(ctx, convocation.CreateInput{
		EmployeeID: emp.ID,
		SectorID:   sector.ID,
		Date:       date,
		StartTime:  7 * 60,
		EndTime:    15 * 60,
		Origin:     model.OriginBaseline,
	}, now)
	require.NoError(t, err)
	assert.False(t, validation.Passed)
	assert.NotEmpty(t, validation.Errors)
	assert.Nil(t, convo)
}

func TestEngine_Accept_TransitionsPendingToAccepted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	sectorRepo := repository.NewSectorRepository(db)
	sector := &model.Sector{Name: "Convo Sector " + uuid.New().String()[:8], Slug: "convo-" + uuid.New().String()[:8], IsActive: true}
	require.NoError(t, sectorRepo.Create(ctx, sector))

	engine, employeeRepo, _ := newConvocationEngine(db)
	emp := createEligibleEmployee(t, employeeRepo, sector.ID, "Jane")

	now := time.Now().UTC()
	convo, validation, err := engine.Create(ctx, convocation.CreateInput{
		EmployeeID: emp.ID,
		SectorID:   sector.ID,
		Date:       now.AddDate(0, 0, 10),
		StartTime:  7 * 60,
		EndTime:    15 * 60,
		Origin:     model.OriginBaseline,
	}, now)
	require.NoError(t, err)
	require.True(t, validation.Passed)

	accepted, err := engine.Accept(ctx, convo.ID, now)
	require.NoError(t, err)
	assert.Equal(t, model.ConvocationAccepted, accepted.Status)
	require.NotNil(t, accepted.RespondedAt)

	_, err = engine.Accept(ctx, convo.ID, now)
	assert.ErrorIs(t, err, convocation.ErrNotPending)
}

func TestEngine_Decline_ReschedulesToReplacement(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	sectorRepo := repository.NewSectorRepository(db)
	sector := &model.Sector{Name: "Convo Sector " + uuid.New().String()[:8], Slug: "convo-" + uuid.New().String()[:8], IsActive: true}
	require.NoError(t, sectorRepo.Create(ctx, sector))

	engine, employeeRepo, _ := newConvocationEngine(db)
	declining := createEligibleEmployee(t, employeeRepo, sector.ID, "Declining")
	replacement := createEligibleEmployee(t, employeeRepo, sector.ID, "Replacement")

	now := time.Now().UTC()
	date := now.AddDate(0, 0, 10)

	scheduleRepo := repository.NewScheduleRepository(db)
	plan := &model.HousekeepingSchedulePlan{
		SectorID:      sector.ID,
		ForecastRunID: uuid.New(),
		WeekStart:     date,
		WeekEnd:       date.AddDate(0, 0, 6),
		PlanKind:      model.PlanKindBaseline,
		Status:        model.PlanStatusFinal,
	}
	require.NoError(t, scheduleRepo.CreatePlan(ctx, plan))
	slot := model.ShiftSlot{
		SchedulePlanID: plan.ID,
		TargetDate:     date,
		TemplateName:   "morning",
		StartTime:      7 * 60,
		EndTime:        15 * 60,
	}
	require.NoError(t, scheduleRepo.CreateSlots(ctx, []model.ShiftSlot{slot}))
	slots, err := scheduleRepo.ListSlotsByPlanAndDate(ctx, plan.ID, date)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	shiftSlotID := slots[0].ID

	convo, validation, err := engine.Create(ctx, convocation.CreateInput{
		EmployeeID:  declining.ID,
		SectorID:    sector.ID,
		ShiftSlotID: &shiftSlotID,
		Date:        date,
		StartTime:   7 * 60,
		EndTime:     15 * 60,
		Origin:      model.OriginBaseline,
	}, now)
	require.NoError(t, err)
	require.True(t, validation.Passed)

	rebind := func(ctx context.Context, slotID uuid.UUID, excludeEmployeeID uuid.UUID) (*uuid.UUID, error) {
		assert.Equal(t, shiftSlotID, slotID)
		assert.Equal(t, declining.ID, excludeEmployeeID)
		id := replacement.ID
		return &id, nil
	}

	original, successor, err := engine.Decline(ctx, convo.ID, now, rebind)
	require.NoError(t, err)
	assert.Equal(t, model.ConvocationDeclined, original.Status)
	require.NotNil(t, successor)
	assert.Equal(t, replacement.ID, successor.EmployeeID)
	assert.Equal(t, model.OriginReschedule, successor.Origin)
	require.NotNil(t, successor.ReplacedConvocationID)
	assert.Equal(t, original.ID, *successor.ReplacedConvocationID)
}

func TestEngine_Decline_WithoutRebindCreatesNoSuccessor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	sectorRepo := repository.NewSectorRepository(db)
	sector := &model.Sector{Name: "Convo Sector " + uuid.New().String()[:8], Slug: "convo-" + uuid.New().String()[:8], IsActive: true}
	require.NoError(t, sectorRepo.Create(ctx, sector))

	engine, employeeRepo, _ := newConvocationEngine(db)
	emp := createEligibleEmployee(t, employeeRepo, sector.ID, "Jane")

	now := time.Now().UTC()
	convo, validation, err := engine.Create(ctx, convocation.CreateInput{
		EmployeeID: emp.ID,
		SectorID:   sector.ID,
		Date:       now.AddDate(0, 0, 10),
		StartTime:  7 * 60,
		EndTime:    15 * 60,
		Origin:     model.OriginBaseline,
	}, now)
	require.NoError(t, err)
	require.True(t, validation.Passed)

	original, successor, err := engine.Decline(ctx, convo.ID, now, nil)
	require.NoError(t, err)
	assert.Equal(t, model.ConvocationDeclined, original.Status)
	assert.Nil(t, successor)
}
