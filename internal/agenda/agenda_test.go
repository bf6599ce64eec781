package agenda_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotelops/roster/internal/agenda"
	"github.com/hotelops/roster/internal/model"
	"github.com/hotelops/roster/internal/repository"
	"github.com/hotelops/roster/internal/testutil"
)

type agendaFixture struct {
	sector     *model.Sector
	employees  []model.Employee
	plan       *model.HousekeepingSchedulePlan
	forecastID uuid.UUID
	targetDate time.Time
}

// newAgendaFixture creates a sector with n assigned shift slots of
// slotMinutes each (one employee per slot) on a single day, with no
// activities or demand yet seeded.
func newAgendaFixture(t *testing.T, db *repository.DB, n int, slotMinutes int) agendaFixture {
	t.Helper()
	ctx := context.Background()

	sectorRepo := repository.NewSectorRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)

	sector := &model.Sector{Name: "Agenda Sector " + uuid.New().String()[:8], Slug: "agenda-" + uuid.New().String()[:8], IsActive: true}
	require.NoError(t, sectorRepo.Create(ctx, sector))

	targetDate := mustParseDate(t, "2026-08-10")
	forecastID := uuid.New()
	plan := &model.HousekeepingSchedulePlan{
		SectorID:      sector.ID,
		ForecastRunID: forecastID,
		WeekStart:     targetDate,
		WeekEnd:       targetDate.AddDate(0, 0, 6),
		PlanKind:      model.PlanKindBaseline,
		Status:        model.PlanStatusFinal,
	}
	require.NoError(t, scheduleRepo.CreatePlan(ctx, plan))

	employees := make([]model.Employee, 0, n)
	var slots []model.ShiftSlot
	for i := 0; i < n; i++ {
		emp := model.Employee{
			SectorID:        sector.ID,
			FirstName:       "Worker",
			LastName:        uuid.New().String()[:8],
			ContractVariant: model.ContractPermanent,
			MaxWeeklyHours:  40,
			IsActive:        true,
		}
		require.NoError(t, employeeRepo.Create(ctx, &emp))
		employees = append(employees, emp)

		slots = append(slots, model.ShiftSlot{
			SchedulePlanID: plan.ID,
			TargetDate:     targetDate,
			TemplateName:   "morning",
			StartTime:      0,
			EndTime:        slotMinutes,
			HoursWorked:    decimal.NewFromFloat(float64(slotMinutes) / 60),
			EmployeeID:     &emp.ID,
			IsAssigned:     true,
		})
	}
	require.NoError(t, scheduleRepo.CreateSlots(ctx, slots))

	return agendaFixture{sector: sector, employees: employees, plan: plan, forecastID: forecastID, targetDate: targetDate}
}

func mustParseDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func newEngine(db *repository.DB) (*agenda.Engine, *repository.ActivityRepository, *repository.DemandRepository, *repository.AgentRunRepository) {
	activityRepo := repository.NewActivityRepository(db)
	demandRepo := repository.NewDemandRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	agendaRepo := repository.NewAgendaRepository(db)
	agentRunRepo := repository.NewAgentRunRepository(db)
	return agenda.NewEngine(activityRepo, demandRepo, scheduleRepo, agendaRepo, agentRunRepo), activityRepo, demandRepo, agentRunRepo
}

func TestAgendaEngine_Generate_DistributesWithinCapacity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	fx := newAgendaFixture(t, db, 2, 480)

	engine, activityRepo, demandRepo, _ := newEngine(db)

	require.NoError(t, activityRepo.Create(ctx, &model.GovernanceActivity{
		SectorID:       fx.sector.ID,
		Name:           "Room turnover",
		Code:           "turnover-" + uuid.New().String()[:8],
		AverageMinutes: 600,
		WorkloadDriver: model.DriverConstant,
		Classification: model.ClassificationCalculated,
		Difficulty:     1,
		IsActive:       true,
	}))

	require.NoError(t, demandRepo.SaveAll(ctx, []model.HousekeepingDemandDaily{{
		ForecastRunID:    fx.forecastID,
		TargetDate:       fx.targetDate,
		DeparturesSource: model.DemandSourceDefaultFallback,
		ArrivalsSource:   model.DemandSourceDefaultFallback,
		MinutesVariable:  decimal.Zero,
		MinutesConstant:  decimal.NewFromInt(600),
		MinutesRaw:       decimal.NewFromInt(600),
		MinutesBuffered:  decimal.NewFromInt(600),
		HoursProductive:  decimal.Zero,
		HoursTotal:       decimal.Zero,
		HeadcountRequired: decimal.Zero,
		HeadcountRounded: 2,
	}}))

	result, err := engine.Generate(ctx, fx.sector.ID, fx.plan.ID, fx.forecastID, fx.targetDate)
	require.NoError(t, err)
	require.Len(t, result, 2)

	total := 0
	for _, a := range result {
		assert.False(t, a.HasConflict)
		assert.Equal(t, model.AgendaStatusGenerated, a.Status)
		total += a.TotalMinutesAllocated
	}
	assert.Equal(t, 600, total)
}

func TestAgendaEngine_Generate_CapsAllocationAtCapacityAndRecordsDeficit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	fx := newAgendaFixture(t, db, 4, 400)

	engine, activityRepo, demandRepo, agentRunRepo := newEngine(db)

	require.NoError(t, activityRepo.Create(ctx, &model.GovernanceActivity{
		SectorID:       fx.sector.ID,
		Name:           "Deep clean",
		Code:           "deep-clean-" + uuid.New().String()[:8],
		AverageMinutes: 2000,
		WorkloadDriver: model.DriverConstant,
		Classification: model.ClassificationCalculated,
		Difficulty:     1,
		IsActive:       true,
	}))

	require.NoError(t, demandRepo.SaveAll(ctx, []model.HousekeepingDemandDaily{{
		ForecastRunID:    fx.forecastID,
		TargetDate:       fx.targetDate,
		DeparturesSource: model.DemandSourceDefaultFallback,
		ArrivalsSource:   model.DemandSourceDefaultFallback,
		MinutesVariable:  decimal.Zero,
		MinutesConstant:  decimal.NewFromInt(2000),
		MinutesRaw:       decimal.NewFromInt(2000),
		MinutesBuffered:  decimal.NewFromInt(2000),
		HoursProductive:  decimal.Zero,
		HoursTotal:       decimal.Zero,
		HeadcountRequired: decimal.Zero,
		HeadcountRounded: 4,
	}}))

	result, err := engine.Generate(ctx, fx.sector.ID, fx.plan.ID, fx.forecastID, fx.targetDate)
	require.NoError(t, err)
	require.Len(t, result, 4)

	total := 0
	for _, a := range result {
		assert.True(t, a.HasConflict)
		assert.Equal(t, model.AgendaStatusConflict, a.Status)
		assert.Equal(t, 400, a.TotalMinutesAllocated, "no agenda should be allocated past its available minutes")
		total += a.TotalMinutesAllocated
	}
	assert.Equal(t, 1600, total, "total allocation should stop at total capacity, not total demand")

	runs, err := agentRunRepo.ListBySubject(ctx, fx.plan.ID)
	require.NoError(t, err)
	require.NotEmpty(t, runs)
	run, err := agentRunRepo.GetByID(ctx, runs[0].ID)
	require.NoError(t, err)

	var deficitStep *model.AgentTraceStep
	for i := range run.Steps {
		var calc map[string]any
		if len(run.Steps[i].Calculations) == 0 {
			continue
		}
		require.NoError(t, json.Unmarshal(run.Steps[i].Calculations, &calc))
		if _, ok := calc["deficit_minutes"]; ok {
			deficitStep = &run.Steps[i]
			break
		}
	}
	require.NotNil(t, deficitStep, "expected a trace step recording the capacity deficit")

	var calc map[string]any
	require.NoError(t, json.Unmarshal(deficitStep.Calculations, &calc))
	assert.EqualValues(t, 400, calc["deficit_minutes"])
	assert.EqualValues(t, 2000, calc["total_demand_minutes"])
	assert.EqualValues(t, 1600, calc["total_capacity_minutes"])
}

func TestAgendaEngine_Generate_RegenerateReplacesPriorAgendas(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	fx := newAgendaFixture(t, db, 1, 480)

	engine, activityRepo, demandRepo, _ := newEngine(db)

	require.NoError(t, activityRepo.Create(ctx, &model.GovernanceActivity{
		SectorID:       fx.sector.ID,
		Name:           "Room turnover",
		Code:           "turnover-" + uuid.New().String()[:8],
		AverageMinutes: 100,
		WorkloadDriver: model.DriverConstant,
		Classification: model.ClassificationCalculated,
		Difficulty:     1,
		IsActive:       true,
	}))
	require.NoError(t, demandRepo.SaveAll(ctx, []model.HousekeepingDemandDaily{{
		ForecastRunID:    fx.forecastID,
		TargetDate:       fx.targetDate,
		DeparturesSource: model.DemandSourceDefaultFallback,
		ArrivalsSource:   model.DemandSourceDefaultFallback,
		MinutesVariable:  decimal.Zero,
		MinutesConstant:  decimal.NewFromInt(100),
		MinutesRaw:       decimal.NewFromInt(100),
		MinutesBuffered:  decimal.NewFromInt(100),
		HoursProductive:  decimal.Zero,
		HoursTotal:       decimal.Zero,
		HeadcountRequired: decimal.Zero,
		HeadcountRounded: 1,
	}}))

	first, err := engine.Generate(ctx, fx.sector.ID, fx.plan.ID, fx.forecastID, fx.targetDate)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := engine.Generate(ctx, fx.sector.ID, fx.plan.ID, fx.forecastID, fx.targetDate)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.NotEqual(t, first[0].ID, second[0].ID, "regeneration should delete and rebuild, not accumulate")

	agendaRepo := repository.NewAgendaRepository(db)
	all, err := agendaRepo.ListByPlan(ctx, fx.plan.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
