package assignment_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotelops/roster/internal/assignment"
	"github.com/hotelops/roster/internal/model"
	"github.com/hotelops/roster/internal/repository"
	"github.com/hotelops/roster/internal/rulesengine"
	"github.com/hotelops/roster/internal/testutil"
)

func newAssignmentEngine(db *repository.DB) (*assignment.Engine, *repository.EmployeeRepository, *repository.ScheduleRepository) {
	employeeRepo := repository.NewEmployeeRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	agentRunRepo := repository.NewAgentRunRepository(db)
	ruleRepo := repository.NewRuleRepository(db)
	rules := rulesengine.NewEngine(ruleRepo)
	return assignment.NewEngine(employeeRepo, scheduleRepo, agentRunRepo, rules), employeeRepo, scheduleRepo
}

func TestEngine_Assign_SkipsEmployeeOverMaxWeeklyHours(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	sectorRepo := repository.NewSectorRepository(db)
	sector := &model.Sector{Name: "Assign Sector " + uuid.New().String()[:8], Slug: "assign-" + uuid.New().String()[:8], IsActive: true}
	require.NoError(t, sectorRepo.Create(ctx, sector))

	engine, employeeRepo, scheduleRepo := newAssignmentEngine(db)

	overCap := model.Employee{SectorID: sector.ID, FirstName: "Over", LastName: "Cap", MaxWeeklyHours: 4, IsActive: true}
	require.NoError(t, employeeRepo.Create(ctx, &overCap))
	eligible := model.Employee{SectorID: sector.ID, FirstName: "Eligible", LastName: "Worker", MaxWeeklyHours: 40, IsActive: true}
	require.NoError(t, employeeRepo.Create(ctx, &eligible))

	targetDate := time.Now().UTC().AddDate(0, 0, 30)
	plan := &model.HousekeepingSchedulePlan{
		SectorID:      sector.ID,
		ForecastRunID: uuid.New(),
		WeekStart:     targetDate,
		WeekEnd:       targetDate.AddDate(0, 0, 6),
		PlanKind:      model.PlanKindBaseline,
		Status:        model.PlanStatusFinal,
	}
	require.NoError(t, scheduleRepo.CreatePlan(ctx, plan))
	require.NoError(t, scheduleRepo.CreateSlots(ctx, []model.ShiftSlot{{
		SchedulePlanID: plan.ID,
		TargetDate:     targetDate,
		TemplateName:   "morning",
		StartTime:      7 * 60,
		EndTime:        15 * 60,
		HoursWorked:    decimal.NewFromInt(8),
	}}))

	result, err := engine.Assign(ctx, sector.ID, plan.ID, time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, result.FilledSlots, 1)

	assigned := result.FilledSlots[0]
	require.NotNil(t, assigned.EmployeeID)
	assert.Equal(t, eligible.ID, *assigned.EmployeeID)

	foundViolation := false
	for _, v := range result.Violations {
		if v.EmployeeID == overCap.ID && v.RuleCode == "max_weekly_hours" {
			foundViolation = true
		}
	}
	assert.True(t, foundViolation, "the over-cap employee should be recorded as a gated violation")
}

func TestEngine_Assign_LeavesSlotUnassignedWhenNoCandidateEligible(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	sectorRepo := repository.NewSectorRepository(db)
	sector := &model.Sector{Name: "Assign Sector " + uuid.New().String()[:8], Slug: "assign-" + uuid.New().String()[:8], IsActive: true}
	require.NoError(t, sectorRepo.Create(ctx, sector))

	engine, employeeRepo, scheduleRepo := newAssignmentEngine(db)

	onlyCandidate := model.Employee{SectorID: sector.ID, FirstName: "Over", LastName: "Cap", MaxWeeklyHours: 4, IsActive: true}
	require.NoError(t, employeeRepo.Create(ctx, &onlyCandidate))

	targetDate := time.Now().UTC().AddDate(0, 0, 30)
	plan := &model.HousekeepingSchedulePlan{
		SectorID:      sector.ID,
		ForecastRunID: uuid.New(),
		WeekStart:     targetDate,
		WeekEnd:       targetDate.AddDate(0, 0, 6),
		PlanKind:      model.PlanKindBaseline,
		Status:        model.PlanStatusFinal,
	}
	require.NoError(t, scheduleRepo.CreatePlan(ctx, plan))
	require.NoError(t, scheduleRepo.CreateSlots(ctx, []model.ShiftSlot{{
		SchedulePlanID: plan.ID,
		TargetDate:     targetDate,
		TemplateName:   "morning",
		StartTime:      7 * 60,
		EndTime:        15 * 60,
		HoursWorked:    decimal.NewFromInt(8),
	}}))

	result, err := engine.Assign(ctx, sector.ID, plan.ID, time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, result.FilledSlots, 1)
	assert.Nil(t, result.FilledSlots[0].EmployeeID)
	assert.False(t, result.FilledSlots[0].IsAssigned)
}

func TestEngine_AssignOne_ExcludesGivenEmployee(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	sectorRepo := repository.NewSectorRepository(db)
	sector := &model.Sector{Name: "Assign Sector " + uuid.New().String()[:8], Slug: "assign-" + uuid.New().String()[:8], IsActive: true}
	require.NoError(t, sectorRepo.Create(ctx, sector))

	engine, employeeRepo, _ := newAssignmentEngine(db)

	declined := model.Employee{SectorID: sector.ID, FirstName: "Declined", LastName: "Worker", MaxWeeklyHours: 40, IsActive: true}
	require.NoError(t, employeeRepo.Create(ctx, &declined))
	replacement := model.Employee{SectorID: sector.ID, FirstName: "Replacement", LastName: "Worker", MaxWeeklyHours: 40, IsActive: true}
	require.NoError(t, employeeRepo.Create(ctx, &replacement))

	targetDate := time.Now().UTC().AddDate(0, 0, 30)
	slot := model.ShiftSlot{
		TargetDate:   targetDate,
		TemplateName: "morning",
		StartTime:    7 * 60,
		EndTime:      15 * 60,
		HoursWorked:  decimal.NewFromInt(8),
	}

	newEmployeeID, err := engine.AssignOne(ctx, sector.ID, slot, declined.ID, time.Now().UTC())
	require.NoError(t, err)
	require.NotNil(t, newEmployeeID)
	assert.Equal(t, replacement.ID, *newEmployeeID)
}
