// Package agenda implements the Agenda Engine: for each
// assigned ShiftSlot, distributes the day's activity pool into ordered
// EmployeeDailyAgendaItem entries, splitting long activities at 60 minutes
// and rotating difficult tasks evenly across employees.
package agenda

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hotelops/roster/internal/model"
	"github.com/hotelops/roster/internal/repository"
	"github.com/hotelops/roster/internal/trace"
)

const Component = "agenda_engine"

const difficultyRotationThreshold = 3

type Engine struct {
	activityRepo *repository.ActivityRepository
	demandRepo   *repository.DemandRepository
	scheduleRepo *repository.ScheduleRepository
	agendaRepo   *repository.AgendaRepository
	agentRunRepo *repository.AgentRunRepository
}

func NewEngine(
	activityRepo *repository.ActivityRepository,
	demandRepo *repository.DemandRepository,
	scheduleRepo *repository.ScheduleRepository,
	agendaRepo *repository.AgendaRepository,
	agentRunRepo *repository.AgentRunRepository,
) *Engine {
	return &Engine{
		activityRepo: activityRepo, demandRepo: demandRepo,
		scheduleRepo: scheduleRepo, agendaRepo: agendaRepo, agentRunRepo: agentRunRepo,
	}
}

// poolItem is one activity instance still to be placed, already expanded
// to its total minutes for the day (before the 60-minute item split).
type poolItem struct {
	activity       model.GovernanceActivity
	totalMinutes   int
	isPending      bool
	pendingReason  string
}

// Generate deletes prior agendas for plan and rebuilds them for every
// assigned slot on targetDate. The delete-then-rebuild runs under the
// plan's advisory lock so a concurrent regeneration on the same plan
// can't interleave with it.
func (e *Engine) Generate(ctx context.Context, sectorID uuid.UUID, planID uuid.UUID, forecastRunID uuid.UUID, targetDate time.Time) ([]model.EmployeeDailyAgenda, error) {
	var result []model.EmployeeDailyAgenda
	err := e.scheduleRepo.WithAdvisoryLock(ctx, planID, func(_ *gorm.DB) error {
		var err error
		result, err = e.generateLocked(ctx, sectorID, planID, forecastRunID, targetDate)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (e *Engine) generateLocked(ctx context.Context, sectorID uuid.UUID, planID uuid.UUID, forecastRunID uuid.UUID, targetDate time.Time) ([]model.EmployeeDailyAgenda, error) {
	slots, err := e.scheduleRepo.ListSlotsByPlanAndDate(ctx, planID, targetDate)
	if err != nil {
		return nil, fmt.Errorf("listing slots for agenda generation: %w", err)
	}
	var assignedSlots []model.ShiftSlot
	for _, s := range slots {
		if s.IsAssigned && s.EmployeeID != nil {
			assignedSlots = append(assignedSlots, s)
		}
	}

	if err := e.agendaRepo.DeleteByPlan(ctx, planID); err != nil {
		return nil, err
	}

	sink, err := trace.NewSink(ctx, e.agentRunRepo, sectorID, Component, &planID)
	if err != nil {
		return nil, fmt.Errorf("starting agenda engine trace: %w", err)
	}

	demandRow, err := e.demandRepo.GetByRunAndDate(ctx, forecastRunID, targetDate)
	if err != nil {
		_ = sink.Fail(ctx, err.Error())
		return nil, fmt.Errorf("loading demand for agenda generation: %w", err)
	}

	activities, err := e.activityRepo.ListActiveBySector(ctx, sectorID)
	if err != nil {
		_ = sink.Fail(ctx, err.Error())
		return nil, fmt.Errorf("listing activities: %w", err)
	}

	pool, totalVariableMinutes, err := e.buildPool(ctx, activities, targetDate, demandRow.MinutesVariable)
	if err != nil {
		_ = sink.Fail(ctx, err.Error())
		return nil, err
	}

	sort.Slice(pool, func(i, j int) bool {
		return pool[i].activity.Difficulty > pool[j].activity.Difficulty
	})

	agendas := make(map[uuid.UUID]*model.EmployeeDailyAgenda, len(assignedSlots))
	sort.Slice(assignedSlots, func(i, j int) bool { return assignedSlots[i].StartTime < assignedSlots[j].StartTime })
	rotation := make([]uuid.UUID, 0, len(assignedSlots))
	for _, s := range assignedSlots {
		rotation = append(rotation, *s.EmployeeID)
		available := s.EndTime - s.StartTime
		if s.LunchStart != nil && s.LunchEnd != nil {
			available -= *s.LunchEnd - *s.LunchStart
		}
		agendas[*s.EmployeeID] = &model.EmployeeDailyAgenda{
			SchedulePlanID:        planID,
			ShiftSlotID:           s.ID,
			EmployeeID:            *s.EmployeeID,
			TargetDate:            targetDate,
			TotalMinutesAvailable: available,
			Status:                model.AgendaStatusGenerated,
		}
	}

	totalCapacityMinutes := 0
	for _, a := range agendas {
		totalCapacityMinutes += a.TotalMinutesAvailable
	}
	totalDemandMinutes := int(demandRow.MinutesRaw.InexactFloat64())

	rotationIdx := 0
	lastDifficulty := map[uuid.UUID]int{}
	hasConflict := false

	for _, item := range pool {
		remaining := item.totalMinutes
		for remaining > 0 {
			target := e.pickTarget(item.activity, agendas, rotation, &rotationIdx, lastDifficulty)
			if target == nil {
				// No agenda has spare capacity left; this and every
				// remaining activity becomes a conflict instead of being
				// force-assigned past an employee's available minutes.
				hasConflict = true
				break
			}

			capacityLeft := target.TotalMinutesAvailable - target.TotalMinutesAllocated
			chunk := remaining
			if chunk > model.MaxItemMinutes {
				chunk = model.MaxItemMinutes
			}
			if chunk > capacityLeft {
				chunk = capacityLeft
			}
			if chunk <= 0 {
				hasConflict = true
				break
			}

			target.Items = append(target.Items, model.EmployeeDailyAgendaItem{
				ActivityID:     item.activity.ID,
				Order:          len(target.Items) + 1,
				Minutes:        chunk,
				Quantity:       1,
				Classification: item.activity.Classification,
				IsPending:      item.isPending,
				PendingReason:  item.pendingReason,
			})
			target.TotalMinutesAllocated += chunk
			lastDifficulty[target.EmployeeID] = item.activity.Difficulty
			remaining -= chunk
		}
		if remaining > 0 {
			hasConflict = true
		}
	}

	result := make([]model.EmployeeDailyAgenda, 0, len(agendas))
	for _, s := range assignedSlots {
		a := agendas[*s.EmployeeID]
		if hasConflict {
			a.HasConflict = true
			a.Status = model.AgendaStatusConflict
		}
		if err := e.agendaRepo.CreateWithItems(ctx, a); err != nil {
			_ = sink.Fail(ctx, err.Error())
			return nil, fmt.Errorf("persisting agenda: %w", err)
		}
		result = append(result, *a)

		if err := sink.Step(ctx, fmt.Sprintf("built agenda for employee %s with %d items", a.EmployeeID, len(a.Items)), nil,
			map[string]any{"total_minutes_allocated": a.TotalMinutesAllocated, "total_minutes_available": a.TotalMinutesAvailable}, nil); err != nil {
			return nil, err
		}
	}

	if hasConflict {
		deficitMinutes := totalDemandMinutes - totalCapacityMinutes
		if deficitMinutes < 0 {
			deficitMinutes = 0
		}
		if err := sink.Step(ctx, fmt.Sprintf("activity demand exceeded capacity on %s", targetDate.Format("2006-01-02")), nil,
			map[string]any{
				"total_variable_minutes": totalVariableMinutes,
				"total_demand_minutes":   totalDemandMinutes,
				"total_capacity_minutes": totalCapacityMinutes,
				"deficit_minutes":        deficitMinutes,
			}, []string{"capacity_exceeded"}); err != nil {
			return nil, err
		}
	}

	if err := sink.Complete(ctx); err != nil {
		return nil, err
	}
	return result, nil
}

// buildPool expands the sector's activity catalog into per-instance minute
// totals for targetDate. CALCULATED/VARIABLE activities split the day's
// total room-cleaning minutes (the Demand Engine's minutes_variable) across
// activities in proportion to their configured average minutes;
// CALCULATED/CONSTANT activities run at their full configured minutes.
// RECURRING activities are included only when due; EVENTUAL activities are
// always included as pending round-robin items.
func (e *Engine) buildPool(ctx context.Context, activities []model.GovernanceActivity, targetDate time.Time, demandMinutesVariable decimal.Decimal) ([]poolItem, int, error) {
	var pool []poolItem
	totalVariableMinutes := 0

	variableBase := 0
	for _, a := range activities {
		if a.Classification == model.ClassificationCalculated && a.WorkloadDriver == model.DriverVariable {
			variableBase += a.AverageMinutes
		}
	}

	for _, a := range activities {
		switch a.Classification {
		case model.ClassificationCalculated:
			minutes := a.AverageMinutes
			if a.WorkloadDriver == model.DriverVariable && variableBase > 0 {
				share := float64(a.AverageMinutes) / float64(variableBase)
				minutes = int(share * demandMinutesVariable.InexactFloat64())
			}
			totalVariableMinutes += minutes
			pool = append(pool, poolItem{activity: a, totalMinutes: minutes})

		case model.ClassificationRecurring:
			var periodicity *model.ActivityPeriodicity
			if a.PeriodicityID != nil {
				p, err := e.activityRepo.GetPeriodicity(ctx, *a.PeriodicityID)
				if err != nil {
					return nil, 0, fmt.Errorf("loading periodicity for activity %s: %w", a.Code, err)
				}
				periodicity = p
			}
			if a.IsDueOn(targetDate, periodicity) {
				pool = append(pool, poolItem{activity: a, totalMinutes: a.AverageMinutes})
			}

		case model.ClassificationEventual:
			pool = append(pool, poolItem{
				activity: a, totalMinutes: a.AverageMinutes,
				isPending: true, pendingReason: "manual scheduling required",
			})
		}
	}
	return pool, totalVariableMinutes, nil
}

// pickTarget selects the employee agenda to receive the next chunk of an
// activity. Difficult tasks rotate through the employee queue; easier
// tasks go to the least-loaded employee, breaking ties toward the employee
// whose last-assigned difficulty differs most from the candidate's.
func (e *Engine) pickTarget(activity model.GovernanceActivity, agendas map[uuid.UUID]*model.EmployeeDailyAgenda, rotation []uuid.UUID, rotationIdx *int, lastDifficulty map[uuid.UUID]int) *model.EmployeeDailyAgenda {
	if len(rotation) == 0 {
		return nil
	}

	if activity.Difficulty >= difficultyRotationThreshold {
		for i := 0; i < len(rotation); i++ {
			candidate := rotation[(*rotationIdx+i)%len(rotation)]
			if a, ok := agendas[candidate]; ok && a.TotalMinutesAllocated < a.TotalMinutesAvailable {
				*rotationIdx = (*rotationIdx + i + 1) % len(rotation)
				return a
			}
		}
		// Every candidate in the rotation is already at capacity.
		return nil
	}

	var best *model.EmployeeDailyAgenda
	bestLoad := -1
	bestDiffDelta := -1
	for _, empID := range rotation {
		a, ok := agendas[empID]
		if !ok || a.TotalMinutesAllocated >= a.TotalMinutesAvailable {
			continue
		}
		load := a.TotalMinutesAllocated
		diffDelta := abs(lastDifficulty[empID] - activity.Difficulty)
		if best == nil || load < bestLoad || (load == bestLoad && diffDelta > bestDiffDelta) {
			best = a
			bestLoad = load
			bestDiffDelta = diffDelta
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
