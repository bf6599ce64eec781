// Package assignment implements the Assignment Engine: binds
// employees to the unassigned ShiftSlots of a schedule plan by score, gated
// strictly by MANDATORY rule-engine constraints.
package assignment

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hotelops/roster/internal/model"
	"github.com/hotelops/roster/internal/repository"
	"github.com/hotelops/roster/internal/rulesengine"
	"github.com/hotelops/roster/internal/trace"
)

const Component = "assignment_engine"

type Engine struct {
	employeeRepo *repository.EmployeeRepository
	scheduleRepo *repository.ScheduleRepository
	agentRunRepo *repository.AgentRunRepository
	rules        *rulesengine.Engine
}

func NewEngine(
	employeeRepo *repository.EmployeeRepository,
	scheduleRepo *repository.ScheduleRepository,
	agentRunRepo *repository.AgentRunRepository,
	rules *rulesengine.Engine,
) *Engine {
	return &Engine{employeeRepo: employeeRepo, scheduleRepo: scheduleRepo, agentRunRepo: agentRunRepo, rules: rules}
}

// PerEmployeeMetric summarizes one employee's outcome from an assignment
// run, surfaced in the contract's per_employee_metrics.
type PerEmployeeMetric struct {
	EmployeeID         uuid.UUID       `json:"employee_id"`
	SlotsAssigned      int             `json:"slots_assigned"`
	WeeklyHours        decimal.Decimal `json:"weekly_hours"`
}

// Violation is one MANDATORY or DESIRABLE constraint hit during scoring,
// traced regardless of whether it gated the candidate.
type Violation struct {
	SlotID     uuid.UUID `json:"slot_id"`
	EmployeeID uuid.UUID `json:"employee_id"`
	RuleCode   string    `json:"rule_code"`
	Severity   string    `json:"severity"`
	Message    string    `json:"message"`
}

// Result is assign()'s full return value.
type Result struct {
	FilledSlots        []model.ShiftSlot            `json:"filled_slots"`
	PerEmployeeMetrics []PerEmployeeMetric           `json:"per_employee_metrics"`
	Violations         []Violation                   `json:"violations"`
}

// candidateScore is one candidate's ranking key for a slot; lower is worse,
// highest wins, ties broken by employee id ascending.
type candidateScore struct {
	employee         model.Employee
	weeklyHours      decimal.Decimal
	hoursSinceLast   float64
	specializedMatch bool
	patternCount     int
}

// score combines the four ranking signals into one comparable float: lower
// accumulated hours, longer time since last assignment, and a
// specialization match all push the score up; a high repeat-pattern count
// pulls it down.
func (c candidateScore) score() float64 {
	s := -c.weeklyHours.InexactFloat64()*10 + minF(c.hoursSinceLast, 24*14)
	if c.specializedMatch {
		s += 50
	}
	s -= float64(c.patternCount) * 5
	return s
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// Assign binds employees to every unassigned slot of plan, in (date,
// start_time) order, respecting MANDATORY constraints strictly.
func (e *Engine) Assign(ctx context.Context, sectorID uuid.UUID, planID uuid.UUID, now time.Time) (*Result, error) {
	plan, err := e.scheduleRepo.GetPlanByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("loading schedule plan: %w", err)
	}

	employees, err := e.employeeRepo.ListActiveBySector(ctx, sectorID)
	if err != nil {
		return nil, fmt.Errorf("listing active employees: %w", err)
	}

	constraints, err := e.rules.GetConstraints(ctx, sectorID, now)
	if err != nil {
		return nil, fmt.Errorf("loading effective constraints: %w", err)
	}

	sink, err := trace.NewSink(ctx, e.agentRunRepo, sectorID, Component, &planID)
	if err != nil {
		return nil, fmt.Errorf("starting assignment engine trace: %w", err)
	}

	weeklyHours := map[uuid.UUID]decimal.Decimal{}
	histories := map[uuid.UUID]model.EmployeeHistory{}
	for _, emp := range employees {
		h, err := emp.DecodeHistory()
		if err == nil {
			histories[emp.ID] = h
			weeklyHours[emp.ID] = decimal.NewFromFloat(h.WeeklyHoursAccumulated)
		} else {
			weeklyHours[emp.ID] = decimal.Zero
		}
	}

	slots := plan.Slots
	sort.Slice(slots, func(i, j int) bool {
		if !slots[i].TargetDate.Equal(slots[j].TargetDate) {
			return slots[i].TargetDate.Before(slots[j].TargetDate)
		}
		return slots[i].StartTime < slots[j].StartTime
	})

	var filled []model.ShiftSlot
	var violations []Violation
	assignedCount := map[uuid.UUID]int{}

	for i := range slots {
		slot := slots[i]
		if slot.IsAssigned {
			filled = append(filled, slot)
			continue
		}

		best, bestScore, slotViolations, err := e.pickCandidate(slot, employees, weeklyHours, histories, constraints, now)
		if err != nil {
			_ = sink.Fail(ctx, err.Error())
			return nil, err
		}
		violations = append(violations, slotViolations...)

		if best == nil {
			if err := sink.Step(ctx, fmt.Sprintf("no eligible candidate for slot %s on %s", slot.TemplateName, slot.TargetDate.Format("2006-01-02")), nil, nil, slotViolations); err != nil {
				return nil, err
			}
			filled = append(filled, slot)
			continue
		}

		slot.EmployeeID = &best.employee.ID
		slot.IsAssigned = true
		if err := e.scheduleRepo.UpdateSlot(ctx, &slot); err != nil {
			_ = sink.Fail(ctx, err.Error())
			return nil, fmt.Errorf("persisting slot assignment: %w", err)
		}

		weeklyHours[best.employee.ID] = weeklyHours[best.employee.ID].Add(slot.HoursWorked)
		assignedCount[best.employee.ID]++
		filled = append(filled, slot)

		if err := sink.Step(ctx,
			fmt.Sprintf("assigned employee %s to slot %s on %s", best.employee.ID, slot.TemplateName, slot.TargetDate.Format("2006-01-02")),
			nil,
			map[string]any{"score": bestScore, "weekly_hours_after": weeklyHours[best.employee.ID].String()},
			slotViolations,
		); err != nil {
			return nil, err
		}
	}

	metrics := make([]PerEmployeeMetric, 0, len(employees))
	for _, emp := range employees {
		metrics = append(metrics, PerEmployeeMetric{
			EmployeeID:    emp.ID,
			SlotsAssigned: assignedCount[emp.ID],
			WeeklyHours:   weeklyHours[emp.ID],
		})
	}

	if err := sink.Complete(ctx); err != nil {
		return nil, err
	}

	return &Result{FilledSlots: filled, PerEmployeeMetrics: metrics, Violations: violations}, nil
}

// AssignOne picks a replacement employee for a single slot, excluding
// excludeEmployeeID, without touching the rest of the plan. It backs the
// convocation engine's decline/expiry reschedule path, which rebinds one
// slot at a time rather than re-running a full plan assignment.
func (e *Engine) AssignOne(ctx context.Context, sectorID uuid.UUID, slot model.ShiftSlot, excludeEmployeeID uuid.UUID, now time.Time) (*uuid.UUID, error) {
	employees, err := e.employeeRepo.ListActiveBySector(ctx, sectorID)
	if err != nil {
		return nil, fmt.Errorf("listing active employees: %w", err)
	}
	candidates := make([]model.Employee, 0, len(employees))
	for _, emp := range employees {
		if emp.ID != excludeEmployeeID {
			candidates = append(candidates, emp)
		}
	}

	constraints, err := e.rules.GetConstraints(ctx, sectorID, now)
	if err != nil {
		return nil, fmt.Errorf("loading effective constraints: %w", err)
	}

	weeklyHours := map[uuid.UUID]decimal.Decimal{}
	histories := map[uuid.UUID]model.EmployeeHistory{}
	for _, emp := range candidates {
		if h, err := emp.DecodeHistory(); err == nil {
			histories[emp.ID] = h
			weeklyHours[emp.ID] = decimal.NewFromFloat(h.WeeklyHoursAccumulated)
		} else {
			weeklyHours[emp.ID] = decimal.Zero
		}
	}

	best, _, _, err := e.pickCandidate(slot, candidates, weeklyHours, histories, constraints, now)
	if err != nil {
		return nil, err
	}
	if best == nil {
		return nil, nil
	}
	return &best.employee.ID, nil
}

// pickCandidate evaluates every employee against slot, gating strictly on
// MANDATORY constraints and returning the highest-scoring eligible one.
func (e *Engine) pickCandidate(slot model.ShiftSlot, employees []model.Employee, weeklyHours map[uuid.UUID]decimal.Decimal, histories map[uuid.UUID]model.EmployeeHistory, constraints model.EffectiveConstraints, now time.Time) (*candidateScore, float64, []Violation, error) {
	var candidates []candidateScore
	var violations []Violation

	for _, emp := range employees {
		unavailable, err := emp.IsUnavailableOn(slot.TargetDate)
		if err != nil {
			return nil, 0, nil, fmt.Errorf("decoding unavailability for employee %s: %w", emp.ID, err)
		}
		if unavailable {
			continue
		}

		projectedHours := weeklyHours[emp.ID].Add(slot.HoursWorked)
		if projectedHours.InexactFloat64() > emp.MaxWeeklyHours {
			violations = append(violations, Violation{
				SlotID: slot.ID, EmployeeID: emp.ID, RuleCode: "max_weekly_hours", Severity: string(model.SeverityError),
				Message: fmt.Sprintf("assigning slot would bring weekly hours to %.2f, over cap %.2f", projectedHours.InexactFloat64(), emp.MaxWeeklyHours),
			})
			continue
		}
		if projectedHours.InexactFloat64() > constraints.MaxWeeklyHours {
			violations = append(violations, Violation{
				SlotID: slot.ID, EmployeeID: emp.ID, RuleCode: "max_weekly_hours", Severity: string(model.SeverityError),
				Message: fmt.Sprintf("assigning slot would bring weekly hours to %.2f, over lattice max %.2f", projectedHours.InexactFloat64(), constraints.MaxWeeklyHours),
			})
			continue
		}

		shiftStart := time.Date(slot.TargetDate.Year(), slot.TargetDate.Month(), slot.TargetDate.Day(), 0, 0, 0, 0, time.UTC).Add(time.Duration(slot.StartTime) * time.Minute)
		hoursUntilStart := shiftStart.Sub(now).Hours()
		if hoursUntilStart < constraints.AdvanceNoticeHours {
			violations = append(violations, Violation{
				SlotID: slot.ID, EmployeeID: emp.ID, RuleCode: "advance_notice_hours", Severity: string(model.SeverityWarning),
				Message: fmt.Sprintf("only %.1fh notice before shift, under %.1fh", hoursUntilStart, constraints.AdvanceNoticeHours),
			})
		}

		history := histories[emp.ID]
		hoursSinceLast := 24.0 * 14
		if history.LastAssignedDate != nil {
			if last, err := time.Parse("2006-01-02", *history.LastAssignedDate); err == nil {
				hoursSinceLast = slot.TargetDate.Sub(last).Hours()
			}
		}

		specialized, err := emp.HasSpecialization(slot.TemplateName)
		if err != nil {
			return nil, 0, nil, fmt.Errorf("decoding specialization tags for employee %s: %w", emp.ID, err)
		}

		patternKey := fmt.Sprintf("%d:%s", int(model.WeekdayFromGoWeekday(int(slot.TargetDate.Weekday()))), slot.TemplateName)
		patternCount := 0
		if history.AssignmentsByPattern != nil {
			patternCount = history.AssignmentsByPattern[patternKey]
		}

		candidates = append(candidates, candidateScore{
			employee:         emp,
			weeklyHours:      weeklyHours[emp.ID],
			hoursSinceLast:   hoursSinceLast,
			specializedMatch: specialized,
			patternCount:     patternCount,
		})
	}

	if len(candidates) == 0 {
		return nil, 0, violations, nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		si, sj := candidates[i].score(), candidates[j].score()
		if si != sj {
			return si > sj
		}
		return candidates[i].employee.ID.String() < candidates[j].employee.ID.String()
	})

	best := candidates[0]
	return &best, best.score(), violations, nil
}
