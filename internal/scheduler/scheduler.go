// Package scheduler implements the Schedule Generator: turns a
// forecast run's computed demand into a HousekeepingSchedulePlan with
// ShiftSlot children, plus legal validation and convocation preview.
package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/hotelops/roster/internal/model"
	"github.com/hotelops/roster/internal/repository"
	"github.com/hotelops/roster/internal/rulesengine"
	"github.com/hotelops/roster/internal/trace"
)

const Component = "schedule_generator"

// ShiftTemplate names a fixed daily work window. Defaults are two shifts,
// morning and afternoon, each roughly eight hours.
type ShiftTemplate struct {
	Name  string
	Start int // minutes from midnight
	End   int
}

var DefaultTemplates = []ShiftTemplate{
	{Name: "morning", Start: 7 * 60, End: 15 * 60},
	{Name: "afternoon", Start: 14 * 60, End: 22 * 60},
}

const (
	minMorningRatio     = 0.35
	maxMorningRatio     = 0.65
	fallbackMorningRatio = 0.55
)

type Engine struct {
	demandRepo   *repository.DemandRepository
	scheduleRepo *repository.ScheduleRepository
	statsRepo    *repository.StatsRepository
	sectorRepo   *repository.SectorRepository
	ruleRepo     *repository.RuleRepository
	agentRunRepo *repository.AgentRunRepository
}

func NewEngine(
	demandRepo *repository.DemandRepository,
	scheduleRepo *repository.ScheduleRepository,
	statsRepo *repository.StatsRepository,
	sectorRepo *repository.SectorRepository,
	ruleRepo *repository.RuleRepository,
	agentRunRepo *repository.AgentRunRepository,
) *Engine {
	return &Engine{
		demandRepo: demandRepo, scheduleRepo: scheduleRepo, statsRepo: statsRepo,
		sectorRepo: sectorRepo, ruleRepo: ruleRepo, agentRunRepo: agentRunRepo,
	}
}

// workShiftOverride is the expected shape of an OPERATIONAL rule's Metadata
// encoding a weekday-specific work-shift override.
type workShiftOverride struct {
	Scope        string `json:"scope"`
	Weekday      int    `json:"weekday"`
	TemplateName string `json:"template_name"`
	StartTime    int    `json:"start_time"`
	EndTime      int    `json:"end_time"`
}

// GeneratePlan builds a BASELINE HousekeepingSchedulePlan from run's computed
// demand.
func (e *Engine) GeneratePlan(ctx context.Context, weekStart time.Time, run *model.ForecastRun, demandRows []model.HousekeepingDemandDaily) (*model.HousekeepingSchedulePlan, error) {
	return e.generate(ctx, weekStart, run, demandRows, model.PlanKindBaseline, nil)
}

// GenerateAdjustment builds an ADJUSTMENT plan against a daily-update run,
// linking it to baselinePlanID and emitting a delta summary.
func (e *Engine) GenerateAdjustment(ctx context.Context, weekStart time.Time, run *model.ForecastRun, demandRows []model.HousekeepingDemandDaily, baselinePlanID uuid.UUID) (*model.HousekeepingSchedulePlan, error) {
	return e.generate(ctx, weekStart, run, demandRows, model.PlanKindAdjustment, &baselinePlanID)
}

func (e *Engine) generate(ctx context.Context, weekStart time.Time, run *model.ForecastRun, demandRows []model.HousekeepingDemandDaily, kind model.PlanKind, baselinePlanID *uuid.UUID) (*model.HousekeepingSchedulePlan, error) {
	params, err := e.sectorRepo.GetOperationalParameters(ctx, run.SectorID)
	if err != nil {
		return nil, fmt.Errorf("loading sector operational parameters: %w", err)
	}

	sink, err := trace.NewSink(ctx, e.agentRunRepo, run.SectorID, Component, &run.ID)
	if err != nil {
		return nil, fmt.Errorf("starting schedule generator trace: %w", err)
	}

	plan := &model.HousekeepingSchedulePlan{
		SectorID:       run.SectorID,
		ForecastRunID:  run.ID,
		WeekStart:      weekStart,
		WeekEnd:        weekStart.AddDate(0, 0, 6),
		PlanKind:       kind,
		BaselinePlanID: baselinePlanID,
		Status:         model.PlanStatusDraft,
	}
	if err := e.scheduleRepo.CreatePlan(ctx, plan); err != nil {
		_ = sink.Fail(ctx, err.Error())
		return nil, fmt.Errorf("creating schedule plan: %w", err)
	}

	var allSlots []model.ShiftSlot
	totalHours := decimal.Zero
	totalHeadcount := 0
	coverageByDate := map[string]map[int]int{}

	for _, demand := range demandRows {
		slots, err := e.generateDaySlots(ctx, run.SectorID, plan.ID, demand.TargetDate, demand.HeadcountRounded, params)
		if err != nil {
			_ = sink.Fail(ctx, err.Error())
			return nil, err
		}
		allSlots = append(allSlots, slots...)
		totalHeadcount += demand.HeadcountRounded
		for _, s := range slots {
			totalHours = totalHours.Add(s.HoursWorked)
		}

		coverage := map[int]int{}
		for h := 6; h <= 23; h++ {
			count := 0
			for _, s := range slots {
				if s.CoversHour(h) {
					count++
				}
			}
			coverage[h] = count
		}
		coverageByDate[demand.TargetDate.Format("2006-01-02")] = coverage

		if err := sink.Step(ctx, fmt.Sprintf("generated %d slots for %s", len(slots), demand.TargetDate.Format("2006-01-02")), nil, map[string]any{"headcount": demand.HeadcountRounded, "coverage": coverage}, nil); err != nil {
			return nil, err
		}
	}

	if err := e.scheduleRepo.CreateSlots(ctx, allSlots); err != nil {
		_ = sink.Fail(ctx, err.Error())
		return nil, fmt.Errorf("persisting shift slots: %w", err)
	}

	plan.TotalHoursPlanned = totalHours
	plan.TotalHeadcountPlanned = totalHeadcount
	plan.Status = model.PlanStatusFinal
	if err := marshalJSON(&plan.CoverageByHour, coverageByDate); err != nil {
		_ = sink.Fail(ctx, err.Error())
		return nil, err
	}

	if kind == model.PlanKindAdjustment && baselinePlanID != nil {
		delta, err := e.computeDelta(ctx, *baselinePlanID, plan)
		if err != nil {
			_ = sink.Fail(ctx, err.Error())
			return nil, err
		}
		if err := marshalJSON(&plan.DeltaVsBaseline, delta); err != nil {
			_ = sink.Fail(ctx, err.Error())
			return nil, err
		}
		plan.Status = model.PlanStatusAdjusted
	}

	if err := e.scheduleRepo.UpdatePlan(ctx, plan); err != nil {
		_ = sink.Fail(ctx, err.Error())
		return nil, fmt.Errorf("finalizing schedule plan: %w", err)
	}
	if err := sink.Complete(ctx); err != nil {
		return nil, err
	}

	plan.Slots = allSlots
	return plan, nil
}

type deltaVsBaseline struct {
	HeadcountDelta int             `json:"headcount_delta"`
	HoursDelta     decimal.Decimal `json:"hours_delta"`
}

func (e *Engine) computeDelta(ctx context.Context, baselinePlanID uuid.UUID, adjusted *model.HousekeepingSchedulePlan) (deltaVsBaseline, error) {
	baseline, err := e.scheduleRepo.GetPlanByID(ctx, baselinePlanID)
	if err != nil {
		return deltaVsBaseline{}, fmt.Errorf("loading baseline plan for delta: %w", err)
	}
	return deltaVsBaseline{
		HeadcountDelta: adjusted.TotalHeadcountPlanned - baseline.TotalHeadcountPlanned,
		HoursDelta:     adjusted.TotalHoursPlanned.Sub(baseline.TotalHoursPlanned),
	}, nil
}

// generateDaySlots builds the morning/afternoon slot split for one day,
// honoring WorkShift day-rule overrides and lunch-window placement.
func (e *Engine) generateDaySlots(ctx context.Context, sectorID uuid.UUID, planID uuid.UUID, d time.Time, headcount int, params *model.SectorOperationalParameters) ([]model.ShiftSlot, error) {
	if headcount <= 0 {
		return nil, nil
	}
	wd := model.WeekdayFromGoWeekday(int(d.Weekday()))

	morningRatio, err := e.workloadMorningRatio(ctx, sectorID, wd)
	if err != nil {
		return nil, err
	}

	morningCount := 0
	if headcount > 0 {
		morningCount = int(math.Round(float64(headcount) * morningRatio))
		if morningCount < 1 {
			morningCount = 1
		}
		if morningCount > headcount {
			morningCount = headcount
		}
	}
	afternoonCount := headcount - morningCount
	if headcount >= 2 && afternoonCount == 0 {
		morningCount--
		afternoonCount++
	}
	if headcount >= 2 && morningCount == 0 {
		morningCount++
		afternoonCount--
	}

	templates, err := e.resolveTemplates(ctx, sectorID, wd)
	if err != nil {
		return nil, err
	}

	var slots []model.ShiftSlot
	slots = append(slots, e.buildSlots(planID, d, templates[0], morningCount, params)...)
	slots = append(slots, e.buildSlots(planID, d, templates[1], afternoonCount, params)...)
	return slots, nil
}

func (e *Engine) buildSlots(planID uuid.UUID, d time.Time, tmpl ShiftTemplate, count int, params *model.SectorOperationalParameters) []model.ShiftSlot {
	slots := make([]model.ShiftSlot, 0, count)
	lunchStart, lunchEnd := computeLunchWindow(tmpl, params)
	for i := 0; i < count; i++ {
		worked := decimal.NewFromFloat(float64(tmpl.End-tmpl.Start) / 60)
		if lunchStart != nil && lunchEnd != nil {
			worked = worked.Sub(decimal.NewFromFloat(float64(*lunchEnd-*lunchStart) / 60))
		}
		slots = append(slots, model.ShiftSlot{
			SchedulePlanID: planID,
			TargetDate:     d,
			TemplateName:   tmpl.Name,
			StartTime:      tmpl.Start,
			EndTime:        tmpl.End,
			LunchStart:     lunchStart,
			LunchEnd:       lunchEnd,
			HoursWorked:    worked,
			IsAssigned:     false,
		})
	}
	return slots
}

// computeLunchWindow derives the earliest feasible lunch start, clipped into
// the sector's configured window; returns nil, nil when infeasible.
func computeLunchWindow(tmpl ShiftTemplate, params *model.SectorOperationalParameters) (*int, *int) {
	earliest := tmpl.Start + params.MinHoursBeforeLunchMinutes
	if earliest < params.LunchWindowStartMinutes {
		earliest = params.LunchWindowStartMinutes
	}
	latestStart := params.LunchWindowEndMinutes - params.LunchDurationMinutes
	if earliest > latestStart || earliest+params.LunchDurationMinutes > tmpl.End {
		return nil, nil
	}
	end := earliest + params.LunchDurationMinutes
	return &earliest, &end
}

// workloadMorningRatio computes the morning/afternoon workload split from
// hourly checkout/checkin distribution stats.
func (e *Engine) workloadMorningRatio(ctx context.Context, sectorID uuid.UUID, wd model.Weekday) (float64, error) {
	checkout, err := e.statsRepo.ListHourlyDistribution(ctx, sectorID, string(model.EventCheckout), wd)
	if err != nil {
		return fallbackMorningRatio, err
	}
	checkin, err := e.statsRepo.ListHourlyDistribution(ctx, sectorID, string(model.EventCheckin), wd)
	if err != nil {
		return fallbackMorningRatio, err
	}
	if len(checkout) == 0 && len(checkin) == 0 {
		return fallbackMorningRatio, nil
	}

	checkoutPct := map[int]float64{}
	for _, c := range checkout {
		checkoutPct[c.HourTimeline] = c.PercentShare
	}
	checkinPct := map[int]float64{}
	for _, c := range checkin {
		checkinPct[c.HourTimeline] = c.PercentShare
	}

	sumRange := func(m map[int]float64, lo, hi int) float64 {
		s := 0.0
		for h := lo; h <= hi; h++ {
			s += m[h]
		}
		return s
	}

	morningW := sumRange(checkoutPct, 8, 11) + 0.7*sumRange(checkoutPct, 12, 13)
	afternoonW := 0.3*sumRange(checkoutPct, 12, 13) + sumRange(checkinPct, 14, 18) + sumRange(checkinPct, 19, 22)

	if morningW+afternoonW <= 0 {
		return fallbackMorningRatio, nil
	}
	ratio := morningW / (morningW + afternoonW)
	if ratio < minMorningRatio {
		ratio = minMorningRatio
	} else if ratio > maxMorningRatio {
		ratio = maxMorningRatio
	}
	return ratio, nil
}

// resolveTemplates returns [morning, afternoon], overridden in place by any
// active MANDATORY WorkShift day rule for this weekday.
func (e *Engine) resolveTemplates(ctx context.Context, sectorID uuid.UUID, wd model.Weekday) ([2]ShiftTemplate, error) {
	templates := [2]ShiftTemplate{DefaultTemplates[0], DefaultTemplates[1]}

	rules, err := e.ruleRepo.FetchRules(ctx, sectorID, time.Now().UTC(), true)
	if err != nil {
		return templates, fmt.Errorf("fetching rules for work-shift override: %w", err)
	}

	for _, r := range rules {
		if r.Kind != model.RuleKindOperational || r.Rigidity != model.RigidityMandatory {
			continue
		}
		var o workShiftOverride
		if err := json.Unmarshal(r.Metadata, &o); err != nil || o.Scope != "WORK_SHIFT" {
			continue
		}
		if model.Weekday(o.Weekday) != wd {
			continue
		}
		for i, t := range templates {
			if t.Name == o.TemplateName {
				templates[i].Start = o.StartTime
				templates[i].End = o.EndTime
			}
		}
	}
	return templates, nil
}

// LegalValidationEntry is one finding of validate_legal.
type LegalValidationEntry struct {
	Type     string `json:"type"` // ERROR | WARNING
	RuleCode string `json:"rule_code"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
}

// ValidateLegal checks advance notice and weekly/daily hour caps against
// effective constraints, and checks each employee's number of distinct worked
// days in the plan against MaxConsecutiveDays; whether those days are
// consecutive is not checked.
func (e *Engine) ValidateLegal(ctx context.Context, plan *model.HousekeepingSchedulePlan, constraints model.EffectiveConstraints, now time.Time) ([]LegalValidationEntry, bool) {
	var entries []LegalValidationEntry

	hoursByEmployee := map[uuid.UUID]decimal.Decimal{}
	hoursByEmployeeDay := map[string]decimal.Decimal{}
	daysByEmployee := map[uuid.UUID]map[string]bool{}

	for _, s := range plan.Slots {
		if s.EmployeeID == nil {
			continue
		}
		emp := *s.EmployeeID

		hoursUntilStart := time.Duration(0)
		shiftStart := time.Date(s.TargetDate.Year(), s.TargetDate.Month(), s.TargetDate.Day(), 0, 0, 0, 0, time.UTC).Add(time.Duration(s.StartTime) * time.Minute)
		hoursUntilStart = shiftStart.Sub(now)
		if hoursUntilStart.Hours() < constraints.AdvanceNoticeHours {
			entries = append(entries, LegalValidationEntry{
				Type: "WARNING", RuleCode: "advance_notice_hours", Subject: emp.String(),
				Message: fmt.Sprintf("only %.1fh notice before shift on %s", hoursUntilStart.Hours(), s.TargetDate.Format("2006-01-02")),
			})
		}

		hoursByEmployee[emp] = hoursByEmployee[emp].Add(s.HoursWorked)
		dayKey := fmt.Sprintf("%s|%s", emp, s.TargetDate.Format("2006-01-02"))
		hoursByEmployeeDay[dayKey] = hoursByEmployeeDay[dayKey].Add(s.HoursWorked)

		if daysByEmployee[emp] == nil {
			daysByEmployee[emp] = map[string]bool{}
		}
		daysByEmployee[emp][s.TargetDate.Format("2006-01-02")] = true
	}

	for emp, total := range hoursByEmployee {
		if total.InexactFloat64() > constraints.MaxWeeklyHours {
			entries = append(entries, LegalValidationEntry{
				Type: "ERROR", RuleCode: "max_weekly_hours", Subject: emp.String(),
				Message: fmt.Sprintf("weekly hours %.2f exceed max %.2f", total.InexactFloat64(), constraints.MaxWeeklyHours),
			})
		}
	}
	for key, hrs := range hoursByEmployeeDay {
		if hrs.InexactFloat64() > constraints.MaxDailyHours {
			entries = append(entries, LegalValidationEntry{
				Type: "ERROR", RuleCode: "max_daily_hours", Subject: key,
				Message: fmt.Sprintf("daily hours %.2f exceed max %.2f", hrs.InexactFloat64(), constraints.MaxDailyHours),
			})
		}
	}
	for emp, days := range daysByEmployee {
		if len(days) > constraints.MaxConsecutiveDays {
			entries = append(entries, LegalValidationEntry{
				Type: "WARNING", RuleCode: "max_consecutive_days", Subject: emp.String(),
				Message: fmt.Sprintf("%d worked days in plan exceeds %d", len(days), constraints.MaxConsecutiveDays),
			})
		}
	}

	valid := true
	for _, e := range entries {
		if e.Type == "ERROR" {
			valid = false
			break
		}
	}
	return entries, valid
}

// ConvocationPreviewEmployee summarizes one employee's assigned slots for
// convocation preview.
type ConvocationPreviewEmployee struct {
	EmployeeID  uuid.UUID             `json:"employee_id"`
	TotalHours  decimal.Decimal       `json:"total_hours"`
	SlotCount   int                   `json:"slot_count"`
	Status      string                `json:"status"` // ok | warning | error
	Validations []LegalValidationEntry `json:"validations"`
}

// ConvocationPreview groups assigned slots by employee, merging per-slot and
// per-employee legal validations.
func (e *Engine) ConvocationPreview(ctx context.Context, plan *model.HousekeepingSchedulePlan, constraints model.EffectiveConstraints, now time.Time) []ConvocationPreviewEmployee {
	entries, _ := e.ValidateLegal(ctx, plan, constraints, now)

	byEmployee := map[uuid.UUID]*ConvocationPreviewEmployee{}
	for _, s := range plan.Slots {
		if s.EmployeeID == nil {
			continue
		}
		emp := *s.EmployeeID
		p, ok := byEmployee[emp]
		if !ok {
			p = &ConvocationPreviewEmployee{EmployeeID: emp, Status: "ok"}
			byEmployee[emp] = p
		}
		p.TotalHours = p.TotalHours.Add(s.HoursWorked)
		p.SlotCount++
	}

	for _, e := range entries {
		if id, err := uuid.Parse(e.Subject); err == nil {
			if p, ok := byEmployee[id]; ok {
				p.Validations = append(p.Validations, e)
				if e.Type == "ERROR" {
					p.Status = "error"
				} else if p.Status != "error" {
					p.Status = "warning"
				}
			}
		}
	}

	result := make([]ConvocationPreviewEmployee, 0, len(byEmployee))
	for _, p := range byEmployee {
		result = append(result, *p)
	}
	return result
}

// OverrideHeadcount reduces targetDate's slot count to newHeadcount,
// removing unassigned slots before assigned ones, and records the change in
// a ScheduleOverrideLog. The removal and the log entry are written
// atomically, serialized against concurrent agenda regeneration on the same
// plan by the repository's advisory lock.
func (e *Engine) OverrideHeadcount(ctx context.Context, planID uuid.UUID, targetDate time.Time, newHeadcount int, performedBy *uuid.UUID, reason string) (*model.ScheduleOverrideLog, error) {
	plan, err := e.scheduleRepo.GetPlanByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("loading plan for headcount override: %w", err)
	}

	sink, err := trace.NewSink(ctx, e.agentRunRepo, plan.SectorID, Component, &planID)
	if err != nil {
		return nil, fmt.Errorf("starting schedule generator trace: %w", err)
	}

	log, err := e.scheduleRepo.OverrideHeadcount(ctx, planID, targetDate, newHeadcount, performedBy, reason)
	if err != nil {
		_ = sink.Fail(ctx, err.Error())
		return nil, err
	}

	if err := sink.Step(ctx, fmt.Sprintf("headcount override on %s: %d -> %d", targetDate.Format("2006-01-02"), log.PreviousHeadcount, log.NewHeadcount), nil,
		map[string]any{"removed_slot_count": log.PreviousHeadcount - log.NewHeadcount}, nil); err != nil {
		return nil, err
	}
	if err := sink.Complete(ctx); err != nil {
		return nil, err
	}
	return log, nil
}

func marshalJSON(dest *datatypes.JSON, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	*dest = raw
	return nil
}
