// Package demand implements the Demand Engine: turns one
// ForecastRun's adjusted occupancy projections into per-day housekeeping
// minutes and headcount, with a full calculation-memory breakdown.
package demand

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/hotelops/roster/internal/calendar"
	"github.com/hotelops/roster/internal/model"
	"github.com/hotelops/roster/internal/repository"
	"github.com/hotelops/roster/internal/rulesengine"
	"github.com/hotelops/roster/internal/trace"
)

const Component = "demand_engine"

const (
	scopeDemand      = "DEMAND"
	scopeAdjustments = "ADJUSTMENTS"
)

type Engine struct {
	sectorRepo    *repository.SectorRepository
	activityRepo  *repository.ActivityRepository
	frontdeskRepo *repository.FrontdeskRepository
	statsRepo     *repository.StatsRepository
	forecastRepo  *repository.ForecastRunRepository
	demandRepo    *repository.DemandRepository
	agentRunRepo  *repository.AgentRunRepository
	rules         *rulesengine.Engine
	calendarEng   *calendar.Engine
}

func NewEngine(
	sectorRepo *repository.SectorRepository,
	activityRepo *repository.ActivityRepository,
	frontdeskRepo *repository.FrontdeskRepository,
	statsRepo *repository.StatsRepository,
	forecastRepo *repository.ForecastRunRepository,
	demandRepo *repository.DemandRepository,
	agentRunRepo *repository.AgentRunRepository,
	rules *rulesengine.Engine,
	calendarEng *calendar.Engine,
) *Engine {
	return &Engine{
		sectorRepo: sectorRepo, activityRepo: activityRepo, frontdeskRepo: frontdeskRepo,
		statsRepo: statsRepo, forecastRepo: forecastRepo, demandRepo: demandRepo,
		agentRunRepo: agentRunRepo, rules: rules, calendarEng: calendarEng,
	}
}

// Compute derives and persists HousekeepingDemandDaily rows for every
// ForecastDaily in run, replacing any prior rows for the same run.
func (e *Engine) Compute(ctx context.Context, runID uuid.UUID) ([]model.HousekeepingDemandDaily, error) {
	run, err := e.forecastRepo.GetByID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("loading forecast run: %w", err)
	}

	params, err := e.sectorRepo.GetOperationalParameters(ctx, run.SectorID)
	if err != nil {
		return nil, fmt.Errorf("loading sector operational parameters: %w", err)
	}

	activities, err := e.activityRepo.ListActiveBySector(ctx, run.SectorID)
	if err != nil {
		return nil, fmt.Errorf("listing active activities: %w", err)
	}

	sink, err := trace.NewSink(ctx, e.agentRunRepo, run.SectorID, Component, &run.ID)
	if err != nil {
		return nil, fmt.Errorf("starting demand engine trace: %w", err)
	}

	if err := e.demandRepo.DeleteByRun(ctx, runID); err != nil {
		_ = sink.Fail(ctx, err.Error())
		return nil, err
	}

	rows := make([]model.HousekeepingDemandDaily, 0, len(run.Daily))
	for _, fd := range run.Daily {
		row, breakdown, err := e.computeDay(ctx, run.SectorID, fd, params, activities)
		if err != nil {
			_ = sink.Fail(ctx, err.Error())
			return nil, err
		}
		row.ForecastRunID = runID
		if err := marshalJSON(&row.CalculationBreakdown, breakdown); err != nil {
			_ = sink.Fail(ctx, err.Error())
			return nil, err
		}
		rows = append(rows, row)

		if err := sink.Step(ctx, fmt.Sprintf("computed demand for %s", fd.TargetDate.Format("2006-01-02")), breakdown.RulesApplied, breakdown, nil); err != nil {
			return nil, err
		}
	}

	if err := e.demandRepo.SaveAll(ctx, rows); err != nil {
		_ = sink.Fail(ctx, err.Error())
		return nil, err
	}
	if err := sink.Complete(ctx); err != nil {
		return nil, err
	}
	return rows, nil
}

// breakdown is the "calculation memory" persisted per day: named inputs,
// calendar factors, applied rule ids, and derived calculations.
type breakdown struct {
	Formula            string                           `json:"formula"`
	MethodVersion       string                           `json:"method_version"`
	Inputs              map[string]any                   `json:"inputs"`
	CalendarFactors     model.CalendarFactors             `json:"calendar_factors"`
	ConstantActivities  []string                         `json:"constant_activities"`
	RulesApplied        []rulesengine.AppliedAdjustment  `json:"regras_aplicadas"`
	Calculations        map[string]any                   `json:"calculations"`
}

func (e *Engine) computeDay(ctx context.Context, sectorID uuid.UUID, fd model.ForecastDaily, params *model.SectorOperationalParameters, activities []model.GovernanceActivity) (model.HousekeepingDemandDaily, breakdown, error) {
	d := fd.TargetDate
	wd := model.WeekdayFromGoWeekday(int(d.Weekday()))

	occAdj := 0.0
	if fd.OccAdj != nil {
		occAdj = *fd.OccAdj
	}
	occupiedRooms := int(math.Round(float64(params.TotalRooms) * occAdj / 100))

	departures, departuresSource, err := e.resolveCount(ctx, sectorID, d, wd, occupiedRooms, model.EventCheckout, params.DefaultTurnoverByWeekday, model.DefaultTurnoverRate)
	if err != nil {
		return model.HousekeepingDemandDaily{}, breakdown{}, err
	}
	arrivals, arrivalsSource, err := e.resolveCount(ctx, sectorID, d, wd, occupiedRooms, model.EventCheckin, params.DefaultArrivalByWeekday, model.DefaultArrivalRate)
	if err != nil {
		return model.HousekeepingDemandDaily{}, breakdown{}, err
	}

	stayovers := occupiedRooms - departures
	if stayovers < 0 {
		stayovers = 0
	}

	minutesVariable := decimal.NewFromInt(int64(departures)).Mul(decimal.NewFromInt(int64(params.TimeVacantDirtyMinutes))).
		Add(decimal.NewFromInt(int64(stayovers)).Mul(decimal.NewFromInt(int64(params.TimeStayoverMinutes))))

	var constantNames []string
	minutesConstant := decimal.Zero
	for _, a := range activities {
		if a.WorkloadDriver != model.DriverConstant {
			continue
		}
		minutesConstant = minutesConstant.Add(decimal.NewFromInt(int64(a.AverageMinutes)))
		constantNames = append(constantNames, a.Code)
	}

	minutesRaw := minutesVariable.Add(minutesConstant)
	minutesBuffered := minutesRaw.Mul(decimal.NewFromFloat(1 + params.BufferPct/100))

	factors, err := e.calendarEng.GetFactors(ctx, sectorID, d)
	if err != nil {
		return model.HousekeepingDemandDaily{}, breakdown{}, err
	}
	minutesCalAdj := minutesBuffered.Mul(decimal.NewFromFloat(factors.DemandFactor))

	rules, err := e.rules.FetchRules(ctx, sectorID, d, true)
	if err != nil {
		return model.HousekeepingDemandDaily{}, breakdown{}, err
	}
	minutesAfterDemand, appliedDemand := rulesengine.ApplyScopedAdjustments(rules, scopeDemand, minutesCalAdj.InexactFloat64())
	minutesRuleAdj, appliedAdjustments := rulesengine.ApplyScopedAdjustments(rules, scopeAdjustments, minutesAfterDemand)
	appliedRules := append(appliedDemand, appliedAdjustments...)

	hoursProductive := decimal.NewFromFloat(minutesRuleAdj).Div(decimal.NewFromInt(60))

	adjustedUtilization := params.UtilizationTargetPct * factors.ProductivityFactor
	hoursTotal := hoursProductive
	if adjustedUtilization > 0 {
		hoursTotal = hoursProductive.Div(decimal.NewFromFloat(adjustedUtilization / 100))
	}

	headcountRequired := hoursTotal
	if params.AvgShiftHours > 0 {
		headcountRequired = hoursTotal.Div(decimal.NewFromFloat(params.AvgShiftHours))
	}
	headcountRounded := model.HeadcountRoundedFrom(headcountRequired)

	row := model.HousekeepingDemandDaily{
		TargetDate:         d,
		OccupiedRooms:      occupiedRooms,
		DeparturesCount:    departures,
		DeparturesSource:   departuresSource,
		ArrivalsCount:      arrivals,
		ArrivalsSource:     arrivalsSource,
		StayoversEstimated: stayovers,
		MinutesVariable:    minutesVariable,
		MinutesConstant:    minutesConstant,
		MinutesRaw:         minutesRaw,
		MinutesBuffered:    minutesBuffered,
		HoursProductive:    hoursProductive,
		HoursTotal:         hoursTotal,
		HeadcountRequired:  headcountRequired,
		HeadcountRounded:   headcountRounded,
	}

	bd := breakdown{
		Formula:       "minutes_variable + minutes_constant -> buffered -> calendar-adjusted -> rule-adjusted -> hours -> headcount",
		MethodVersion: "v1",
		Inputs: map[string]any{
			"occ_adj":          occAdj,
			"total_rooms":      params.TotalRooms,
			"weekday":          wd.String(),
			"time_vacant_dirty_minutes": params.TimeVacantDirtyMinutes,
			"time_stayover_minutes":     params.TimeStayoverMinutes,
			"buffer_pct":                params.BufferPct,
		},
		CalendarFactors:    factors,
		ConstantActivities: constantNames,
		RulesApplied:       appliedRules,
		Calculations: map[string]any{
			"minutes_raw":          minutesRaw.String(),
			"minutes_buffered":     minutesBuffered.String(),
			"minutes_cal_adj":      minutesCalAdj.String(),
			"minutes_rule_adj":     minutesRuleAdj,
			"hours_productive":     hoursProductive.String(),
			"adjusted_utilization": adjustedUtilization,
			"hours_total":          hoursTotal.String(),
			"headcount_required":   headcountRequired.String(),
		},
	}

	return row, bd, nil
}

// resolveCount applies the best-of fallback chain: real front-desk
// aggregates, then turnover/arrival rate stats, then the sector's static
// default-by-weekday table.
func (e *Engine) resolveCount(ctx context.Context, sectorID uuid.UUID, d time.Time, wd model.Weekday, occupiedRooms int, eventType model.FrontdeskEventType, defaultsJSON datatypes.JSON, builtinDefault map[model.Weekday]float64) (int, model.DemandSource, error) {
	real, err := e.frontdeskRepo.CountByDateAndType(ctx, sectorID, d, eventType)
	if err != nil {
		return 0, "", fmt.Errorf("counting real frontdesk events: %w", err)
	}
	if real > 0 {
		return real, model.DemandSourceReal, nil
	}

	metric := string(eventType)
	rate, err := e.statsRepo.GetTurnoverRate(ctx, sectorID, metric, wd)
	if err != nil {
		return 0, "", fmt.Errorf("loading turnover rate stats: %w", err)
	}
	if rate != nil {
		return int(math.Round(float64(occupiedRooms) * rate.Rate)), model.DemandSourceTurnoverStats, nil
	}

	defaults := map[string]float64{}
	_ = unmarshalJSON(defaultsJSON, &defaults)
	if v, ok := defaults[fmt.Sprintf("%d", int(wd))]; ok {
		return int(math.Round(float64(occupiedRooms) * v)), model.DemandSourceDefaultFallback, nil
	}
	return int(math.Round(float64(occupiedRooms) * builtinDefault[wd])), model.DemandSourceDefaultFallback, nil
}

func marshalJSON(dest *datatypes.JSON, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	*dest = raw
	return nil
}

func unmarshalJSON(raw datatypes.JSON, dest any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dest)
}
