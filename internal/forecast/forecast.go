// Package forecast implements the Forecast-Run Engine: prerequisites
// checking, baseline creation, locking/supersession, daily updates,
// comparison, forecast error, and the executive summary.
package forecast

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/hotelops/roster/internal/apperr"
	"github.com/hotelops/roster/internal/model"
	"github.com/hotelops/roster/internal/repository"
	"github.com/hotelops/roster/internal/rulesengine"
	"github.com/hotelops/roster/internal/trace"
)

const Component = "forecast_run"

type Engine struct {
	sectorRepo    *repository.SectorRepository
	activityRepo  *repository.ActivityRepository
	occupancyRepo *repository.OccupancyRepository
	statsRepo     *repository.StatsRepository
	forecastRepo  *repository.ForecastRunRepository
	agentRunRepo  *repository.AgentRunRepository
	rules         *rulesengine.Engine
}

func NewEngine(
	sectorRepo *repository.SectorRepository,
	activityRepo *repository.ActivityRepository,
	occupancyRepo *repository.OccupancyRepository,
	statsRepo *repository.StatsRepository,
	forecastRepo *repository.ForecastRunRepository,
	agentRunRepo *repository.AgentRunRepository,
	rules *rulesengine.Engine,
) *Engine {
	return &Engine{
		sectorRepo:    sectorRepo,
		activityRepo:  activityRepo,
		occupancyRepo: occupancyRepo,
		statsRepo:     statsRepo,
		forecastRepo:  forecastRepo,
		agentRunRepo:  agentRunRepo,
		rules:         rules,
	}
}

// PrerequisitesVerdict is the structured result of the prerequisites check.
type PrerequisitesVerdict struct {
	Blocking []string `json:"blocking"`
	Warnings []string `json:"warnings"`
}

func (v PrerequisitesVerdict) OK() bool { return len(v.Blocking) == 0 }

// CheckPrerequisites verifies the four axes a baseline creation depends on:
// the sector exists, its operational parameters are configured, it has at
// least one active activity, and it has at least one historical occupancy
// record. Missing week-specific data only warns.
func (e *Engine) CheckPrerequisites(ctx context.Context, sectorID uuid.UUID, weekStart time.Time) (PrerequisitesVerdict, error) {
	var v PrerequisitesVerdict

	if _, err := e.sectorRepo.GetByID(ctx, sectorID); err != nil {
		v.Blocking = append(v.Blocking, "sector does not exist")
		return v, nil
	}

	if _, err := e.sectorRepo.GetOperationalParameters(ctx, sectorID); err != nil {
		v.Blocking = append(v.Blocking, "sector operational parameters are not configured")
	}

	activities, err := e.activityRepo.ListActiveBySector(ctx, sectorID)
	if err != nil {
		return v, fmt.Errorf("listing active activities: %w", err)
	}
	if len(activities) == 0 {
		v.Blocking = append(v.Blocking, "sector has no active activities")
	}

	hasHistory, err := e.occupancyRepo.HasAnyHistorical(ctx, sectorID)
	if err != nil {
		return v, fmt.Errorf("checking occupancy history: %w", err)
	}
	if !hasHistory {
		v.Blocking = append(v.Blocking, "sector has no historical occupancy records")
	}

	weekEnd := weekStart.AddDate(0, 0, 6)
	weekSnapshots, err := e.occupancyRepo.ListByDateRange(ctx, sectorID, weekStart, weekEnd)
	if err != nil {
		return v, fmt.Errorf("checking week-specific occupancy data: %w", err)
	}
	if len(weekSnapshots) == 0 {
		v.Warnings = append(v.Warnings, "no occupancy data specific to the requested week; falling back to latest projections")
	}

	return v, nil
}

type dailyResult struct {
	targetDate time.Time
	occRaw     *float64
	biasPP     float64
	safetyPP   float64
	occAdj     *float64
	sourceTag  model.ForecastSourceTag
}

// computeDaily resolves occ_raw/bias/safety/occ_adj for every date in
// [horizonStart, horizonStart+6] as of asOf.
func (e *Engine) computeDaily(ctx context.Context, sectorID uuid.UUID, horizonStart, asOf time.Time, params *model.SectorOperationalParameters) ([]dailyResult, error) {
	results := make([]dailyResult, 0, 7)

	safetyByWeekday := map[string]float64{}
	_ = unmarshalInto(params.SafetyPPByWeekday, &safetyByWeekday)

	for i := 0; i < 7; i++ {
		d := horizonStart.AddDate(0, 0, i)
		wd := model.WeekdayFromGoWeekday(int(d.Weekday()))

		var occRaw *float64
		var sourceTag model.ForecastSourceTag

		snap, err := e.occupancyRepo.MostRecentNonRealAsOf(ctx, sectorID, d, asOf)
		if err != nil {
			return nil, fmt.Errorf("resolving as-of occupancy: %w", err)
		}
		if snap != nil {
			pct := snap.OccupancyPct
			occRaw = &pct
			sourceTag = model.SourceOccupancySnapshot
		} else {
			latest, err := e.occupancyRepo.GetLatest(ctx, sectorID, d)
			if err != nil {
				return nil, fmt.Errorf("resolving occupancy latest fallback: %w", err)
			}
			if latest != nil {
				if latest.LatestForecastOccupancyPct != nil {
					occRaw = latest.LatestForecastOccupancyPct
				} else {
					occRaw = latest.OccupancyPct
				}
				sourceTag = model.SourceOccupancyLatest
			}
		}

		biasPP := 0.0
		bias, err := e.statsRepo.GetWeekdayBias(ctx, sectorID, "occupancy_pct", wd)
		if err != nil {
			return nil, fmt.Errorf("loading weekday bias: %w", err)
		}
		if bias != nil {
			biasPP = bias.BiasPP
		}

		safetyPP := safetyByWeekday[fmt.Sprintf("%d", int(wd))]

		results = append(results, dailyResult{
			targetDate: d,
			occRaw:     occRaw,
			biasPP:     biasPP,
			safetyPP:   safetyPP,
			occAdj:     model.ComputeOccAdj(occRaw, biasPP, safetyPP),
			sourceTag:  sourceTag,
		})
	}
	return results, nil
}

// CreateBaseline runs the prerequisites check, snapshots rules/params, and
// persists a COMPLETED (unlocked) BASELINE run with its ForecastDaily rows.
func (e *Engine) CreateBaseline(ctx context.Context, sectorID uuid.UUID, weekStart time.Time, asOf time.Time) (*model.ForecastRun, error) {
	return e.createRun(ctx, sectorID, weekStart, asOf, model.RunTypeBaseline)
}

// CreateDailyUpdate runs the same computation as CreateBaseline but never
// locks and is tagged DAILY_UPDATE.
func (e *Engine) CreateDailyUpdate(ctx context.Context, sectorID uuid.UUID, weekStart time.Time, asOf time.Time) (*model.ForecastRun, error) {
	return e.createRun(ctx, sectorID, weekStart, asOf, model.RunTypeDailyUpdate)
}

func (e *Engine) createRun(ctx context.Context, sectorID uuid.UUID, weekStart, asOf time.Time, runType model.ForecastRunType) (*model.ForecastRun, error) {
	sink, err := trace.NewSink(ctx, e.agentRunRepo, sectorID, Component, nil)
	if err != nil {
		return nil, fmt.Errorf("starting forecast run trace: %w", err)
	}

	verdict, err := e.CheckPrerequisites(ctx, sectorID, weekStart)
	if err != nil {
		_ = sink.Fail(ctx, err.Error())
		return nil, err
	}
	if err := sink.Step(ctx, "prerequisites check", nil, verdict, nil); err != nil {
		return nil, err
	}
	if !verdict.OK() {
		_ = sink.Fail(ctx, fmt.Sprintf("prerequisites failed: %v", verdict.Blocking))
		return nil, apperr.NewValidationError(verdict.Blocking...)
	}

	params, err := e.sectorRepo.GetOperationalParameters(ctx, sectorID)
	if err != nil {
		_ = sink.Fail(ctx, err.Error())
		return nil, fmt.Errorf("loading sector operational parameters: %w", err)
	}

	constraints, err := e.rules.GetConstraints(ctx, sectorID, asOf)
	if err != nil {
		_ = sink.Fail(ctx, err.Error())
		return nil, err
	}

	run := &model.ForecastRun{
		SectorID:     sectorID,
		RunType:      runType,
		HorizonStart: weekStart,
		HorizonEnd:   weekStart.AddDate(0, 0, 6),
		AsOfDatetime: asOf,
		Status:       "COMPLETED",
		BiasMethod:   model.MethodEWMA,
	}
	if err := marshalJSON(&run.Params, params); err != nil {
		_ = sink.Fail(ctx, err.Error())
		return nil, err
	}
	if err := e.forecastRepo.Create(ctx, run); err != nil {
		_ = sink.Fail(ctx, err.Error())
		return nil, fmt.Errorf("creating forecast run: %w", err)
	}

	snapshot := &model.ForecastRunSectorSnapshot{ForecastRunID: run.ID}
	if err := marshalJSON(&snapshot.OperationalParams, params); err != nil {
		_ = sink.Fail(ctx, err.Error())
		return nil, err
	}
	if err := marshalJSON(&snapshot.OperationalRules, constraints); err != nil {
		_ = sink.Fail(ctx, err.Error())
		return nil, err
	}
	if err := e.forecastRepo.SaveSectorSnapshot(ctx, snapshot); err != nil {
		_ = sink.Fail(ctx, err.Error())
		return nil, fmt.Errorf("saving sector snapshot: %w", err)
	}

	dailies, err := e.computeDaily(ctx, sectorID, weekStart, asOf, params)
	if err != nil {
		_ = sink.Fail(ctx, err.Error())
		return nil, err
	}

	rows := make([]model.ForecastDaily, 0, len(dailies))
	for _, d := range dailies {
		rows = append(rows, model.ForecastDaily{
			ForecastRunID: run.ID,
			TargetDate:    d.targetDate,
			OccRaw:        d.occRaw,
			BiasPPUsed:    d.biasPP,
			SafetyPPUsed:  d.safetyPP,
			OccAdj:        d.occAdj,
			SourceTag:     d.sourceTag,
		})
	}
	if err := e.forecastRepo.SaveDaily(ctx, rows); err != nil {
		_ = sink.Fail(ctx, err.Error())
		return nil, err
	}
	if err := sink.Step(ctx, "computed daily occupancy projections", nil, rows, nil); err != nil {
		return nil, err
	}

	if err := sink.Complete(ctx); err != nil {
		return nil, err
	}
	run.Daily = rows
	return run, nil
}

// Lock locks a BASELINE run, superseding the prior active baseline for the
// same (sector, horizon_start).
func (e *Engine) Lock(ctx context.Context, runID uuid.UUID) (*model.ForecastRun, error) {
	return e.forecastRepo.Lock(ctx, runID)
}

// ComparisonRow is one date's delta between two runs.
type ComparisonRow struct {
	TargetDate time.Time `json:"target_date"`
	OccAdjA    *float64  `json:"occ_adj_a"`
	OccAdjB    *float64  `json:"occ_adj_b"`
	Delta      *float64  `json:"delta"`
}

// Compare emits per-date deltas occ_adj_B - occ_adj_A plus the mean absolute
// delta summary. Dates absent on either side are null in the diff row.
func (e *Engine) Compare(ctx context.Context, runAID, runBID uuid.UUID) ([]ComparisonRow, float64, error) {
	runA, err := e.forecastRepo.GetByID(ctx, runAID)
	if err != nil {
		return nil, 0, err
	}
	runB, err := e.forecastRepo.GetByID(ctx, runBID)
	if err != nil {
		return nil, 0, err
	}

	byDateA := map[time.Time]*float64{}
	for _, d := range runA.Daily {
		byDateA[d.TargetDate] = d.OccAdj
	}
	byDateB := map[time.Time]*float64{}
	for _, d := range runB.Daily {
		byDateB[d.TargetDate] = d.OccAdj
	}

	dateSet := map[time.Time]struct{}{}
	for d := range byDateA {
		dateSet[d] = struct{}{}
	}
	for d := range byDateB {
		dateSet[d] = struct{}{}
	}

	var rows []ComparisonRow
	sumAbs, n := 0.0, 0
	for d := range dateSet {
		a := byDateA[d]
		b := byDateB[d]
		row := ComparisonRow{TargetDate: d, OccAdjA: a, OccAdjB: b}
		if a != nil && b != nil {
			delta := *b - *a
			row.Delta = &delta
			sumAbs += math.Abs(delta)
			n++
		}
		rows = append(rows, row)
	}

	meanAbsDelta := 0.0
	if n > 0 {
		meanAbsDelta = sumAbs / float64(n)
	}
	return rows, meanAbsDelta, nil
}

// ForecastErrorResult aggregates mean error between a run's ForecastDaily
// rows (for target_date < today) and the real occupancy observed since.
type ForecastErrorResult struct {
	MeanErrorPP  float64 `json:"mean_error_pp"`
	SampleCount  int     `json:"sample_count"`
}

func (e *Engine) ForecastError(ctx context.Context, runID uuid.UUID, today time.Time) (ForecastErrorResult, error) {
	run, err := e.forecastRepo.GetByID(ctx, runID)
	if err != nil {
		return ForecastErrorResult{}, err
	}

	sumAbs, n := 0.0, 0
	for _, d := range run.Daily {
		if !d.TargetDate.Before(today) || d.OccAdj == nil {
			continue
		}
		latest, err := e.occupancyRepo.GetLatest(ctx, run.SectorID, d.TargetDate)
		if err != nil {
			return ForecastErrorResult{}, fmt.Errorf("loading real occupancy for forecast error: %w", err)
		}
		if latest == nil || latest.LatestRealOccupancyPct == nil {
			continue
		}
		sumAbs += math.Abs(*latest.LatestRealOccupancyPct - *d.OccAdj)
		n++
	}

	result := ForecastErrorResult{SampleCount: n}
	if n > 0 {
		result.MeanErrorPP = sumAbs / float64(n)
	}
	return result, nil
}

// ExecutiveSummaryItem flags one day whose baseline and latest daily-update
// projections have drifted beyond threshold.
type ExecutiveSummaryItem struct {
	TargetDate     time.Time `json:"target_date"`
	BaselineAdj    float64   `json:"baseline_adj"`
	LatestAdj      float64   `json:"latest_adj"`
	DeltaPP        float64   `json:"delta_pp"`
	Recommendation string    `json:"recommendation"`
}

const DefaultExecutiveSummaryThresholdPP = 2.0

// ExecutiveSummary flags every day where |baseline_adj - latest_daily_adj|
// exceeds threshold, with a human-facing recommendation string.
func (e *Engine) ExecutiveSummary(ctx context.Context, baselineID, latestDailyID uuid.UUID, thresholdPP float64) ([]ExecutiveSummaryItem, error) {
	if thresholdPP <= 0 {
		thresholdPP = DefaultExecutiveSummaryThresholdPP
	}
	baseline, err := e.forecastRepo.GetByID(ctx, baselineID)
	if err != nil {
		return nil, err
	}
	latest, err := e.forecastRepo.GetByID(ctx, latestDailyID)
	if err != nil {
		return nil, err
	}

	latestByDate := map[time.Time]float64{}
	for _, d := range latest.Daily {
		if d.OccAdj != nil {
			latestByDate[d.TargetDate] = *d.OccAdj
		}
	}

	var items []ExecutiveSummaryItem
	for _, d := range baseline.Daily {
		if d.OccAdj == nil {
			continue
		}
		latestAdj, ok := latestByDate[d.TargetDate]
		if !ok {
			continue
		}
		delta := latestAdj - *d.OccAdj
		if math.Abs(delta) <= thresholdPP {
			continue
		}
		direction := "above"
		if delta < 0 {
			direction = "below"
		}
		items = append(items, ExecutiveSummaryItem{
			TargetDate:  d.TargetDate,
			BaselineAdj: *d.OccAdj,
			LatestAdj:   latestAdj,
			DeltaPP:     delta,
			Recommendation: fmt.Sprintf(
				"occupancy for %s is now projected %.1f pp %s the locked baseline; review staffing for this day",
				d.TargetDate.Format("2006-01-02"), math.Abs(delta), direction),
		})
	}
	return items, nil
}
