// Package suggestion implements the Suggestion/Replan Engine:
// compares live daily demand against a locked baseline plan and emits
// ReplanSuggestion rows past threshold, plus user-facing DailySuggestion
// recommendations.
package suggestion

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/hotelops/roster/internal/model"
	"github.com/hotelops/roster/internal/repository"
)

const (
	DefaultReplanThresholdPP = 5.0
	DefaultCostPerHead       = 150.0
	DefaultCostThreshold     = 300.0
)

type Engine struct {
	scheduleRepo   *repository.ScheduleRepository
	demandRepo     *repository.DemandRepository
	forecastRepo   *repository.ForecastRunRepository
	suggestionRepo *repository.SuggestionRepository
}

func NewEngine(
	scheduleRepo *repository.ScheduleRepository,
	demandRepo *repository.DemandRepository,
	forecastRepo *repository.ForecastRunRepository,
	suggestionRepo *repository.SuggestionRepository,
) *Engine {
	return &Engine{scheduleRepo: scheduleRepo, demandRepo: demandRepo, forecastRepo: forecastRepo, suggestionRepo: suggestionRepo}
}

// Thresholds bundles the replan engine's two trigger conditions.
type Thresholds struct {
	ReplanThresholdPP float64
	CostPerHead       float64
	CostThreshold     float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{ReplanThresholdPP: DefaultReplanThresholdPP, CostPerHead: DefaultCostPerHead, CostThreshold: DefaultCostThreshold}
}

// CompareToBaseline reads the baseline plan's demand-day headcount/occ_adj
// against the latest daily-update run's, and emits ReplanSuggestion rows
// for every day past threshold.
func (e *Engine) CompareToBaseline(ctx context.Context, baselinePlanID uuid.UUID, latestRunID uuid.UUID, thresholds Thresholds) ([]model.ReplanSuggestion, error) {
	baselinePlan, err := e.scheduleRepo.GetPlanByID(ctx, baselinePlanID)
	if err != nil {
		return nil, fmt.Errorf("loading baseline plan: %w", err)
	}

	baselineDemand, err := e.demandRepo.ListByRun(ctx, baselinePlan.ForecastRunID)
	if err != nil {
		return nil, fmt.Errorf("listing baseline demand: %w", err)
	}
	baselineForecast, err := e.forecastRepo.GetByID(ctx, baselinePlan.ForecastRunID)
	if err != nil {
		return nil, fmt.Errorf("loading baseline forecast run: %w", err)
	}

	latestDemand, err := e.demandRepo.ListByRun(ctx, latestRunID)
	if err != nil {
		return nil, fmt.Errorf("listing latest demand: %w", err)
	}
	latestForecast, err := e.forecastRepo.GetByID(ctx, latestRunID)
	if err != nil {
		return nil, fmt.Errorf("loading latest forecast run: %w", err)
	}

	baselineByDate := map[string]model.HousekeepingDemandDaily{}
	for _, d := range baselineDemand {
		baselineByDate[d.TargetDate.Format("2006-01-02")] = d
	}
	baselineOccByDate := map[string]float64{}
	for _, fd := range baselineForecast.Daily {
		if fd.OccAdj != nil {
			baselineOccByDate[fd.TargetDate.Format("2006-01-02")] = *fd.OccAdj
		}
	}
	latestOccByDate := map[string]float64{}
	for _, fd := range latestForecast.Daily {
		if fd.OccAdj != nil {
			latestOccByDate[fd.TargetDate.Format("2006-01-02")] = *fd.OccAdj
		}
	}

	var suggestions []model.ReplanSuggestion
	for _, latest := range latestDemand {
		key := latest.TargetDate.Format("2006-01-02")
		baseline, ok := baselineByDate[key]
		if !ok {
			continue
		}

		headcountDelta := latest.HeadcountRounded - baseline.HeadcountRounded
		costImpact := math.Abs(float64(headcountDelta)) * thresholds.CostPerHead

		occDelta := 0.0
		if bv, ok := baselineOccByDate[key]; ok {
			if lv, ok := latestOccByDate[key]; ok {
				occDelta = lv - bv
			}
		}

		triggeredByCost := costImpact >= thresholds.CostThreshold
		triggeredByOcc := math.Abs(occDelta) > thresholds.ReplanThresholdPP
		if !triggeredByCost && !triggeredByOcc {
			continue
		}

		reason := "occupancy projection shifted"
		priority := 100
		if triggeredByCost {
			reason = "headcount delta crosses cost threshold"
			priority = 50
		}

		justification := map[string]any{
			"headcount_baseline": baseline.HeadcountRounded,
			"headcount_latest":   latest.HeadcountRounded,
			"occ_adj_delta_pp":   occDelta,
			"cost_impact":        costImpact,
		}
		raw, err := json.Marshal(justification)
		if err != nil {
			return nil, err
		}

		suggestions = append(suggestions, model.ReplanSuggestion{
			SectorID:          baselinePlan.SectorID,
			BaselinePlanID:    baselinePlanID,
			TargetDate:        latest.TargetDate,
			Type:              "headcount_adjustment",
			OriginalValue:     decimal.NewFromInt(int64(baseline.HeadcountRounded)),
			SuggestedValue:    decimal.NewFromInt(int64(latest.HeadcountRounded)),
			Delta:             decimal.NewFromInt(int64(headcountDelta)),
			Reason:            reason,
			JustificationJSON: datatypes.JSON(raw),
			Priority:          priority,
		})
	}

	for i := range suggestions {
		if err := e.suggestionRepo.CreateReplan(ctx, &suggestions[i]); err != nil {
			return nil, fmt.Errorf("creating replan suggestion: %w", err)
		}
	}
	return suggestions, nil
}

// DecideReplan records a decision on a ReplanSuggestion without mutating
// any plan; applying it is a separate, explicit downstream action.
func (e *Engine) DecideReplan(ctx context.Context, id uuid.UUID, accept bool) (*model.ReplanSuggestion, error) {
	rs, err := e.suggestionRepo.GetReplanByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rs.IsAccepted = &accept
	if err := e.suggestionRepo.UpdateReplan(ctx, rs); err != nil {
		return nil, fmt.Errorf("deciding replan suggestion: %w", err)
	}
	return rs, nil
}

// EmitDailySuggestions derives FINANCIAL/OPERATIONAL/LEGAL recommendations
// for one day by comparing headcount_required against headcount_rounded
// and the legal-validation state of the day's convocations.
func (e *Engine) EmitDailySuggestions(ctx context.Context, sectorID uuid.UUID, demand model.HousekeepingDemandDaily, legalErrors, legalWarnings []string) ([]model.DailySuggestion, error) {
	var suggestions []model.DailySuggestion

	requiredF := demand.HeadcountRequired.InexactFloat64()
	roundedF := float64(demand.HeadcountRounded)
	slack := roundedF - requiredF

	switch {
	case slack >= 1.0:
		suggestions = append(suggestions, model.DailySuggestion{
			SectorID: sectorID, TargetDate: demand.TargetDate, Category: model.CategoryFinancial,
			Kind: "reduce_hours", Message: "headcount rounds up with over a full head of slack; consider reducing scheduled hours",
		})
	case slack < 0.15:
		suggestions = append(suggestions, model.DailySuggestion{
			SectorID: sectorID, TargetDate: demand.TargetDate, Category: model.CategoryOperational,
			Kind: "reinforce_team", Message: "headcount is tight against required hours; consider reinforcing the team",
		})
	}

	if len(legalErrors) > 0 {
		suggestions = append(suggestions, model.DailySuggestion{
			SectorID: sectorID, TargetDate: demand.TargetDate, Category: model.CategoryLegal,
			Kind: "preventive_substitution", Message: fmt.Sprintf("%d legal validation error(s) on this day; consider a preventive substitution", len(legalErrors)),
		})
	}
	if len(legalWarnings) > 0 {
		suggestions = append(suggestions, model.DailySuggestion{
			SectorID: sectorID, TargetDate: demand.TargetDate, Category: model.CategoryLegal,
			Kind: "anticipate_shift", Message: fmt.Sprintf("%d advance-notice warning(s); consider anticipating the shift", len(legalWarnings)),
		})
	}

	for i := range suggestions {
		if err := e.suggestionRepo.Create(ctx, &suggestions[i]); err != nil {
			return nil, fmt.Errorf("creating daily suggestion: %w", err)
		}
	}
	return suggestions, nil
}

// DecideDailySuggestion transitions a DailySuggestion OPEN -> APPLIED or
// OPEN -> IGNORED.
func (e *Engine) DecideDailySuggestion(ctx context.Context, id uuid.UUID, status model.SuggestionStatus) (*model.DailySuggestion, error) {
	s, err := e.suggestionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Status != model.SuggestionOpen {
		return nil, fmt.Errorf("daily suggestion %s is not OPEN", id)
	}
	s.Status = status
	if err := e.suggestionRepo.Update(ctx, s); err != nil {
		return nil, fmt.Errorf("deciding daily suggestion: %w", err)
	}
	return s, nil
}
