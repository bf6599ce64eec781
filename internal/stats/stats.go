// Package stats implements the Statistics Engine: incremental, deterministic
// weekday-bias and hourly-distribution tables derived from paired
// forecast/real occupancy samples and front-desk event aggregates.
package stats

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/hotelops/roster/internal/model"
	"github.com/hotelops/roster/internal/repository"
)

const (
	// DefaultAlpha is the EWMA smoothing factor applied to weekday bias
	// updates absent an explicit override.
	DefaultAlpha = 0.2

	MetricOccupancy = "occupancy_pct"
)

type Engine struct {
	occupancyRepo *repository.OccupancyRepository
	frontdeskRepo *repository.FrontdeskRepository
	statsRepo     *repository.StatsRepository
}

func NewEngine(occupancyRepo *repository.OccupancyRepository, frontdeskRepo *repository.FrontdeskRepository, statsRepo *repository.StatsRepository) *Engine {
	return &Engine{occupancyRepo: occupancyRepo, frontdeskRepo: frontdeskRepo, statsRepo: statsRepo}
}

// UpdateWeekdayBias recomputes bias_pp for every weekday with at least one
// paired (real, forecast) occupancy sample in [from, to]. Weekdays with no
// paired samples are skipped silently — no row is written, so callers must
// continue treating absence as bias 0 with has_bias_data = false.
func (e *Engine) UpdateWeekdayBias(ctx context.Context, sectorID uuid.UUID, from, to time.Time, alpha float64) error {
	if alpha <= 0 {
		alpha = DefaultAlpha
	}

	snapshots, err := e.occupancyRepo.ListByDateRange(ctx, sectorID, from, to)
	if err != nil {
		return fmt.Errorf("listing occupancy snapshots for bias update: %w", err)
	}

	type latestPair struct {
		real     *model.OccupancySnapshot
		forecast *model.OccupancySnapshot
	}
	byDate := map[time.Time]*latestPair{}
	for i := range snapshots {
		s := &snapshots[i]
		key := s.TargetDate
		p, ok := byDate[key]
		if !ok {
			p = &latestPair{}
			byDate[key] = p
		}
		if s.IsReal {
			if p.real == nil || s.GeneratedAt.After(p.real.GeneratedAt) {
				p.real = s
			}
		} else if s.IsForecast {
			if p.forecast == nil || s.GeneratedAt.After(p.forecast.GeneratedAt) {
				p.forecast = s
			}
		}
	}

	byWeekday := map[model.Weekday][]float64{}
	for date, p := range byDate {
		if p.real == nil || p.forecast == nil {
			continue
		}
		wd := model.WeekdayFromGoWeekday(int(date.Weekday()))
		errPP := p.real.OccupancyPct - p.forecast.OccupancyPct
		byWeekday[wd] = append(byWeekday[wd], errPP)
	}

	for wd, errs := range byWeekday {
		if len(errs) == 0 {
			continue
		}
		batchMean := mean(errs)

		existing, err := e.statsRepo.GetWeekdayBias(ctx, sectorID, MetricOccupancy, wd)
		if err != nil {
			return fmt.Errorf("loading existing weekday bias: %w", err)
		}

		row := &model.WeekdayBiasStats{SectorID: sectorID, MetricName: MetricOccupancy, Weekday: wd, Method: model.MethodEWMA}
		if existing == nil || existing.N == 0 {
			row.BiasPP = batchMean
		} else {
			row.BiasPP = (1-alpha)*existing.BiasPP + alpha*batchMean
		}

		priorN := 0
		priorSumAbs := 0.0
		priorSumSq := 0.0
		if existing != nil {
			priorN = existing.N
			priorSumAbs = existing.MAEPP * float64(priorN)
			priorSumSq = existing.StdPP * existing.StdPP * float64(priorN)
		}
		totalN := priorN + len(errs)
		sumAbs := priorSumAbs
		sumSq := priorSumSq
		for _, v := range errs {
			sumAbs += math.Abs(v)
			sumSq += v * v
		}
		row.N = totalN
		if totalN > 0 {
			row.MAEPP = sumAbs / float64(totalN)
			row.StdPP = math.Sqrt(sumSq / float64(totalN))
		}

		if err := e.statsRepo.UpsertWeekdayBias(ctx, row); err != nil {
			return fmt.Errorf("upserting weekday bias for weekday %d: %w", wd, err)
		}
	}
	return nil
}

// BootstrapWeekdayBias lets an authorized caller seed bias directly. The row
// is tagged BOOTSTRAP_MANUAL with n=0 so a subsequent EWMA update overwrites
// it as if freshly seeded rather than smoothing against it.
func (e *Engine) BootstrapWeekdayBias(ctx context.Context, sectorID uuid.UUID, weekday model.Weekday, biasPP float64) error {
	row := &model.WeekdayBiasStats{
		SectorID:   sectorID,
		MetricName: MetricOccupancy,
		Weekday:    weekday,
		BiasPP:     biasPP,
		N:          0,
		Method:     model.MethodBootstrapManual,
	}
	if err := e.statsRepo.UpsertWeekdayBias(ctx, row); err != nil {
		return fmt.Errorf("bootstrapping weekday bias: %w", err)
	}
	return nil
}

// UpdateHourlyDistribution recomputes the percentage share of eventType
// events falling in each hour_timeline bucket, for every weekday with any
// aggregated data.
func (e *Engine) UpdateHourlyDistribution(ctx context.Context, sectorID uuid.UUID, eventType model.FrontdeskEventType) error {
	for wd := model.Monday; wd <= model.Sunday; wd++ {
		aggs, err := e.frontdeskRepo.SumByWeekdayHourAndType(ctx, sectorID, wd, eventType)
		if err != nil {
			return fmt.Errorf("summing hourly aggregates: %w", err)
		}
		if len(aggs) == 0 {
			continue
		}
		total := 0
		for _, a := range aggs {
			total += a.CountEvents
		}
		if total == 0 {
			continue
		}

		n, err := e.frontdeskRepo.DistinctOperationalDates(ctx, sectorID, wd, eventType)
		if err != nil {
			return fmt.Errorf("counting distinct operational dates: %w", err)
		}

		metric := string(eventType)
		for _, a := range aggs {
			row := &model.HourlyDistributionStats{
				SectorID:     sectorID,
				MetricName:   metric,
				Weekday:      wd,
				HourTimeline: a.HourTimeline,
				PercentShare: 100 * float64(a.CountEvents) / float64(total),
				N:            n,
			}
			if err := e.statsRepo.UpsertHourlyDistribution(ctx, row); err != nil {
				return fmt.Errorf("upserting hourly distribution: %w", err)
			}
		}
	}
	return nil
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
