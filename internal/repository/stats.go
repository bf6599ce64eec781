package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hotelops/roster/internal/model"
)

// StatsRepository persists the Statistics Engine's weekday-bias,
// hourly-distribution, and turnover-rate tables.
type StatsRepository struct {
	db *DB
}

func NewStatsRepository(db *DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) GetWeekdayBias(ctx context.Context, sectorID uuid.UUID, metric string, weekday model.Weekday) (*model.WeekdayBiasStats, error) {
	var row model.WeekdayBiasStats
	err := r.db.GORM.WithContext(ctx).
		Where("sector_id = ? AND metric_name = ? AND weekday = ?", sectorID, metric, weekday).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting weekday bias: %w", err)
	}
	return &row, nil
}

func (r *StatsRepository) UpsertWeekdayBias(ctx context.Context, row *model.WeekdayBiasStats) error {
	err := r.db.GORM.WithContext(ctx).
		Where("sector_id = ? AND metric_name = ? AND weekday = ?", row.SectorID, row.MetricName, row.Weekday).
		Assign(row).
		FirstOrCreate(row).Error
	if err != nil {
		return fmt.Errorf("upserting weekday bias: %w", err)
	}
	return nil
}

func (r *StatsRepository) UpsertHourlyDistribution(ctx context.Context, row *model.HourlyDistributionStats) error {
	err := r.db.GORM.WithContext(ctx).
		Where("sector_id = ? AND metric_name = ? AND weekday = ? AND hour_timeline = ?", row.SectorID, row.MetricName, row.Weekday, row.HourTimeline).
		Assign(row).
		FirstOrCreate(row).Error
	if err != nil {
		return fmt.Errorf("upserting hourly distribution: %w", err)
	}
	return nil
}

func (r *StatsRepository) ListHourlyDistribution(ctx context.Context, sectorID uuid.UUID, metric string, weekday model.Weekday) ([]model.HourlyDistributionStats, error) {
	var rows []model.HourlyDistributionStats
	err := r.db.GORM.WithContext(ctx).
		Where("sector_id = ? AND metric_name = ? AND weekday = ?", sectorID, metric, weekday).
		Order("hour_timeline ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing hourly distribution: %w", err)
	}
	return rows, nil
}

func (r *StatsRepository) GetTurnoverRate(ctx context.Context, sectorID uuid.UUID, metric string, weekday model.Weekday) (*model.TurnoverRateStats, error) {
	var row model.TurnoverRateStats
	err := r.db.GORM.WithContext(ctx).
		Where("sector_id = ? AND metric_name = ? AND weekday = ?", sectorID, metric, weekday).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting turnover rate: %w", err)
	}
	return &row, nil
}

func (r *StatsRepository) UpsertTurnoverRate(ctx context.Context, row *model.TurnoverRateStats) error {
	err := r.db.GORM.WithContext(ctx).
		Where("sector_id = ? AND metric_name = ? AND weekday = ?", row.SectorID, row.MetricName, row.Weekday).
		Assign(row).
		FirstOrCreate(row).Error
	if err != nil {
		return fmt.Errorf("upserting turnover rate: %w", err)
	}
	return nil
}
