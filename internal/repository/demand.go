package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hotelops/roster/internal/model"
)

var ErrDemandDailyNotFound = errors.New("housekeeping demand daily not found")

type DemandRepository struct {
	db *DB
}

func NewDemandRepository(db *DB) *DemandRepository {
	return &DemandRepository{db: db}
}

func (r *DemandRepository) SaveAll(ctx context.Context, rows []model.HousekeepingDemandDaily) error {
	if len(rows) == 0 {
		return nil
	}
	if err := r.db.GORM.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("saving housekeeping demand dailies: %w", err)
	}
	return nil
}

func (r *DemandRepository) ListByRun(ctx context.Context, forecastRunID uuid.UUID) ([]model.HousekeepingDemandDaily, error) {
	var rows []model.HousekeepingDemandDaily
	err := r.db.GORM.WithContext(ctx).
		Where("forecast_run_id = ?", forecastRunID).
		Order("target_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing housekeeping demand dailies: %w", err)
	}
	return rows, nil
}

func (r *DemandRepository) DeleteByRun(ctx context.Context, forecastRunID uuid.UUID) error {
	if err := r.db.GORM.WithContext(ctx).Where("forecast_run_id = ?", forecastRunID).Delete(&model.HousekeepingDemandDaily{}).Error; err != nil {
		return fmt.Errorf("deleting housekeeping demand dailies: %w", err)
	}
	return nil
}

func (r *DemandRepository) GetByRunAndDate(ctx context.Context, forecastRunID uuid.UUID, targetDate time.Time) (*model.HousekeepingDemandDaily, error) {
	var row model.HousekeepingDemandDaily
	err := r.db.GORM.WithContext(ctx).
		Where("forecast_run_id = ? AND target_date = ?", forecastRunID, targetDate).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDemandDailyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting housekeeping demand daily: %w", err)
	}
	return &row, nil
}
