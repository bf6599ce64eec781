package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hotelops/roster/internal/model"
)

var (
	ErrActivityNotFound    = errors.New("governance activity not found")
	ErrPeriodicityNotFound = errors.New("activity periodicity not found")
)

type ActivityRepository struct {
	db *DB
}

func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(ctx context.Context, a *model.GovernanceActivity) error {
	if err := r.db.GORM.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("creating governance activity: %w", err)
	}
	return nil
}

func (r *ActivityRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.GovernanceActivity, error) {
	var a model.GovernanceActivity
	err := r.db.GORM.WithContext(ctx).First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrActivityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting governance activity: %w", err)
	}
	return &a, nil
}

func (r *ActivityRepository) Update(ctx context.Context, a *model.GovernanceActivity) error {
	if err := r.db.GORM.WithContext(ctx).Save(a).Error; err != nil {
		return fmt.Errorf("updating governance activity: %w", err)
	}
	return nil
}

func (r *ActivityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.GORM.WithContext(ctx).Delete(&model.GovernanceActivity{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("deleting governance activity: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrActivityNotFound
	}
	return nil
}

// ListActiveBySector returns every active activity for a sector, used both
// by the prerequisites check and the Demand/Agenda Engines' activity pool.
func (r *ActivityRepository) ListActiveBySector(ctx context.Context, sectorID uuid.UUID) ([]model.GovernanceActivity, error) {
	var activities []model.GovernanceActivity
	err := r.db.GORM.WithContext(ctx).
		Where("sector_id = ? AND is_active = ?", sectorID, true).
		Order("difficulty DESC, name ASC").
		Find(&activities).Error
	if err != nil {
		return nil, fmt.Errorf("listing governance activities: %w", err)
	}
	return activities, nil
}

func (r *ActivityRepository) ListByClassification(ctx context.Context, sectorID uuid.UUID, classification model.ActivityClassification) ([]model.GovernanceActivity, error) {
	var activities []model.GovernanceActivity
	err := r.db.GORM.WithContext(ctx).
		Where("sector_id = ? AND is_active = ? AND classification = ?", sectorID, true, classification).
		Order("difficulty DESC, name ASC").
		Find(&activities).Error
	if err != nil {
		return nil, fmt.Errorf("listing governance activities by classification: %w", err)
	}
	return activities, nil
}

func (r *ActivityRepository) GetPeriodicity(ctx context.Context, id uuid.UUID) (*model.ActivityPeriodicity, error) {
	var p model.ActivityPeriodicity
	err := r.db.GORM.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPeriodicityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting activity periodicity: %w", err)
	}
	return &p, nil
}
