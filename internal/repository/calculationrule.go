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
	ErrCalculationRuleNotFound = errors.New("sector calculation rule not found")
)

// CalculationRuleRepository handles SectorCalculationRule data access.
type CalculationRuleRepository struct {
	db *DB
}

// NewCalculationRuleRepository creates a new calculation rule repository.
func NewCalculationRuleRepository(db *DB) *CalculationRuleRepository {
	return &CalculationRuleRepository{db: db}
}

// Create creates a new sector calculation rule.
func (r *CalculationRuleRepository) Create(ctx context.Context, rule *model.SectorCalculationRule) error {
	return r.db.GORM.WithContext(ctx).Create(rule).Error
}

// GetByID retrieves a sector calculation rule by ID.
func (r *CalculationRuleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.SectorCalculationRule, error) {
	var rule model.SectorCalculationRule
	err := r.db.GORM.WithContext(ctx).
		First(&rule, "id = ?", id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCalculationRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sector calculation rule: %w", err)
	}
	return &rule, nil
}

// Update updates a sector calculation rule.
func (r *CalculationRuleRepository) Update(ctx context.Context, rule *model.SectorCalculationRule) error {
	return r.db.GORM.WithContext(ctx).Save(rule).Error
}

// Delete deletes a sector calculation rule by ID.
func (r *CalculationRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.GORM.WithContext(ctx).Delete(&model.SectorCalculationRule{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete sector calculation rule: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCalculationRuleNotFound
	}
	return nil
}

// ListByScope retrieves active sector calculation rules for a sector at a
// given scope, ordered by priority ascending (lowest number = applied
// first), matching the Demand/Schedule Engines' evaluation order.
func (r *CalculationRuleRepository) ListByScope(ctx context.Context, sectorID uuid.UUID, scope model.CalculationRuleScope) ([]model.SectorCalculationRule, error) {
	var rules []model.SectorCalculationRule
	err := r.db.GORM.WithContext(ctx).
		Where("sector_id = ? AND scope = ? AND is_active = ?", sectorID, scope, true).
		Order("priority ASC").
		Find(&rules).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list sector calculation rules: %w", err)
	}
	return rules, nil
}

// List retrieves all sector calculation rules for a sector, across scopes.
func (r *CalculationRuleRepository) List(ctx context.Context, sectorID uuid.UUID) ([]model.SectorCalculationRule, error) {
	var rules []model.SectorCalculationRule
	err := r.db.GORM.WithContext(ctx).
		Where("sector_id = ?", sectorID).
		Order("scope ASC, priority ASC").
		Find(&rules).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list sector calculation rules: %w", err)
	}
	return rules, nil
}
