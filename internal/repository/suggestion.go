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

var (
	ErrSuggestionNotFound       = errors.New("daily suggestion not found")
	ErrReplanSuggestionNotFound = errors.New("replan suggestion not found")
)

type SuggestionRepository struct {
	db *DB
}

func NewSuggestionRepository(db *DB) *SuggestionRepository {
	return &SuggestionRepository{db: db}
}

func (r *SuggestionRepository) Create(ctx context.Context, s *model.DailySuggestion) error {
	if err := r.db.GORM.WithContext(ctx).Create(s).Error; err != nil {
		return fmt.Errorf("creating daily suggestion: %w", err)
	}
	return nil
}

func (r *SuggestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.DailySuggestion, error) {
	var s model.DailySuggestion
	err := r.db.GORM.WithContext(ctx).First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSuggestionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting daily suggestion: %w", err)
	}
	return &s, nil
}

func (r *SuggestionRepository) Update(ctx context.Context, s *model.DailySuggestion) error {
	if err := r.db.GORM.WithContext(ctx).Save(s).Error; err != nil {
		return fmt.Errorf("updating daily suggestion: %w", err)
	}
	return nil
}

// ListOpenBySectorAndDate returns every OPEN suggestion for a sector/date,
// the set a dashboard view renders.
func (r *SuggestionRepository) ListOpenBySectorAndDate(ctx context.Context, sectorID uuid.UUID, targetDate time.Time) ([]model.DailySuggestion, error) {
	var suggestions []model.DailySuggestion
	err := r.db.GORM.WithContext(ctx).
		Where("sector_id = ? AND target_date = ? AND status = ?", sectorID, targetDate, model.SuggestionOpen).
		Order("created_at ASC").
		Find(&suggestions).Error
	if err != nil {
		return nil, fmt.Errorf("listing open daily suggestions: %w", err)
	}
	return suggestions, nil
}

func (r *SuggestionRepository) CreateReplan(ctx context.Context, rs *model.ReplanSuggestion) error {
	if err := r.db.GORM.WithContext(ctx).Create(rs).Error; err != nil {
		return fmt.Errorf("creating replan suggestion: %w", err)
	}
	return nil
}

func (r *SuggestionRepository) GetReplanByID(ctx context.Context, id uuid.UUID) (*model.ReplanSuggestion, error) {
	var rs model.ReplanSuggestion
	err := r.db.GORM.WithContext(ctx).First(&rs, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReplanSuggestionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting replan suggestion: %w", err)
	}
	return &rs, nil
}

func (r *SuggestionRepository) UpdateReplan(ctx context.Context, rs *model.ReplanSuggestion) error {
	if err := r.db.GORM.WithContext(ctx).Save(rs).Error; err != nil {
		return fmt.Errorf("updating replan suggestion: %w", err)
	}
	return nil
}

// ListReplanByBaseline returns every ReplanSuggestion raised against a
// baseline plan, ordered by target date then priority.
func (r *SuggestionRepository) ListReplanByBaseline(ctx context.Context, baselinePlanID uuid.UUID) ([]model.ReplanSuggestion, error) {
	var suggestions []model.ReplanSuggestion
	err := r.db.GORM.WithContext(ctx).
		Where("baseline_plan_id = ?", baselinePlanID).
		Order("target_date ASC, priority ASC").
		Find(&suggestions).Error
	if err != nil {
		return nil, fmt.Errorf("listing replan suggestions by baseline: %w", err)
	}
	return suggestions, nil
}

// ListReplanPendingByBaselineAndDate returns undecided (IsAccepted nil)
// ReplanSuggestions for a baseline/date, the set still awaiting a decision.
func (r *SuggestionRepository) ListReplanPendingByBaselineAndDate(ctx context.Context, baselinePlanID uuid.UUID, targetDate time.Time) ([]model.ReplanSuggestion, error) {
	var suggestions []model.ReplanSuggestion
	err := r.db.GORM.WithContext(ctx).
		Where("baseline_plan_id = ? AND target_date = ? AND is_accepted IS NULL", baselinePlanID, targetDate).
		Order("priority ASC").
		Find(&suggestions).Error
	if err != nil {
		return nil, fmt.Errorf("listing pending replan suggestions: %w", err)
	}
	return suggestions, nil
}
