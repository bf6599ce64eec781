package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hotelops/roster/internal/model"
)

var ErrAgendaNotFound = errors.New("employee daily agenda not found")

type AgendaRepository struct {
	db *DB
}

func NewAgendaRepository(db *DB) *AgendaRepository {
	return &AgendaRepository{db: db}
}

// DeleteByPlan removes every prior agenda (and its items, via FK cascade)
// for a plan. Agendas are always regenerated from scratch, never edited
// incrementally.
func (r *AgendaRepository) DeleteByPlan(ctx context.Context, planID uuid.UUID) error {
	if err := r.db.GORM.WithContext(ctx).Where("schedule_plan_id = ?", planID).Delete(&model.EmployeeDailyAgenda{}).Error; err != nil {
		return fmt.Errorf("deleting prior agendas: %w", err)
	}
	return nil
}

func (r *AgendaRepository) CreateWithItems(ctx context.Context, agenda *model.EmployeeDailyAgenda) error {
	if err := r.db.GORM.WithContext(ctx).Create(agenda).Error; err != nil {
		return fmt.Errorf("creating agenda: %w", err)
	}
	return nil
}

func (r *AgendaRepository) ListByPlan(ctx context.Context, planID uuid.UUID) ([]model.EmployeeDailyAgenda, error) {
	var agendas []model.EmployeeDailyAgenda
	err := r.db.GORM.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("\"order\" ASC") }).
		Where("schedule_plan_id = ?", planID).
		Order("target_date ASC").
		Find(&agendas).Error
	if err != nil {
		return nil, fmt.Errorf("listing agendas by plan: %w", err)
	}
	return agendas, nil
}

func (r *AgendaRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.EmployeeDailyAgenda, error) {
	var agenda model.EmployeeDailyAgenda
	err := r.db.GORM.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("\"order\" ASC") }).
		First(&agenda, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAgendaNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting agenda: %w", err)
	}
	return &agenda, nil
}

func (r *AgendaRepository) Update(ctx context.Context, agenda *model.EmployeeDailyAgenda) error {
	if err := r.db.GORM.WithContext(ctx).Save(agenda).Error; err != nil {
		return fmt.Errorf("updating agenda: %w", err)
	}
	return nil
}
