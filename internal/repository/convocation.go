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

var ErrConvocationNotFound = errors.New("convocation not found")

type ConvocationRepository struct {
	db *DB
}

func NewConvocationRepository(db *DB) *ConvocationRepository {
	return &ConvocationRepository{db: db}
}

func (r *ConvocationRepository) Create(ctx context.Context, c *model.Convocation) error {
	if err := r.db.GORM.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("creating convocation: %w", err)
	}
	return nil
}

func (r *ConvocationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Convocation, error) {
	var c model.Convocation
	err := r.db.GORM.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrConvocationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting convocation: %w", err)
	}
	return &c, nil
}

func (r *ConvocationRepository) Update(ctx context.Context, c *model.Convocation) error {
	if err := r.db.GORM.WithContext(ctx).Save(c).Error; err != nil {
		return fmt.Errorf("updating convocation: %w", err)
	}
	return nil
}

// LastAcceptedBefore returns the employee's most recent ACCEPTED
// convocation before targetDate, used to check rest-between-shifts.
func (r *ConvocationRepository) LastAcceptedBefore(ctx context.Context, employeeID uuid.UUID, targetDate time.Time) (*model.Convocation, error) {
	var c model.Convocation
	err := r.db.GORM.WithContext(ctx).
		Where("employee_id = ? AND status = ? AND date < ?", employeeID, model.ConvocationAccepted, targetDate).
		Order("date DESC, start_time DESC").
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting last accepted convocation: %w", err)
	}
	return &c, nil
}

// AcceptedInWeek returns every ACCEPTED convocation for the employee whose
// date falls in [weekStart, weekEnd], for weekly/daily hour aggregation.
func (r *ConvocationRepository) AcceptedInWeek(ctx context.Context, employeeID uuid.UUID, weekStart, weekEnd time.Time) ([]model.Convocation, error) {
	var convos []model.Convocation
	err := r.db.GORM.WithContext(ctx).
		Where("employee_id = ? AND status = ? AND date BETWEEN ? AND ?", employeeID, model.ConvocationAccepted, weekStart, weekEnd).
		Order("date ASC").
		Find(&convos).Error
	if err != nil {
		return nil, fmt.Errorf("listing accepted convocations in week: %w", err)
	}
	return convos, nil
}

// ListExpiring returns every PENDING convocation whose response_deadline is
// before now, for the expiry sweep.
func (r *ConvocationRepository) ListExpiring(ctx context.Context, now time.Time) ([]model.Convocation, error) {
	var convos []model.Convocation
	err := r.db.GORM.WithContext(ctx).
		Where("status = ? AND response_deadline < ?", model.ConvocationPending, now).
		Find(&convos).Error
	if err != nil {
		return nil, fmt.Errorf("listing expiring convocations: %w", err)
	}
	return convos, nil
}

func (r *ConvocationRepository) ListBySlot(ctx context.Context, shiftSlotID uuid.UUID) ([]model.Convocation, error) {
	var convos []model.Convocation
	err := r.db.GORM.WithContext(ctx).
		Where("shift_slot_id = ?", shiftSlotID).
		Order("created_at DESC").
		Find(&convos).Error
	if err != nil {
		return nil, fmt.Errorf("listing convocations by slot: %w", err)
	}
	return convos, nil
}
