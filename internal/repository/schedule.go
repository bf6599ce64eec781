package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hotelops/roster/internal/model"
)

var (
	ErrSchedulePlanNotFound = errors.New("housekeeping schedule plan not found")
	ErrShiftSlotNotFound    = errors.New("shift slot not found")
)

type ScheduleRepository struct {
	db *DB
}

func NewScheduleRepository(db *DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) CreatePlan(ctx context.Context, plan *model.HousekeepingSchedulePlan) error {
	if err := r.db.GORM.WithContext(ctx).Create(plan).Error; err != nil {
		return fmt.Errorf("creating schedule plan: %w", err)
	}
	return nil
}

func (r *ScheduleRepository) GetPlanByID(ctx context.Context, id uuid.UUID) (*model.HousekeepingSchedulePlan, error) {
	var plan model.HousekeepingSchedulePlan
	err := r.db.GORM.WithContext(ctx).
		Preload("Slots", func(db *gorm.DB) *gorm.DB { return db.Order("target_date ASC, start_time ASC") }).
		First(&plan, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSchedulePlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting schedule plan: %w", err)
	}
	return &plan, nil
}

func (r *ScheduleRepository) UpdatePlan(ctx context.Context, plan *model.HousekeepingSchedulePlan) error {
	if err := r.db.GORM.WithContext(ctx).Save(plan).Error; err != nil {
		return fmt.Errorf("updating schedule plan: %w", err)
	}
	return nil
}

func (r *ScheduleRepository) GetPlanByForecastRun(ctx context.Context, forecastRunID uuid.UUID) (*model.HousekeepingSchedulePlan, error) {
	var plan model.HousekeepingSchedulePlan
	err := r.db.GORM.WithContext(ctx).
		Where("forecast_run_id = ?", forecastRunID).
		First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSchedulePlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting schedule plan by forecast run: %w", err)
	}
	return &plan, nil
}

func (r *ScheduleRepository) CreateSlots(ctx context.Context, slots []model.ShiftSlot) error {
	if len(slots) == 0 {
		return nil
	}
	if err := r.db.GORM.WithContext(ctx).Create(&slots).Error; err != nil {
		return fmt.Errorf("creating shift slots: %w", err)
	}
	return nil
}

func (r *ScheduleRepository) ListSlotsByPlan(ctx context.Context, planID uuid.UUID) ([]model.ShiftSlot, error) {
	var slots []model.ShiftSlot
	err := r.db.GORM.WithContext(ctx).
		Where("schedule_plan_id = ?", planID).
		Order("target_date ASC, start_time ASC").
		Find(&slots).Error
	if err != nil {
		return nil, fmt.Errorf("listing shift slots: %w", err)
	}
	return slots, nil
}

func (r *ScheduleRepository) GetSlotByID(ctx context.Context, id uuid.UUID) (*model.ShiftSlot, error) {
	var slot model.ShiftSlot
	err := r.db.GORM.WithContext(ctx).First(&slot, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrShiftSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting shift slot: %w", err)
	}
	return &slot, nil
}

func (r *ScheduleRepository) ListSlotsByPlanAndDate(ctx context.Context, planID uuid.UUID, targetDate time.Time) ([]model.ShiftSlot, error) {
	var slots []model.ShiftSlot
	err := r.db.GORM.WithContext(ctx).
		Where("schedule_plan_id = ? AND target_date = ?", planID, targetDate).
		Order("start_time ASC").
		Find(&slots).Error
	if err != nil {
		return nil, fmt.Errorf("listing shift slots by date: %w", err)
	}
	return slots, nil
}

func (r *ScheduleRepository) UpdateSlot(ctx context.Context, slot *model.ShiftSlot) error {
	if err := r.db.GORM.WithContext(ctx).Save(slot).Error; err != nil {
		return fmt.Errorf("updating shift slot: %w", err)
	}
	return nil
}

func (r *ScheduleRepository) DeleteSlots(ctx context.Context, slotIDs []uuid.UUID) error {
	if len(slotIDs) == 0 {
		return nil
	}
	if err := r.db.GORM.WithContext(ctx).Delete(&model.ShiftSlot{}, "id IN ?", slotIDs).Error; err != nil {
		return fmt.Errorf("deleting shift slots: %w", err)
	}
	return nil
}

func (r *ScheduleRepository) LogOverride(ctx context.Context, entry *model.ScheduleOverrideLog) error {
	if err := r.db.GORM.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("logging schedule override: %w", err)
	}
	return nil
}

// WithAdvisoryLock serializes concurrent regenerations against the same
// plan by acquiring a transaction-scoped Postgres advisory lock keyed on the
// plan id, per the concurrency model's agenda-regeneration invariant.
func (r *ScheduleRepository) WithAdvisoryLock(ctx context.Context, planID uuid.UUID, fn func(tx *gorm.DB) error) error {
	return r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", planID.String()).Error; err != nil {
			return fmt.Errorf("acquiring advisory lock: %w", err)
		}
		return fn(tx)
	})
}

// ErrHeadcountNotLower is returned when OverrideHeadcount is asked to set a
// headcount that isn't a reduction; the operation only ever removes slots.
var ErrHeadcountNotLower = errors.New("new headcount must be lower than the current headcount")

// OverrideHeadcount reduces the number of slots scheduled on targetDate to
// newHeadcount, removing unassigned slots first, and atomically records a
// ScheduleOverrideLog row plus the plan's updated total headcount. The whole
// operation runs under the plan's advisory lock so it cannot race an agenda
// regeneration.
func (r *ScheduleRepository) OverrideHeadcount(ctx context.Context, planID uuid.UUID, targetDate time.Time, newHeadcount int, performedBy *uuid.UUID, reason string) (*model.ScheduleOverrideLog, error) {
	var log model.ScheduleOverrideLog

	err := r.WithAdvisoryLock(ctx, planID, func(tx *gorm.DB) error {
		var slots []model.ShiftSlot
		if err := tx.Where("schedule_plan_id = ? AND target_date = ?", planID, targetDate).
			Order("is_assigned ASC, start_time ASC").
			Find(&slots).Error; err != nil {
			return fmt.Errorf("listing slots for headcount override: %w", err)
		}

		previousHeadcount := len(slots)
		if newHeadcount >= previousHeadcount {
			return ErrHeadcountNotLower
		}

		toRemove := previousHeadcount - newHeadcount
		removed := slots[:toRemove]
		removedIDs := make([]uuid.UUID, len(removed))
		for i, s := range removed {
			removedIDs[i] = s.ID
		}

		if err := tx.Delete(&model.ShiftSlot{}, "id IN ?", removedIDs).Error; err != nil {
			return fmt.Errorf("removing slots for headcount override: %w", err)
		}

		removedIDsJSON, err := json.Marshal(removedIDs)
		if err != nil {
			return fmt.Errorf("encoding removed slot ids: %w", err)
		}

		log = model.ScheduleOverrideLog{
			SchedulePlanID:    planID,
			TargetDate:        targetDate,
			PreviousHeadcount: previousHeadcount,
			NewHeadcount:      newHeadcount,
			RemovedSlotIDs:    removedIDsJSON,
			Reason:            reason,
			PerformedBy:       performedBy,
		}
		if err := tx.Create(&log).Error; err != nil {
			return fmt.Errorf("logging headcount override: %w", err)
		}

		if err := tx.Model(&model.HousekeepingSchedulePlan{}).Where("id = ?", planID).
			UpdateColumn("total_headcount_planned", gorm.Expr("total_headcount_planned - ?", toRemove)).Error; err != nil {
			return fmt.Errorf("updating plan headcount: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &log, nil
}
