package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hotelops/roster/internal/model"
)

type CalendarRepository struct {
	db *DB
}

func NewCalendarRepository(db *DB) *CalendarRepository {
	return &CalendarRepository{db: db}
}

func (r *CalendarRepository) Create(ctx context.Context, e *model.CalendarEvent) error {
	if err := r.db.GORM.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("creating calendar event: %w", err)
	}
	return nil
}

// ListApplicable returns every GLOBAL event plus the sector's own SECTOR
// events applying to date, GLOBAL first so callers can fold multiplicative
// factors in a stable, deterministic order.
func (r *CalendarRepository) ListApplicable(ctx context.Context, sectorID uuid.UUID, date time.Time) ([]model.CalendarEvent, error) {
	var events []model.CalendarEvent
	err := r.db.GORM.WithContext(ctx).
		Where("event_date = ? AND (scope = ? OR (scope = ? AND sector_id = ?))",
			date, model.CalendarScopeGlobal, model.CalendarScopeSector, sectorID).
		Order("scope ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("listing applicable calendar events: %w", err)
	}
	return events, nil
}
