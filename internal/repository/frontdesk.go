package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hotelops/roster/internal/model"
)

// FrontdeskRepository persists raw front-desk events and their derived
// hourly aggregate.
type FrontdeskRepository struct {
	db *DB
}

func NewFrontdeskRepository(db *DB) *FrontdeskRepository {
	return &FrontdeskRepository{db: db}
}

func (r *FrontdeskRepository) CreateEvent(ctx context.Context, event *model.FrontdeskEvent) error {
	if err := r.db.GORM.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("creating frontdesk event: %w", err)
	}
	return nil
}

// IncrementAgg upserts the hourly aggregate bucket for one event, bumping
// count_events by one.
func (r *FrontdeskRepository) IncrementAgg(ctx context.Context, sectorID uuid.UUID, operationalDate time.Time, weekday model.Weekday, hourTimeline int, eventType model.FrontdeskEventType) error {
	err := r.db.GORM.WithContext(ctx).Exec(`
		INSERT INTO frontdesk_events_hourly_aggs (id, sector_id, operational_date, weekday, hour_timeline, event_type, count_events, updated_at)
		VALUES (gen_random_uuid(), ?, ?, ?, ?, ?, 1, now())
		ON CONFLICT (sector_id, operational_date, hour_timeline, event_type)
		DO UPDATE SET count_events = frontdesk_events_hourly_aggs.count_events + 1, updated_at = now()
	`, sectorID, operationalDate, weekday, hourTimeline, eventType).Error
	if err != nil {
		return fmt.Errorf("incrementing frontdesk hourly aggregate: %w", err)
	}
	return nil
}

func (r *FrontdeskRepository) CountByDateAndType(ctx context.Context, sectorID uuid.UUID, operationalDate time.Time, eventType model.FrontdeskEventType) (int, error) {
	var agg []model.FrontdeskEventsHourlyAgg
	err := r.db.GORM.WithContext(ctx).
		Where("sector_id = ? AND operational_date = ? AND event_type = ?", sectorID, operationalDate, eventType).
		Find(&agg).Error
	if err != nil {
		return 0, fmt.Errorf("summing frontdesk events: %w", err)
	}
	total := 0
	for _, a := range agg {
		total += a.CountEvents
	}
	return total, nil
}

// SumByWeekdayHourAndType returns every aggregate bucket for (sector,
// weekday, event_type), used by the Statistics Engine's hourly distribution
// update and the Schedule Generator's workload-weight computation.
func (r *FrontdeskRepository) SumByWeekdayHourAndType(ctx context.Context, sectorID uuid.UUID, weekday model.Weekday, eventType model.FrontdeskEventType) ([]model.FrontdeskEventsHourlyAgg, error) {
	var agg []model.FrontdeskEventsHourlyAgg
	err := r.db.GORM.WithContext(ctx).
		Where("sector_id = ? AND weekday = ? AND event_type = ?", sectorID, weekday, eventType).
		Order("hour_timeline ASC").
		Find(&agg).Error
	if err != nil {
		return nil, fmt.Errorf("summing frontdesk events by weekday: %w", err)
	}
	return agg, nil
}

// DistinctOperationalDates counts distinct operational dates aggregated for
// (sector, weekday, event_type) — the hourly distribution's n.
func (r *FrontdeskRepository) DistinctOperationalDates(ctx context.Context, sectorID uuid.UUID, weekday model.Weekday, eventType model.FrontdeskEventType) (int, error) {
	var count int64
	err := r.db.GORM.WithContext(ctx).Model(&model.FrontdeskEventsHourlyAgg{}).
		Where("sector_id = ? AND weekday = ? AND event_type = ?", sectorID, weekday, eventType).
		Distinct("operational_date").
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting distinct operational dates: %w", err)
	}
	return int(count), nil
}
