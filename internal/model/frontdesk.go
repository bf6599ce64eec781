package model

import (
	"time"

	"github.com/google/uuid"
)

// FrontdeskEventType discriminates a raw front-desk event.
type FrontdeskEventType string

const (
	EventCheckin  FrontdeskEventType = "CHECKIN"
	EventCheckout FrontdeskEventType = "CHECKOUT"
)

// FrontdeskEvent is a raw CHECKIN/CHECKOUT event anchored to an operational
// date. Events are never mutated after ingest; only the derived hourly
// aggregate is recomputed.
type FrontdeskEvent struct {
	ID             uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SectorID       uuid.UUID          `gorm:"type:uuid;not null;index:idx_fde_sector_date" json:"sector_id"`
	EventType      FrontdeskEventType `gorm:"type:varchar(10);not null" json:"event_type"`
	AnchorDate     time.Time          `gorm:"type:date;not null;index:idx_fde_sector_date" json:"anchor_date"`
	EventTime      *time.Time         `json:"event_time,omitempty"`
	SourceUploadID string             `gorm:"type:varchar(255);not null;index" json:"source_upload_id"`
	CreatedAt      time.Time          `gorm:"default:now()" json:"created_at"`
}

func (FrontdeskEvent) TableName() string { return "frontdesk_events" }

// HourTimelineFromEventTime derives the hour_timeline bucket for a same-night
// event. Hours 0..23 cover a check-out anchored on its own calendar day;
// hours 14..23 cover a same-day check-in; hours 24..35 preserve the source
// system's encoding for a check-in between 00:00 and 11:59 that still
// belongs to the prior operational night (operational date = anchorDate).
func HourTimelineFromEventTime(eventType FrontdeskEventType, anchorDate time.Time, eventTime time.Time) int {
	hour := eventTime.Hour()
	sameCalendarDay := eventTime.Year() == anchorDate.Year() &&
		eventTime.YearDay() == anchorDate.YearDay()

	if eventType == EventCheckin && !sameCalendarDay && hour < 12 {
		return hour + 24
	}
	return hour
}

// FrontdeskEventsHourlyAgg is the derived aggregate counting events by
// (operational_date, weekday, hour_timeline, event_type).
type FrontdeskEventsHourlyAgg struct {
	ID              uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SectorID        uuid.UUID          `gorm:"type:uuid;not null;index:idx_fdagg_key,unique" json:"sector_id"`
	OperationalDate time.Time          `gorm:"type:date;not null;index:idx_fdagg_key,unique" json:"operational_date"`
	Weekday         Weekday            `gorm:"not null" json:"weekday"`
	HourTimeline    int                `gorm:"not null;index:idx_fdagg_key,unique" json:"hour_timeline"`
	EventType       FrontdeskEventType `gorm:"type:varchar(10);not null;index:idx_fdagg_key,unique" json:"event_type"`
	CountEvents     int                `gorm:"not null;default:0" json:"count_events"`
	UpdatedAt       time.Time          `gorm:"default:now()" json:"updated_at"`
}

func (FrontdeskEventsHourlyAgg) TableName() string { return "frontdesk_events_hourly_aggs" }
