package model

import (
	"time"

	"github.com/google/uuid"
)

// CalendarEventScope discriminates a calendar event owned by nobody in
// particular (GLOBAL) from one scoped to a single sector.
type CalendarEventScope string

const (
	CalendarScopeGlobal CalendarEventScope = "GLOBAL"
	CalendarScopeSector CalendarEventScope = "SECTOR"
)

// CalendarEvent adjusts demand and convocation behavior on a specific date.
// Factors combine multiplicatively across applicable events: GLOBAL events
// apply first, then SECTOR events.
type CalendarEvent struct {
	ID                 uuid.UUID           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SectorID           *uuid.UUID          `gorm:"type:uuid;index" json:"sector_id,omitempty"`
	Scope              CalendarEventScope  `gorm:"type:varchar(10);not null" json:"scope"`
	Name               string              `gorm:"type:varchar(255);not null" json:"name"`
	EventDate          time.Time           `gorm:"type:date;not null;index" json:"event_date"`
	ProductivityFactor float64             `gorm:"not null;default:1" json:"productivity_factor"`
	DemandFactor       float64             `gorm:"not null;default:1" json:"demand_factor"`
	BlockConvocations  bool                `gorm:"not null;default:false" json:"block_convocations"`
	CreatedAt          time.Time           `gorm:"default:now()" json:"created_at"`
	UpdatedAt          time.Time           `gorm:"default:now()" json:"updated_at"`
}

func (CalendarEvent) TableName() string { return "calendar_events" }

// CalendarFactors is the resolved, multiplicatively-composed outcome of
// get_calendar_factors(date, sector).
type CalendarFactors struct {
	ProductivityFactor float64         `json:"productivity_factor"`
	DemandFactor       float64         `json:"demand_factor"`
	BlockConvocations  bool            `json:"block_convocations"`
	AppliedEvents      []CalendarEvent `json:"applied_events"`
}
