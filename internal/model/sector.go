package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Sector is the organizational unit that owns rules, activities, employees,
// and operational parameters, scoped to a single housekeeping (or other
// service) department.
type Sector struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	Slug      string         `gorm:"type:varchar(100);not null;uniqueIndex" json:"slug"`
	Settings  datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"settings"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"default:now()" json:"updated_at"`
}

func (Sector) TableName() string {
	return "sectors"
}

// SectorOperationalParameters holds the sector-wide constants the Demand
// Engine and Schedule Generator read. One row per sector.
type SectorOperationalParameters struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SectorID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"sector_id"`

	TotalRooms int `gorm:"not null" json:"total_rooms"`

	// Minutes per room by workload driver.
	TimeVacantDirtyMinutes int `gorm:"not null;default:25" json:"time_vacant_dirty_minutes"`
	TimeStayoverMinutes    int `gorm:"not null;default:10" json:"time_stayover_minutes"`

	BufferPct            float64 `gorm:"not null;default:10" json:"buffer_pct"`
	UtilizationTargetPct float64 `gorm:"not null;default:85" json:"utilization_target_pct"`
	AvgShiftHours        float64 `gorm:"not null;default:8" json:"avg_shift_hours"`

	// Lunch window configuration, in minutes from midnight. A slot's lunch
	// break must fall within [LunchWindowStartMinutes, LunchWindowEndMinutes)
	// and begin no earlier than MinHoursBeforeLunchMinutes after shift start.
	LunchWindowStartMinutes  int `gorm:"not null;default:660" json:"lunch_window_start_minutes"`
	LunchWindowEndMinutes    int `gorm:"not null;default:840" json:"lunch_window_end_minutes"`
	MinHoursBeforeLunchMinutes int `gorm:"not null;default:180" json:"min_hours_before_lunch_minutes"`
	LunchDurationMinutes     int `gorm:"not null;default:60" json:"lunch_duration_minutes"`

	// SafetyPPByWeekday maps Weekday ordinal (as string key) -> safety_pp float.
	SafetyPPByWeekday datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"safety_pp_by_weekday"`

	// DefaultTurnoverByWeekday maps Weekday ordinal -> fallback turnover rate (0..1).
	DefaultTurnoverByWeekday datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"default_turnover_by_weekday"`
	// DefaultArrivalByWeekday is the analogous fallback for arrivals_count.
	DefaultArrivalByWeekday datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"default_arrival_by_weekday"`

	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:now()" json:"updated_at"`
}

func (SectorOperationalParameters) TableName() string {
	return "sector_operational_parameters"
}

// DefaultTurnoverRate is the default fallback table (0.25..0.55 range),
// used when a sector has not configured DefaultTurnoverByWeekday.
var DefaultTurnoverRate = map[Weekday]float64{
	Monday:    0.35,
	Tuesday:   0.25,
	Wednesday: 0.25,
	Thursday:  0.30,
	Friday:    0.35,
	Saturday:  0.40,
	Sunday:    0.55,
}

// DefaultArrivalRate mirrors DefaultTurnoverRate for the arrivals fallback
// (analogous fallback constants per weekday).
var DefaultArrivalRate = map[Weekday]float64{
	Monday:    0.30,
	Tuesday:   0.25,
	Wednesday: 0.25,
	Thursday:  0.28,
	Friday:    0.40,
	Saturday:  0.45,
	Sunday:    0.30,
}
