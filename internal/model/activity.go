package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// WorkloadDriver classifies whether an activity's minutes scale with
// occupancy (VARIABLE) or are charged in full regardless of occupancy
// (CONSTANT).
type WorkloadDriver string

const (
	DriverVariable WorkloadDriver = "VARIABLE"
	DriverConstant WorkloadDriver = "CONSTANT"
)

// ActivityClassification selects which engine owns scheduling an activity.
type ActivityClassification string

const (
	ClassificationCalculated ActivityClassification = "CALCULATED_BY_AGENT"
	ClassificationRecurring  ActivityClassification = "RECURRING"
	ClassificationEventual   ActivityClassification = "EVENTUAL"
)

// PeriodicityKind names a recurrence cadence.
type PeriodicityKind string

const (
	PeriodicityDaily       PeriodicityKind = "DAILY"
	PeriodicityWeekly      PeriodicityKind = "WEEKLY"
	PeriodicityFortnightly PeriodicityKind = "FORTNIGHTLY"
	PeriodicityMonthly     PeriodicityKind = "MONTHLY"
	PeriodicityQuarterly   PeriodicityKind = "QUARTERLY"
	PeriodicityYearly      PeriodicityKind = "YEARLY"
	PeriodicityCustom      PeriodicityKind = "CUSTOM"
)

// PeriodicityUnit is the unit the (unit, value) pair is expressed in.
type PeriodicityUnit string

const (
	UnitDays   PeriodicityUnit = "DAYS"
	UnitMonths PeriodicityUnit = "MONTHS"
	UnitYears  PeriodicityUnit = "YEARS"
)

// AnchorPolicy resolves what happens when the anchor day does not exist in a
// given period (e.g. day 31 in a 30-day month).
type AnchorPolicy string

const (
	AnchorSameDay          AnchorPolicy = "SAME_DAY"
	AnchorLastDayIfMissing AnchorPolicy = "LAST_DAY_IF_MISSING"
)

// ActivityPeriodicity names a recurrence cadence shared across activities.
type ActivityPeriodicity struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name            string          `gorm:"type:varchar(100);not null" json:"name"`
	Kind            PeriodicityKind `gorm:"type:varchar(20);not null" json:"kind"`
	Unit            PeriodicityUnit `gorm:"type:varchar(10);not null" json:"unit"`
	Value           int             `gorm:"not null" json:"value"`
	AnchorPolicy    AnchorPolicy    `gorm:"type:varchar(30);not null;default:'SAME_DAY'" json:"anchor_policy"`
	ApproxDaysCache int             `gorm:"not null" json:"approx_days_cache"`
	CreatedAt       time.Time       `gorm:"default:now()" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"default:now()" json:"updated_at"`
}

func (ActivityPeriodicity) TableName() string { return "activity_periodicities" }

// IntervalDays returns the approximate number of days between occurrences,
// used by the agenda engine's due-date check.
func (p ActivityPeriodicity) IntervalDays() int {
	if p.ApproxDaysCache > 0 {
		return p.ApproxDaysCache
	}
	switch p.Unit {
	case UnitMonths:
		return p.Value * 30
	case UnitYears:
		return p.Value * 365
	default:
		return p.Value
	}
}

// GovernanceActivity is a sector-owned task that consumes housekeeping
// labor minutes, either scaled by occupancy or recurring on a schedule.
type GovernanceActivity struct {
	ID                  uuid.UUID               `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SectorID            uuid.UUID               `gorm:"type:uuid;not null;index" json:"sector_id"`
	Name                string                  `gorm:"type:varchar(255);not null" json:"name"`
	Code                string                  `gorm:"type:varchar(50);not null;index:idx_activity_sector_code,unique" json:"code"`
	AverageMinutes      int                     `gorm:"not null" json:"average_minutes"`
	WorkloadDriver      WorkloadDriver          `gorm:"type:varchar(20);not null" json:"workload_driver"`
	Classification      ActivityClassification  `gorm:"type:varchar(30);not null" json:"classification"`
	PeriodicityID       *uuid.UUID              `gorm:"type:uuid;index" json:"periodicity_id,omitempty"`
	ToleranceDays       int                     `gorm:"not null;default:0" json:"tolerance_days"`
	FirstExecutionDate  *time.Time              `gorm:"type:date" json:"first_execution_date,omitempty"`
	Difficulty          int                     `gorm:"not null;default:1" json:"difficulty"`
	IsActive            bool                    `gorm:"default:true" json:"is_active"`
	CreatedAt           time.Time               `gorm:"default:now()" json:"created_at"`
	UpdatedAt           time.Time               `gorm:"default:now()" json:"updated_at"`
	DeletedAt           *time.Time              `gorm:"index" json:"deleted_at,omitempty"`
	Sector              *Sector                 `gorm:"foreignKey:SectorID" json:"sector,omitempty"`
	Periodicity         *ActivityPeriodicity    `gorm:"foreignKey:PeriodicityID" json:"periodicity,omitempty"`
	Metadata            datatypes.JSON          `gorm:"type:jsonb" json:"metadata,omitempty"`
}

func (GovernanceActivity) TableName() string { return "governance_activities" }

// IsDueOn reports whether a RECURRING activity is due on d, honoring the
// activity's tolerance window. DAILY periodicities are always due.
func (a GovernanceActivity) IsDueOn(d time.Time, periodicity *ActivityPeriodicity) bool {
	if a.Classification != ClassificationRecurring {
		return false
	}
	if periodicity != nil && periodicity.Kind == PeriodicityDaily {
		return true
	}
	if a.FirstExecutionDate == nil || periodicity == nil {
		return false
	}
	days := periodicity.IntervalDays()
	if days <= 0 {
		return false
	}
	elapsed := int(d.Sub(*a.FirstExecutionDate).Hours() / 24)
	if elapsed < 0 {
		return false
	}
	remainder := elapsed % days
	if remainder == 0 {
		return true
	}
	return remainder <= a.ToleranceDays || (days-remainder) <= a.ToleranceDays
}
