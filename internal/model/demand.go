package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// DemandSource tags which tier of the departures/arrivals fallback chain
// produced a HousekeepingDemandDaily row's counts.
type DemandSource string

const (
	DemandSourceReal           DemandSource = "REAL"
	DemandSourceTurnoverStats  DemandSource = "TURNOVER_STATS"
	DemandSourceDefaultFallback DemandSource = "DEFAULT_FALLBACK"
)

// HousekeepingDemandDaily is one day's derived workload inside a
// ForecastRun: minutes and headcount, plus the full calculation memory
// ("calculation_breakdown") used for human-facing explanation.
type HousekeepingDemandDaily struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ForecastRunID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_hdd_run_date,unique" json:"forecast_run_id"`
	TargetDate         time.Time       `gorm:"type:date;not null;index:idx_hdd_run_date,unique" json:"target_date"`
	OccupiedRooms      int             `gorm:"not null" json:"occupied_rooms"`
	DeparturesCount    int             `gorm:"not null" json:"departures_count"`
	DeparturesSource   DemandSource    `gorm:"type:varchar(20);not null" json:"departures_source"`
	ArrivalsCount      int             `gorm:"not null" json:"arrivals_count"`
	ArrivalsSource     DemandSource    `gorm:"type:varchar(20);not null" json:"arrivals_source"`
	StayoversEstimated int             `gorm:"not null" json:"stayovers_estimated"`
	MinutesVariable    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"minutes_variable"`
	MinutesConstant    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"minutes_constant"`
	MinutesRaw         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"minutes_raw"`
	MinutesBuffered    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"minutes_buffered"`
	HoursProductive    decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"hours_productive"`
	HoursTotal         decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"hours_total"`
	HeadcountRequired  decimal.Decimal `gorm:"type:numeric(10,4);not null" json:"headcount_required"`
	HeadcountRounded   int             `gorm:"not null" json:"headcount_rounded"`
	CalculationBreakdown datatypes.JSON `gorm:"type:jsonb" json:"calculation_breakdown,omitempty"`
	CreatedAt          time.Time       `gorm:"default:now()" json:"created_at"`
}

func (HousekeepingDemandDaily) TableName() string { return "housekeeping_demand_dailies" }

// HeadcountRoundedFrom applies the ceiling rounding policy: headcount is
// zero whenever the required value is not positive, otherwise ceil.
func HeadcountRoundedFrom(required decimal.Decimal) int {
	if required.Sign() <= 0 {
		return 0
	}
	return int(required.Ceil().IntPart())
}
