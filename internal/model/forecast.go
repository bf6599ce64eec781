package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ForecastRunType discriminates a forecast run's purpose and lockability.
type ForecastRunType string

const (
	RunTypeBaseline     ForecastRunType = "BASELINE"
	RunTypeDailyUpdate  ForecastRunType = "DAILY_UPDATE"
	RunTypeManual       ForecastRunType = "MANUAL"
)

// ForecastSourceTag names which occupancy source backed a ForecastDaily row.
type ForecastSourceTag string

const (
	SourceOccupancySnapshot ForecastSourceTag = "occupancy_snapshot"
	SourceOccupancyLatest   ForecastSourceTag = "occupancy_latest"
)

// ForecastRun is a versioned weekly forecast. At most one locked,
// non-superseded BASELINE may exist per (sector, horizon_start); locking a
// new BASELINE for the same week supersedes the previous one in place.
type ForecastRun struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SectorID      uuid.UUID         `gorm:"type:uuid;not null;index:idx_run_sector_horizon" json:"sector_id"`
	RunType       ForecastRunType   `gorm:"type:varchar(20);not null" json:"run_type"`
	HorizonStart  time.Time         `gorm:"type:date;not null;index:idx_run_sector_horizon" json:"horizon_start"`
	HorizonEnd    time.Time         `gorm:"type:date;not null" json:"horizon_end"`
	AsOfDatetime  time.Time         `gorm:"not null" json:"as_of_datetime"`
	Status        string            `gorm:"type:varchar(20);not null;default:'COMPLETED'" json:"status"`
	IsLocked      bool              `gorm:"not null;default:false" json:"is_locked"`
	LockedAt      *time.Time        `json:"locked_at,omitempty"`
	SupersededBy  *uuid.UUID        `gorm:"type:uuid;index" json:"superseded_by,omitempty"`
	BiasMethod    BiasMethod        `gorm:"type:varchar(30)" json:"bias_method,omitempty"`
	BiasParams    datatypes.JSON    `gorm:"type:jsonb" json:"bias_params,omitempty"`
	Params        datatypes.JSON    `gorm:"type:jsonb" json:"params,omitempty"`
	CreatedAt     time.Time         `gorm:"default:now()" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"default:now()" json:"updated_at"`

	Sector *Sector       `gorm:"foreignKey:SectorID" json:"sector,omitempty"`
	Daily  []ForecastDaily `gorm:"foreignKey:ForecastRunID" json:"daily,omitempty"`
}

func (ForecastRun) TableName() string { return "forecast_runs" }

// IsActiveBaseline reports whether this run is the currently authoritative
// baseline for its week: locked and not yet superseded.
func (r ForecastRun) IsActiveBaseline() bool {
	return r.RunType == RunTypeBaseline && r.IsLocked && r.SupersededBy == nil
}

// ForecastDaily is one target date's adjusted occupancy projection inside a
// ForecastRun.
type ForecastDaily struct {
	ID             uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ForecastRunID  uuid.UUID         `gorm:"type:uuid;not null;index:idx_fd_run_date,unique" json:"forecast_run_id"`
	TargetDate     time.Time         `gorm:"type:date;not null;index:idx_fd_run_date,unique" json:"target_date"`
	OccRaw         *float64          `json:"occ_raw,omitempty"`
	BiasPPUsed     float64           `gorm:"not null;default:0" json:"bias_pp_used"`
	SafetyPPUsed   float64           `gorm:"not null;default:0" json:"safety_pp_used"`
	OccAdj         *float64          `json:"occ_adj,omitempty"`
	SourceTag      ForecastSourceTag `gorm:"type:varchar(30)" json:"source_tag,omitempty"`
	SourceRef      *uuid.UUID        `gorm:"type:uuid" json:"source_ref,omitempty"`
	CreatedAt      time.Time         `gorm:"default:now()" json:"created_at"`
}

func (ForecastDaily) TableName() string { return "forecast_dailies" }

// ComputeOccAdj applies the clamp(occ_raw + bias_pp + safety_pp, 0, 100)
// invariant. Returns nil when occRaw is absent.
func ComputeOccAdj(occRaw *float64, biasPP, safetyPP float64) *float64 {
	if occRaw == nil {
		return nil
	}
	adj := *occRaw + biasPP + safetyPP
	if adj < 0 {
		adj = 0
	} else if adj > 100 {
		adj = 100
	}
	return &adj
}

// ForecastRunSectorSnapshot freezes the sector's rules, operational
// parameters, and config at the moment a run was created, so later
// comparisons remain faithful even if the live configuration changes.
type ForecastRunSectorSnapshot struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ForecastRunID     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"forecast_run_id"`
	LaborRules        datatypes.JSON `gorm:"type:jsonb" json:"labor_rules,omitempty"`
	OperationalRules  datatypes.JSON `gorm:"type:jsonb" json:"operational_rules,omitempty"`
	CalculationRules  datatypes.JSON `gorm:"type:jsonb" json:"calculation_rules,omitempty"`
	OperationalParams datatypes.JSON `gorm:"type:jsonb" json:"operational_params,omitempty"`
	SectorConfig      datatypes.JSON `gorm:"type:jsonb" json:"sector_config,omitempty"`
	CreatedAt         time.Time      `gorm:"default:now()" json:"created_at"`
}

func (ForecastRunSectorSnapshot) TableName() string { return "forecast_run_sector_snapshots" }
