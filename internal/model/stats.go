package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// BiasMethod names how a WeekdayBiasStats row's bias_pp was derived.
type BiasMethod string

const (
	MethodMeanIncremental BiasMethod = "MEAN_INCREMENTAL"
	MethodEWMA            BiasMethod = "EWMA"
	MethodBootstrapManual BiasMethod = "BOOTSTRAP_MANUAL"
)

// WeekdayBiasStats holds the incremental forecast-vs-real bias for one
// (metric_name, weekday) pair. A missing row means "no bias data" — callers
// must treat that as bias 0 with has_bias_data = false, never materialize a
// zero row for a weekday that has never seen a paired sample.
type WeekdayBiasStats struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SectorID     uuid.UUID      `gorm:"type:uuid;not null;index:idx_wbs_key,unique" json:"sector_id"`
	MetricName   string         `gorm:"type:varchar(100);not null;index:idx_wbs_key,unique" json:"metric_name"`
	Weekday      Weekday        `gorm:"not null;index:idx_wbs_key,unique" json:"weekday"`
	BiasPP       float64        `gorm:"not null;default:0" json:"bias_pp"`
	N            int            `gorm:"not null;default:0" json:"n"`
	StdPP        float64        `gorm:"not null;default:0" json:"std_pp"`
	MAEPP        float64        `gorm:"not null;default:0" json:"mae_pp"`
	Method       BiasMethod     `gorm:"type:varchar(30);not null" json:"method"`
	MethodParams datatypes.JSON `gorm:"type:jsonb" json:"method_params,omitempty"`
	UpdatedAt    time.Time      `gorm:"default:now()" json:"updated_at"`
}

func (WeekdayBiasStats) TableName() string { return "weekday_bias_stats" }

// HourlyDistributionStats holds the percentage share of events falling in
// one hour_timeline bucket for a (metric_name, weekday) pair.
type HourlyDistributionStats struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SectorID     uuid.UUID `gorm:"type:uuid;not null;index:idx_hds_key,unique" json:"sector_id"`
	MetricName   string    `gorm:"type:varchar(100);not null;index:idx_hds_key,unique" json:"metric_name"`
	Weekday      Weekday   `gorm:"not null;index:idx_hds_key,unique" json:"weekday"`
	HourTimeline int       `gorm:"not null;index:idx_hds_key,unique" json:"hour_timeline"`
	PercentShare float64   `gorm:"not null;default:0" json:"percent_share"`
	N            int       `gorm:"not null;default:0" json:"n"`
	UpdatedAt    time.Time `gorm:"default:now()" json:"updated_at"`
}

func (HourlyDistributionStats) TableName() string { return "hourly_distribution_stats" }

// TurnoverRateStats holds the observed departures-to-occupied-rooms ratio
// for a (sector, weekday), feeding the demand engine's second fallback tier
// ahead of the sector's static default_turnover_by_weekday table.
type TurnoverRateStats struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SectorID    uuid.UUID `gorm:"type:uuid;not null;index:idx_trs_key,unique" json:"sector_id"`
	Weekday     Weekday   `gorm:"not null;index:idx_trs_key,unique" json:"weekday"`
	MetricName  string    `gorm:"type:varchar(100);not null;index:idx_trs_key,unique" json:"metric_name"`
	Rate        float64   `gorm:"not null" json:"rate"`
	N           int       `gorm:"not null;default:0" json:"n"`
	UpdatedAt   time.Time `gorm:"default:now()" json:"updated_at"`
}

func (TurnoverRateStats) TableName() string { return "turnover_rate_stats" }
