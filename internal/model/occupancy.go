package model

import (
	"time"

	"github.com/google/uuid"
)

// OccupancySnapshot is an immutable record of a single occupancy reading,
// either an actual measurement or a forward projection.
type OccupancySnapshot struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SectorID       uuid.UUID `gorm:"type:uuid;not null;index:idx_occ_snapshot_sector_date" json:"sector_id"`
	TargetDate     time.Time `gorm:"type:date;not null;index:idx_occ_snapshot_sector_date;index:idx_occ_snapshot_idem,unique" json:"target_date"`
	GeneratedAt    time.Time `gorm:"not null;index:idx_occ_snapshot_idem,unique" json:"generated_at"`
	PeriodStart    time.Time `gorm:"type:date;not null" json:"period_start"`
	PeriodEnd      time.Time `gorm:"type:date;not null" json:"period_end"`
	OccupancyPct   float64   `gorm:"not null" json:"occupancy_pct"`
	IsReal         bool      `gorm:"not null" json:"is_real"`
	IsForecast     bool      `gorm:"not null" json:"is_forecast"`
	SourceUploadID string    `gorm:"type:varchar(255);not null;index:idx_occ_snapshot_idem,unique" json:"source_upload_id"`
	CreatedAt      time.Time `gorm:"default:now()" json:"created_at"`
}

func (OccupancySnapshot) TableName() string { return "occupancy_snapshots" }

// OccupancyLatest is the per-(sector, date) projection tracking the most
// recent real and most recent forecast reading independently, resolved into
// a single occupancy_pct preferring the real value when present.
type OccupancyLatest struct {
	ID                         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SectorID                   uuid.UUID  `gorm:"type:uuid;not null;index:idx_occ_latest_sector_date,unique" json:"sector_id"`
	TargetDate                 time.Time  `gorm:"type:date;not null;index:idx_occ_latest_sector_date,unique" json:"target_date"`
	LatestRealGeneratedAt      *time.Time `json:"latest_real_generated_at,omitempty"`
	LatestRealOccupancyPct     *float64   `json:"latest_real_occupancy_pct,omitempty"`
	LatestForecastGeneratedAt  *time.Time `json:"latest_forecast_generated_at,omitempty"`
	LatestForecastOccupancyPct *float64   `json:"latest_forecast_occupancy_pct,omitempty"`
	OccupancyPct               *float64   `json:"occupancy_pct,omitempty"`
	IsReal                     bool       `gorm:"not null;default:false" json:"is_real"`
	UpdatedAt                  time.Time  `gorm:"default:now()" json:"updated_at"`
}

func (OccupancyLatest) TableName() string { return "occupancy_latest" }

// ApplySnapshot folds a newly ingested snapshot into the projection per the
// data-lake store's update rule: real snapshots compete against the latest
// real reading, forecasts against the latest forecast reading, and the
// resolved occupancy_pct prefers real over forecast whenever both exist.
func (l *OccupancyLatest) ApplySnapshot(s OccupancySnapshot) {
	if s.IsReal {
		if l.LatestRealGeneratedAt == nil || s.GeneratedAt.After(*l.LatestRealGeneratedAt) {
			gen := s.GeneratedAt
			pct := s.OccupancyPct
			l.LatestRealGeneratedAt = &gen
			l.LatestRealOccupancyPct = &pct
		}
	} else {
		if l.LatestForecastGeneratedAt == nil || s.GeneratedAt.After(*l.LatestForecastGeneratedAt) {
			gen := s.GeneratedAt
			pct := s.OccupancyPct
			l.LatestForecastGeneratedAt = &gen
			l.LatestForecastOccupancyPct = &pct
		}
	}

	if l.LatestRealOccupancyPct != nil {
		l.OccupancyPct = l.LatestRealOccupancyPct
		l.IsReal = true
	} else {
		l.OccupancyPct = l.LatestForecastOccupancyPct
		l.IsReal = false
	}
}
