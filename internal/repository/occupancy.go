package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hotelops/roster/internal/model"
)

var ErrOccupancySnapshotExists = errors.New("occupancy snapshot already ingested")

// OccupancyRepository persists the Data-Lake Store's occupancy projections.
type OccupancyRepository struct {
	db *DB
}

func NewOccupancyRepository(db *DB) *OccupancyRepository {
	return &OccupancyRepository{db: db}
}

// Ingest inserts a snapshot and folds it into the OccupancyLatest
// projection for (sector, target_date), inside one transaction. Re-ingest
// of the same (source_upload_id, target_date, generated_at) idempotency key
// is rejected with ErrOccupancySnapshotExists, returning the prior row.
func (r *OccupancyRepository) Ingest(ctx context.Context, s *model.OccupancySnapshot) (*model.OccupancySnapshot, error) {
	var result *model.OccupancySnapshot

	err := r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		var existing model.OccupancySnapshot
		err := tx.Where("source_upload_id = ? AND target_date = ? AND generated_at = ?",
			s.SourceUploadID, s.TargetDate, s.GeneratedAt).First(&existing).Error
		if err == nil {
			result = &existing
			return ErrOccupancySnapshotExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("checking snapshot idempotency: %w", err)
		}

		if err := tx.Create(s).Error; err != nil {
			return fmt.Errorf("creating occupancy snapshot: %w", err)
		}
		result = s

		var latest model.OccupancyLatest
		err = tx.Where("sector_id = ? AND target_date = ?", s.SectorID, s.TargetDate).First(&latest).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			latest = model.OccupancyLatest{SectorID: s.SectorID, TargetDate: s.TargetDate}
		case err != nil:
			return fmt.Errorf("loading occupancy latest: %w", err)
		}

		latest.ApplySnapshot(*s)
		latest.UpdatedAt = time.Now().UTC()
		if err := tx.Save(&latest).Error; err != nil {
			return fmt.Errorf("saving occupancy latest: %w", err)
		}
		return nil
	})

	if errors.Is(err, ErrOccupancySnapshotExists) {
		return result, ErrOccupancySnapshotExists
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *OccupancyRepository) GetLatest(ctx context.Context, sectorID uuid.UUID, targetDate time.Time) (*model.OccupancyLatest, error) {
	var latest model.OccupancyLatest
	err := r.db.GORM.WithContext(ctx).
		Where("sector_id = ? AND target_date = ?", sectorID, targetDate).
		First(&latest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting occupancy latest: %w", err)
	}
	return &latest, nil
}

// MostRecentNonRealAsOf returns the most recent non-real (forecast)
// snapshot for target_date with generated_at <= asOf, per the baseline's
// as-of occupancy selection rule.
func (r *OccupancyRepository) MostRecentNonRealAsOf(ctx context.Context, sectorID uuid.UUID, targetDate, asOf time.Time) (*model.OccupancySnapshot, error) {
	var snap model.OccupancySnapshot
	err := r.db.GORM.WithContext(ctx).
		Where("sector_id = ? AND target_date = ? AND is_real = ? AND generated_at <= ?", sectorID, targetDate, false, asOf).
		Order("generated_at DESC").
		First(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding as-of snapshot: %w", err)
	}
	return &snap, nil
}

func (r *OccupancyRepository) ListByDateRange(ctx context.Context, sectorID uuid.UUID, from, to time.Time) ([]model.OccupancySnapshot, error) {
	var snaps []model.OccupancySnapshot
	err := r.db.GORM.WithContext(ctx).
		Where("sector_id = ? AND target_date BETWEEN ? AND ?", sectorID, from, to).
		Order("target_date ASC, generated_at ASC").
		Find(&snaps).Error
	if err != nil {
		return nil, fmt.Errorf("listing occupancy snapshots: %w", err)
	}
	return snaps, nil
}

// HasAnyHistorical reports whether the sector has at least one ingested
// occupancy record, used by the forecast prerequisites check.
func (r *OccupancyRepository) HasAnyHistorical(ctx context.Context, sectorID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.GORM.WithContext(ctx).Model(&model.OccupancySnapshot{}).
		Where("sector_id = ?", sectorID).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("counting occupancy snapshots: %w", err)
	}
	return count > 0, nil
}
