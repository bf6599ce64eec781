package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hotelops/roster/internal/apperr"
	"github.com/hotelops/roster/internal/model"
)

var ErrForecastRunNotFound = errors.New("forecast run not found")

type ForecastRunRepository struct {
	db *DB
}

func NewForecastRunRepository(db *DB) *ForecastRunRepository {
	return &ForecastRunRepository{db: db}
}

func (r *ForecastRunRepository) Create(ctx context.Context, run *model.ForecastRun) error {
	if err := r.db.GORM.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("creating forecast run: %w", err)
	}
	return nil
}

func (r *ForecastRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ForecastRun, error) {
	var run model.ForecastRun
	err := r.db.GORM.WithContext(ctx).
		Preload("Daily", func(db *gorm.DB) *gorm.DB { return db.Order("target_date ASC") }).
		First(&run, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrForecastRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting forecast run: %w", err)
	}
	return &run, nil
}

// GetActiveBaseline returns the currently authoritative baseline for
// (sector, horizon_start): the locked, non-superseded BASELINE run.
func (r *ForecastRunRepository) GetActiveBaseline(ctx context.Context, sectorID uuid.UUID, horizonStart time.Time) (*model.ForecastRun, error) {
	var run model.ForecastRun
	err := r.db.GORM.WithContext(ctx).
		Where("sector_id = ? AND horizon_start = ? AND run_type = ? AND is_locked = ? AND superseded_by IS NULL",
			sectorID, horizonStart, model.RunTypeBaseline, true).
		First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting active baseline: %w", err)
	}
	return &run, nil
}

// LatestDailyUpdate returns the most recently created DAILY_UPDATE run for
// (sector, horizon_start), used by the Suggestion/Replan Engine's live
// comparison.
func (r *ForecastRunRepository) LatestDailyUpdate(ctx context.Context, sectorID uuid.UUID, horizonStart time.Time) (*model.ForecastRun, error) {
	var run model.ForecastRun
	err := r.db.GORM.WithContext(ctx).
		Where("sector_id = ? AND horizon_start = ? AND run_type = ?", sectorID, horizonStart, model.RunTypeDailyUpdate).
		Order("as_of_datetime DESC").
		First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting latest daily update: %w", err)
	}
	return &run, nil
}

// Lock atomically locks run (which must be a BASELINE; an already-locked run
// is returned unchanged) and
// supersedes the prior locked baseline for the same (sector, horizon_start),
// all inside one transaction so concurrent lock attempts serialize on the
// row-level locks acquired by the UPDATEs.
func (r *ForecastRunRepository) Lock(ctx context.Context, runID uuid.UUID) (*model.ForecastRun, error) {
	var locked model.ForecastRun

	err := r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		var run model.ForecastRun
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&run, "id = ?", runID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrForecastRunNotFound
			}
			return fmt.Errorf("loading run to lock: %w", err)
		}
		if run.RunType != model.RunTypeBaseline {
			return fmt.Errorf("%w: only BASELINE runs may be locked", ErrForecastRunConflict)
		}
		if run.IsLocked {
			locked = run
			return nil
		}

		now := time.Now().UTC()
		if err := tx.Model(&model.ForecastRun{}).
			Where("sector_id = ? AND horizon_start = ? AND run_type = ? AND is_locked = ? AND superseded_by IS NULL AND id <> ?",
				run.SectorID, run.HorizonStart, model.RunTypeBaseline, true, runID).
			Update("superseded_by", runID).Error; err != nil {
			return fmt.Errorf("superseding prior baseline: %w", err)
		}

		run.IsLocked = true
		run.LockedAt = &now
		if err := tx.Save(&run).Error; err != nil {
			return fmt.Errorf("locking run: %w", err)
		}
		locked = run
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &locked, nil
}

var ErrForecastRunConflict = apperr.NewConflictError("forecast run conflict")

func (r *ForecastRunRepository) SaveDaily(ctx context.Context, daily []model.ForecastDaily) error {
	if len(daily) == 0 {
		return nil
	}
	if err := r.db.GORM.WithContext(ctx).Create(&daily).Error; err != nil {
		return fmt.Errorf("saving forecast daily rows: %w", err)
	}
	return nil
}

func (r *ForecastRunRepository) SaveSectorSnapshot(ctx context.Context, snap *model.ForecastRunSectorSnapshot) error {
	if err := r.db.GORM.WithContext(ctx).Create(snap).Error; err != nil {
		return fmt.Errorf("saving forecast run sector snapshot: %w", err)
	}
	return nil
}
