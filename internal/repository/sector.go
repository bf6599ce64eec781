package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hotelops/roster/internal/model"
)

var (
	ErrSectorNotFound = errors.New("sector not found")
)

// SectorRepository handles sector data access.
type SectorRepository struct {
	db *DB
}

// NewSectorRepository creates a new sector repository.
func NewSectorRepository(db *DB) *SectorRepository {
	return &SectorRepository{db: db}
}

// Create creates a new sector.
func (r *SectorRepository) Create(ctx context.Context, sector *model.Sector) error {
	return r.db.GORM.WithContext(ctx).Create(sector).Error
}

// GetByID retrieves a sector by ID.
func (r *SectorRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Sector, error) {
	var sector model.Sector
	err := r.db.GORM.WithContext(ctx).
		First(&sector, "id = ?", id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSectorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sector: %w", err)
	}
	return &sector, nil
}

// GetBySlug retrieves a sector by slug.
func (r *SectorRepository) GetBySlug(ctx context.Context, slug string) (*model.Sector, error) {
	var sector model.Sector
	err := r.db.GORM.WithContext(ctx).
		First(&sector, "slug = ?", slug).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSectorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sector: %w", err)
	}
	return &sector, nil
}

// Update updates a sector.
func (r *SectorRepository) Update(ctx context.Context, sector *model.Sector) error {
	return r.db.GORM.WithContext(ctx).Save(sector).Error
}

// List retrieves sectors with optional active-only filtering.
func (r *SectorRepository) List(ctx context.Context, activeOnly bool) ([]model.Sector, error) {
	query := r.db.GORM.WithContext(ctx)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var sectors []model.Sector
	if err := query.Find(&sectors).Error; err != nil {
		return nil, fmt.Errorf("failed to list sectors: %w", err)
	}
	return sectors, nil
}

// Delete deletes a sector by ID.
func (r *SectorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.GORM.WithContext(ctx).Delete(&model.Sector{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete sector: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSectorNotFound
	}
	return nil
}

// GetOperationalParameters retrieves the operational parameters row for a
// sector, used by the Demand Engine and Schedule Generator.
func (r *SectorRepository) GetOperationalParameters(ctx context.Context, sectorID uuid.UUID) (*model.SectorOperationalParameters, error) {
	var params model.SectorOperationalParameters
	err := r.db.GORM.WithContext(ctx).
		First(&params, "sector_id = ?", sectorID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSectorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sector operational parameters: %w", err)
	}
	return &params, nil
}

// UpsertOperationalParameters creates or updates a sector's operational
// parameters row.
func (r *SectorRepository) UpsertOperationalParameters(ctx context.Context, params *model.SectorOperationalParameters) error {
	return r.db.GORM.WithContext(ctx).Save(params).Error
}
