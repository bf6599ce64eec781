package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hotelops/roster/internal/model"
)

var (
	ErrEmployeeNotFound = errors.New("employee not found")
)

// EmployeeFilter defines filter criteria for listing employees.
type EmployeeFilter struct {
	SectorID        uuid.UUID
	ContractVariant *model.ContractVariant
	IsActive        *bool
	SearchQuery     string
	Offset          int
	Limit           int
}

// EmployeeRepository handles employee data access.
type EmployeeRepository struct {
	db *DB
}

// NewEmployeeRepository creates a new employee repository.
func NewEmployeeRepository(db *DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// Create creates a new employee.
func (r *EmployeeRepository) Create(ctx context.Context, emp *model.Employee) error {
	return r.db.GORM.WithContext(ctx).Create(emp).Error
}

// GetByID retrieves an employee by ID.
func (r *EmployeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	var emp model.Employee
	err := r.db.GORM.WithContext(ctx).
		First(&emp, "id = ?", id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return &emp, nil
}

// Update updates an employee.
func (r *EmployeeRepository) Update(ctx context.Context, emp *model.Employee) error {
	return r.db.GORM.WithContext(ctx).Save(emp).Error
}

// Delete soft-deletes an employee by ID.
func (r *EmployeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.GORM.WithContext(ctx).Delete(&model.Employee{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete employee: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

// List retrieves employees with filtering and pagination.
func (r *EmployeeRepository) List(ctx context.Context, filter EmployeeFilter) ([]model.Employee, int64, error) {
	var employees []model.Employee
	var total int64

	query := r.db.GORM.WithContext(ctx).Model(&model.Employee{}).Where("sector_id = ?", filter.SectorID)

	if filter.ContractVariant != nil {
		query = query.Where("contract_variant = ?", *filter.ContractVariant)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.SearchQuery != "" {
		search := "%" + strings.ToLower(filter.SearchQuery) + "%"
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?",
			search, search,
		)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	err := query.Order("last_name ASC, first_name ASC").Find(&employees).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, total, nil
}

// ListActiveBySector retrieves every active employee in a sector, used by
// the Assignment Engine to build its candidate pool for a given day.
func (r *EmployeeRepository) ListActiveBySector(ctx context.Context, sectorID uuid.UUID) ([]model.Employee, error) {
	var employees []model.Employee
	err := r.db.GORM.WithContext(ctx).
		Where("sector_id = ? AND is_active = ?", sectorID, true).
		Order("last_name ASC, first_name ASC").
		Find(&employees).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	return employees, nil
}

// Upsert creates or updates an employee by ID.
func (r *EmployeeRepository) Upsert(ctx context.Context, emp *model.Employee) error {
	return r.db.GORM.WithContext(ctx).Save(emp).Error
}
