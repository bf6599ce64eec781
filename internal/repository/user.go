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
	ErrUserNotFound = errors.New("user not found")
)

// UserRepository handles user data access.
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.GORM.WithContext(ctx).Create(user).Error
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.GORM.WithContext(ctx).
		First(&user, "id = ?", id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.GORM.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetByEmployeeID retrieves a user by employee ID.
func (r *UserRepository) GetByEmployeeID(ctx context.Context, employeeID uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.GORM.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by employee id: %w", err)
	}
	return &user, nil
}

// Update updates a user.
func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.GORM.WithContext(ctx).Save(user).Error
}

// ListUsersParams defines parameters for listing users.
type ListUsersParams struct {
	Query  string
	Limit  int
	Cursor *uuid.UUID // Last seen ID for cursor pagination
}

// List retrieves users with filtering and pagination.
func (r *UserRepository) List(ctx context.Context, params ListUsersParams) ([]model.User, error) {
	query := r.db.GORM.WithContext(ctx).
		Order("display_name ASC")

	if params.Query != "" {
		searchPattern := "%" + params.Query + "%"
		query = query.Where("display_name ILIKE ? OR email ILIKE ?", searchPattern, searchPattern)
	}

	if params.Cursor != nil {
		query = query.Where("id > ?", *params.Cursor)
	}

	if params.Limit > 0 {
		query = query.Limit(params.Limit)
	}

	var users []model.User
	if err := query.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Delete deletes a user.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.GORM.WithContext(ctx).Delete(&model.User{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Upsert creates a user if not exists, or updates if exists.
func (r *UserRepository) Upsert(ctx context.Context, user *model.User) error {
	return r.db.GORM.WithContext(ctx).
		Where("id = ?", user.ID).
		Assign(user).
		FirstOrCreate(user).Error
}

// ListBySector retrieves all users scoped to a sector.
func (r *UserRepository) ListBySector(ctx context.Context, sectorID uuid.UUID, includeInactive bool) ([]model.User, error) {
	var users []model.User
	query := r.db.GORM.WithContext(ctx).Where("sector_id = ?", sectorID)
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users by sector: %w", err)
	}
	return users, nil
}

// GetWithRelations retrieves a user with all related entities preloaded.
func (r *UserRepository) GetWithRelations(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.GORM.WithContext(ctx).
		Preload("Sector").
		Preload("Employee").
		First(&user, "id = ?", id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user with relations: %w", err)
	}
	return &user, nil
}

// UserHasAccess reports whether a user may act within the given sector:
// global admins may act on any sector, sector users only on their own.
func (r *UserRepository) UserHasAccess(ctx context.Context, userID, sectorID uuid.UUID) (bool, error) {
	user, err := r.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if user.IsAdmin() {
		return true, nil
	}
	return user.SectorID != nil && *user.SectorID == sectorID, nil
}
