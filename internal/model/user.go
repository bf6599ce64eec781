package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRole represents the coarse-grained role of an authenticated user.
// Fine-grained authorization is sector-scoped: a non-admin user only acts
// on the sector referenced by SectorID.
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User represents an authenticated operator of the planning pipeline.
type User struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SectorID    *uuid.UUID     `gorm:"type:uuid;index" json:"sector_id,omitempty"`
	EmployeeID  *uuid.UUID     `gorm:"type:uuid" json:"employee_id,omitempty"`
	Email       string         `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	DisplayName string         `gorm:"type:varchar(255);not null" json:"display_name"`
	Role        UserRole       `gorm:"type:varchar(50);not null;default:'user'" json:"role"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	PasswordHash *string       `gorm:"type:varchar(255)" json:"-"`
	CreatedAt   time.Time      `gorm:"default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// Relations
	Sector   *Sector   `gorm:"foreignKey:SectorID" json:"sector,omitempty"`
	Employee *Employee `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
}

// TableName specifies the table name.
func (User) TableName() string {
	return "users"
}

// IsAdmin returns true if the user holds the global admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsSectorUser returns true if the user is scoped to a specific sector.
func (u *User) IsSectorUser() bool {
	return u.SectorID != nil
}
