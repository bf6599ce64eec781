package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ConvocationStatus is the lifecycle state of a Convocation. A convocation
// is immutable once it leaves PENDING.
type ConvocationStatus string

const (
	ConvocationPending   ConvocationStatus = "PENDING"
	ConvocationAccepted  ConvocationStatus = "ACCEPTED"
	ConvocationDeclined  ConvocationStatus = "DECLINED"
	ConvocationExpired   ConvocationStatus = "EXPIRED"
	ConvocationCancelled ConvocationStatus = "CANCELLED"
)

// ConvocationOrigin explains why a convocation was created.
type ConvocationOrigin string

const (
	OriginBaseline   ConvocationOrigin = "BASELINE"
	OriginAdjustment ConvocationOrigin = "ADJUSTMENT"
	OriginReschedule ConvocationOrigin = "RESCHEDULE"
	OriginManual     ConvocationOrigin = "MANUAL"
)

// Convocation is a formal, time-stamped invitation to work a specific shift
// slot, subject to advance-notice law. A DECLINED convocation may produce a
// RESCHEDULE successor, forming a finite replaced/replacement chain.
type Convocation struct {
	ID                       uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	EmployeeID               uuid.UUID         `gorm:"type:uuid;not null;index" json:"employee_id"`
	SectorID                 uuid.UUID         `gorm:"type:uuid;not null;index" json:"sector_id"`
	ShiftSlotID              *uuid.UUID        `gorm:"type:uuid;index" json:"shift_slot_id,omitempty"`
	Date                     time.Time         `gorm:"type:date;not null" json:"date"`
	StartTime                int               `gorm:"not null" json:"start_time"`
	EndTime                  int               `gorm:"not null" json:"end_time"`
	BreakMinutes             int               `gorm:"not null;default:0" json:"break_minutes"`
	TotalHours               decimal.Decimal   `gorm:"type:numeric(5,2);not null" json:"total_hours"`
	Status                   ConvocationStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	Origin                   ConvocationOrigin `gorm:"type:varchar(20);not null" json:"origin"`
	SentAt                   time.Time         `gorm:"not null" json:"sent_at"`
	ResponseDeadline         time.Time         `gorm:"not null" json:"response_deadline"`
	RespondedAt              *time.Time        `json:"responded_at,omitempty"`
	ReplacedConvocationID    *uuid.UUID        `gorm:"type:uuid;index" json:"replaced_convocation_id,omitempty"`
	ReplacementConvocationID *uuid.UUID        `gorm:"type:uuid;index" json:"replacement_convocation_id,omitempty"`
	CancelReason             string            `gorm:"type:text" json:"cancel_reason,omitempty"`
	LegalValidationPassed    bool              `gorm:"not null;default:true" json:"legal_validation_passed"`
	LegalValidationErrors    datatypes.JSON    `gorm:"type:jsonb" json:"legal_validation_errors,omitempty"`
	LegalValidationWarnings  datatypes.JSON    `gorm:"type:jsonb" json:"legal_validation_warnings,omitempty"`
	CreatedAt                time.Time         `gorm:"default:now()" json:"created_at"`
	UpdatedAt                time.Time         `gorm:"default:now()" json:"updated_at"`

	Employee *Employee `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
}

func (Convocation) TableName() string { return "convocations" }

// IsTerminal reports whether the convocation has left PENDING for a final
// (or final-for-now) state.
func (c Convocation) IsTerminal() bool {
	return c.Status != ConvocationPending
}
