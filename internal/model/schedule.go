package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PlanKind distinguishes a week's original plan from a later adjustment.
type PlanKind string

const (
	PlanKindBaseline   PlanKind = "BASELINE"
	PlanKindAdjustment PlanKind = "ADJUSTMENT"
)

// PlanStatus is the lifecycle state of a HousekeepingSchedulePlan.
type PlanStatus string

const (
	PlanStatusDraft     PlanStatus = "DRAFT"
	PlanStatusFinal     PlanStatus = "FINAL"
	PlanStatusAdjusted  PlanStatus = "ADJUSTED"
	PlanStatusCancelled PlanStatus = "CANCELLED"
)

// HousekeepingSchedulePlan is a week's shift-slot plan for a sector, derived
// from a ForecastRun's demand. An ADJUSTMENT plan always references the
// baseline plan it revises.
type HousekeepingSchedulePlan struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SectorID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"sector_id"`
	ForecastRunID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"forecast_run_id"`
	WeekStart       time.Time      `gorm:"type:date;not null;index" json:"week_start"`
	WeekEnd         time.Time      `gorm:"type:date;not null" json:"week_end"`
	PlanKind        PlanKind       `gorm:"type:varchar(20);not null" json:"plan_kind"`
	BaselinePlanID  *uuid.UUID     `gorm:"type:uuid;index" json:"baseline_plan_id,omitempty"`
	Status          PlanStatus     `gorm:"type:varchar(20);not null;default:'DRAFT'" json:"status"`
	TotalHoursPlanned    decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"total_hours_planned"`
	TotalHeadcountPlanned int           `gorm:"not null;default:0" json:"total_headcount_planned"`
	CoverageByHour  datatypes.JSON `gorm:"type:jsonb" json:"coverage_by_hour,omitempty"`
	Validations     datatypes.JSON `gorm:"type:jsonb" json:"validations,omitempty"`
	DeltaVsBaseline datatypes.JSON `gorm:"type:jsonb" json:"delta_vs_baseline,omitempty"`
	CreatedAt       time.Time      `gorm:"default:now()" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"default:now()" json:"updated_at"`
	DeletedAt       *time.Time     `gorm:"index" json:"deleted_at,omitempty"`

	Slots []ShiftSlot `gorm:"foreignKey:SchedulePlanID" json:"slots,omitempty"`
}

func (HousekeepingSchedulePlan) TableName() string { return "housekeeping_schedule_plans" }

// ShiftSlot is one worker-sized presence unit on a plan: a time window, an
// optional lunch window inside it, and an optional bound employee.
type ShiftSlot struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SchedulePlanID  uuid.UUID  `gorm:"type:uuid;not null;index:idx_slot_plan_date" json:"schedule_plan_id"`
	TargetDate      time.Time  `gorm:"type:date;not null;index:idx_slot_plan_date" json:"target_date"`
	TemplateName    string     `gorm:"type:varchar(50);not null" json:"template_name"`
	StartTime       int        `gorm:"not null" json:"start_time"`
	EndTime         int        `gorm:"not null" json:"end_time"`
	LunchStart      *int       `json:"lunch_start,omitempty"`
	LunchEnd        *int       `json:"lunch_end,omitempty"`
	HoursWorked     decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"hours_worked"`
	EmployeeID      *uuid.UUID `gorm:"type:uuid;index" json:"employee_id,omitempty"`
	IsAssigned      bool       `gorm:"not null;default:false" json:"is_assigned"`
	CreatedAt       time.Time  `gorm:"default:now()" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"default:now()" json:"updated_at"`

	Employee *Employee `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
}

func (ShiftSlot) TableName() string { return "shift_slots" }

// CoversHour reports whether this slot counts toward hourly coverage at
// hour h: inside [start, end) and not inside the lunch window.
func (s ShiftSlot) CoversHour(h int) bool {
	minute := h * 60
	if minute < s.StartTime || minute >= s.EndTime {
		return false
	}
	if s.LunchStart != nil && s.LunchEnd != nil && minute >= *s.LunchStart && minute < *s.LunchEnd {
		return false
	}
	return true
}

// ScheduleOverrideLog records a manual headcount override applied to a plan
// day, written atomically with the slot mutation it describes.
type ScheduleOverrideLog struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SchedulePlanID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"schedule_plan_id"`
	TargetDate      time.Time      `gorm:"type:date;not null" json:"target_date"`
	PreviousHeadcount int          `gorm:"not null" json:"previous_headcount"`
	NewHeadcount    int            `gorm:"not null" json:"new_headcount"`
	RemovedSlotIDs  datatypes.JSON `gorm:"type:jsonb" json:"removed_slot_ids,omitempty"`
	Reason          string         `gorm:"type:text" json:"reason,omitempty"`
	PerformedBy     *uuid.UUID     `gorm:"type:uuid" json:"performed_by,omitempty"`
	CreatedAt       time.Time      `gorm:"default:now()" json:"created_at"`
}

func (ScheduleOverrideLog) TableName() string { return "schedule_override_logs" }
