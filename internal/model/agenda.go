package model

import (
	"time"

	"github.com/google/uuid"
)

// AgendaStatus is the lifecycle state of an EmployeeDailyAgenda.
type AgendaStatus string

const (
	AgendaStatusDraft     AgendaStatus = "DRAFT"
	AgendaStatusGenerated AgendaStatus = "GENERATED"
	AgendaStatusApproved  AgendaStatus = "APPROVED"
	AgendaStatusConflict  AgendaStatus = "CONFLICT"
)

// EmployeeDailyAgenda distributes a shift slot's available minutes into
// ordered activity items. Agendas for a plan are always regenerated from
// scratch — never incrementally edited.
type EmployeeDailyAgenda struct {
	ID                     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SchedulePlanID         uuid.UUID `gorm:"type:uuid;not null;index" json:"schedule_plan_id"`
	ShiftSlotID            uuid.UUID `gorm:"type:uuid;not null;index" json:"shift_slot_id"`
	EmployeeID             uuid.UUID `gorm:"type:uuid;not null;index" json:"employee_id"`
	TargetDate             time.Time `gorm:"type:date;not null;index" json:"target_date"`
	TotalMinutesAllocated  int       `gorm:"not null;default:0" json:"total_minutes_allocated"`
	TotalMinutesAvailable  int       `gorm:"not null" json:"total_minutes_available"`
	Status                 AgendaStatus `gorm:"type:varchar(20);not null;default:'DRAFT'" json:"status"`
	HasConflict            bool      `gorm:"not null;default:false" json:"has_conflict"`
	CreatedAt              time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt              time.Time `gorm:"default:now()" json:"updated_at"`

	Employee *Employee              `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Items    []EmployeeDailyAgendaItem `gorm:"foreignKey:AgendaID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (EmployeeDailyAgenda) TableName() string { return "employee_daily_agendas" }

// EmployeeDailyAgendaItem is one ordered slice of activity work inside an
// agenda, capped at 60 minutes so long activities span multiple items.
type EmployeeDailyAgendaItem struct {
	ID             uuid.UUID               `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	AgendaID       uuid.UUID               `gorm:"type:uuid;not null;index" json:"agenda_id"`
	ActivityID     uuid.UUID               `gorm:"type:uuid;not null;index" json:"activity_id"`
	Order          int                     `gorm:"not null" json:"order"`
	Minutes        int                     `gorm:"not null" json:"minutes"`
	Quantity       int                     `gorm:"not null;default:1" json:"quantity"`
	Classification ActivityClassification  `gorm:"type:varchar(30);not null" json:"classification"`
	IsPending      bool                    `gorm:"not null;default:false" json:"is_pending"`
	PendingReason  string                  `gorm:"type:text" json:"pending_reason,omitempty"`
	CreatedAt      time.Time               `gorm:"default:now()" json:"created_at"`

	Activity *GovernanceActivity `gorm:"foreignKey:ActivityID" json:"activity,omitempty"`
}

func (EmployeeDailyAgendaItem) TableName() string { return "employee_daily_agenda_items" }

// MaxItemMinutes is the per-item cap; longer activities split across
// multiple ordered items for the same employee.
const MaxItemMinutes = 60
