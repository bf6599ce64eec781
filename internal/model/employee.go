package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ContractVariant distinguishes on-call (intermittent) workers from
// permanent staff; several rule-engine constraints and the Schedule
// Generator's intermittent-mode behavior key off this field.
type ContractVariant string

const (
	ContractIntermittent ContractVariant = "INTERMITTENT"
	ContractPermanent    ContractVariant = "PERMANENT"
)

// Employee is a sector-scoped worker eligible for shift assignment.
type Employee struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SectorID uuid.UUID `gorm:"type:uuid;not null;index" json:"sector_id"`

	FirstName string `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName  string `gorm:"type:varchar(100);not null" json:"last_name"`
	RoleTitle string `gorm:"type:varchar(100)" json:"role_title,omitempty"`

	ContractVariant ContractVariant `gorm:"type:varchar(20);not null;default:'INTERMITTENT'" json:"contract_variant"`
	MaxWeeklyHours  float64         `gorm:"not null;default:40" json:"max_weekly_hours"`

	// Per-worker cleaning-speed overrides; nil means use the sector default
	// from SectorOperationalParameters.
	VacantDirtyMinutesOverride *int `json:"vacant_dirty_minutes_override,omitempty"`
	StayoverMinutesOverride    *int `json:"stayover_minutes_override,omitempty"`

	// UnavailableDates is a JSON array of "YYYY-MM-DD" strings the employee
	// has declared unavailable, checked by the Assignment Engine.
	UnavailableDates datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"unavailable_dates"`

	// HistorySnapshot carries prior-shift/hours summaries used for the
	// Assignment Engine's fairness scoring (time since last assignment,
	// declining-pattern penalty) without requiring a full shift-history scan
	// on every call.
	HistorySnapshot datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"history_snapshot"`

	SpecializationTags datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"specialization_tags"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time      `gorm:"default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// Relations
	Sector *Sector `gorm:"foreignKey:SectorID" json:"sector,omitempty"`
}

func (Employee) TableName() string {
	return "employees"
}

// FullName returns the employee's display name.
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// VacantDirtyMinutes resolves the effective vacant-dirty cleaning time for
// this employee, falling back to the sector default.
func (e *Employee) VacantDirtyMinutes(sectorDefault int) int {
	if e.VacantDirtyMinutesOverride != nil {
		return *e.VacantDirtyMinutesOverride
	}
	return sectorDefault
}

// StayoverMinutes resolves the effective stayover cleaning time for this
// employee, falling back to the sector default.
func (e *Employee) StayoverMinutes(sectorDefault int) int {
	if e.StayoverMinutesOverride != nil {
		return *e.StayoverMinutesOverride
	}
	return sectorDefault
}

// UnavailableDateSet decodes UnavailableDates into a set keyed by
// "YYYY-MM-DD".
func (e *Employee) UnavailableDateSet() (map[string]struct{}, error) {
	var dates []string
	if len(e.UnavailableDates) > 0 {
		if err := json.Unmarshal(e.UnavailableDates, &dates); err != nil {
			return nil, err
		}
	}
	set := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		set[d] = struct{}{}
	}
	return set, nil
}

// IsUnavailableOn reports whether the employee declared the given date
// unavailable.
func (e *Employee) IsUnavailableOn(d time.Time) (bool, error) {
	set, err := e.UnavailableDateSet()
	if err != nil {
		return false, err
	}
	_, ok := set[d.Format("2006-01-02")]
	return ok, nil
}

// HasSpecialization reports whether the employee is tagged with the given
// shift-template specialization.
func (e *Employee) HasSpecialization(tag string) (bool, error) {
	var tags []string
	if len(e.SpecializationTags) > 0 {
		if err := json.Unmarshal(e.SpecializationTags, &tags); err != nil {
			return false, err
		}
	}
	for _, t := range tags {
		if t == tag {
			return true, nil
		}
	}
	return false, nil
}

// EmployeeHistory is the decoded shape of HistorySnapshot.
type EmployeeHistory struct {
	LastAssignedDate      *string        `json:"last_assigned_date,omitempty"`
	LastAssignedDifficulty int           `json:"last_assigned_difficulty,omitempty"`
	WeeklyHoursAccumulated float64       `json:"weekly_hours_accumulated,omitempty"`
	AssignmentsByPattern   map[string]int `json:"assignments_by_pattern,omitempty"`
}

// DecodeHistory decodes the employee's HistorySnapshot.
func (e *Employee) DecodeHistory() (EmployeeHistory, error) {
	var h EmployeeHistory
	if len(e.HistorySnapshot) == 0 {
		return h, nil
	}
	if err := json.Unmarshal(e.HistorySnapshot, &h); err != nil {
		return EmployeeHistory{}, err
	}
	if h.AssignmentsByPattern == nil {
		h.AssignmentsByPattern = map[string]int{}
	}
	return h, nil
}
