package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RuleKind discriminates the four rule families that share one lattice.
type RuleKind string

const (
	RuleKindLabor       RuleKind = "LABOR"
	RuleKindSystem      RuleKind = "SYSTEM"
	RuleKindOperational RuleKind = "OPERATIONAL"
	RuleKindCalculation RuleKind = "CALCULATION"
)

// RuleRigidity controls whether a violated rule blocks (MANDATORY) or only
// warns (DESIRABLE, FLEXIBLE).
type RuleRigidity string

const (
	RigidityMandatory RuleRigidity = "MANDATORY"
	RigidityDesirable RuleRigidity = "DESIRABLE"
	RigidityFlexible  RuleRigidity = "FLEXIBLE"
)

// Rule is the unified LABOR/SYSTEM/OPERATIONAL/CALCULATION rule row. Global
// rules (LABOR, SYSTEM) have a nil SectorID and apply universally; sector
// rules (OPERATIONAL, CALCULATION) are owned by one sector.
type Rule struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SectorID        *uuid.UUID     `gorm:"type:uuid;index" json:"sector_id,omitempty"`
	Kind            RuleKind       `gorm:"type:varchar(20);not null;index" json:"kind"`
	Rigidity        RuleRigidity   `gorm:"type:varchar(20);not null;index" json:"rigidity"`
	Priority        int            `gorm:"not null" json:"priority"`
	Code            string         `gorm:"type:varchar(80);not null;index:idx_rule_code_scope,unique" json:"code"`
	Title           string         `gorm:"type:varchar(255);not null" json:"title"`
	Question        string         `gorm:"type:text" json:"question,omitempty"`
	Answer          string         `gorm:"type:text" json:"answer,omitempty"`
	Metadata        datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	Active          bool           `gorm:"not null;default:true" json:"active"`
	ValidityStart   *time.Time     `gorm:"type:date" json:"validity_start,omitempty"`
	ValidityEnd     *time.Time     `gorm:"type:date" json:"validity_end,omitempty"`
	CreatedAt       time.Time      `gorm:"default:now()" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"default:now()" json:"updated_at"`
	DeletedAt       *time.Time     `gorm:"index" json:"deleted_at,omitempty"`
}

func (Rule) TableName() string { return "rules" }

// IsEffectiveOn reports whether the rule is active and within its validity
// window (inclusive, open-ended on a nil bound) as of d.
func (r Rule) IsEffectiveOn(d time.Time) bool {
	if !r.Active || r.DeletedAt != nil {
		return false
	}
	if r.ValidityStart != nil && d.Before(*r.ValidityStart) {
		return false
	}
	if r.ValidityEnd != nil && d.After(*r.ValidityEnd) {
		return false
	}
	return true
}

// IsGlobal reports whether the rule applies to every sector.
func (r Rule) IsGlobal() bool {
	return r.Kind == RuleKindLabor || r.Kind == RuleKindSystem
}

// RuleViolationSeverity is the severity reported by Rule Engine validation.
type RuleViolationSeverity string

const (
	SeverityError   RuleViolationSeverity = "ERROR"
	SeverityWarning RuleViolationSeverity = "WARNING"
)

// RuleViolation is one entry of a validate() result.
type RuleViolation struct {
	RuleCode string                 `json:"rule_code"`
	Severity RuleViolationSeverity  `json:"severity"`
	Message  string                 `json:"message"`
}

// EffectiveConstraints is the flat numeric/boolean reduction produced by
// get_constraints: global LABOR rules apply first, then sector OPERATIONAL
// rules override matching keys.
type EffectiveConstraints struct {
	MaxWeeklyHours           float64 `json:"max_weekly_hours"`
	MaxDailyHours            float64 `json:"max_daily_hours"`
	MinRestBetweenShiftsHours float64 `json:"min_rest_between_shifts_hours"`
	AdvanceNoticeHours       float64 `json:"advance_notice_hours"`
	MaxConsecutiveDays       int     `json:"max_consecutive_days"`
	BufferPct                float64 `json:"buffer_pct"`
	UtilizationTargetPct     float64 `json:"utilization_target_pct"`
	IntermittentModeEnabled  bool    `json:"intermittent_mode_enabled"`
	ShiftFactorOverrides     map[string]float64 `json:"shift_factor_overrides,omitempty"`
}

// DefaultEffectiveConstraints returns the system-wide defaults used as the
// seed that global LABOR rules, then sector OPERATIONAL rules, override key
// by key.
func DefaultEffectiveConstraints() EffectiveConstraints {
	return EffectiveConstraints{
		MaxWeeklyHours:            44,
		MaxDailyHours:             8,
		MinRestBetweenShiftsHours: 11,
		AdvanceNoticeHours:        72,
		MaxConsecutiveDays:        6,
		BufferPct:                 10,
		UtilizationTargetPct:      85,
		IntermittentModeEnabled:   true,
		ShiftFactorOverrides:      map[string]float64{},
	}
}
