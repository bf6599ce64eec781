package model

import (
	"time"

	"github.com/google/uuid"
)

// CalculationRuleScope says which stage of the pipeline a
// SectorCalculationRule adjusts.
type CalculationRuleScope string

const (
	ScopeDemand      CalculationRuleScope = "DEMAND"
	ScopeProgramming CalculationRuleScope = "PROGRAMMING"
	ScopeAdjustments CalculationRuleScope = "ADJUSTMENTS"
)

// SectorCalculationRule carries a condition/action pair applied, in
// priority order, at a specific scope of the Demand Engine or Schedule
// Generator. Distinct from the unified Rule entity because its shape
// (expression pair rather than a structured constraint payload) does not
// fit the kind/rigidity lattice the other rule kinds share.
type SectorCalculationRule struct {
	ID       uuid.UUID            `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SectorID uuid.UUID            `gorm:"type:uuid;not null;index" json:"sector_id"`
	Scope    CalculationRuleScope `gorm:"type:varchar(20);not null;index" json:"scope"`
	Priority int                  `gorm:"not null;default:100" json:"priority"`

	Name string `gorm:"type:varchar(255);not null" json:"name"`

	// ConditionExpr and ActionExpr are small boolean/arithmetic expressions
	// evaluated against the engine's working variables (e.g.
	// "weekday == SATURDAY", "minutes_rule_adj *= 1.10").
	ConditionExpr string `gorm:"type:text;not null" json:"condition_expr"`
	ActionExpr    string `gorm:"type:text;not null" json:"action_expr"`

	IsActive bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:now()" json:"updated_at"`

	// Relations
	Sector *Sector `gorm:"foreignKey:SectorID" json:"sector,omitempty"`
}

func (SectorCalculationRule) TableName() string {
	return "sector_calculation_rules"
}
