package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// SuggestionStatus is the monotonic lifecycle of a DailySuggestion:
// OPEN → APPLIED | IGNORED.
type SuggestionStatus string

const (
	SuggestionOpen    SuggestionStatus = "OPEN"
	SuggestionApplied SuggestionStatus = "APPLIED"
	SuggestionIgnored SuggestionStatus = "IGNORED"
)

// SuggestionCategory classifies a DailySuggestion's domain.
type SuggestionCategory string

const (
	CategoryFinancial   SuggestionCategory = "FINANCIAL"
	CategoryOperational SuggestionCategory = "OPERATIONAL"
	CategoryLegal       SuggestionCategory = "LEGAL"
)

// DailySuggestion is a user-level recommendation (reinforce team, reduce
// hours, anticipate shift, postpone shift, preventive substitution).
type DailySuggestion struct {
	ID           uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SectorID     uuid.UUID          `gorm:"type:uuid;not null;index" json:"sector_id"`
	TargetDate   time.Time          `gorm:"type:date;not null;index" json:"target_date"`
	Category     SuggestionCategory `gorm:"type:varchar(20);not null" json:"category"`
	Kind         string             `gorm:"type:varchar(50);not null" json:"kind"`
	Message      string             `gorm:"type:text;not null" json:"message"`
	Status       SuggestionStatus   `gorm:"type:varchar(20);not null;default:'OPEN'" json:"status"`
	CreatedAt    time.Time          `gorm:"default:now()" json:"created_at"`
	UpdatedAt    time.Time          `gorm:"default:now()" json:"updated_at"`
}

func (DailySuggestion) TableName() string { return "daily_suggestions" }

// ReplanSuggestion compares live daily demand against a locked baseline and
// proposes a concrete adjustment. Accepting/rejecting it is persisted but
// never mutates the plan directly — applying one is an explicit downstream
// action that creates a new ADJUSTMENT plan.
type ReplanSuggestion struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SectorID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"sector_id"`
	BaselinePlanID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"baseline_plan_id"`
	TargetDate       time.Time       `gorm:"type:date;not null" json:"target_date"`
	Type             string          `gorm:"type:varchar(50);not null" json:"type"`
	OriginalValue    decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"original_value"`
	SuggestedValue   decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"suggested_value"`
	Delta            decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"delta"`
	Reason           string          `gorm:"type:text;not null" json:"reason"`
	JustificationJSON datatypes.JSON `gorm:"type:jsonb" json:"justification_json,omitempty"`
	Priority         int             `gorm:"not null;default:100" json:"priority"`
	IsAccepted       *bool           `json:"is_accepted"`
	CreatedAt        time.Time       `gorm:"default:now()" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"default:now()" json:"updated_at"`
}

func (ReplanSuggestion) TableName() string { return "replan_suggestions" }
