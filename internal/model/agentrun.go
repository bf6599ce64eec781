package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AgentRunStatus is the lifecycle of a component's structured execution
// trace.
type AgentRunStatus string

const (
	AgentRunRunning   AgentRunStatus = "RUNNING"
	AgentRunCompleted AgentRunStatus = "COMPLETED"
	AgentRunFailed    AgentRunStatus = "FAILED"
)

// AgentRun is one execution of a pipeline component (Demand Engine,
// Schedule Generator, Assignment Engine, …), recording ordered trace steps
// for post-hoc explanation. Trace steps up to a failure point remain
// persisted even when the run itself fails.
type AgentRun struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SectorID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"sector_id"`
	Component   string         `gorm:"type:varchar(50);not null;index" json:"component"`
	Status      AgentRunStatus `gorm:"type:varchar(20);not null;default:'RUNNING'" json:"status"`
	SubjectID   *uuid.UUID     `gorm:"type:uuid;index" json:"subject_id,omitempty"`
	StartedAt   time.Time      `gorm:"not null;default:now()" json:"started_at"`
	FinishedAt  *time.Time     `json:"finished_at,omitempty"`
	ErrorMessage string        `gorm:"type:text" json:"error_message,omitempty"`

	Steps []AgentTraceStep `gorm:"foreignKey:AgentRunID" json:"steps,omitempty"`
}

func (AgentRun) TableName() string { return "agent_runs" }

// AgentTraceStep is one ordered step of an AgentRun's explanation.
// Readers must sort by StepOrder.
type AgentTraceStep struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	AgentRunID         uuid.UUID      `gorm:"type:uuid;not null;index:idx_trace_run_order" json:"agent_run_id"`
	StepOrder          int            `gorm:"not null;index:idx_trace_run_order" json:"step_order"`
	Description        string         `gorm:"type:text;not null" json:"description"`
	AppliedRules       datatypes.JSON `gorm:"type:jsonb" json:"applied_rules,omitempty"`
	Calculations       datatypes.JSON `gorm:"type:jsonb" json:"calculations,omitempty"`
	ConstraintsViolated datatypes.JSON `gorm:"type:jsonb" json:"constraints_violated,omitempty"`
	CreatedAt          time.Time      `gorm:"default:now()" json:"created_at"`
}

func (AgentTraceStep) TableName() string { return "agent_trace_steps" }
