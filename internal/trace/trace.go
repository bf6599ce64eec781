// Package trace provides the AgentRun/AgentTraceStep sink shared by every
// pipeline component, so each computation leaves a structured, ordered
// explanation behind regardless of which engine produced it.
package trace

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hotelops/roster/internal/model"
	"github.com/hotelops/roster/internal/repository"
)

// Sink records one AgentRun and its ordered steps. A Sink is single-use: it
// is created at the start of a component's pipeline execution and finished
// once, successfully or not.
type Sink struct {
	repo *repository.AgentRunRepository
	run  *model.AgentRun
	next int
}

// NewSink starts a RUNNING AgentRun for component against sector, optionally
// naming the subject entity the run concerns (a ForecastRun id, a schedule
// plan id, …).
func NewSink(ctx context.Context, repo *repository.AgentRunRepository, sectorID uuid.UUID, component string, subjectID *uuid.UUID) (*Sink, error) {
	run := &model.AgentRun{
		SectorID:  sectorID,
		Component: component,
		Status:    model.AgentRunRunning,
		SubjectID: subjectID,
		StartedAt: time.Now().UTC(),
	}
	if err := repo.Create(ctx, run); err != nil {
		return nil, err
	}
	return &Sink{repo: repo, run: run}, nil
}

// RunID returns the underlying AgentRun's id, useful once persisted plans
// need to reference the run that produced them.
func (s *Sink) RunID() uuid.UUID {
	return s.run.ID
}

// Step appends an ordered trace step describing one decision point.
func (s *Sink) Step(ctx context.Context, description string, appliedRules, calculations, constraintsViolated any) error {
	step := &model.AgentTraceStep{
		AgentRunID: s.run.ID,
		StepOrder:  s.next,
	}
	s.next++
	step.Description = description
	if err := marshalInto(&step.AppliedRules, appliedRules); err != nil {
		return err
	}
	if err := marshalInto(&step.Calculations, calculations); err != nil {
		return err
	}
	if err := marshalInto(&step.ConstraintsViolated, constraintsViolated); err != nil {
		return err
	}
	return s.repo.AddStep(ctx, step)
}

// Complete marks the run COMPLETED.
func (s *Sink) Complete(ctx context.Context) error {
	return s.repo.Finish(ctx, s.run.ID, model.AgentRunCompleted, "")
}

// Fail marks the run FAILED with the given message; trace steps already
// persisted remain available for post-mortem.
func (s *Sink) Fail(ctx context.Context, errMsg string) error {
	return s.repo.Finish(ctx, s.run.ID, model.AgentRunFailed, errMsg)
}
