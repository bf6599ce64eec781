package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hotelops/roster/internal/model"
)

var ErrAgentRunNotFound = errors.New("agent run not found")

type AgentRunRepository struct {
	db *DB
}

func NewAgentRunRepository(db *DB) *AgentRunRepository {
	return &AgentRunRepository{db: db}
}

func (r *AgentRunRepository) Create(ctx context.Context, run *model.AgentRun) error {
	if err := r.db.GORM.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("creating agent run: %w", err)
	}
	return nil
}

func (r *AgentRunRepository) AddStep(ctx context.Context, step *model.AgentTraceStep) error {
	if err := r.db.GORM.WithContext(ctx).Create(step).Error; err != nil {
		return fmt.Errorf("adding trace step: %w", err)
	}
	return nil
}

func (r *AgentRunRepository) Finish(ctx context.Context, id uuid.UUID, status model.AgentRunStatus, errMsg string) error {
	now := time.Now().UTC()
	result := r.db.GORM.WithContext(ctx).Model(&model.AgentRun{}).Where("id = ?", id).Updates(map[string]any{
		"status":        status,
		"finished_at":   now,
		"error_message": errMsg,
	})
	if result.Error != nil {
		return fmt.Errorf("finishing agent run: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAgentRunNotFound
	}
	return nil
}

func (r *AgentRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.AgentRun, error) {
	var run model.AgentRun
	err := r.db.GORM.WithContext(ctx).
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("step_order ASC") }).
		First(&run, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAgentRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting agent run: %w", err)
	}
	return &run, nil
}

// ListBySubject returns every AgentRun recorded against a subject entity
// (a ForecastRun id, schedule plan id, …), most recent first.
func (r *AgentRunRepository) ListBySubject(ctx context.Context, subjectID uuid.UUID) ([]model.AgentRun, error) {
	var runs []model.AgentRun
	err := r.db.GORM.WithContext(ctx).
		Where("subject_id = ?", subjectID).
		Order("started_at DESC").
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("listing agent runs: %w", err)
	}
	return runs, nil
}

// SweepStale fails every RUNNING AgentRun older than cutoff, returning how
// many rows were affected. Backs the garbage-collecting sweeper described in
// the concurrency model for runs that never reach COMPLETED.
func (r *AgentRunRepository) SweepStale(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.GORM.WithContext(ctx).Model(&model.AgentRun{}).
		Where("status = ? AND started_at < ?", model.AgentRunRunning, cutoff).
		Updates(map[string]any{
			"status":        model.AgentRunFailed,
			"finished_at":   time.Now().UTC(),
			"error_message": "swept: exceeded run timeout",
		})
	if result.Error != nil {
		return 0, fmt.Errorf("sweeping stale agent runs: %w", result.Error)
	}
	return result.RowsAffected, nil
}
