// Package calendar resolves the productivity/demand factors that calendar
// events contribute to a given (sector, date).
package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hotelops/roster/internal/model"
	"github.com/hotelops/roster/internal/repository"
)

type Engine struct {
	calendarRepo *repository.CalendarRepository
}

func NewEngine(calendarRepo *repository.CalendarRepository) *Engine {
	return &Engine{calendarRepo: calendarRepo}
}

// GetFactors composes every applicable GLOBAL and SECTOR calendar event for
// date multiplicatively: GLOBAL events apply first, then SECTOR events.
func (e *Engine) GetFactors(ctx context.Context, sectorID uuid.UUID, date time.Time) (model.CalendarFactors, error) {
	events, err := e.calendarRepo.ListApplicable(ctx, sectorID, date)
	if err != nil {
		return model.CalendarFactors{}, fmt.Errorf("resolving calendar factors: %w", err)
	}

	factors := model.CalendarFactors{
		ProductivityFactor: 1,
		DemandFactor:       1,
		AppliedEvents:      events,
	}
	for _, ev := range events {
		factors.ProductivityFactor *= ev.ProductivityFactor
		factors.DemandFactor *= ev.DemandFactor
		if ev.BlockConvocations {
			factors.BlockConvocations = true
		}
	}
	return factors, nil
}
