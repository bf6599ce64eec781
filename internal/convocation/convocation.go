// Package convocation implements the Convocation Engine:
// lifecycle and legal-notice validation for formal shift invitations, plus
// decline-driven reschedule and a scheduled expiry sweep.
package convocation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/hotelops/roster/internal/apperr"
	"github.com/hotelops/roster/internal/calendar"
	"github.com/hotelops/roster/internal/model"
	"github.com/hotelops/roster/internal/repository"
	"github.com/hotelops/roster/internal/rulesengine"
)

const DefaultResponseHours = 24

type Engine struct {
	convocationRepo *repository.ConvocationRepository
	employeeRepo    *repository.EmployeeRepository
	scheduleRepo    *repository.ScheduleRepository
	rules           *rulesengine.Engine
	calendarEng     *calendar.Engine
}

func NewEngine(
	convocationRepo *repository.ConvocationRepository,
	employeeRepo *repository.EmployeeRepository,
	scheduleRepo *repository.ScheduleRepository,
	rules *rulesengine.Engine,
	calendarEng *calendar.Engine,
) *Engine {
	return &Engine{
		convocationRepo: convocationRepo, employeeRepo: employeeRepo,
		scheduleRepo: scheduleRepo, rules: rules, calendarEng: calendarEng,
	}
}

// CreateInput is create()'s argument set.
type CreateInput struct {
	EmployeeID    uuid.UUID
	SectorID      uuid.UUID
	ShiftSlotID   *uuid.UUID
	Date          time.Time
	StartTime     int
	EndTime       int
	BreakMinutes  int
	Origin        model.ConvocationOrigin
	ResponseHours int
}

// ValidationResult is create()'s independent validation outcome, always
// returned even when creation is rejected.
type ValidationResult struct {
	Passed   bool     `json:"passed"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Create validates input against effective constraints and calendar
// block_convocations, and persists a PENDING convocation only if no
// MANDATORY-level error is present.
func (e *Engine) Create(ctx context.Context, input CreateInput, now time.Time) (*model.Convocation, ValidationResult, error) {
	validation, err := e.validate(ctx, input, now)
	if err != nil {
		return nil, ValidationResult{}, err
	}
	if !validation.Passed {
		return nil, validation, nil
	}

	responseHours := input.ResponseHours
	if responseHours <= 0 {
		responseHours = DefaultResponseHours
	}

	totalMinutes := input.EndTime - input.StartTime - input.BreakMinutes
	convo := &model.Convocation{
		EmployeeID:       input.EmployeeID,
		SectorID:         input.SectorID,
		ShiftSlotID:      input.ShiftSlotID,
		Date:             input.Date,
		StartTime:        input.StartTime,
		EndTime:          input.EndTime,
		BreakMinutes:     input.BreakMinutes,
		TotalHours:       decimal.NewFromFloat(float64(totalMinutes) / 60),
		Status:           model.ConvocationPending,
		Origin:           input.Origin,
		SentAt:           now,
		ResponseDeadline: now.Add(time.Duration(responseHours) * time.Hour),
	}
	convo.LegalValidationPassed = true
	if len(validation.Warnings) > 0 {
		if err := marshalJSON(&convo.LegalValidationWarnings, validation.Warnings); err != nil {
			return nil, ValidationResult{}, err
		}
	}

	if err := e.convocationRepo.Create(ctx, convo); err != nil {
		return nil, ValidationResult{}, fmt.Errorf("creating convocation: %w", err)
	}
	return convo, validation, nil
}

func (e *Engine) validate(ctx context.Context, input CreateInput, now time.Time) (ValidationResult, error) {
	factors, err := e.calendarEng.GetFactors(ctx, input.SectorID, input.Date)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("loading calendar factors: %w", err)
	}
	if factors.BlockConvocations {
		return ValidationResult{Passed: false, Errors: []string{"calendar event blocks convocations on this date"}}, nil
	}

	constraints, err := e.rules.GetConstraints(ctx, input.SectorID, now)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("loading effective constraints: %w", err)
	}

	emp, err := e.employeeRepo.GetByID(ctx, input.EmployeeID)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("loading employee: %w", err)
	}

	var errs, warnings []string

	shiftStart := time.Date(input.Date.Year(), input.Date.Month(), input.Date.Day(), 0, 0, 0, 0, time.UTC).Add(time.Duration(input.StartTime) * time.Minute)
	hoursUntilStart := shiftStart.Sub(now).Hours()
	if hoursUntilStart < constraints.AdvanceNoticeHours {
		warnings = append(warnings, fmt.Sprintf("only %.1fh notice before shift, under %.1fh", hoursUntilStart, constraints.AdvanceNoticeHours))
	}

	dailyHours := float64(input.EndTime-input.StartTime-input.BreakMinutes) / 60
	if dailyHours > constraints.MaxDailyHours || dailyHours > emp.MaxWeeklyHours {
		errs = append(errs, fmt.Sprintf("daily hours %.2f exceed limits", dailyHours))
	}

	weekStart := input.Date.AddDate(0, 0, -int(input.Date.Weekday()))
	weekEnd := weekStart.AddDate(0, 0, 6)
	accepted, err := e.convocationRepo.AcceptedInWeek(ctx, input.EmployeeID, weekStart, weekEnd)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("loading accepted convocations in week: %w", err)
	}
	weeklyTotal := decimal.NewFromFloat(dailyHours)
	for _, c := range accepted {
		weeklyTotal = weeklyTotal.Add(c.TotalHours)
	}
	if weeklyTotal.InexactFloat64() > constraints.MaxWeeklyHours || weeklyTotal.InexactFloat64() > emp.MaxWeeklyHours {
		errs = append(errs, fmt.Sprintf("weekly hours would reach %.2f, over limits", weeklyTotal.InexactFloat64()))
	}

	last, err := e.convocationRepo.LastAcceptedBefore(ctx, input.EmployeeID, input.Date)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("loading last accepted convocation: %w", err)
	}
	if last != nil {
		priorEnd := time.Date(last.Date.Year(), last.Date.Month(), last.Date.Day(), 0, 0, 0, 0, time.UTC).Add(time.Duration(last.EndTime) * time.Minute)
		restHours := shiftStart.Sub(priorEnd).Hours()
		if restHours < constraints.MinRestBetweenShiftsHours {
			errs = append(errs, fmt.Sprintf("rest of %.1fh since last accepted shift under minimum %.1fh", restHours, constraints.MinRestBetweenShiftsHours))
		}
	}

	return ValidationResult{Passed: len(errs) == 0, Errors: errs, Warnings: warnings}, nil
}

var ErrNotPending = apperr.NewConflictError("convocation is not in PENDING status")

// Accept transitions a PENDING convocation to ACCEPTED.
func (e *Engine) Accept(ctx context.Context, id uuid.UUID, now time.Time) (*model.Convocation, error) {
	convo, err := e.convocationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if convo.Status != model.ConvocationPending {
		return nil, ErrNotPending
	}
	convo.Status = model.ConvocationAccepted
	convo.RespondedAt = &now
	if err := e.convocationRepo.Update(ctx, convo); err != nil {
		return nil, fmt.Errorf("accepting convocation: %w", err)
	}
	return convo, nil
}

// Decline transitions a PENDING convocation to DECLINED, optionally
// creating a RESCHEDULE-origin successor for the same slot via rebind.
func (e *Engine) Decline(ctx context.Context, id uuid.UUID, now time.Time, rebind func(ctx context.Context, slotID uuid.UUID, excludeEmployeeID uuid.UUID) (*uuid.UUID, error)) (*model.Convocation, *model.Convocation, error) {
	convo, err := e.convocationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if convo.Status != model.ConvocationPending {
		return nil, nil, ErrNotPending
	}
	convo.Status = model.ConvocationDeclined
	convo.RespondedAt = &now
	if err := e.convocationRepo.Update(ctx, convo); err != nil {
		return nil, nil, fmt.Errorf("declining convocation: %w", err)
	}

	successor, err := e.reschedule(ctx, convo, now, rebind)
	if err != nil {
		return convo, nil, err
	}
	return convo, successor, nil
}

// Cancel transitions a PENDING convocation to CANCELLED with reason.
func (e *Engine) Cancel(ctx context.Context, id uuid.UUID, reason string) (*model.Convocation, error) {
	convo, err := e.convocationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if convo.Status != model.ConvocationPending {
		return nil, ErrNotPending
	}
	convo.Status = model.ConvocationCancelled
	convo.CancelReason = reason
	if err := e.convocationRepo.Update(ctx, convo); err != nil {
		return nil, fmt.Errorf("cancelling convocation: %w", err)
	}
	return convo, nil
}

// SweepExpired marks every PENDING convocation past its response deadline
// as EXPIRED and queues a reschedule for each.
func (e *Engine) SweepExpired(ctx context.Context, now time.Time, rebind func(ctx context.Context, slotID uuid.UUID, excludeEmployeeID uuid.UUID) (*uuid.UUID, error)) ([]*model.Convocation, error) {
	expiring, err := e.convocationRepo.ListExpiring(ctx, now)
	if err != nil {
		return nil, err
	}

	successors := make([]*model.Convocation, 0, len(expiring))
	for i := range expiring {
		c := expiring[i]
		c.Status = model.ConvocationExpired
		if err := e.convocationRepo.Update(ctx, &c); err != nil {
			return nil, fmt.Errorf("expiring convocation: %w", err)
		}
		successor, err := e.reschedule(ctx, &c, now, rebind)
		if err != nil {
			return nil, err
		}
		if successor != nil {
			successors = append(successors, successor)
		}
	}
	return successors, nil
}

// reschedule rebinds the original convocation's slot to a different
// employee (via rebind, which wraps the assignment engine restricted to
// one slot) and issues a RESCHEDULE-origin successor convocation.
func (e *Engine) reschedule(ctx context.Context, original *model.Convocation, now time.Time, rebind func(ctx context.Context, slotID uuid.UUID, excludeEmployeeID uuid.UUID) (*uuid.UUID, error)) (*model.Convocation, error) {
	if original.ShiftSlotID == nil || rebind == nil {
		return nil, nil
	}

	newEmployeeID, err := rebind(ctx, *original.ShiftSlotID, original.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("rebinding slot for reschedule: %w", err)
	}
	if newEmployeeID == nil {
		return nil, nil
	}

	successor, validation, err := e.Create(ctx, CreateInput{
		EmployeeID:   *newEmployeeID,
		SectorID:     original.SectorID,
		ShiftSlotID:  original.ShiftSlotID,
		Date:         original.Date,
		StartTime:    original.StartTime,
		EndTime:      original.EndTime,
		BreakMinutes: original.BreakMinutes,
		Origin:       model.OriginReschedule,
	}, now)
	if err != nil {
		return nil, err
	}
	if successor == nil {
		return nil, fmt.Errorf("reschedule successor failed validation: %v", validation.Errors)
	}

	successor.ReplacedConvocationID = &original.ID
	if err := e.convocationRepo.Update(ctx, successor); err != nil {
		return nil, fmt.Errorf("linking reschedule successor: %w", err)
	}
	original.ReplacementConvocationID = &successor.ID
	if err := e.convocationRepo.Update(ctx, original); err != nil {
		return nil, fmt.Errorf("linking replaced convocation: %w", err)
	}
	return successor, nil
}

func marshalJSON(dest *datatypes.JSON, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	*dest = raw
	return nil
}
