// Package rulesengine reduces the kind x rigidity x priority rule lattice
// into effective constraints, validates candidate values against it, and
// generates deterministic rule codes.
package rulesengine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hotelops/roster/internal/apperr"
	"github.com/hotelops/roster/internal/model"
	"github.com/hotelops/roster/internal/repository"
)

func unmarshalMetadata(raw []byte, dest any) error {
	if len(raw) == 0 {
		return fmt.Errorf("empty metadata")
	}
	return json.Unmarshal(raw, dest)
}

type Engine struct {
	ruleRepo *repository.RuleRepository
}

func NewEngine(ruleRepo *repository.RuleRepository) *Engine {
	return &Engine{ruleRepo: ruleRepo}
}

// FetchRules returns rules visible to sector as of asOf, ordered by
// (kind, rigidity, priority ascending).
func (e *Engine) FetchRules(ctx context.Context, sectorID uuid.UUID, asOf time.Time, activeOnly bool) ([]model.Rule, error) {
	return e.ruleRepo.FetchRules(ctx, sectorID, asOf, activeOnly)
}

// ruleConstraint is the expected shape of a LABOR/OPERATIONAL rule's
// Metadata column: {"constraint_key": "max_weekly_hours", "value": 40} for a
// scalar override, or {"constraint_key": "shift_factor_overrides",
// "shift_key": "morning", "value": 1.1} for the map-valued one.
type ruleConstraint struct {
	ConstraintKey string  `json:"constraint_key"`
	ShiftKey      string  `json:"shift_key,omitempty"`
	Value         float64 `json:"value"`
	BoolValue     *bool   `json:"bool_value,omitempty"`
}

// GetConstraints reduces the sector's active LABOR and OPERATIONAL rules
// into a flat EffectiveConstraints map, seeded with system defaults. Global
// LABOR rules apply first (in priority order), then sector OPERATIONAL
// rules override matching keys.
func (e *Engine) GetConstraints(ctx context.Context, sectorID uuid.UUID, asOf time.Time) (model.EffectiveConstraints, error) {
	rules, err := e.ruleRepo.FetchRules(ctx, sectorID, asOf, true)
	if err != nil {
		return model.EffectiveConstraints{}, fmt.Errorf("fetching rules for constraints: %w", err)
	}

	constraints := model.DefaultEffectiveConstraints()

	apply := func(kind model.RuleKind) {
		for _, r := range rules {
			if r.Kind != kind {
				continue
			}
			var c ruleConstraint
			if err := unmarshalMetadata(r.Metadata, &c); err != nil {
				continue
			}
			applyConstraint(&constraints, c)
		}
	}
	apply(model.RuleKindLabor)
	apply(model.RuleKindOperational)

	return constraints, nil
}

func applyConstraint(c *model.EffectiveConstraints, rc ruleConstraint) {
	switch rc.ConstraintKey {
	case "max_weekly_hours":
		c.MaxWeeklyHours = rc.Value
	case "max_daily_hours":
		c.MaxDailyHours = rc.Value
	case "min_rest_between_shifts_hours":
		c.MinRestBetweenShiftsHours = rc.Value
	case "advance_notice_hours":
		c.AdvanceNoticeHours = rc.Value
	case "max_consecutive_days":
		c.MaxConsecutiveDays = int(rc.Value)
	case "buffer_pct":
		c.BufferPct = rc.Value
	case "utilization_target_pct":
		c.UtilizationTargetPct = rc.Value
	case "intermittent_mode_enabled":
		if rc.BoolValue != nil {
			c.IntermittentModeEnabled = *rc.BoolValue
		}
	case "shift_factor_overrides":
		if rc.ShiftKey != "" {
			if c.ShiftFactorOverrides == nil {
				c.ShiftFactorOverrides = map[string]float64{}
			}
			c.ShiftFactorOverrides[rc.ShiftKey] = rc.Value
		}
	}
}

// CandidateValues is the set of measured values validate() checks against
// effective constraints.
type CandidateValues struct {
	WeeklyHours        float64
	DailyHours         float64
	RestHoursAvailable *float64
	HoursUntilStart    *float64
	ConsecutiveDays    int
}

// Validate returns every violated constraint as a RuleViolation. Severity is
// fixed per constraint: weekly hours, daily hours and rest between shifts are
// ERROR; advance notice and consecutive days are WARNING. The rigidity of the
// rule that set a constraint's effective value is not consulted.
func (e *Engine) Validate(ctx context.Context, sectorID uuid.UUID, values CandidateValues) ([]model.RuleViolation, error) {
	constraints, err := e.GetConstraints(ctx, sectorID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	var violations []model.RuleViolation
	if values.WeeklyHours > constraints.MaxWeeklyHours {
		violations = append(violations, model.RuleViolation{
			RuleCode: "max_weekly_hours",
			Severity: model.SeverityError,
			Message:  fmt.Sprintf("weekly hours %.2f exceed max %.2f", values.WeeklyHours, constraints.MaxWeeklyHours),
		})
	}
	if values.DailyHours > constraints.MaxDailyHours {
		violations = append(violations, model.RuleViolation{
			RuleCode: "max_daily_hours",
			Severity: model.SeverityError,
			Message:  fmt.Sprintf("daily hours %.2f exceed max %.2f", values.DailyHours, constraints.MaxDailyHours),
		})
	}
	if values.RestHoursAvailable != nil && *values.RestHoursAvailable < constraints.MinRestBetweenShiftsHours {
		violations = append(violations, model.RuleViolation{
			RuleCode: "min_rest_between_shifts_hours",
			Severity: model.SeverityError,
			Message:  fmt.Sprintf("rest of %.2fh under minimum %.2fh", *values.RestHoursAvailable, constraints.MinRestBetweenShiftsHours),
		})
	}
	if values.HoursUntilStart != nil && *values.HoursUntilStart < constraints.AdvanceNoticeHours {
		violations = append(violations, model.RuleViolation{
			RuleCode: "advance_notice_hours",
			Severity: model.SeverityWarning,
			Message:  fmt.Sprintf("only %.2fh notice, under %.2fh", *values.HoursUntilStart, constraints.AdvanceNoticeHours),
		})
	}
	if values.ConsecutiveDays > constraints.MaxConsecutiveDays {
		violations = append(violations, model.RuleViolation{
			RuleCode: "max_consecutive_days",
			Severity: model.SeverityWarning,
			Message:  fmt.Sprintf("%d consecutive days exceeds %d", values.ConsecutiveDays, constraints.MaxConsecutiveDays),
		})
	}
	return violations, nil
}

// scopedAdjustment is the expected shape of a CALCULATION rule's Metadata
// when it participates in the Demand Engine's minutes_rule_adj step:
// {"scope": "DEMAND", "adjustment_type": "multiply"|"add", "value": 1.05}.
type scopedAdjustment struct {
	Scope          string  `json:"scope"`
	AdjustmentType string  `json:"adjustment_type"`
	Value          float64 `json:"value"`
}

// AppliedAdjustment records one rule's contribution to a scoped value, for
// the demand engine's calculation-memory breakdown.
type AppliedAdjustment struct {
	RuleCode string  `json:"rule_code"`
	Type     string  `json:"type"`
	Value    float64 `json:"value"`
	Result   float64 `json:"result"`
}

// ApplyScopedAdjustments applies every active CALCULATION rule tagged with
// scope, in priority order, to value — multiplicative rules multiply,
// additive rules add a flat minute amount. Used for the Demand Engine's
// DEMAND then ADJUSTMENTS scope passes over minutes_rule_adj.
func ApplyScopedAdjustments(rules []model.Rule, scope string, value float64) (float64, []AppliedAdjustment) {
	var applied []AppliedAdjustment
	for _, r := range rules {
		if r.Kind != model.RuleKindCalculation {
			continue
		}
		var adj scopedAdjustment
		if err := unmarshalMetadata(r.Metadata, &adj); err != nil || adj.Scope != scope {
			continue
		}
		switch adj.AdjustmentType {
		case "multiply":
			value *= adj.Value
		case "add":
			value += adj.Value
		default:
			continue
		}
		applied = append(applied, AppliedAdjustment{RuleCode: r.Code, Type: adj.AdjustmentType, Value: adj.Value, Result: value})
	}
	return value, applied
}

// Reorder atomically renumbers priorities 1..n within one (kind, rigidity)
// block.
func (e *Engine) Reorder(ctx context.Context, sectorID *uuid.UUID, kind model.RuleKind, rigidity model.RuleRigidity, ruleIDs []uuid.UUID) error {
	return e.ruleRepo.Reorder(ctx, sectorID, kind, rigidity, ruleIDs)
}

var slugNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateCode deterministically derives a rule code from its title, kind,
// and scope, guaranteeing uniqueness within (sector|global, kind) via an
// appended hash suffix of the full (title, kind, sectorID) triple.
func GenerateCode(title string, kind model.RuleKind, sectorID *uuid.UUID) string {
	slug := strings.Trim(slugNonAlnum.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if len(slug) > 48 {
		slug = slug[:48]
	}

	scope := "global"
	if sectorID != nil {
		scope = sectorID.String()
	}
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s", strings.ToLower(title), kind, scope)))
	suffix := hex.EncodeToString(sum[:])[:8]

	return fmt.Sprintf("%s-%s-%s", strings.ToLower(string(kind)), slug, suffix)
}

// EnsureUniqueCode generates a code and, in the exceedingly unlikely event
// of a collision, appends an incrementing disambiguator.
func EnsureUniqueCode(ctx context.Context, ruleRepo *repository.RuleRepository, title string, kind model.RuleKind, sectorID *uuid.UUID) (string, error) {
	base := GenerateCode(title, kind, sectorID)
	code := base
	for i := 1; i < 100; i++ {
		exists, err := ruleRepo.CodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("checking rule code uniqueness: %w", err)
		}
		if !exists {
			return code, nil
		}
		code = fmt.Sprintf("%s-%d", base, i)
	}
	return "", apperr.NewConflictError("could not generate a unique rule code")
}
