package model_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/hotelops/roster/internal/model"
)

func TestSectorCalculationRule_TableName(t *testing.T) {
	assert.Equal(t, "sector_calculation_rules", model.SectorCalculationRule{}.TableName())
}

func TestSectorCalculationRule_Defaults(t *testing.T) {
	rule := &model.SectorCalculationRule{
		SectorID:      uuid.New(),
		Scope:         model.ScopeDemand,
		Priority:      10,
		Name:          "weekend turnover bump",
		ConditionExpr: "weekday == SATURDAY",
		ActionExpr:    "minutes_rule_adj *= 1.10",
		IsActive:      true,
	}

	assert.Equal(t, model.ScopeDemand, rule.Scope)
	assert.Equal(t, 10, rule.Priority)
	assert.True(t, rule.IsActive)
}

func TestCalculationRuleScope_Values(t *testing.T) {
	assert.Equal(t, model.CalculationRuleScope("DEMAND"), model.ScopeDemand)
	assert.Equal(t, model.CalculationRuleScope("PROGRAMMING"), model.ScopeProgramming)
	assert.Equal(t, model.CalculationRuleScope("ADJUSTMENTS"), model.ScopeAdjustments)
}
