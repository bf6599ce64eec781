package rulesengine_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/hotelops/roster/internal/model"
	"github.com/hotelops/roster/internal/rulesengine"
)

func TestGenerateCode_Deterministic(t *testing.T) {
	sectorID := uuid.New()
	a := rulesengine.GenerateCode("Max Weekly Hours", model.RuleKindLabor, &sectorID)
	b := rulesengine.GenerateCode("Max Weekly Hours", model.RuleKindLabor, &sectorID)
	assert.Equal(t, a, b)
}

func TestGenerateCode_DiffersByScope(t *testing.T) {
	sectorA := uuid.New()
	sectorB := uuid.New()
	codeA := rulesengine.GenerateCode("Max Weekly Hours", model.RuleKindLabor, &sectorA)
	codeB := rulesengine.GenerateCode("Max Weekly Hours", model.RuleKindLabor, &sectorB)
	codeGlobal := rulesengine.GenerateCode("Max Weekly Hours", model.RuleKindLabor, nil)
	assert.NotEqual(t, codeA, codeB)
	assert.NotEqual(t, codeA, codeGlobal)
}

func TestGenerateCode_SlugsTitleAndPrefixesKind(t *testing.T) {
	code := rulesengine.GenerateCode("Max Weekly Hours!!", model.RuleKindOperational, nil)
	assert.Contains(t, code, "operational-")
	assert.Contains(t, code, "max-weekly-hours")
}

func TestApplyScopedAdjustments_MultiplyAndAdd(t *testing.T) {
	rules := []model.Rule{
		{Code: "calc-a", Kind: model.RuleKindCalculation, Metadata: []byte(`{"scope":"DEMAND","adjustment_type":"multiply","value":1.1}`)},
		{Code: "calc-b", Kind: model.RuleKindCalculation, Metadata: []byte(`{"scope":"DEMAND","adjustment_type":"add","value":5}`)},
		{Code: "calc-c", Kind: model.RuleKindCalculation, Metadata: []byte(`{"scope":"ADJUSTMENTS","adjustment_type":"multiply","value":2}`)},
		{Code: "labor-a", Kind: model.RuleKindLabor, Metadata: []byte(`{"scope":"DEMAND","adjustment_type":"multiply","value":9}`)},
	}

	result, applied := rulesengine.ApplyScopedAdjustments(rules, "DEMAND", 100)

	assert.InDelta(t, 115, result, 0.0001)
	if assert.Len(t, applied, 2) {
		assert.Equal(t, "calc-a", applied[0].RuleCode)
		assert.InDelta(t, 110, applied[0].Result, 0.0001)
		assert.Equal(t, "calc-b", applied[1].RuleCode)
		assert.InDelta(t, 115, applied[1].Result, 0.0001)
	}
}

func TestApplyScopedAdjustments_IgnoresUnknownAdjustmentType(t *testing.T) {
	rules := []model.Rule{
		{Code: "calc-a", Kind: model.RuleKindCalculation, Metadata: []byte(`{"scope":"DEMAND","adjustment_type":"unknown","value":1.1}`)},
	}
	result, applied := rulesengine.ApplyScopedAdjustments(rules, "DEMAND", 50)
	assert.InDelta(t, 50, result, 0.0001)
	assert.Empty(t, applied)
}

func TestApplyScopedAdjustments_NoMatchingRulesReturnsValueUnchanged(t *testing.T) {
	result, applied := rulesengine.ApplyScopedAdjustments(nil, "DEMAND", 42)
	assert.InDelta(t, 42, result, 0.0001)
	assert.Empty(t, applied)
}
