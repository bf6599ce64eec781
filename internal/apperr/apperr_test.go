package apperr_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hotelops/roster/internal/apperr"
)

func TestAsHelpers_RoundTrip(t *testing.T) {
	wrapped := fmt.Errorf("creating baseline: %w", apperr.NewValidationError("sector missing operational parameters"))
	v, ok := apperr.AsValidationError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, []string{"sector missing operational parameters"}, v.BlockingErrors)

	nf := apperr.NewNotFound("ForecastRun", "abc-123")
	got, ok := apperr.AsNotFound(nf)
	assert.True(t, ok)
	assert.Equal(t, "ForecastRun", got.Entity)

	_, ok = apperr.AsConflictError(nf)
	assert.False(t, ok)
}

func TestIntegrityError_Message(t *testing.T) {
	err := apperr.NewIntegrityError("slot count for Tuesday disagrees with requested headcount")
	assert.Contains(t, err.Error(), "slot count for Tuesday")
}
