package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hotelops/roster/internal/model"
)

func TestHourTimelineFromEventTime_SameDayCheckout(t *testing.T) {
	anchor := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	checkout := time.Date(2026, 3, 10, 11, 30, 0, 0, time.UTC)
	assert.Equal(t, 11, model.HourTimelineFromEventTime(model.EventCheckout, anchor, checkout))
}

func TestHourTimelineFromEventTime_SameDayCheckinAfternoon(t *testing.T) {
	anchor := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	checkin := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, 15, model.HourTimelineFromEventTime(model.EventCheckin, anchor, checkin))
}

func TestHourTimelineFromEventTime_OvernightCheckinBeforeNoon(t *testing.T) {
	anchor := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	checkin := time.Date(2026, 3, 11, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, 26, model.HourTimelineFromEventTime(model.EventCheckin, anchor, checkin))
}

func TestHourTimelineFromEventTime_OvernightCheckinAfterNoonNotShifted(t *testing.T) {
	anchor := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	checkin := time.Date(2026, 3, 11, 14, 0, 0, 0, time.UTC)
	assert.Equal(t, 14, model.HourTimelineFromEventTime(model.EventCheckin, anchor, checkin))
}
