package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hotelops/roster/internal/model"
)

func TestWeekdayFromGoWeekday(t *testing.T) {
	cases := []struct {
		goWeekday int
		want      model.Weekday
	}{
		{int(time.Monday), model.Monday},
		{int(time.Tuesday), model.Tuesday},
		{int(time.Saturday), model.Saturday},
		{int(time.Sunday), model.Sunday},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, model.WeekdayFromGoWeekday(c.goWeekday))
	}
}

func TestWeekday_String(t *testing.T) {
	assert.Equal(t, "Monday", model.Monday.String())
	assert.Equal(t, "Sunday", model.Sunday.String())
	assert.Equal(t, "unknown", model.Weekday(99).String())
}

func TestWeekday_IsValid(t *testing.T) {
	assert.True(t, model.Monday.IsValid())
	assert.False(t, model.Weekday(-1).IsValid())
	assert.False(t, model.Weekday(7).IsValid())
}
