package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotelops/roster/internal/model"
)

func TestOccupancyLatest_ApplySnapshot_PrefersRealOverForecast(t *testing.T) {
	var latest model.OccupancyLatest
	forecastTime := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	realTime := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	latest.ApplySnapshot(model.OccupancySnapshot{GeneratedAt: forecastTime, OccupancyPct: 70, IsReal: false})
	require.NotNil(t, latest.OccupancyPct)
	assert.Equal(t, 70.0, *latest.OccupancyPct)
	assert.False(t, latest.IsReal)

	latest.ApplySnapshot(model.OccupancySnapshot{GeneratedAt: realTime, OccupancyPct: 82, IsReal: true})
	require.NotNil(t, latest.OccupancyPct)
	assert.Equal(t, 82.0, *latest.OccupancyPct)
	assert.True(t, latest.IsReal)

	// A later forecast snapshot must not override the still-present real one.
	laterForecast := realTime.Add(time.Hour)
	latest.ApplySnapshot(model.OccupancySnapshot{GeneratedAt: laterForecast, OccupancyPct: 60, IsReal: false})
	assert.Equal(t, 82.0, *latest.OccupancyPct)
	assert.True(t, latest.IsReal)
	require.NotNil(t, latest.LatestForecastOccupancyPct)
	assert.Equal(t, 60.0, *latest.LatestForecastOccupancyPct)
}

func TestOccupancyLatest_ApplySnapshot_IgnoresOlderGeneratedAt(t *testing.T) {
	var latest model.OccupancyLatest
	newer := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)

	latest.ApplySnapshot(model.OccupancySnapshot{GeneratedAt: newer, OccupancyPct: 90, IsReal: true})
	latest.ApplySnapshot(model.OccupancySnapshot{GeneratedAt: older, OccupancyPct: 10, IsReal: true})

	require.NotNil(t, latest.LatestRealOccupancyPct)
	assert.Equal(t, 90.0, *latest.LatestRealOccupancyPct)
}
