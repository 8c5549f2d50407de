package core

import (
	"testing"

	"github.com/k1lgor/fpl-momentum-tracker/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricSeriesTakesTrailingWindow(t *testing.T) {
	records := []schema.PerformanceRecord{
		{Gameweek: 1, Minutes: 90, ExpectedGoalInvolvements: 0.1},
		{Gameweek: 2, Minutes: 90, ExpectedGoalInvolvements: 0.2},
		{Gameweek: 3, Minutes: 90, ExpectedGoalInvolvements: 0.3},
		{Gameweek: 4, Minutes: 90, ExpectedGoalInvolvements: 0.4},
		{Gameweek: 5, Minutes: 90, ExpectedGoalInvolvements: 0.5},
		{Gameweek: 6, Minutes: 90, ExpectedGoalInvolvements: 0.6},
	}

	series := MetricSeries(records, 4, schema.XGIPer90Target)
	require.Len(t, series, 4)

	// 90 minutes makes the per-90 value equal the raw value
	assert.InDelta(t, 0.3, series[0], 1e-9)
	assert.InDelta(t, 0.6, series[3], 1e-9)
}

func TestMetricSeriesWindowExceedsHistory(t *testing.T) {
	records := []schema.PerformanceRecord{
		{Gameweek: 1, Minutes: 90, ExpectedGoalInvolvements: 0.2},
		{Gameweek: 2, Minutes: 90, ExpectedGoalInvolvements: 0.4},
	}

	series := MetricSeries(records, 10, schema.XGIPer90Target)
	require.Len(t, series, 2)
	assert.InDelta(t, 0.2, series[0], 1e-9)
}

func TestMetricSeriesBenchedGameIsZero(t *testing.T) {
	records := []schema.PerformanceRecord{
		{Gameweek: 1, Minutes: 90, ExpectedGoalInvolvements: 0.5},
		{Gameweek: 2, Minutes: 0, ExpectedGoalInvolvements: 0.0},
		{Gameweek: 3, Minutes: 90, ExpectedGoalInvolvements: 0.7},
	}

	series := MetricSeries(records, 4, schema.XGIPer90Target)
	require.Len(t, series, 3)
	assert.Zero(t, series[1])
}

func TestMetricSeriesTargets(t *testing.T) {
	// 45 minutes doubles the per-90 rate
	rec := schema.PerformanceRecord{
		Gameweek:                 1,
		Minutes:                  45,
		GoalsScored:              1,
		ExpectedGoals:            0.6,
		ExpectedGoalInvolvements: 0.8,
	}

	tests := []struct {
		name     string
		target   schema.MomentumTarget
		expected float64
	}{
		{
			name:     "xg per 90",
			target:   schema.XGPer90Target,
			expected: 1.2,
		},
		{
			name:     "xgi per 90 is the default",
			target:   schema.XGIPer90Target,
			expected: 1.6,
		},
		{
			name:     "xg diff per 90",
			target:   schema.XGDiffPer90Target,
			expected: 0.8, // (1 - 0.6) * 2
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series := MetricSeries([]schema.PerformanceRecord{rec}, 4, tt.target)
			require.Len(t, series, 1)
			assert.InDelta(t, tt.expected, series[0], 1e-9)
		})
	}
}

func TestMetricSeriesXGDiffCanGoNegative(t *testing.T) {
	rec := schema.PerformanceRecord{Gameweek: 1, Minutes: 90, ExpectedGoals: 0.8}

	series := MetricSeries([]schema.PerformanceRecord{rec}, 4, schema.XGDiffPer90Target)
	require.Len(t, series, 1)
	assert.InDelta(t, -0.8, series[0], 1e-9)
}

func TestMetricSeriesEmptyInput(t *testing.T) {
	assert.Nil(t, MetricSeries(nil, 4, schema.XGIPer90Target))
	assert.Nil(t, MetricSeries([]schema.PerformanceRecord{{Gameweek: 1}}, 0, schema.XGIPer90Target))
}
