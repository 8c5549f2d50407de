package core

import (
	"github.com/k1lgor/fpl-momentum-tracker/schema"
)

// MetricSeries builds the momentum input for one player and window: the
// per-game per-90 value of the target metric across the latest trailing
// window. A zero-minute gameweek contributes a defined 0 so bench spells
// register as decline instead of vanishing from the fit.
func MetricSeries(records []schema.PerformanceRecord, window int, target schema.MomentumTarget) []float64 {
	if len(records) == 0 || window <= 0 {
		return nil
	}

	start := len(records) - window
	if start < 0 {
		start = 0
	}
	tail := records[start:]

	series := make([]float64, len(tail))
	for i, r := range tail {
		series[i] = gameMetric(r, target)
	}
	return series
}

// gameMetric extracts the per-90 target value from a single gameweek.
func gameMetric(r schema.PerformanceRecord, target schema.MomentumTarget) float64 {
	if !r.Played() {
		return 0
	}

	var value float64
	switch target {
	case schema.XGPer90Target:
		value = r.ExpectedGoals
	case schema.XGDiffPer90Target:
		value = float64(r.GoalsScored) - r.ExpectedGoals
	default: // xgi_per_90
		value = r.ExpectedGoalInvolvements
	}
	return value * 90 / float64(r.Minutes)
}
