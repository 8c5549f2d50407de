package core

import (
	"math"

	"github.com/k1lgor/fpl-momentum-tracker/schema"
	"gonum.org/v1/gonum/stat"
)

// Momentum fits an ordinary least squares line through a metric series and
// discounts the slope by the quality of the fit, so a noisy trend scores
// closer to zero than a steady one with the same slope.
//
// NaN and Inf entries are dropped while their x positions are preserved, so
// gaps do not compress the timeline. Fewer than schema.MinMomentumSamples
// usable points returns an invalid score.
func Momentum(series []float64) schema.MomentumScore {
	xs := make([]float64, 0, len(series))
	ys := make([]float64, 0, len(series))
	for i, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		xs = append(xs, float64(i))
		ys = append(ys, v)
	}

	if len(ys) < schema.MinMomentumSamples {
		return schema.MomentumScore{}
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)

	// A perfectly flat series has zero total variance, which makes the
	// R-squared computation divide by zero. Treat that as zero trend.
	rsq := stat.RSquared(xs, ys, nil, intercept, slope)
	if math.IsNaN(rsq) || rsq < 0 {
		rsq = 0
	}
	if rsq > 1 {
		rsq = 1
	}

	return schema.MomentumScore{
		Slope:    slope,
		RSquared: rsq,
		Score:    slope * rsq,
		Valid:    true,
	}
}
