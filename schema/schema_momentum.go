package schema

// MomentumScore is the reliability-weighted trend of a per-game metric series.
// Valid is false when fewer than three usable points were available, in which
// case the numeric fields carry no meaning.
type MomentumScore struct {
	Slope    float64
	RSquared float64
	Score    float64 // slope discounted by fit quality, slope * r-squared
	Valid    bool
}
