package schema

// EnrichedPlayerAnalysis extends PlayerAnalysis with computed display fields.
type EnrichedPlayerAnalysis struct {
	PlayerAnalysis
	Rank  int    `json:"rank"`
	Trend string `json:"trend"`
}

// EnrichPlayerAnalyses converts PlayerAnalysis rows to enriched rows with computed fields.
func EnrichPlayerAnalyses(rows []PlayerAnalysis) []EnrichedPlayerAnalysis {
	enriched := make([]EnrichedPlayerAnalysis, len(rows))
	for i, row := range rows {
		enriched[i] = EnrichedPlayerAnalysis{
			PlayerAnalysis: row,
			Rank:           i + 1,
			Trend:          GetPlainTrendLabel(row.MomentumScore),
		}
	}
	return enriched
}

// GetPlainTrendLabel returns a plain text label for a momentum trend.
func GetPlainTrendLabel(score *float64) string {
	switch {
	case score == nil:
		return "n/a"
	case *score > 0:
		return "Rising"
	case *score < 0:
		return "Falling"
	default:
		return "Flat"
	}
}
