package core

import (
	"testing"

	"github.com/k1lgor/fpl-momentum-tracker/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeRollingStatsWindowSlide(t *testing.T) {
	records := []schema.PerformanceRecord{
		{PlayerID: 1, Gameweek: 1, Minutes: 90, GoalsScored: 1, ExpectedGoals: 0.5},
		{PlayerID: 1, Gameweek: 2, Minutes: 0},
		{PlayerID: 1, Gameweek: 3, Minutes: 0},
		{PlayerID: 1, Gameweek: 4, Minutes: 90, ExpectedGoals: 0.7},
		{PlayerID: 1, Gameweek: 5, Minutes: 90, GoalsScored: 2, ExpectedGoals: 0.9},
	}

	stats := ComputeRollingStats(records, 4)
	require.Len(t, stats, len(records))

	// First gameweek: one game in a 4-game window
	first := stats[0]
	assert.Equal(t, 1, first.Gameweek)
	assert.Equal(t, 1, first.GamesPlayed)
	assert.InDelta(t, 0.25, first.GamesPlayedPct, 1e-9)
	assert.InDelta(t, 0.25, first.MinutesPct, 1e-9)
	assert.InDelta(t, 0.5, first.XGDiff, 1e-9) // 1 goal - 0.5 xG

	// Last gameweek: window covers gameweeks 2-5, gameweek 1 has slid out
	last := stats[len(stats)-1]
	assert.Equal(t, 5, last.Gameweek)
	assert.Equal(t, 2, last.GamesPlayed)
	assert.Equal(t, 180, last.RollingMinutes)
	assert.Equal(t, 2, last.RollingGoals)
	assert.InDelta(t, 1.6, last.RollingXG, 1e-9)
	assert.InDelta(t, 0.5, last.GamesPlayedPct, 1e-9)
	assert.InDelta(t, 0.5, last.MinutesPct, 1e-9)
	assert.InDelta(t, 0.4, last.XGDiff, 1e-9)
	assert.InDelta(t, 0.8, last.XGPer90, 1e-9) // 1.6 xG over 180 minutes
}

func TestComputeRollingStatsBenchedGamesOccupySlots(t *testing.T) {
	// Two benched gameweeks inside the window dilute the percentages but
	// contribute nothing to the sums.
	records := []schema.PerformanceRecord{
		{PlayerID: 2, Gameweek: 1, Minutes: 90, GoalsScored: 1, ExpectedGoals: 0.9},
		{PlayerID: 2, Gameweek: 2, Minutes: 0, GoalsScored: 0},
		{PlayerID: 2, Gameweek: 3, Minutes: 0},
		{PlayerID: 2, Gameweek: 4, Minutes: 90, ExpectedGoals: 0.3},
	}

	stats := ComputeRollingStats(records, 4)
	last := stats[len(stats)-1]

	assert.Equal(t, 2, last.GamesPlayed)
	assert.InDelta(t, 0.5, last.GamesPlayedPct, 1e-9)
	assert.InDelta(t, 1.2, last.RollingXG, 1e-9)
	assert.Equal(t, 180, last.RollingMinutes)
}

func TestComputeRollingStatsShortSeriesKeepsConfiguredWindow(t *testing.T) {
	// Percentages divide by the configured window even before enough
	// gameweeks exist, so early-season rates read conservatively.
	records := []schema.PerformanceRecord{
		{PlayerID: 3, Gameweek: 1, Minutes: 90},
		{PlayerID: 3, Gameweek: 2, Minutes: 90},
		{PlayerID: 3, Gameweek: 3, Minutes: 90},
	}

	stats := ComputeRollingStats(records, 10)
	last := stats[len(stats)-1]

	assert.Equal(t, 3, last.GamesPlayed)
	assert.InDelta(t, 0.3, last.GamesPlayedPct, 1e-9)
	assert.InDelta(t, 270.0/900.0, last.MinutesPct, 1e-9)
}

func TestComputeRollingStatsDefcon(t *testing.T) {
	records := []schema.PerformanceRecord{
		{PlayerID: 4, Gameweek: 1, Minutes: 90, Tackles: 3, Recoveries: 8, CBI: 4},
	}

	stats := ComputeRollingStats(records, 4)
	require.Len(t, stats, 1)

	// tackles + recoveries/4 + CBI
	assert.InDelta(t, 9.0, stats[0].DefconScore, 1e-9)
	assert.InDelta(t, 9.0, stats[0].DefconPer90, 1e-9)
}

func TestComputeRollingStatsAllBenched(t *testing.T) {
	records := []schema.PerformanceRecord{
		{PlayerID: 5, Gameweek: 1, Minutes: 0},
		{PlayerID: 5, Gameweek: 2, Minutes: 0},
	}

	stats := ComputeRollingStats(records, 4)
	require.Len(t, stats, 2)

	last := stats[1]
	assert.Equal(t, 0, last.GamesPlayed)
	assert.Zero(t, last.GamesPlayedPct)
	assert.Zero(t, last.MinutesPct)

	// No minutes means no rate, not a division by zero
	assert.Zero(t, last.XGPer90)
	assert.Zero(t, last.DefconPer90)
}

func TestComputeRollingStatsEmptyInput(t *testing.T) {
	assert.Nil(t, ComputeRollingStats(nil, 4))
	assert.Nil(t, ComputeRollingStats([]schema.PerformanceRecord{{Gameweek: 1}}, 0))
}

func BenchmarkComputeRollingStats(b *testing.B) {
	records := make([]schema.PerformanceRecord, 38)
	for i := range records {
		records[i] = schema.PerformanceRecord{
			PlayerID:                 1,
			Gameweek:                 i + 1,
			Minutes:                  90,
			GoalsScored:              i % 2,
			ExpectedGoals:            0.4,
			ExpectedAssists:          0.2,
			ExpectedGoalInvolvements: 0.6,
			Tackles:                  2,
			Recoveries:               6,
			CBI:                      3,
		}
	}

	for b.Loop() {
		ComputeRollingStats(records, 6)
	}
}
