package core

import (
	"testing"

	"github.com/k1lgor/fpl-momentum-tracker/internal/contract"
	"github.com/k1lgor/fpl-momentum-tracker/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportRow(id, window int, score *float64) schema.PlayerAnalysis {
	row := schema.PlayerAnalysis{
		PlayerID:      id,
		WindowSize:    window,
		MomentumScore: score,
	}
	if score != nil {
		row.SufficientData = true
	}
	return row
}

func scoreOf(v float64) *float64 { return &v }

func TestSortRows(t *testing.T) {
	rows := []schema.PlayerAnalysis{
		reportRow(3, 6, scoreOf(0.9)),
		reportRow(1, 4, scoreOf(0.1)),
		reportRow(4, 4, nil),
		reportRow(2, 4, scoreOf(0.5)),
		reportRow(5, 4, nil),
	}

	SortRows(rows)

	// Windows group first, highest momentum leads, missing fits sink
	assert.Equal(t, 2, rows[0].PlayerID)
	assert.Equal(t, 1, rows[1].PlayerID)
	assert.Equal(t, 4, rows[2].PlayerID)
	assert.Equal(t, 5, rows[3].PlayerID)
	assert.Equal(t, 3, rows[4].PlayerID)
}

func TestSortRowsTiesByPlayerID(t *testing.T) {
	rows := []schema.PlayerAnalysis{
		reportRow(9, 4, scoreOf(0.5)),
		reportRow(2, 4, scoreOf(0.5)),
		reportRow(7, 4, scoreOf(0.5)),
	}

	SortRows(rows)

	assert.Equal(t, 2, rows[0].PlayerID)
	assert.Equal(t, 7, rows[1].PlayerID)
	assert.Equal(t, 9, rows[2].PlayerID)
}

func TestFilterRows(t *testing.T) {
	rows := []schema.PlayerAnalysis{
		{PlayerID: 1, WindowSize: 4, Position: schema.Midfielder, TeamName: "Liverpool", NowCost: 129, Signal: schema.BuySignal},
		{PlayerID: 2, WindowSize: 6, Position: schema.Midfielder, TeamName: "Liverpool", NowCost: 129, Signal: schema.BuySignal},
		{PlayerID: 3, WindowSize: 4, Position: schema.Forward, TeamName: "Man City", NowCost: 151, Signal: schema.HoldSignal},
		{PlayerID: 4, WindowSize: 4, Position: schema.Defender, TeamName: "Arsenal", NowCost: 60, Signal: schema.SellSignal},
	}

	tests := []struct {
		name     string
		cfg      contract.Config
		expected []int
	}{
		{
			name:     "no filters keeps everything",
			cfg:      contract.Config{},
			expected: []int{1, 2, 3, 4},
		},
		{
			name:     "window filter",
			cfg:      contract.Config{WindowFilter: 6},
			expected: []int{2},
		},
		{
			name:     "position filter",
			cfg:      contract.Config{PositionFilter: []schema.Position{schema.Forward, schema.Defender}},
			expected: []int{3, 4},
		},
		{
			name:     "team filter is case-insensitive",
			cfg:      contract.Config{TeamFilter: "liverpool"},
			expected: []int{1, 2},
		},
		{
			name:     "signal filter",
			cfg:      contract.Config{SignalFilter: schema.SellSignal},
			expected: []int{4},
		},
		{
			name:     "max price in millions",
			cfg:      contract.Config{MaxPrice: 13.0},
			expected: []int{1, 2, 4},
		},
		{
			name:     "price boundary is inclusive",
			cfg:      contract.Config{MaxPrice: 12.9},
			expected: []int{1, 2, 4},
		},
		{
			name:     "combined filters",
			cfg:      contract.Config{WindowFilter: 4, TeamFilter: "Liverpool"},
			expected: []int{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := FilterRows(rows, &tt.cfg)
			ids := make([]int, len(out))
			for i, row := range out {
				ids[i] = row.PlayerID
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestOrderRowsByXGDiff(t *testing.T) {
	rows := []schema.PlayerAnalysis{
		{PlayerID: 1, WindowSize: 4, XGDiff: 0.5},
		{PlayerID: 2, WindowSize: 4, XGDiff: 1.5},
		{PlayerID: 3, WindowSize: 6, XGDiff: 9.9},
		{PlayerID: 4, WindowSize: 4, XGDiff: -0.5},
	}

	OrderRows(rows, schema.XGDiffSort)

	// Window grouping survives the re-sort
	assert.Equal(t, 2, rows[0].PlayerID)
	assert.Equal(t, 1, rows[1].PlayerID)
	assert.Equal(t, 4, rows[2].PlayerID)
	assert.Equal(t, 3, rows[3].PlayerID)
}

func TestOrderRowsByPrice(t *testing.T) {
	rows := []schema.PlayerAnalysis{
		{PlayerID: 1, WindowSize: 4, NowCost: 129},
		{PlayerID: 2, WindowSize: 4, NowCost: 45},
		{PlayerID: 3, WindowSize: 4, NowCost: 80},
	}

	OrderRows(rows, schema.PriceSort)

	// Cheapest first
	assert.Equal(t, 2, rows[0].PlayerID)
	assert.Equal(t, 3, rows[1].PlayerID)
	assert.Equal(t, 1, rows[2].PlayerID)
}

func TestOrderRowsDefaultIsMomentum(t *testing.T) {
	rows := []schema.PlayerAnalysis{
		reportRow(1, 4, scoreOf(0.1)),
		reportRow(2, 4, scoreOf(0.9)),
	}

	OrderRows(rows, "")

	assert.Equal(t, 2, rows[0].PlayerID)
}

func TestLimitRowsPerWindow(t *testing.T) {
	rows := []schema.PlayerAnalysis{
		reportRow(1, 4, scoreOf(0.9)),
		reportRow(2, 4, scoreOf(0.8)),
		reportRow(3, 4, scoreOf(0.7)),
		reportRow(4, 6, scoreOf(0.9)),
		reportRow(5, 6, scoreOf(0.8)),
	}

	out := LimitRows(rows, 2)
	require.Len(t, out, 4)

	// Two rows survive for each window, not two rows overall
	assert.Equal(t, 1, out[0].PlayerID)
	assert.Equal(t, 2, out[1].PlayerID)
	assert.Equal(t, 4, out[2].PlayerID)
	assert.Equal(t, 5, out[3].PlayerID)
}

func TestLimitRowsZeroMeansUnlimited(t *testing.T) {
	rows := []schema.PlayerAnalysis{
		reportRow(1, 4, scoreOf(0.9)),
		reportRow(2, 4, scoreOf(0.8)),
	}

	assert.Len(t, LimitRows(rows, 0), 2)
}

func TestBuildReportView(t *testing.T) {
	rows := []schema.PlayerAnalysis{
		{PlayerID: 1, WindowSize: 4, TeamName: "Liverpool", MomentumScore: scoreOf(0.2), SufficientData: true},
		{PlayerID: 2, WindowSize: 4, TeamName: "Liverpool", MomentumScore: scoreOf(0.8), SufficientData: true},
		{PlayerID: 3, WindowSize: 4, TeamName: "Arsenal", MomentumScore: scoreOf(0.9), SufficientData: true},
		{PlayerID: 4, WindowSize: 4, TeamName: "Liverpool", MomentumScore: scoreOf(0.5), SufficientData: true},
	}

	cfg := &contract.Config{
		TeamFilter:  "Liverpool",
		ResultLimit: 2,
	}

	view := BuildReportView(rows, cfg)
	require.Len(t, view, 2)
	assert.Equal(t, 2, view[0].PlayerID)
	assert.Equal(t, 4, view[1].PlayerID)
}
