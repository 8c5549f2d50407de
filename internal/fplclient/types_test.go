package fplclient

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloatStringUnmarshal(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		want        float64
		expectError bool
	}{
		{"quoted decimal", `"3.50"`, 3.5, false},
		{"comma separator", `"0,75"`, 0.75, false},
		{"empty string", `""`, 0, false},
		{"null literal", `null`, 0, false},
		{"bare number", `2.5`, 2.5, false},
		{"integer string", `"7"`, 7, false},
		{"garbage", `"abc"`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FloatString
			err := json.Unmarshal([]byte(tt.raw), &f)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, float64(f), 1e-9)
		})
	}
}

func TestHistoryEntryDecode(t *testing.T) {
	raw := `{
		"round": 7,
		"minutes": 90,
		"goals_scored": 1,
		"assists": 0,
		"clean_sheets": 1,
		"goals_conceded": 0,
		"saves": 0,
		"tackles": 3,
		"recoveries": 8,
		"clearances_blocks_interceptions": 5,
		"expected_goals": "0.42",
		"expected_assists": "0.11",
		"expected_goal_involvements": "0.53",
		"expected_goals_conceded": "0,88"
	}`

	var h historyEntry
	require.NoError(t, json.Unmarshal([]byte(raw), &h))

	assert.Equal(t, 7, h.Round)
	assert.Equal(t, 90, h.Minutes)
	assert.Equal(t, 3, h.Tackles)
	assert.Equal(t, 8, h.Recoveries)
	assert.Equal(t, 5, h.ClearancesBlocksInterceptions)
	assert.InDelta(t, 0.42, float64(h.ExpectedGoals), 1e-9)
	assert.InDelta(t, 0.53, float64(h.ExpectedGoalInvolvements), 1e-9)
	assert.InDelta(t, 0.88, float64(h.ExpectedGoalsConceded), 1e-9)
}
