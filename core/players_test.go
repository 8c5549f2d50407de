package core

import (
	"testing"

	"github.com/k1lgor/fpl-momentum-tracker/internal/contract"
	"github.com/k1lgor/fpl-momentum-tracker/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func poolFixture() []schema.Player {
	return []schema.Player{
		{ID: 1, WebName: "Haaland", TeamName: "Man City", Position: schema.Forward, NowCost: 151},
		{ID: 2, WebName: "Salah", TeamName: "Liverpool", Position: schema.Midfielder, NowCost: 129},
		{ID: 3, WebName: "Raya", TeamName: "Arsenal", Position: schema.Goalkeeper, NowCost: 56},
		{ID: 4, WebName: "Saliba", TeamName: "Arsenal", Position: schema.Defender, NowCost: 60},
		{ID: 5, WebName: "Gabriel", TeamName: "Arsenal", Position: schema.Defender, NowCost: 62},
	}
}

func TestFilterPlayersOrdering(t *testing.T) {
	out := FilterPlayers(poolFixture(), &contract.Config{})
	require.Len(t, out, 5)

	// Keepers first, then defenders by price descending, forwards last
	assert.Equal(t, "Raya", out[0].WebName)
	assert.Equal(t, "Gabriel", out[1].WebName)
	assert.Equal(t, "Saliba", out[2].WebName)
	assert.Equal(t, "Salah", out[3].WebName)
	assert.Equal(t, "Haaland", out[4].WebName)
}

func TestFilterPlayersByPosition(t *testing.T) {
	cfg := &contract.Config{PositionFilter: []schema.Position{schema.Defender}}

	out := FilterPlayers(poolFixture(), cfg)
	require.Len(t, out, 2)
	assert.Equal(t, "Gabriel", out[0].WebName)
	assert.Equal(t, "Saliba", out[1].WebName)
}

func TestFilterPlayersByTeamCaseInsensitive(t *testing.T) {
	cfg := &contract.Config{TeamFilter: "arsenal"}

	out := FilterPlayers(poolFixture(), cfg)
	require.Len(t, out, 3)
	for _, p := range out {
		assert.Equal(t, "Arsenal", p.TeamName)
	}
}

func TestFilterPlayersByMaxPrice(t *testing.T) {
	cfg := &contract.Config{MaxPrice: 6.2}

	out := FilterPlayers(poolFixture(), cfg)
	require.Len(t, out, 3)

	// 6.2m exactly stays in
	assert.Equal(t, "Raya", out[0].WebName)
	assert.Equal(t, "Gabriel", out[1].WebName)
	assert.Equal(t, "Saliba", out[2].WebName)
}

func TestFilterPlayersEmptyResult(t *testing.T) {
	cfg := &contract.Config{TeamFilter: "Chelsea"}

	out := FilterPlayers(poolFixture(), cfg)
	assert.Empty(t, out)
}
