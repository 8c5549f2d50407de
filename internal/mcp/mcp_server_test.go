package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/k1lgor/fpl-momentum-tracker/internal/contract"
	mcp_internal "github.com/k1lgor/fpl-momentum-tracker/internal/mcp"
	"github.com/k1lgor/fpl-momentum-tracker/internal/parquet"
	"github.com/k1lgor/fpl-momentum-tracker/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildSeries produces a full-minutes history with a monotonic xGI trend and
// fixed defensive counts.
func buildSeries(playerID, gameweeks int, rising bool, tackles, recoveries, cbi int) []schema.PerformanceRecord {
	records := make([]schema.PerformanceRecord, gameweeks)
	for i := range records {
		xgi := 0.1 * float64(i+1)
		if !rising {
			xgi = 0.1 * float64(gameweeks-i)
		}
		records[i] = schema.PerformanceRecord{
			PlayerID:                 playerID,
			Gameweek:                 i + 1,
			Minutes:                  90,
			Tackles:                  tackles,
			Recoveries:               recoveries,
			CBI:                      cbi,
			ExpectedGoalInvolvements: xgi,
		}
	}
	return records
}

// writeDatasets persists a two-player pool for the handlers to analyze.
func writeDatasets(t *testing.T, dataDir string) {
	t.Helper()
	players := []schema.Player{
		{ID: 1, WebName: "Riser", TeamName: "Liverpool", Position: schema.Midfielder, NowCost: 129, Status: "a"},
		{ID: 2, WebName: "Faller", TeamName: "Arsenal", Position: schema.Defender, NowCost: 85, Status: "a"},
	}
	pool := []schema.PlayerSeries{
		{Player: players[0], Records: buildSeries(1, 6, true, 1, 4, 1)},
		{Player: players[1], Records: buildSeries(2, 6, false, 3, 8, 4)},
	}
	require.NoError(t, parquet.WritePlayers(players, parquet.PlayersPath(dataDir)))
	require.NoError(t, parquet.WriteHistory(pool, parquet.HistoryPath(dataDir)))
}

func baseConfig(dataDir string) *contract.Config {
	return &contract.Config{
		DataDir:        dataDir,
		Windows:        []int{4},
		MomentumTarget: schema.XGIPer90Target,
		Thresholds: contract.SignalThresholds{
			Buy:            contract.DefaultBuyThreshold,
			Sell:           contract.DefaultSellThreshold,
			RotationPct:    contract.DefaultRotationPct,
			RotationXGDiff: contract.DefaultRotationXGDiff,
		},
		Workers:     2,
		ResultLimit: 25,
	}
}

// callTool invokes a registered tool directly, the way the MCP transport would.
func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	baseCfg := baseConfig(t.TempDir())

	// No manager: validation errors are hit before any storage access
	var mgr contract.StoreManager
	s := mcp_internal.NewMCPServer(baseCfg, mgr)

	ctx := context.Background()

	t.Run("get_player_momentum missing player", func(t *testing.T) {
		tool := s.GetTool("get_player_momentum")
		require.NotNil(t, tool, "Tool get_player_momentum should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "get_player_momentum",
				Arguments: map[string]any{
					"player": "", // Missing required
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "player is required")
	})

	t.Run("get_momentum_signals invalid signal", func(t *testing.T) {
		tool := s.GetTool("get_momentum_signals")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "get_momentum_signals",
				Arguments: map[string]any{
					"signal": "MAYBE", // Invalid
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "invalid signal")
	})

	t.Run("get_momentum_signals invalid window", func(t *testing.T) {
		tool := s.GetTool("get_momentum_signals")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "get_momentum_signals",
				Arguments: map[string]any{
					"window": 1.0, // Below the minimum of 2
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "window size must be between 2 and")
	})

	t.Run("get_momentum_signals missing dataset", func(t *testing.T) {
		tool := s.GetTool("get_momentum_signals")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name:      "get_momentum_signals",
				Arguments: map[string]any{},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "run 'fpltracker fetch' first")
	})
}

func TestMCPServerHandlers_WithDataset(t *testing.T) {
	dataDir := t.TempDir()
	writeDatasets(t, dataDir)
	baseCfg := baseConfig(dataDir)

	var mgr contract.StoreManager
	s := mcp_internal.NewMCPServer(baseCfg, mgr)

	t.Run("get_momentum_signals returns ranked rows", func(t *testing.T) {
		res := callTool(t, s, "get_momentum_signals", map[string]any{})
		require.False(t, res.IsError)

		var rows []schema.EnrichedPlayerAnalysis
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &rows))
		require.Len(t, rows, 2)

		// Rising momentum ranks first and reads as a BUY
		assert.Equal(t, "Riser", rows[0].WebName)
		assert.Equal(t, schema.BuySignal, rows[0].Signal)
		assert.Equal(t, "Rising", rows[0].Trend)
		assert.Equal(t, schema.SellSignal, rows[1].Signal)
	})

	t.Run("get_momentum_signals signal filter", func(t *testing.T) {
		res := callTool(t, s, "get_momentum_signals", map[string]any{"signal": "BUY"})
		require.False(t, res.IsError)

		var rows []schema.EnrichedPlayerAnalysis
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &rows))
		require.Len(t, rows, 1)
		assert.Equal(t, "Riser", rows[0].WebName)
	})

	t.Run("get_momentum_signals custom window", func(t *testing.T) {
		res := callTool(t, s, "get_momentum_signals", map[string]any{"window": 5.0})
		require.False(t, res.IsError)

		var rows []schema.EnrichedPlayerAnalysis
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &rows))
		require.NotEmpty(t, rows)
		assert.Equal(t, 5, rows[0].WindowSize)
	})

	t.Run("get_player_momentum matches by substring", func(t *testing.T) {
		res := callTool(t, s, "get_player_momentum", map[string]any{"player": "rise"})
		require.False(t, res.IsError)

		var rows []schema.EnrichedPlayerAnalysis
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &rows))
		require.Len(t, rows, 1)
		assert.Equal(t, "Riser", rows[0].WebName)
		assert.Equal(t, 4, rows[0].WindowSize)
	})

	t.Run("get_player_momentum unknown player", func(t *testing.T) {
		res := callTool(t, s, "get_player_momentum", map[string]any{"player": "Nobody"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "no player matching 'Nobody'")
	})

	t.Run("get_defcon_leaders ranks by defensive contribution", func(t *testing.T) {
		res := callTool(t, s, "get_defcon_leaders", map[string]any{})
		require.False(t, res.IsError)

		var rows []schema.EnrichedPlayerAnalysis
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &rows))
		require.Len(t, rows, 2)

		// The defender out-tackles the midfielder regardless of momentum
		assert.Equal(t, "Faller", rows[0].WebName)
		assert.Greater(t, rows[0].DefconScore, rows[1].DefconScore)
	})

	t.Run("get_defcon_leaders position filter", func(t *testing.T) {
		res := callTool(t, s, "get_defcon_leaders", map[string]any{"position": "MID"})
		require.False(t, res.IsError)

		var rows []schema.EnrichedPlayerAnalysis
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &rows))
		require.Len(t, rows, 1)
		assert.Equal(t, "Riser", rows[0].WebName)
	})
}
