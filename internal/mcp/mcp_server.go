// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/k1lgor/fpl-momentum-tracker/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the momentum MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"FPL Momentum Tracker Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_momentum_signals ---
	s.AddTool(mcp.NewTool("get_momentum_signals",
		mcp.WithDescription("Run the rolling expected-goals momentum analysis over the fetched FPL datasets and return classified BUY/SELL/HOLD transfer signals."),
		mcp.WithString("signal", mcp.Description("Only return rows carrying this signal."), mcp.Enum("BUY", "SELL", "HOLD")),
		mcp.WithString("position", mcp.Description("Only return players in this position."), mcp.Enum("GKP", "DEF", "MID", "FWD")),
		mcp.WithString("team", mcp.Description("Only return players from this team (exact name, case-insensitive).")),
		mcp.WithNumber("window", mcp.Description("Analyze a single rolling window of this many gameweeks instead of the configured set.")),
		mcp.WithNumber("max_price", mcp.Description("Price ceiling in millions (e.g. 8.5).")),
		mcp.WithNumber("gameweek", mcp.Description("Re-analyze as of this gameweek instead of the latest fetched one.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of rows returned per window.")),
	), h.handleGetMomentumSignals)

	// --- 2. Tool: get_player_momentum ---
	s.AddTool(mcp.NewTool("get_player_momentum",
		mcp.WithDescription("Return the per-window rolling stats, momentum fit and signal for one player."),
		mcp.WithString("player", mcp.Description("Player web name (case-insensitive substring match)."), mcp.Required()),
		mcp.WithNumber("window", mcp.Description("Restrict the detail to a single rolling window of this many gameweeks.")),
		mcp.WithNumber("gameweek", mcp.Description("Re-analyze as of this gameweek instead of the latest fetched one.")),
	), h.handleGetPlayerMomentum)

	// --- 3. Tool: get_defcon_leaders ---
	s.AddTool(mcp.NewTool("get_defcon_leaders",
		mcp.WithDescription("Rank players by defensive contribution (tackles, recoveries, clearances, blocks and interceptions) over a rolling window."),
		mcp.WithString("position", mcp.Description("Only rank players in this position."), mcp.Enum("GKP", "DEF", "MID", "FWD")),
		mcp.WithNumber("window", mcp.Description("Rolling window size to rank on. Defaults to the smallest configured window.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of rows returned.")),
	), h.handleGetDefconLeaders)

	return s
}

// StartMCPServer starts the momentum MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
