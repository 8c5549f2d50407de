package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/k1lgor/fpl-momentum-tracker/core"
	"github.com/k1lgor/fpl-momentum-tracker/internal/contract"
	"github.com/k1lgor/fpl-momentum-tracker/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// applyReportOverrides merges the shared report arguments into a cloned config.
func applyReportOverrides(cfg *contract.Config, request mcp.CallToolRequest) error {
	if s := request.GetString("signal", ""); s != "" {
		sig := schema.Signal(strings.ToUpper(strings.TrimSpace(s)))
		if _, ok := schema.ValidSignals[sig]; !ok {
			return fmt.Errorf("invalid signal '%s'. must be BUY, SELL, HOLD", s)
		}
		cfg.SignalFilter = sig
	}
	if p := request.GetString("position", ""); p != "" {
		pos := schema.Position(strings.ToUpper(strings.TrimSpace(p)))
		if _, ok := schema.ValidPositions[pos]; !ok {
			return fmt.Errorf("invalid position '%s'. must be GKP, DEF, MID, FWD", p)
		}
		cfg.PositionFilter = []schema.Position{pos}
	}
	if tm := request.GetString("team", ""); tm != "" {
		cfg.TeamFilter = tm
	}
	if w := request.GetInt("window", 0); w != 0 {
		if w < 2 || w > schema.MaxGameweek {
			return fmt.Errorf("window size must be between 2 and %d (received %d)", schema.MaxGameweek, w)
		}
		// Compute exactly the requested window rather than filtering the
		// configured set, so any valid size can be asked for.
		cfg.Windows = []int{w}
		cfg.WindowFilter = w
	}
	if mp := request.GetFloat("max_price", 0); mp > 0 {
		cfg.MaxPrice = mp
	}
	if gw := request.GetInt("gameweek", 0); gw != 0 {
		if gw < 1 || gw > schema.MaxGameweek {
			return fmt.Errorf("gameweek must be between 1 and %d (received %d)", schema.MaxGameweek, gw)
		}
		cfg.Gameweek = gw
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}
	return nil
}

func (h *toolHandler) handleGetMomentumSignals(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyReportOverrides(cfg, request); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := core.GetAnalysisResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	view := core.BuildReportView(result.Rows, cfg)
	enriched := schema.EnrichPlayerAnalyses(view)
	jsonData, _ := json.MarshalIndent(enriched, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetPlayerMomentum(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	name := strings.TrimSpace(request.GetString("player", ""))
	if name == "" {
		return mcp.NewToolResultError("player is required"), nil
	}
	if err := applyReportOverrides(cfg, request); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := core.GetAnalysisResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	needle := strings.ToLower(name)
	var rows []schema.PlayerAnalysis
	for _, row := range result.Rows {
		if strings.Contains(strings.ToLower(row.WebName), needle) {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("no player matching '%s' in the analyzed pool", name)), nil
	}

	enriched := schema.EnrichPlayerAnalyses(rows)
	jsonData, _ := json.MarshalIndent(enriched, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetDefconLeaders(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.SortBy = schema.DefconSort
	if err := applyReportOverrides(cfg, request); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	// Rank within one window so scores stay comparable
	if cfg.WindowFilter == 0 && len(cfg.Windows) > 0 {
		cfg.WindowFilter = cfg.Windows[0]
	}

	result, err := core.GetAnalysisResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	view := core.BuildReportView(result.Rows, cfg)
	enriched := schema.EnrichPlayerAnalyses(view)
	jsonData, _ := json.MarshalIndent(enriched, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}
