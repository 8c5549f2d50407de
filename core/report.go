package core

import (
	"slices"
	"sort"
	"strings"

	"github.com/k1lgor/fpl-momentum-tracker/internal/contract"
	"github.com/k1lgor/fpl-momentum-tracker/schema"
)

// SortRows orders rows canonically: window ascending, momentum descending
// with missing fits last, then player id ascending so ties stay stable
// across runs.
func SortRows(rows []schema.PlayerAnalysis) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.WindowSize != b.WindowSize {
			return a.WindowSize < b.WindowSize
		}
		am, aok := a.MomentumOrZero()
		bm, bok := b.MomentumOrZero()
		if aok != bok {
			return aok // valid fits before insufficient ones
		}
		if aok && am != bm {
			return am > bm
		}
		return a.PlayerID < b.PlayerID
	})
}

// FilterRows keeps the rows matching the configured report filters.
func FilterRows(rows []schema.PlayerAnalysis, cfg *contract.Config) []schema.PlayerAnalysis {
	out := make([]schema.PlayerAnalysis, 0, len(rows))
	for _, row := range rows {
		if matchesFilters(row, cfg) {
			out = append(out, row)
		}
	}
	return out
}

func matchesFilters(row schema.PlayerAnalysis, cfg *contract.Config) bool {
	if cfg.WindowFilter > 0 && row.WindowSize != cfg.WindowFilter {
		return false
	}
	if len(cfg.PositionFilter) > 0 && !slices.Contains(cfg.PositionFilter, row.Position) {
		return false
	}
	if cfg.TeamFilter != "" && !strings.EqualFold(row.TeamName, cfg.TeamFilter) {
		return false
	}
	if cfg.SignalFilter != "" && row.Signal != cfg.SignalFilter {
		return false
	}
	if cfg.MaxPrice > 0 && float64(row.NowCost)/10.0 > cfg.MaxPrice {
		return false
	}
	return true
}

// OrderRows re-sorts rows by the configured sort key, keeping windows
// grouped so multi-window reports stay readable.
func OrderRows(rows []schema.PlayerAnalysis, key schema.SortKey) {
	if key == "" || key == schema.MomentumSort {
		SortRows(rows)
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.WindowSize != b.WindowSize {
			return a.WindowSize < b.WindowSize
		}
		switch key {
		case schema.XGDiffSort:
			if a.XGDiff != b.XGDiff {
				return a.XGDiff > b.XGDiff
			}
		case schema.DefconSort:
			if a.DefconScore != b.DefconScore {
				return a.DefconScore > b.DefconScore
			}
		case schema.PriceSort:
			if a.NowCost != b.NowCost {
				return a.NowCost < b.NowCost // cheapest first
			}
		}
		return a.PlayerID < b.PlayerID
	})
}

// LimitRows caps the row count per window, so one window's long tail never
// crowds another window out of the report.
func LimitRows(rows []schema.PlayerAnalysis, limit int) []schema.PlayerAnalysis {
	if limit <= 0 {
		return rows
	}
	counts := make(map[int]int)
	out := make([]schema.PlayerAnalysis, 0, len(rows))
	for _, row := range rows {
		if counts[row.WindowSize] >= limit {
			continue
		}
		counts[row.WindowSize]++
		out = append(out, row)
	}
	return out
}

// BuildReportView filters, orders and limits assembled rows for display.
func BuildReportView(rows []schema.PlayerAnalysis, cfg *contract.Config) []schema.PlayerAnalysis {
	view := FilterRows(rows, cfg)
	OrderRows(view, cfg.SortBy)
	return LimitRows(view, cfg.ResultLimit)
}
