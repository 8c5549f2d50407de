// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/k1lgor/fpl-momentum-tracker/internal/contract"
)

// LogFetchHeader prints a concise, 2-line header for a pool fetch.
func LogFetchHeader(cfg *contract.Config, playerCount, gameweek int) {
	statuses := strings.Join(cfg.FetchStatuses, ", ")
	if cfg.UseEmojis {
		fmt.Printf("🔎 Pool: %d players (statuses: %s)\n", playerCount, statuses)
		fmt.Printf("📅 Gameweek: %d\n", gameweek)
		return
	}
	fmt.Printf("Pool: %d players (statuses: %s)\n", playerCount, statuses)
	fmt.Printf("Gameweek: %d\n", gameweek)
}

// LogAnalysisHeader prints a concise, 2-line header for an analysis pass.
func LogAnalysisHeader(cfg *contract.Config, poolSize int) {
	windows := windowsLabel(cfg.Windows)
	if cfg.UseEmojis {
		fmt.Printf("🔎 Analyzing %d players (windows: %s)\n", poolSize, windows)
		fmt.Printf("📈 Target: %s (buy > %g, sell < %g)\n", cfg.MomentumTarget, cfg.Thresholds.Buy, cfg.Thresholds.Sell)
		return
	}
	fmt.Printf("Analyzing %d players (windows: %s)\n", poolSize, windows)
	fmt.Printf("Target: %s (buy > %g, sell < %g)\n", cfg.MomentumTarget, cfg.Thresholds.Buy, cfg.Thresholds.Sell)
}

// windowsLabel formats window sizes as "4, 6, 10".
func windowsLabel(windows []int) string {
	parts := make([]string, len(windows))
	for i, w := range windows {
		parts[i] = strconv.Itoa(w)
	}
	return strings.Join(parts, ", ")
}
