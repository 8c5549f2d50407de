package cmd

import (
	"github.com/k1lgor/fpl-momentum-tracker/core"
	"github.com/k1lgor/fpl-momentum-tracker/internal/contract"
	"github.com/spf13/cobra"
)

// analyzeCmd computes rolling windows, momentum and signals.
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compute rolling xG form, momentum scores and transfer signals.",
	Long: `Compute trailing-window aggregates over the fetched gameweek histories,
fit a momentum trend per player and window, and classify each row as a
BUY, SELL or HOLD.

Each window looks back over the last N played gameweeks from the target
gameweek. Momentum is the slope of the per-gameweek attacking series
weighted by how well a straight line explains it, so noisy blips score
near zero while a steady rise keeps its slope.

The full result set is written to the analysis parquet dataset for the
report and players commands. When an analysis backend is configured the
run and every per-player signal are also recorded there.

Use this after fetch. It is pure local computation and safe to re-run
with different windows or thresholds.

Examples:
  # Analyze with the default windows (4, 6, 10)
  fpltracker analyze

  # A single short window, momentum from xG alone
  fpltracker analyze --windows 4 --momentum-target xg_per_90

  # As of an earlier gameweek, with looser signal thresholds
  fpltracker analyze --gameweek 24 --signal-thresholds "buy:0.08,sell:-0.08"`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAnalyze(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot analyze the player pool", err)
		}
	},
}
