package cmd

import (
	"github.com/k1lgor/fpl-momentum-tracker/core"
	"github.com/k1lgor/fpl-momentum-tracker/internal/contract"
	"github.com/spf13/cobra"
)

// reportCmd renders the analyzed rows with filtering and ranking.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Rank analyzed players and print transfer signals.",
	Long: `Render the analysis dataset as a ranked table of transfer signals.

Displays per-player rolling xG, xA and xGI form, goals-versus-xG deltas,
minutes share, defensive contribution and the fitted momentum score,
with one row per player and window.

Use this to answer the practical questions: who is trending up and still
cheap, which of my defenders quietly stopped playing, whose goals are
running hot against their xG.

Filters combine with AND. Sorting defaults to momentum; ranks are
assigned after filtering, so the top row is always rank 1.

Examples:
  # Top momentum rows across all configured windows
  fpltracker report

  # Midfielders under 8.0m flagged BUY, 6-game window only
  fpltracker report -p MID --max-price 8.0 --signal BUY --window 6

  # Defensive-contribution leaders among defenders
  fpltracker report -p DEF --sort-by defcon

  # Machine-readable output for downstream tooling
  fpltracker report --output json --output-file signals.json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteReport(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot build the report", err)
		}
	},
}
