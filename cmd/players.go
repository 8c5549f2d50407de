package cmd

import (
	"github.com/k1lgor/fpl-momentum-tracker/core"
	"github.com/k1lgor/fpl-momentum-tracker/internal/contract"
	"github.com/spf13/cobra"
)

// playersCmd lists the fetched pool without any analysis.
var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the fetched player pool.",
	Long: `List the players in the fetched pool with their team, position and
current price.

This reads the raw pool dataset, not the analysis, so it works right
after a fetch and is the quickest way to confirm what the analyzer will
see. Player IDs shown here are the ones accepted by the MCP tools.

Examples:
  # Everyone in the pool
  fpltracker players

  # First 20 rows only
  fpltracker players --limit 20`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePlayers(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot list the player pool", err)
		}
	},
}
