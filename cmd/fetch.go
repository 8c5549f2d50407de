package cmd

import (
	"github.com/k1lgor/fpl-momentum-tracker/core"
	"github.com/k1lgor/fpl-momentum-tracker/internal/contract"
	"github.com/k1lgor/fpl-momentum-tracker/internal/fplclient"
	"github.com/spf13/cobra"
)

// fetchCmd downloads the player pool and gameweek histories.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the FPL player pool and per-player gameweek histories.",
	Long: `Download the bootstrap player pool and every player's gameweek history
from the FPL API, then persist both as parquet datasets under --data-dir.

The fetch is polite by design: per-player history requests run through a
bounded worker pool with a short delay between calls. Responses are cached
in the configured cache backend so a re-run shortly after costs nothing.

Analysis never talks to the network; it reads these datasets. Fetch once
after a gameweek finishes, then analyze and report as often as you like.

Examples:
  # Fetch the current season state
  fpltracker fetch

  # Widen the pool to include injured and suspended players
  fpltracker fetch --statuses a,d,i,s

  # Force a refetch even when cached responses are fresh
  fpltracker fetch --refresh

  # Gentler on the API from a shared network
  fpltracker fetch --fetch-workers 2`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		client := fplclient.NewClient(cfg.BaseURL, cfg.FetchStatuses)
		if err := core.ExecuteFetch(rootCtx, cfg, client, storeManager); err != nil {
			contract.LogFatal("Cannot fetch FPL data", err)
		}
	},
}
