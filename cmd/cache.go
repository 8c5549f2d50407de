package cmd

import (
	"fmt"

	"github.com/k1lgor/fpl-momentum-tracker/internal/contract"
	"github.com/k1lgor/fpl-momentum-tracker/internal/iocache"
	"github.com/k1lgor/fpl-momentum-tracker/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheSetup loads just enough configuration for cache subcommands. They
// skip the full analysis pipeline setup, so there is no window validation
// and no run tracking here.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	connStr := viper.GetString("cache-db-connect")

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	if err := iocache.InitCaching(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr

	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheCmd groups the response-cache subcommands. Like the analysis
// subcommands they use a light setup, so clearing the cache works even
// with no dataset downloaded.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the FPL API response cache (improves performance)",
	Long: `Manage the FPL API response cache that speeds up repeated fetches.

fpltracker caches raw API responses to avoid hammering the FPL servers on
every run. A fetch shortly after a previous one is answered entirely from
cache, which matters when every player history is a separate request.

Backends: SQLite (the default), MySQL, PostgreSQL, or none to disable caching

Subcommands:
  status - show cache statistics and connection info
  clear  - remove all cached responses

Examples:
  # See what the cache holds
  fpltracker cache status

  # Force fresh data after a gameweek deadline
  fpltracker cache clear`,
}

// cacheClearCmd wipes every cached response.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached FPL API responses",
	Long: `Delete all cached FPL API responses from the configured backend.

Use this when:
- A gameweek just finished and you want fresh data now
- Cached responses look stale or corrupted
- Testing fetch performance without cache
- Switching to a different base URL

SQLite loses the whole database file; MySQL and PostgreSQL drop the
cache table.

Examples:
  # Wipe the default SQLite cache
  fpltracker cache clear

  # Wipe a MySQL cache configured through env variables
  FPLTRACKER_CACHE_BACKEND=mysql FPLTRACKER_CACHE_DB_CONNECT="..." fpltracker cache clear`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearCache(cfg.CacheBackend, contract.GetCacheDBFilePath(), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd reports what the response cache holds.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show response cache statistics and connection details",
	Long: `Show detailed information about the FPL API response cache.

Displays:
- Backend in use and whether it is reachable
- Total number of cached responses
- Timestamps of the newest and oldest cached responses
- On-disk size of the cache table

Use this to:
- Confirm caching is switched on and healthy
- Monitor cache growth over a season
- Check when data was last fetched
- Chase down cache-related oddities

Examples:
  # Inspect the cache
  fpltracker cache status`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetResponseStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(status)
	},
}
