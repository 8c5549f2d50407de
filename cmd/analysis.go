package cmd

import (
	"fmt"

	"github.com/k1lgor/fpl-momentum-tracker/internal/contract"
	"github.com/k1lgor/fpl-momentum-tracker/internal/iocache"
	"github.com/k1lgor/fpl-momentum-tracker/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// loadAnalysisBackendConfig reads and validates the analysis backend
// settings shared by every analysis subcommand. An unset backend means
// tracking is disabled, which maps to NoneBackend.
func loadAnalysisBackendConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.DatabaseBackend(viper.GetString("analysis-backend"))
	if backend == "" {
		backend = schema.NoneBackend
	}
	connStr := viper.GetString("analysis-db-connect")

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}

	return backend, connStr, nil
}

// analysisSetup is the PreRunE for analysis subcommands that touch the
// store. It brings up run tracking but skips response caching.
func analysisSetup() error {
	backend, connStr, err := loadAnalysisBackendConfig()
	if err != nil {
		return err
	}

	if err := iocache.InitCaching(schema.NoneBackend, "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize analysis: %w", err)
	}

	cfg.AnalysisBackend = backend
	cfg.AnalysisDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file") // used by export

	return nil
}

func analysisSetupWrapper(_ *cobra.Command, _ []string) error {
	return analysisSetup()
}

// analysisMigrateSetup skips store initialization entirely so migrations
// can run against a fresh database before any tables exist.
func analysisMigrateSetup() error {
	backend, connStr, err := loadAnalysisBackendConfig()
	if err != nil {
		return err
	}

	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetAnalysisDBFilePath()
	}

	cfg.AnalysisBackend = backend
	cfg.AnalysisDBConnect = connStr

	return nil
}

func analysisMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return analysisMigrateSetup()
}

// analysisCmd groups the run-tracking subcommands. They use the light
// analysisSetup rather than sharedSetup, so managing the store never
// requires a dataset on disk.
var analysisCmd = &cobra.Command{
	Use:   "analysis",
	Short: "Manage historical analysis tracking and exports",
	Long: `Manage historical analysis data used for trend tracking and reporting.

When enabled, fpltracker records every analysis run, storing:
- Run metadata (timestamp, configuration, duration, gameweek)
- Per-player signals across all windows (BUY, SELL, HOLD)
- Raw rolling metrics (xG, xGI, goals, minutes, defensive contribution)

This enables season-long tracking: how a player's momentum evolved, when a
signal first flipped, and how your thresholds would have behaved weeks ago.

Backends: SQLite (the default), MySQL, PostgreSQL, or none to disable tracking

Subcommands:
  status  - show run-tracking statistics
  export  - dump runs and signals to Parquet
  clear   - drop all recorded runs and signals
  migrate - apply database schema migrations

Examples:
  # See how many runs are stored
  fpltracker analysis status

  # Pull the history into pandas or DuckDB
  fpltracker analysis export --output-file fpl-history`,
}

// analysisClearCmd drops every recorded run and signal.
var analysisClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all historical analysis tracking data",
	Long: `Delete all stored analysis runs and player signal history.

This removes:
- Metadata for every recorded run
- Historical player signals across all windows
- Raw rolling metrics for analyzed players

WARNING: there is no undo. Export first if the history matters.

Use this when:
- Resetting tracking at the start of a season
- The tracking database has grown too large
- Starting fresh signal history
- Exercising tracking features in development

Examples:
  # Keep a Parquet copy before wiping
  fpltracker analysis export --output-file backup
  fpltracker analysis clear

  # Just wipe it
  fpltracker analysis clear`,
	PreRunE: analysisSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearAnalysis(cfg.AnalysisBackend, contract.GetAnalysisDBFilePath(), cfg.AnalysisDBConnect); err != nil {
			contract.LogFatal("Failed to clear analysis data", err)
		}
		fmt.Println("Analysis data cleared successfully.")
	},
}

// analysisStatusCmd reports what the tracking store holds.
var analysisStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display analysis tracking statistics and connection details",
	Long: `Show detailed information about historical analysis tracking.

Displays:
- Backend in use and whether it is reachable
- How many analysis runs are stored
- Timestamps of the newest and oldest runs
- Total player signals recorded across all runs
- Database table sizes

Use this to:
- Confirm run tracking is switched on and healthy
- Monitor data accumulation over a season
- Spot connection problems early
- Gauge how much space a season of data needs

Examples:
  # Inspect the tracking store
  fpltracker analysis status`,
	PreRunE: analysisSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetAnalysisStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get analysis status", err)
		}
		iocache.PrintAnalysisStatus(status)
	},
}

// analysisExportCmd dumps the tracked history to Parquet files.
var analysisExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export historical data to Parquet for BI tools and analytics",
	Long: `Export all stored analysis data to Parquet format for use with analytics tools.

Exports two datasets:
- Analysis runs - one row of metadata per recorded run
- Player signals - per-player, per-window momentum scores and signals

Parquet keeps the files small through columnar compression and loads
directly into DuckDB, Spark, pandas and most BI tools.

The --output-file flag names the file prefix and is required.

Use cases:
- Signal accuracy review across a season
- Dashboards and season visualizations
- ML model training on form metrics
- Mini-league banter backed by data

Examples:
  # Write fpl-history.*.parquet
  fpltracker analysis export --output-file fpl-history

  # Query the export with DuckDB
  fpltracker analysis export --output-file data
  duckdb -c "SELECT * FROM read_parquet('data.player_signals.parquet') LIMIT 10"`,
	PreRunE: analysisSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteAnalysisExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export analysis data", err)
		}
	},
}

// analysisMigrateCmd moves the tracking schema between versions.
var analysisMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the analysis tracking store.

Migrations let you:
- Upgrade to new schema versions when fpltracker is updated
- Change the database structure without losing recorded data
- Roll a schema change back if it misbehaves
- Pin a database to a specific schema version

Without flags this migrates to the latest version; --target-version picks one.

Examples:
  # Bring the schema up to date
  fpltracker analysis migrate

  # Pin to version 1
  fpltracker analysis migrate --target-version 1

  # Rollback everything
  fpltracker analysis migrate --target-version 0`,
	PreRunE: analysisMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateAnalysis(cfg.AnalysisBackend, cfg.AnalysisDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
