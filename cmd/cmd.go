// Package cmd defines the command-line interface for fpltracker.
package cmd

import (
	"github.com/k1lgor/fpl-momentum-tracker/internal/contract"
	"github.com/k1lgor/fpl-momentum-tracker/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	cobra.OnInitialize(initConfig)

	// Top-level commands
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(analysisCmd)

	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	analysisCmd.AddCommand(analysisClearCmd)
	analysisCmd.AddCommand(analysisStatusCmd)
	analysisCmd.AddCommand(analysisExportCmd)
	analysisCmd.AddCommand(analysisMigrateCmd)

	// Every persistent flag is also reachable via config file and env var
	rootCmd.PersistentFlags().String("base-url", contract.DefaultBaseURL, "Base URL of the FPL API")
	rootCmd.PersistentFlags().String("data-dir", contract.DefaultDataDir, "Directory holding the fetched and analyzed datasets")
	rootCmd.PersistentFlags().StringP("windows", "w", "", "Comma-separated rolling window sizes in gameweeks (defaults to 4,6,10)")
	rootCmd.PersistentFlags().String("momentum-target", string(schema.XGIPer90Target), "Metric the momentum trend is fitted on: xgi_per_90 or xg_per_90 or xg_diff_per_90")
	rootCmd.PersistentFlags().String("signal-thresholds", "", "Signal cutoff overrides (format: 'buy:0.005,sell:-0.005,rotation-pct:0.3,rotation-xg-diff:1.0')")
	rootCmd.PersistentFlags().IntP("gameweek", "g", 0, "Analyze as of this gameweek (0 = latest fetched)")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display per window")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent analysis workers")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "API response cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("analysis-backend", "", "Analysis tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("analysis-db-connect", "", "Database connection string for analysis tracking (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("emoji", "yes", "Enable emojis in output headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of fetchCmd to Viper
	fetchCmd.Flags().Int("fetch-workers", contract.DefaultFetchWorkers, "Number of concurrent history download workers")
	fetchCmd.Flags().String("statuses", "", "Comma-separated availability statuses to keep (defaults to a,d,n)")
	fetchCmd.Flags().Bool("refresh", false, "Bypass the response cache and refetch everything")
	if err := viper.BindPFlags(fetchCmd.Flags()); err != nil {
		contract.LogFatal("Error binding fetch flags", err)
	}

	// Bind all flags of reportCmd to Viper
	reportCmd.Flags().StringP("position", "p", "", "Only show these positions (comma-separated GKP,DEF,MID,FWD)")
	reportCmd.Flags().String("team", "", "Only show players from this team")
	reportCmd.Flags().String("signal", "", "Only show rows with this signal: BUY, SELL or HOLD")
	reportCmd.Flags().Float64("max-price", 0, "Price ceiling in millions (0 = no cap)")
	reportCmd.Flags().Int("window", 0, "Restrict the report to one window size (0 = all)")
	reportCmd.Flags().String("sort-by", "", "Sort key: momentum, xg_diff, defcon or price")
	if err := viper.BindPFlags(reportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding report flags", err)
	}

	analysisMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(analysisMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding analysis migrate flags", err)
	}
}
