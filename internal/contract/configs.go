package contract

import (
	"fmt"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/k1lgor/fpl-momentum-tracker/schema"
)

// Default values for configuration.
const (
	DefaultBaseURL      = "https://fantasy.premierleague.com/api"
	DefaultDataDir      = "data"
	DefaultResultLimit  = 25
	MaxResultLimit      = 1000
	DefaultPrecision    = 2
	DefaultFetchWorkers = 10
	MaxFetchWorkers     = 32
)

// Default signal thresholds. Momentum cutoffs are in per-90 metric units
// per gameweek, the rotation cutoffs in window shares and expected goals.
const (
	DefaultBuyThreshold   = 0.005
	DefaultSellThreshold  = -0.005
	DefaultRotationPct    = 0.3
	DefaultRotationXGDiff = 1.0
)

// FetchPolitenessDelay spaces out per-player history requests so a full pool
// fetch stays friendly to the FPL API.
const FetchPolitenessDelay = 100 * time.Millisecond

// DefaultWorkers is the default number of concurrent analysis workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is how timestamps render in headers and exports.
var DateTimeFormat = time.RFC3339

// ProfileConfig carries the --profile flag state.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// SignalThresholds holds the validated cutoffs used by signal classification.
type SignalThresholds struct {
	Buy            float64 // momentum above this is a BUY
	Sell           float64 // momentum below this is a SELL
	RotationPct    float64 // games played share strictly below this flags rotation risk
	RotationXGDiff float64 // xG overperformance strictly above this flags rotation risk
}

// SignalThresholdsRaw holds signal threshold overrides from the YAML config file.
// Use float64 pointers so absent fields fall through to defaults.
type SignalThresholdsRaw struct {
	Buy            *float64 `mapstructure:"buy"`
	Sell           *float64 `mapstructure:"sell"`
	RotationPct    *float64 `mapstructure:"rotation-pct"`
	RotationXGDiff *float64 `mapstructure:"rotation-xg-diff"`
}

// Config is the validated runtime configuration. Commands read from this
// struct only; raw user input lives in ConfigRawInput until validation.
type Config struct {
	BaseURL string
	DataDir string

	Windows        []int
	MomentumTarget schema.MomentumTarget
	Thresholds     SignalThresholds

	Gameweek      int // 0 = latest available
	ResultLimit   int
	Workers       int
	FetchWorkers  int
	FetchStatuses []string
	Refresh       bool

	PositionFilter []schema.Position
	TeamFilter     string
	SignalFilter   schema.Signal // empty = all signals
	MaxPrice       float64       // price ceiling in millions, 0 = no cap
	WindowFilter   int           // restrict the report to one window, 0 = all
	SortBy         schema.SortKey

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // prefer the env var, this is plaintext

	AnalysisBackend   schema.DatabaseBackend
	AnalysisDBConnect string // prefer the env var, this is plaintext

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput is the unvalidated union of flags, env vars and config
// file values, in the exact shape Viper unmarshals.
type ConfigRawInput struct {
	// Fields bound on rootCmd.PersistentFlags()
	BaseURL           string `mapstructure:"base-url"`
	DataDir           string `mapstructure:"data-dir"`
	Windows           string `mapstructure:"windows"`
	MomentumTarget    string `mapstructure:"momentum-target"`
	SignalThresholds  string `mapstructure:"signal-thresholds"`
	Gameweek          int    `mapstructure:"gameweek"`
	Limit             int    `mapstructure:"limit"`
	Workers           int    `mapstructure:"workers"`
	Precision         int    `mapstructure:"precision"`
	Output            string `mapstructure:"output"`
	OutputFile        string `mapstructure:"output-file"`
	Width             int    `mapstructure:"width"`
	CacheBackend      string `mapstructure:"cache-backend"`
	CacheDBConnect    string `mapstructure:"cache-db-connect"`
	AnalysisBackend   string `mapstructure:"analysis-backend"`
	AnalysisDBConnect string `mapstructure:"analysis-db-connect"`
	Emoji             string `mapstructure:"emoji"`
	Color             string `mapstructure:"color"`

	// --- Fields from fetchCmd.Flags() ---
	FetchWorkers int    `mapstructure:"fetch-workers"`
	Statuses     string `mapstructure:"statuses"`
	Refresh      bool   `mapstructure:"refresh"`

	// --- Fields from reportCmd.Flags() ---
	Position string  `mapstructure:"position"`
	Team     string  `mapstructure:"team"`
	Signal   string  `mapstructure:"signal"`
	MaxPrice float64 `mapstructure:"max-price"`
	Window   int     `mapstructure:"window"`
	SortBy   string  `mapstructure:"sort-by"`

	// --- Signal thresholds from config file ---
	Signals SignalThresholdsRaw `mapstructure:"signals"`
}

// Clone deep-copies the Config, including its slices.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Windows != nil {
		clone.Windows = make([]int, len(c.Windows))
		copy(clone.Windows, c.Windows)
	}
	if c.PositionFilter != nil {
		clone.PositionFilter = make([]schema.Position, len(c.PositionFilter))
		copy(clone.PositionFilter, c.PositionFilter)
	}
	if c.FetchStatuses != nil {
		clone.FetchStatuses = make([]string, len(c.FetchStatuses))
		copy(clone.FetchStatuses, c.FetchStatuses)
	}
	return &clone
}

// ConfigParams flattens the analysis-relevant settings into a map for run
// bookkeeping in the analysis store.
func (c *Config) ConfigParams() map[string]any {
	windows := make([]string, len(c.Windows))
	for i, w := range c.Windows {
		windows[i] = strconv.Itoa(w)
	}
	return map[string]any{
		"windows":          strings.Join(windows, ","),
		"momentum_target":  string(c.MomentumTarget),
		"buy":              c.Thresholds.Buy,
		"sell":             c.Thresholds.Sell,
		"rotation_pct":     c.Thresholds.RotationPct,
		"rotation_xg_diff": c.Thresholds.RotationXGDiff,
		"gameweek":         c.Gameweek,
	}
}

// ProcessAndValidate turns raw input into the validated Config, running
// every parse and range check along the way.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	// All validation functions read from 'input' and populate 'cfg'.
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processWindows(cfg, input); err != nil {
		return err
	}
	if err := processFetchStatuses(cfg, input); err != nil {
		return err
	}
	if err := processSignalThresholds(cfg, input); err != nil {
		return err
	}
	if err := processReportFilters(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString does a shape check on MySQL and
// PostgreSQL connection strings before anything tries to dial them.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs resolves and checks both persistence backends.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	cfg.AnalysisBackend = schema.DatabaseBackend(strings.ToLower(input.AnalysisBackend))
	if cfg.AnalysisBackend != "" {
		if _, ok := schema.ValidDatabaseBackends[cfg.AnalysisBackend]; !ok {
			return fmt.Errorf("invalid analysis backend '%s'. must be sqlite, mysql, postgresql, none", input.AnalysisBackend)
		}
		cfg.AnalysisDBConnect = input.AnalysisDBConnect
		if err := ValidateDatabaseConnectionString(cfg.AnalysisBackend, cfg.AnalysisDBConnect); err != nil {
			return err
		}

		// Validate that cache and analysis use different databases
		if cfg.CacheBackend == cfg.AnalysisBackend && cfg.CacheBackend != schema.NoneBackend {
			// For SQLite, resolve to actual file paths to catch default path conflicts
			if cfg.CacheBackend == schema.SQLiteBackend {
				cacheDBPath := cfg.CacheDBConnect
				if cacheDBPath == "" {
					cacheDBPath = GetCacheDBFilePath()
				}
				analysisDBPath := cfg.AnalysisDBConnect
				if analysisDBPath == "" {
					analysisDBPath = GetAnalysisDBFilePath()
				}
				if cacheDBPath == analysisDBPath {
					return fmt.Errorf("cache and analysis storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
				}
			}
		}
	}

	return nil
}

// validateSimpleInputs processes and validates all scalar fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Refresh = input.Refresh

	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(input.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	cfg.DataDir = strings.TrimSpace(input.DataDir)
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir
	}

	// Parse emoji flag
	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.FetchWorkers <= 0 || input.FetchWorkers > MaxFetchWorkers {
		return fmt.Errorf("fetch-workers must be between 1 and %d (received %d)", MaxFetchWorkers, input.FetchWorkers)
	}
	cfg.FetchWorkers = input.FetchWorkers

	// --- 3. Momentum Target Validation ---
	cfg.MomentumTarget = schema.MomentumTarget(strings.ToLower(input.MomentumTarget))
	if _, ok := schema.ValidMomentumTargets[cfg.MomentumTarget]; !ok {
		return fmt.Errorf("invalid momentum target '%s'. must be xgi_per_90, xg_per_90, xg_diff_per_90", input.MomentumTarget)
	}

	// --- 4. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 4 {
		return fmt.Errorf("precision must be between 1 and 4 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", cfg.Output)
	}

	// --- 5. Backend Validation ---
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}

	// --- 6. Gameweek Validation ---
	if input.Gameweek < 0 || input.Gameweek > schema.MaxGameweek {
		return fmt.Errorf("gameweek must be between 0 and %d (received %d)", schema.MaxGameweek, input.Gameweek)
	}
	cfg.Gameweek = input.Gameweek

	return nil
}

// processWindows parses the comma-separated window sizes into a sorted,
// deduplicated list. An empty input falls back to the defaults.
func processWindows(cfg *Config, input *ConfigRawInput) error {
	if strings.TrimSpace(input.Windows) == "" {
		cfg.Windows = make([]int, len(schema.DefaultWindowSizes))
		copy(cfg.Windows, schema.DefaultWindowSizes)
		return nil
	}

	seen := make(map[int]struct{})
	var windows []int

	parts := strings.SplitSeq(input.Windows, ",")
	for p := range parts {
		trimmedP := strings.TrimSpace(p)
		if trimmedP == "" {
			continue
		}
		w, err := strconv.Atoi(trimmedP)
		if err != nil {
			return fmt.Errorf("invalid window size '%s': %w", trimmedP, err)
		}
		if w < 2 || w > schema.MaxGameweek {
			return fmt.Errorf("window size must be between 2 and %d (received %d)", schema.MaxGameweek, w)
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		windows = append(windows, w)
	}

	if len(windows) == 0 {
		return fmt.Errorf("no usable window sizes in '%s'", input.Windows)
	}

	sort.Ints(windows)
	cfg.Windows = windows
	return nil
}

// processFetchStatuses parses the comma-separated availability codes kept
// when building the player pool. An empty input falls back to the defaults.
func processFetchStatuses(cfg *Config, input *ConfigRawInput) error {
	if strings.TrimSpace(input.Statuses) == "" {
		cfg.FetchStatuses = make([]string, len(schema.DefaultFetchStatuses))
		copy(cfg.FetchStatuses, schema.DefaultFetchStatuses)
		return nil
	}

	seen := make(map[string]struct{})
	var statuses []string

	parts := strings.SplitSeq(input.Statuses, ",")
	for p := range parts {
		trimmedP := strings.ToLower(strings.TrimSpace(p))
		if trimmedP == "" {
			continue
		}
		if _, ok := schema.ValidFetchStatuses[trimmedP]; !ok {
			return fmt.Errorf("invalid availability status '%s'. must be one of a, d, i, n, s, u", trimmedP)
		}
		if _, ok := seen[trimmedP]; ok {
			continue
		}
		seen[trimmedP] = struct{}{}
		statuses = append(statuses, trimmedP)
	}

	if len(statuses) == 0 {
		return fmt.Errorf("no usable availability statuses in '%s'", input.Statuses)
	}

	cfg.FetchStatuses = statuses
	return nil
}

// processSignalThresholds merges threshold defaults, config file overrides and
// the command-line --signal-thresholds flag, then validates the result.
// The command-line flag takes precedence over config file settings.
func processSignalThresholds(cfg *Config, input *ConfigRawInput) error {
	t := SignalThresholds{
		Buy:            DefaultBuyThreshold,
		Sell:           DefaultSellThreshold,
		RotationPct:    DefaultRotationPct,
		RotationXGDiff: DefaultRotationXGDiff,
	}

	// Override with config file values if provided
	if input.Signals.Buy != nil {
		t.Buy = *input.Signals.Buy
	}
	if input.Signals.Sell != nil {
		t.Sell = *input.Signals.Sell
	}
	if input.Signals.RotationPct != nil {
		t.RotationPct = *input.Signals.RotationPct
	}
	if input.Signals.RotationXGDiff != nil {
		t.RotationXGDiff = *input.Signals.RotationXGDiff
	}

	// Override with command-line flag if provided (takes precedence)
	if input.SignalThresholds != "" {
		if err := parseSignalThresholdsString(input.SignalThresholds, &t); err != nil {
			return fmt.Errorf("invalid --signal-thresholds format: %w", err)
		}
	}

	// Validate thresholds
	if t.Buy < t.Sell {
		return fmt.Errorf("buy threshold (%.4f) cannot be below sell threshold (%.4f)", t.Buy, t.Sell)
	}
	if t.RotationPct <= 0.0 || t.RotationPct > 1.0 {
		return fmt.Errorf("rotation-pct must be within (0.0, 1.0] (received %.2f)", t.RotationPct)
	}
	if t.RotationXGDiff < 0.0 {
		return fmt.Errorf("rotation-xg-diff cannot be negative (received %.2f)", t.RotationXGDiff)
	}

	cfg.Thresholds = t
	return nil
}

// processReportFilters validates the report-only filter and ordering flags.
func processReportFilters(cfg *Config, input *ConfigRawInput) error {
	cfg.TeamFilter = strings.TrimSpace(input.Team)

	cfg.PositionFilter = nil
	if input.Position != "" {
		parts := strings.SplitSeq(input.Position, ",")
		for p := range parts {
			trimmedP := strings.TrimSpace(p)
			if trimmedP == "" {
				continue
			}
			pos := schema.Position(strings.ToUpper(trimmedP))
			if _, ok := schema.ValidPositions[pos]; !ok {
				return fmt.Errorf("invalid position '%s'. must be GKP, DEF, MID, FWD", trimmedP)
			}
			cfg.PositionFilter = append(cfg.PositionFilter, pos)
		}
	}

	cfg.SignalFilter = ""
	if input.Signal != "" {
		sig := schema.Signal(strings.ToUpper(strings.TrimSpace(input.Signal)))
		if _, ok := schema.ValidSignals[sig]; !ok {
			return fmt.Errorf("invalid signal '%s'. must be BUY, SELL, HOLD", input.Signal)
		}
		cfg.SignalFilter = sig
	}

	if input.MaxPrice < 0 {
		return fmt.Errorf("max-price cannot be negative (received %.1f)", input.MaxPrice)
	}
	cfg.MaxPrice = input.MaxPrice

	if input.Window != 0 && (input.Window < 2 || input.Window > schema.MaxGameweek) {
		return fmt.Errorf("window filter must be between 2 and %d (received %d)", schema.MaxGameweek, input.Window)
	}
	cfg.WindowFilter = input.Window

	cfg.SortBy = schema.SortKey(strings.ToLower(strings.TrimSpace(input.SortBy)))
	if cfg.SortBy == "" {
		cfg.SortBy = schema.MomentumSort
	}
	if _, ok := schema.ValidSortKeys[cfg.SortBy]; !ok {
		return fmt.Errorf("invalid sort key '%s'. must be momentum, xg_diff, defcon, price", input.SortBy)
	}

	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// parseSignalThresholdsString parses a string like "buy:0.01,sell:-0.01,rotation-pct:0.25"
// and applies each named cutoff to the thresholds struct.
func parseSignalThresholdsString(s string, t *SignalThresholds) error {
	parts := strings.SplitSeq(s, ",")
	for part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		keyValue := strings.Split(part, ":")
		if len(keyValue) != 2 {
			return fmt.Errorf("invalid threshold format '%s', expected 'name:value'", part)
		}

		name := strings.ToLower(strings.TrimSpace(keyValue[0]))
		valueStr := strings.TrimSpace(keyValue[1])

		value, err := strconv.ParseFloat(valueStr, 64)
		if err != nil {
			return fmt.Errorf("invalid threshold value '%s' for '%s': %w", valueStr, name, err)
		}

		switch name {
		case "buy":
			t.Buy = value
		case "sell":
			t.Sell = value
		case "rotation-pct":
			t.RotationPct = value
		case "rotation-xg-diff":
			t.RotationXGDiff = value
		default:
			return fmt.Errorf("invalid threshold name '%s', must be buy, sell, rotation-pct, or rotation-xg-diff", name)
		}
	}

	return nil
}
