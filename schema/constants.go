package schema

// Custom string types for type safety.
type (
	// Signal represents a transfer recommendation.
	Signal string

	// Position represents an FPL element position.
	Position string

	// MomentumTarget represents the per-game metric the momentum fit runs on.
	MomentumTarget string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for storage.
	DatabaseBackend string

	// SortKey represents the column a report is ordered by.
	SortKey string
)

// All signals supported.
const (
	BuySignal  Signal = "BUY"
	SellSignal Signal = "SELL"
	HoldSignal Signal = "HOLD" // default
)

// All element positions supported.
const (
	Goalkeeper Position = "GKP"
	Defender   Position = "DEF"
	Midfielder Position = "MID"
	Forward    Position = "FWD"
)

// All momentum targets supported.
const (
	XGIPer90Target    MomentumTarget = "xgi_per_90" // default
	XGPer90Target     MomentumTarget = "xg_per_90"
	XGDiffPer90Target MomentumTarget = "xg_diff_per_90"
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All sort keys supported.
const (
	MomentumSort SortKey = "momentum" // default
	XGDiffSort   SortKey = "xg_diff"
	DefconSort   SortKey = "defcon"
	PriceSort    SortKey = "price"
)

// MinMomentumSamples is the minimum number of usable points a metric series
// needs before a regression fit is attempted.
const MinMomentumSamples = 3

// MaxGameweek is the last gameweek of a Premier League season.
const MaxGameweek = 38

// DefaultWindowSizes are the trailing gameweek spans analyzed when none are configured.
var DefaultWindowSizes = []int{4, 6, 10}

// DefaultFetchStatuses are the availability codes kept when building the player pool.
var DefaultFetchStatuses = []string{"a", "d", "n"}

// ValidFetchStatuses lists the availability codes the FPL API uses:
// available, doubtful, injured, on loan, suspended, unavailable.
var ValidFetchStatuses = map[string]struct{}{
	"a": {},
	"d": {},
	"i": {},
	"n": {},
	"s": {},
	"u": {},
}

// AllSignals returns a list of all supported signals.
var AllSignals = []Signal{
	BuySignal,
	SellSignal,
	HoldSignal,
}

// AllPositions returns a list of all supported positions.
var AllPositions = []Position{
	Goalkeeper,
	Defender,
	Midfielder,
	Forward,
}

// ValidSignals lists all valid signals.
var ValidSignals = map[Signal]struct{}{
	BuySignal:  {},
	SellSignal: {},
	HoldSignal: {},
}

// ValidPositions lists all valid positions.
var ValidPositions = map[Position]struct{}{
	Goalkeeper: {},
	Defender:   {},
	Midfielder: {},
	Forward:    {},
}

// ValidMomentumTargets lists all valid momentum targets.
var ValidMomentumTargets = map[MomentumTarget]struct{}{
	XGIPer90Target:    {},
	XGPer90Target:     {},
	XGDiffPer90Target: {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidSortKeys lists all valid sort keys.
var ValidSortKeys = map[SortKey]struct{}{
	MomentumSort: {},
	XGDiffSort:   {},
	DefconSort:   {},
	PriceSort:    {},
}

// PositionFromElementType maps a bootstrap element_type code to a position.
func PositionFromElementType(elementType int) (Position, bool) {
	switch elementType {
	case 1:
		return Goalkeeper, true
	case 2:
		return Defender, true
	case 3:
		return Midfielder, true
	case 4:
		return Forward, true
	default:
		return "", false
	}
}
