package schema

import "time"

// AnalysisRunRecord represents a row from the momentum_analysis_runs table.
type AnalysisRunRecord struct {
	RunID         int64
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	TotalPlayers  int32
	Gameweek      int32
	ConfigParams  *string // JSON blob of the effective analysis settings
}

// PlayerSignalRecord represents a row from the momentum_player_signals table.
type PlayerSignalRecord struct {
	RunID          int64
	PlayerID       int32
	WebName        string
	TeamName       string
	Position       string
	WindowSize     int32
	Gameweek       int32
	NowCost        int32
	RollingXG      float64
	RollingGoals   int32
	XGDiff         float64
	GamesPlayedPct float64
	MinutesPct     float64
	DefconScore    float64
	Slope          *float64
	RSquared       *float64
	MomentumScore  *float64
	SufficientData bool
	Signal         string
}
