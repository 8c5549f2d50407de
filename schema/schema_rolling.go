package schema

// RollingWindowStats are the trailing-window aggregates for one player at one
// gameweek. Sums cover only gameweeks with minutes played; zero-minute games
// still occupy a slot in the window span.
type RollingWindowStats struct {
	PlayerID   int
	WindowSize int
	Gameweek   int

	GamesPlayed    int
	GamesPlayedPct float64 // games played over the configured window size

	RollingMinutes       int
	RollingGoals         int
	RollingAssists       int
	RollingCleanSheets   int
	RollingGoalsConceded int
	RollingSaves         int
	RollingTackles       int
	RollingRecoveries    int
	RollingCBI           int

	RollingXG  float64
	RollingXA  float64
	RollingXGI float64
	RollingXGC float64

	XGDiff      float64 // rolling goals minus rolling xG, positive means overperformance
	MinutesPct  float64 // rolling minutes over the full window at 90 per game
	DefconScore float64 // tackles + recoveries/4 + CBI over the window

	XGPer90     float64
	XAPer90     float64
	XGIPer90    float64
	XGDiffPer90 float64
	DefconPer90 float64
}
