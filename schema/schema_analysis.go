package schema

// PlayerAnalysis is one report row: a player's latest rolling stats for a
// single window size joined with bootstrap metadata, the momentum fit and
// the classified signal. Momentum fields are nil when the series had fewer
// than three usable points.
type PlayerAnalysis struct {
	PlayerID   int      `json:"player_id"`
	WebName    string   `json:"web_name"`
	TeamName   string   `json:"team_name"`
	Position   Position `json:"position"`
	NowCost    int      `json:"now_cost"`
	WindowSize int      `json:"window_size"`
	Gameweek   int      `json:"gameweek"`

	RollingXG            float64 `json:"rolling_xg"`
	RollingXA            float64 `json:"rolling_xa"`
	RollingXGI           float64 `json:"rolling_xgi"`
	RollingXGC           float64 `json:"rolling_xgc"`
	RollingGoals         int     `json:"rolling_goals"`
	RollingAssists       int     `json:"rolling_assists"`
	RollingCleanSheets   int     `json:"rolling_clean_sheets"`
	RollingGoalsConceded int     `json:"rolling_goals_conceded"`
	RollingSaves         int     `json:"rolling_saves"`
	RollingMinutes       int     `json:"rolling_minutes"`

	GamesPlayed    int     `json:"games_played"`
	GamesPlayedPct float64 `json:"games_played_pct"`
	MinutesPct     float64 `json:"minutes_pct"`

	XGDiff      float64 `json:"xg_diff"`
	XGPer90     float64 `json:"xg_per_90"`
	XGIPer90    float64 `json:"xgi_per_90"`
	XGDiffPer90 float64 `json:"xg_diff_per_90"`
	DefconScore float64 `json:"defcon_score"`
	DefconPer90 float64 `json:"defcon_per_90"`

	Slope          *float64 `json:"slope"`
	RSquared       *float64 `json:"r_squared"`
	MomentumScore  *float64 `json:"momentum_score"`
	SufficientData bool     `json:"sufficient_data"`

	Signal Signal `json:"signal"`
}

// MomentumOrZero returns the momentum score and whether the fit was valid.
func (p PlayerAnalysis) MomentumOrZero() (float64, bool) {
	if p.MomentumScore == nil {
		return 0, false
	}
	return *p.MomentumScore, true
}

// SeriesIssue describes a player series rejected during validation.
// The batch continues without the offending player. The reason text
// names the gameweek where the violation was found.
type SeriesIssue struct {
	PlayerID int    `json:"player_id"`
	WebName  string `json:"web_name,omitempty"`
	Reason   string `json:"reason"`
}

// AnalysisResult is the full outcome of one analysis pass over a player pool.
type AnalysisResult struct {
	Rows     []PlayerAnalysis `json:"rows"`
	Skipped  []SeriesIssue    `json:"skipped,omitempty"`
	Gameweek int              `json:"gameweek"` // latest gameweek seen in the input
}
