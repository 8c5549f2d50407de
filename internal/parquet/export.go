package parquet

import (
	"time"

	"github.com/k1lgor/fpl-momentum-tracker/schema"
)

// RunRow is the Parquet projection of one momentum analysis run, mirroring
// the momentum_analysis_runs table. EndTime and the fields derived from it
// stay nil for runs that never finished.
type RunRow struct {
	RunID         int64      `parquet:"run_id,snappy"`
	StartTime     time.Time  `parquet:"start_time,snappy"`
	EndTime       *time.Time `parquet:"end_time,optional,snappy"`
	RunDurationMs *int32     `parquet:"run_duration_ms,optional,snappy"`

	// TotalPlayers counts report rows, not distinct players: a player
	// analyzed under three windows contributes three rows.
	TotalPlayers int32 `parquet:"total_players,snappy"`

	// Gameweek is the latest gameweek covered by the run.
	Gameweek int32 `parquet:"gameweek,snappy"`

	// ConfigParams holds the run's JSON-encoded flag values.
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// SignalRow represents the classified signal for one (player, window) pair.
// This struct maps to the momentum_player_signals database table.
type SignalRow struct {
	// RunID references the parent analysis run
	RunID int64 `parquet:"run_id,snappy"`

	// PlayerID is the FPL element id
	PlayerID int32 `parquet:"player_id,snappy"`

	// WebName is the player's display name
	WebName string `parquet:"web_name,snappy"`

	// TeamName is the player's club
	TeamName string `parquet:"team_name,snappy"`

	// Position is the player's position code (GKP, DEF, MID, FWD)
	Position string `parquet:"position,snappy"`

	// WindowSize is the trailing gameweek span of this row
	WindowSize int32 `parquet:"window_size,snappy"`

	// Gameweek is the gameweek the window ends on
	Gameweek int32 `parquet:"gameweek,snappy"`

	// NowCost is the player's price in tenths of a million
	NowCost int32 `parquet:"now_cost,snappy"`

	// RollingXG is the summed expected goals over the window
	RollingXG float64 `parquet:"rolling_xg,snappy"`

	// RollingGoals is the summed goals over the window
	RollingGoals int32 `parquet:"rolling_goals,snappy"`

	// XGDiff is goals minus expected goals over the window
	XGDiff float64 `parquet:"xg_diff,snappy"`

	// GamesPlayedPct is the share of window slots with minutes played
	GamesPlayedPct float64 `parquet:"games_played_pct,snappy"`

	// MinutesPct is minutes played over the window's full allocation
	MinutesPct float64 `parquet:"minutes_pct,snappy"`

	// DefconScore is the defensive-contribution composite over the window
	DefconScore float64 `parquet:"defcon_score,snappy"`

	// Slope is the fitted momentum slope (nullable)
	Slope *float64 `parquet:"slope,optional,snappy"`

	// RSquared is the fit quality (nullable)
	RSquared *float64 `parquet:"r_squared,optional,snappy"`

	// MomentumScore is slope weighted by fit quality (nullable)
	MomentumScore *float64 `parquet:"momentum_score,optional,snappy"`

	// SufficientData indicates whether the fit had enough usable points
	SufficientData bool `parquet:"sufficient_data,snappy"`

	// Signal is the classified action (BUY, SELL, HOLD)
	Signal string `parquet:"signal,snappy"`
}

// WriteRuns exports analysis run records to a Parquet file.
func WriteRuns(runs []schema.AnalysisRunRecord, outputPath string) error {
	rows := make([]RunRow, len(runs))
	for i, r := range runs {
		rows[i] = RunRow{
			RunID:         r.RunID,
			StartTime:     r.StartTime,
			EndTime:       r.EndTime,
			RunDurationMs: r.RunDurationMs,
			TotalPlayers:  r.TotalPlayers,
			Gameweek:      r.Gameweek,
			ConfigParams:  r.ConfigParams,
		}
	}
	return writeRows(rows, outputPath)
}

// MockFetchAnalysisRuns generates sample analysis run data for demonstration.
func MockFetchAnalysisRuns() []schema.AnalysisRunRecord {
	now := time.Now()
	startTime1 := now.Add(-2 * time.Hour)
	endTime1 := startTime1.Add(42 * time.Second)
	durationMs1 := int32(endTime1.Sub(startTime1).Milliseconds())
	configParams1 := `{"windows":"4,6,10","momentum_target":"xgi_per_90","gameweek":21}`

	startTime2 := now.Add(-24 * time.Hour)
	endTime2 := startTime2.Add(38 * time.Second)
	durationMs2 := int32(endTime2.Sub(startTime2).Milliseconds())
	configParams2 := `{"windows":"6","momentum_target":"xg_per_90","gameweek":20}`

	startTime3 := now.Add(-10 * time.Minute)
	// Note: the third run is still in flight, so its nullable fields stay nil

	return []schema.AnalysisRunRecord{
		{
			RunID:         1,
			StartTime:     startTime1,
			EndTime:       &endTime1,
			RunDurationMs: &durationMs1,
			TotalPlayers:  524,
			Gameweek:      21,
			ConfigParams:  &configParams1,
		},
		{
			RunID:         2,
			StartTime:     startTime2,
			EndTime:       &endTime2,
			RunDurationMs: &durationMs2,
			TotalPlayers:  498,
			Gameweek:      20,
			ConfigParams:  &configParams2,
		},
		{
			RunID:     3,
			StartTime: startTime3,
			EndTime:   nil, // Still running - nullable field
			Gameweek:  21,
		},
	}
}

// MockFetchPlayerSignals generates sample player signal data for demonstration.
func MockFetchPlayerSignals() []schema.PlayerSignalRecord {
	slope1, rsq1 := 0.052, 0.88
	momentum1 := slope1 * rsq1

	slope2, rsq2 := -0.064, 0.79
	momentum2 := slope2 * rsq2

	return []schema.PlayerSignalRecord{
		{
			RunID:          1,
			PlayerID:       233,
			WebName:        "Salah",
			TeamName:       "Liverpool",
			Position:       "MID",
			WindowSize:     6,
			Gameweek:       21,
			NowCost:        131,
			RollingXG:      3.42,
			RollingGoals:   5,
			XGDiff:         1.58,
			GamesPlayedPct: 1.0,
			MinutesPct:     0.96,
			DefconScore:    14.5,
			Slope:          &slope1,
			RSquared:       &rsq1,
			MomentumScore:  &momentum1,
			SufficientData: true,
			Signal:         "BUY",
		},
		{
			RunID:          1,
			PlayerID:       427,
			WebName:        "Watkins",
			TeamName:       "Aston Villa",
			Position:       "FWD",
			WindowSize:     6,
			Gameweek:       21,
			NowCost:        89,
			RollingXG:      2.10,
			RollingGoals:   1,
			XGDiff:         -1.10,
			GamesPlayedPct: 0.83,
			MinutesPct:     0.74,
			DefconScore:    9.0,
			Slope:          &slope2,
			RSquared:       &rsq2,
			MomentumScore:  &momentum2,
			SufficientData: true,
			Signal:         "SELL",
		},
		{
			RunID:          1,
			PlayerID:       311,
			WebName:        "Colwill",
			TeamName:       "Chelsea",
			Position:       "DEF",
			WindowSize:     6,
			Gameweek:       21,
			NowCost:        45,
			RollingXG:      0.15,
			RollingGoals:   0,
			XGDiff:         -0.15,
			GamesPlayedPct: 0.33,
			MinutesPct:     0.21,
			DefconScore:    18.75,
			Slope:          nil, // Too few played gameweeks for a fit - nullable fields
			RSquared:       nil,
			MomentumScore:  nil,
			SufficientData: false,
			Signal:         "HOLD",
		},
	}
}

// WriteSignals exports player signal records to a Parquet file.
func WriteSignals(signals []schema.PlayerSignalRecord, outputPath string) error {
	rows := make([]SignalRow, len(signals))
	for i, s := range signals {
		rows[i] = SignalRow{
			RunID:          s.RunID,
			PlayerID:       s.PlayerID,
			WebName:        s.WebName,
			TeamName:       s.TeamName,
			Position:       s.Position,
			WindowSize:     s.WindowSize,
			Gameweek:       s.Gameweek,
			NowCost:        s.NowCost,
			RollingXG:      s.RollingXG,
			RollingGoals:   s.RollingGoals,
			XGDiff:         s.XGDiff,
			GamesPlayedPct: s.GamesPlayedPct,
			MinutesPct:     s.MinutesPct,
			DefconScore:    s.DefconScore,
			Slope:          s.Slope,
			RSquared:       s.RSquared,
			MomentumScore:  s.MomentumScore,
			SufficientData: s.SufficientData,
			Signal:         s.Signal,
		}
	}
	return writeRows(rows, outputPath)
}
