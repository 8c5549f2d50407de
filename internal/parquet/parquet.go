// Package parquet provides data structures and functions for persisting
// fpltracker datasets and exports as Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/k1lgor/fpl-momentum-tracker/schema"
)

// Dataset file names under the configured data directory. fetch writes the
// first two, analyze writes the third.
const (
	PlayersFile  = "players.parquet"
	HistoryFile  = "gameweek_history.parquet"
	AnalysisFile = "momentum_analysis.parquet"
)

// PlayersPath returns the players dataset path under dataDir.
func PlayersPath(dataDir string) string {
	return filepath.Join(dataDir, PlayersFile)
}

// HistoryPath returns the gameweek history dataset path under dataDir.
func HistoryPath(dataDir string) string {
	return filepath.Join(dataDir, HistoryFile)
}

// AnalysisPath returns the analysis dataset path under dataDir.
func AnalysisPath(dataDir string) string {
	return filepath.Join(dataDir, AnalysisFile)
}

// readBatchSize bounds one Read call so large datasets stream in chunks.
const readBatchSize = 4096

// writeRows writes rows to a Parquet file using struct schema inference.
// The schema is automatically derived from the row type's struct tags.
func writeRows[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		_ = file.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	// The footer lands on Close, so its error is load-bearing.
	if err := writer.Close(); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return file.Close()
}

// readRows reads every row of a Parquet file written by writeRows.
func readRows[T any](inputPath string) ([]T, error) {
	file, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[T](file)
	defer func() { _ = reader.Close() }()

	out := make([]T, 0, reader.NumRows())
	buf := make([]T, readBatchSize)
	for {
		n, err := reader.Read(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}
	return out, nil
}

// PlayerRow maps one bootstrap player to the players dataset.
type PlayerRow struct {
	PlayerID   int32  `parquet:"player_id,snappy"`
	FirstName  string `parquet:"first_name,snappy"`
	SecondName string `parquet:"second_name,snappy"`
	WebName    string `parquet:"web_name,snappy"`
	TeamID     int32  `parquet:"team_id,snappy"`
	TeamName   string `parquet:"team_name,snappy"`
	Position   string `parquet:"position,snappy"`
	NowCost    int32  `parquet:"now_cost,snappy"`
	Status     string `parquet:"status,snappy"`
}

// HistoryRow maps one player-gameweek stat line to the history dataset.
type HistoryRow struct {
	PlayerID                 int32   `parquet:"player_id,snappy"`
	Gameweek                 int32   `parquet:"gameweek,snappy"`
	Minutes                  int32   `parquet:"minutes,snappy"`
	GoalsScored              int32   `parquet:"goals_scored,snappy"`
	Assists                  int32   `parquet:"assists,snappy"`
	CleanSheets              int32   `parquet:"clean_sheets,snappy"`
	GoalsConceded            int32   `parquet:"goals_conceded,snappy"`
	Saves                    int32   `parquet:"saves,snappy"`
	Tackles                  int32   `parquet:"tackles,snappy"`
	Recoveries               int32   `parquet:"recoveries,snappy"`
	CBI                      int32   `parquet:"clearances_blocks_interceptions,snappy"`
	ExpectedGoals            float64 `parquet:"expected_goals,snappy"`
	ExpectedAssists          float64 `parquet:"expected_assists,snappy"`
	ExpectedGoalInvolvements float64 `parquet:"expected_goal_involvements,snappy"`
	ExpectedGoalsConceded    float64 `parquet:"expected_goals_conceded,snappy"`
}

// AnalysisRow maps one (player, window) report row to the analysis dataset.
// The momentum fields are nullable, mirroring insufficient-data rows.
type AnalysisRow struct {
	PlayerID   int32  `parquet:"player_id,snappy"`
	WebName    string `parquet:"web_name,snappy"`
	TeamName   string `parquet:"team_name,snappy"`
	Position   string `parquet:"position,snappy"`
	NowCost    int32  `parquet:"now_cost,snappy"`
	WindowSize int32  `parquet:"window_size,snappy"`
	Gameweek   int32  `parquet:"gameweek,snappy"`

	RollingXG            float64 `parquet:"rolling_xg,snappy"`
	RollingXA            float64 `parquet:"rolling_xa,snappy"`
	RollingXGI           float64 `parquet:"rolling_xgi,snappy"`
	RollingXGC           float64 `parquet:"rolling_xgc,snappy"`
	RollingGoals         int32   `parquet:"rolling_goals,snappy"`
	RollingAssists       int32   `parquet:"rolling_assists,snappy"`
	RollingCleanSheets   int32   `parquet:"rolling_clean_sheets,snappy"`
	RollingGoalsConceded int32   `parquet:"rolling_goals_conceded,snappy"`
	RollingSaves         int32   `parquet:"rolling_saves,snappy"`
	RollingMinutes       int32   `parquet:"rolling_minutes,snappy"`

	GamesPlayed    int32   `parquet:"games_played,snappy"`
	GamesPlayedPct float64 `parquet:"games_played_pct,snappy"`
	MinutesPct     float64 `parquet:"minutes_pct,snappy"`

	XGDiff      float64 `parquet:"xg_diff,snappy"`
	XGPer90     float64 `parquet:"xg_per_90,snappy"`
	XGIPer90    float64 `parquet:"xgi_per_90,snappy"`
	XGDiffPer90 float64 `parquet:"xg_diff_per_90,snappy"`
	DefconScore float64 `parquet:"defcon_score,snappy"`
	DefconPer90 float64 `parquet:"defcon_per_90,snappy"`

	Slope          *float64 `parquet:"slope,optional,snappy"`
	RSquared       *float64 `parquet:"r_squared,optional,snappy"`
	MomentumScore  *float64 `parquet:"momentum_score,optional,snappy"`
	SufficientData bool     `parquet:"sufficient_data,snappy"`

	Signal string `parquet:"signal,snappy"`
}

// WritePlayers writes the bootstrap player pool dataset.
func WritePlayers(players []schema.Player, outputPath string) error {
	rows := make([]PlayerRow, len(players))
	for i, p := range players {
		rows[i] = PlayerRow{
			PlayerID:   int32(p.ID),
			FirstName:  p.FirstName,
			SecondName: p.SecondName,
			WebName:    p.WebName,
			TeamID:     int32(p.TeamID),
			TeamName:   p.TeamName,
			Position:   string(p.Position),
			NowCost:    int32(p.NowCost),
			Status:     p.Status,
		}
	}
	return writeRows(rows, outputPath)
}

// ReadPlayers reads the bootstrap player pool dataset.
func ReadPlayers(inputPath string) ([]schema.Player, error) {
	rows, err := readRows[PlayerRow](inputPath)
	if err != nil {
		return nil, err
	}
	players := make([]schema.Player, len(rows))
	for i, r := range rows {
		players[i] = schema.Player{
			ID:         int(r.PlayerID),
			FirstName:  r.FirstName,
			SecondName: r.SecondName,
			WebName:    r.WebName,
			TeamID:     int(r.TeamID),
			TeamName:   r.TeamName,
			Position:   schema.Position(r.Position),
			NowCost:    int(r.NowCost),
			Status:     r.Status,
		}
	}
	return players, nil
}

// WriteHistory flattens per-player series into the gameweek history dataset.
func WriteHistory(pool []schema.PlayerSeries, outputPath string) error {
	total := 0
	for _, s := range pool {
		total += len(s.Records)
	}
	rows := make([]HistoryRow, 0, total)
	for _, s := range pool {
		for _, r := range s.Records {
			rows = append(rows, HistoryRow{
				PlayerID:                 int32(r.PlayerID),
				Gameweek:                 int32(r.Gameweek),
				Minutes:                  int32(r.Minutes),
				GoalsScored:              int32(r.GoalsScored),
				Assists:                  int32(r.Assists),
				CleanSheets:              int32(r.CleanSheets),
				GoalsConceded:            int32(r.GoalsConceded),
				Saves:                    int32(r.Saves),
				Tackles:                  int32(r.Tackles),
				Recoveries:               int32(r.Recoveries),
				CBI:                      int32(r.CBI),
				ExpectedGoals:            r.ExpectedGoals,
				ExpectedAssists:          r.ExpectedAssists,
				ExpectedGoalInvolvements: r.ExpectedGoalInvolvements,
				ExpectedGoalsConceded:    r.ExpectedGoalsConceded,
			})
		}
	}
	return writeRows(rows, outputPath)
}

// ReadHistory reads the gameweek history dataset back, grouped by player id.
// Row order within each player is preserved from the write.
func ReadHistory(inputPath string) (map[int][]schema.PerformanceRecord, error) {
	rows, err := readRows[HistoryRow](inputPath)
	if err != nil {
		return nil, err
	}
	histories := make(map[int][]schema.PerformanceRecord)
	for _, r := range rows {
		rec := schema.PerformanceRecord{
			PlayerID:                 int(r.PlayerID),
			Gameweek:                 int(r.Gameweek),
			Minutes:                  int(r.Minutes),
			GoalsScored:              int(r.GoalsScored),
			Assists:                  int(r.Assists),
			CleanSheets:              int(r.CleanSheets),
			GoalsConceded:            int(r.GoalsConceded),
			Saves:                    int(r.Saves),
			Tackles:                  int(r.Tackles),
			Recoveries:               int(r.Recoveries),
			CBI:                      int(r.CBI),
			ExpectedGoals:            r.ExpectedGoals,
			ExpectedAssists:          r.ExpectedAssists,
			ExpectedGoalInvolvements: r.ExpectedGoalInvolvements,
			ExpectedGoalsConceded:    r.ExpectedGoalsConceded,
		}
		histories[rec.PlayerID] = append(histories[rec.PlayerID], rec)
	}
	return histories, nil
}

// WriteAnalysis writes the analysis dataset produced by an analyze run.
func WriteAnalysis(analyses []schema.PlayerAnalysis, outputPath string) error {
	rows := make([]AnalysisRow, len(analyses))
	for i, a := range analyses {
		rows[i] = AnalysisRow{
			PlayerID:   int32(a.PlayerID),
			WebName:    a.WebName,
			TeamName:   a.TeamName,
			Position:   string(a.Position),
			NowCost:    int32(a.NowCost),
			WindowSize: int32(a.WindowSize),
			Gameweek:   int32(a.Gameweek),

			RollingXG:            a.RollingXG,
			RollingXA:            a.RollingXA,
			RollingXGI:           a.RollingXGI,
			RollingXGC:           a.RollingXGC,
			RollingGoals:         int32(a.RollingGoals),
			RollingAssists:       int32(a.RollingAssists),
			RollingCleanSheets:   int32(a.RollingCleanSheets),
			RollingGoalsConceded: int32(a.RollingGoalsConceded),
			RollingSaves:         int32(a.RollingSaves),
			RollingMinutes:       int32(a.RollingMinutes),

			GamesPlayed:    int32(a.GamesPlayed),
			GamesPlayedPct: a.GamesPlayedPct,
			MinutesPct:     a.MinutesPct,

			XGDiff:      a.XGDiff,
			XGPer90:     a.XGPer90,
			XGIPer90:    a.XGIPer90,
			XGDiffPer90: a.XGDiffPer90,
			DefconScore: a.DefconScore,
			DefconPer90: a.DefconPer90,

			Slope:          a.Slope,
			RSquared:       a.RSquared,
			MomentumScore:  a.MomentumScore,
			SufficientData: a.SufficientData,

			Signal: string(a.Signal),
		}
	}
	return writeRows(rows, outputPath)
}

// ReadAnalysis reads the analysis dataset back into report rows.
func ReadAnalysis(inputPath string) ([]schema.PlayerAnalysis, error) {
	rows, err := readRows[AnalysisRow](inputPath)
	if err != nil {
		return nil, err
	}
	analyses := make([]schema.PlayerAnalysis, len(rows))
	for i, r := range rows {
		analyses[i] = schema.PlayerAnalysis{
			PlayerID:   int(r.PlayerID),
			WebName:    r.WebName,
			TeamName:   r.TeamName,
			Position:   schema.Position(r.Position),
			NowCost:    int(r.NowCost),
			WindowSize: int(r.WindowSize),
			Gameweek:   int(r.Gameweek),

			RollingXG:            r.RollingXG,
			RollingXA:            r.RollingXA,
			RollingXGI:           r.RollingXGI,
			RollingXGC:           r.RollingXGC,
			RollingGoals:         int(r.RollingGoals),
			RollingAssists:       int(r.RollingAssists),
			RollingCleanSheets:   int(r.RollingCleanSheets),
			RollingGoalsConceded: int(r.RollingGoalsConceded),
			RollingSaves:         int(r.RollingSaves),
			RollingMinutes:       int(r.RollingMinutes),

			GamesPlayed:    int(r.GamesPlayed),
			GamesPlayedPct: r.GamesPlayedPct,
			MinutesPct:     r.MinutesPct,

			XGDiff:      r.XGDiff,
			XGPer90:     r.XGPer90,
			XGIPer90:    r.XGIPer90,
			XGDiffPer90: r.XGDiffPer90,
			DefconScore: r.DefconScore,
			DefconPer90: r.DefconPer90,

			Slope:          r.Slope,
			RSquared:       r.RSquared,
			MomentumScore:  r.MomentumScore,
			SufficientData: r.SufficientData,

			Signal: schema.Signal(r.Signal),
		}
	}
	return analyses, nil
}
