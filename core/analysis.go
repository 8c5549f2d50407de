package core

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/k1lgor/fpl-momentum-tracker/internal/contract"
	"github.com/k1lgor/fpl-momentum-tracker/internal/outwriter"
	"github.com/k1lgor/fpl-momentum-tracker/schema"
)

// runAnalysisCore performs the common Tracking, Analysis, and Recording steps
// over an assembled player pool.
func runAnalysisCore(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, pool []schema.PlayerSeries) (*schema.AnalysisResult, error) {
	if !shouldSuppressHeader(ctx) {
		outwriter.LogAnalysisHeader(cfg, len(pool))
	}

	// --- 0. Begin Analysis Tracking (if configured) ---
	var analysisID int64
	var analysisStore contract.AnalysisStore
	if mgr != nil {
		analysisStore = mgr.GetAnalysisStore()
	}
	if analysisStore != nil {
		startTime := time.Now()
		var err error
		analysisID, err = analysisStore.BeginAnalysis(startTime, cfg.ConfigParams())
		if err != nil {
			contract.LogWarn("Analysis tracking initialization failed", err)
		}
	}

	// --- 1. Rolling Analysis ---
	result := AnalyzePool(cfg, pool)

	// --- 2. Record Signals (if configured) ---
	if analysisStore != nil && analysisID > 0 {
		if err := analysisStore.RecordPlayerSignals(analysisID, result.Rows); err != nil {
			contract.LogWarn("Failed to record player signals", err)
		}
	}

	// --- 3. End Analysis Tracking ---
	if analysisStore != nil && analysisID > 0 {
		endTime := time.Now()
		if err := analysisStore.EndAnalysis(analysisID, endTime, len(result.Rows), result.Gameweek); err != nil {
			contract.LogWarn("Failed to finalize analysis tracking", err)
		}
	}

	return result, nil
}

// seriesOutcome carries one player's analyzed rows, or the reason the
// series was skipped.
type seriesOutcome struct {
	rows  []schema.PlayerAnalysis
	issue *schema.SeriesIssue
}

// AnalyzePool processes all player series in parallel using a worker pool.
// It spawns cfg.Workers goroutines, each running the full rolling-window,
// momentum and signal computation for its players, and merges their rows
// into a single canonically ordered result.
func AnalyzePool(cfg *contract.Config, pool []schema.PlayerSeries) *schema.AnalysisResult {
	result := &schema.AnalysisResult{}
	if len(pool) == 0 {
		return result
	}

	seriesCh := make(chan schema.PlayerSeries, len(pool))
	outcomeCh := make(chan seriesOutcome, len(pool))
	var wg sync.WaitGroup

	for range cfg.Workers {
		wg.Go(func() {
			for s := range seriesCh {
				rows, issue := analyzePlayerSeries(cfg, s)
				outcomeCh <- seriesOutcome{rows: rows, issue: issue}
			}
		})
	}

	for _, s := range pool {
		seriesCh <- s
	}
	close(seriesCh)

	wg.Wait()
	close(outcomeCh)

	for o := range outcomeCh {
		if o.issue != nil {
			result.Skipped = append(result.Skipped, *o.issue)
			continue
		}
		for _, row := range o.rows {
			if row.Gameweek > result.Gameweek {
				result.Gameweek = row.Gameweek
			}
		}
		result.Rows = append(result.Rows, o.rows...)
	}

	SortRows(result.Rows)
	sort.Slice(result.Skipped, func(i, j int) bool {
		return result.Skipped[i].PlayerID < result.Skipped[j].PlayerID
	})

	return result
}

// analyzePlayerSeries runs every configured window over one player's series.
// A validation failure rejects the whole series; the caller keeps going.
func analyzePlayerSeries(cfg *contract.Config, s schema.PlayerSeries) ([]schema.PlayerAnalysis, *schema.SeriesIssue) {
	records := s.Records
	if cfg.Gameweek > 0 {
		records = truncateToGameweek(records, cfg.Gameweek)
	}
	if len(records) == 0 {
		return nil, nil // nothing to analyze yet
	}

	if err := ValidateSeries(records); err != nil {
		return nil, &schema.SeriesIssue{
			PlayerID: s.Player.ID,
			WebName:  s.Player.WebName,
			Reason:   err.Error(),
		}
	}

	rows := make([]schema.PlayerAnalysis, 0, len(cfg.Windows))
	for _, window := range cfg.Windows {
		stats := ComputeRollingStats(records, window)
		latest := stats[len(stats)-1]

		// A window with no played games has nothing to fit a trend
		// through. The row still appears, with null momentum.
		var momentum schema.MomentumScore
		if latest.GamesPlayed > 0 {
			momentum = Momentum(MetricSeries(records, window, cfg.MomentumTarget))
		}
		signal := Classify(latest, momentum, cfg.Thresholds)
		rows = append(rows, buildAnalysisRow(s.Player, latest, momentum, signal))
	}
	return rows, nil
}

// truncateToGameweek drops records after the requested gameweek, so a past
// round can be re-analyzed from a full-season dataset.
func truncateToGameweek(records []schema.PerformanceRecord, gameweek int) []schema.PerformanceRecord {
	out := make([]schema.PerformanceRecord, 0, len(records))
	for _, r := range records {
		if r.Gameweek <= gameweek {
			out = append(out, r)
		}
	}
	return out
}

// buildAnalysisRow joins player metadata, the latest window stats and the
// momentum fit into one report row.
func buildAnalysisRow(p schema.Player, stats schema.RollingWindowStats, momentum schema.MomentumScore, signal schema.Signal) schema.PlayerAnalysis {
	row := schema.PlayerAnalysis{
		PlayerID:   p.ID,
		WebName:    schema.DisplayName(p),
		TeamName:   p.TeamName,
		Position:   p.Position,
		NowCost:    p.NowCost,
		WindowSize: stats.WindowSize,
		Gameweek:   stats.Gameweek,

		RollingXG:            stats.RollingXG,
		RollingXA:            stats.RollingXA,
		RollingXGI:           stats.RollingXGI,
		RollingXGC:           stats.RollingXGC,
		RollingGoals:         stats.RollingGoals,
		RollingAssists:       stats.RollingAssists,
		RollingCleanSheets:   stats.RollingCleanSheets,
		RollingGoalsConceded: stats.RollingGoalsConceded,
		RollingSaves:         stats.RollingSaves,
		RollingMinutes:       stats.RollingMinutes,

		GamesPlayed:    stats.GamesPlayed,
		GamesPlayedPct: stats.GamesPlayedPct,
		MinutesPct:     stats.MinutesPct,

		XGDiff:      stats.XGDiff,
		XGPer90:     stats.XGPer90,
		XGIPer90:    stats.XGIPer90,
		XGDiffPer90: stats.XGDiffPer90,
		DefconScore: stats.DefconScore,
		DefconPer90: stats.DefconPer90,

		Signal: signal,
	}
	if momentum.Valid {
		slope, rsq, score := momentum.Slope, momentum.RSquared, momentum.Score
		row.Slope = &slope
		row.RSquared = &rsq
		row.MomentumScore = &score
		row.SufficientData = true
	}
	return row
}
