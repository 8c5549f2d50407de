package core

import (
	"github.com/k1lgor/fpl-momentum-tracker/schema"
)

// rollingSums carries the running trailing-window totals while sliding over a
// series. Only gameweeks with minutes played contribute to the sums; a
// zero-minute record still occupies a window slot.
type rollingSums struct {
	played        int
	minutes       int
	goals         int
	assists       int
	cleanSheets   int
	goalsConceded int
	saves         int
	tackles       int
	recoveries    int
	cbi           int
	xg            float64
	xa            float64
	xgi           float64
	xgc           float64
}

func (s *rollingSums) add(r schema.PerformanceRecord) {
	if !r.Played() {
		return
	}
	s.played++
	s.minutes += r.Minutes
	s.goals += r.GoalsScored
	s.assists += r.Assists
	s.cleanSheets += r.CleanSheets
	s.goalsConceded += r.GoalsConceded
	s.saves += r.Saves
	s.tackles += r.Tackles
	s.recoveries += r.Recoveries
	s.cbi += r.CBI
	s.xg += r.ExpectedGoals
	s.xa += r.ExpectedAssists
	s.xgi += r.ExpectedGoalInvolvements
	s.xgc += r.ExpectedGoalsConceded
}

func (s *rollingSums) remove(r schema.PerformanceRecord) {
	if !r.Played() {
		return
	}
	s.played--
	s.minutes -= r.Minutes
	s.goals -= r.GoalsScored
	s.assists -= r.Assists
	s.cleanSheets -= r.CleanSheets
	s.goalsConceded -= r.GoalsConceded
	s.saves -= r.Saves
	s.tackles -= r.Tackles
	s.recoveries -= r.Recoveries
	s.cbi -= r.CBI
	s.xg -= r.ExpectedGoals
	s.xa -= r.ExpectedAssists
	s.xgi -= r.ExpectedGoalInvolvements
	s.xgc -= r.ExpectedGoalsConceded
}

// snapshot freezes the current sums into the stat row for one gameweek.
func (s *rollingSums) snapshot(r schema.PerformanceRecord, window int) schema.RollingWindowStats {
	stats := schema.RollingWindowStats{
		PlayerID:   r.PlayerID,
		WindowSize: window,
		Gameweek:   r.Gameweek,

		GamesPlayed:    s.played,
		GamesPlayedPct: float64(s.played) / float64(window),

		RollingMinutes:       s.minutes,
		RollingGoals:         s.goals,
		RollingAssists:       s.assists,
		RollingCleanSheets:   s.cleanSheets,
		RollingGoalsConceded: s.goalsConceded,
		RollingSaves:         s.saves,
		RollingTackles:       s.tackles,
		RollingRecoveries:    s.recoveries,
		RollingCBI:           s.cbi,

		RollingXG:  s.xg,
		RollingXA:  s.xa,
		RollingXGI: s.xgi,
		RollingXGC: s.xgc,
	}

	stats.XGDiff = float64(s.goals) - s.xg
	stats.MinutesPct = float64(s.minutes) / float64(window*90)
	stats.DefconScore = float64(s.tackles) + float64(s.recoveries)/4.0 + float64(s.cbi)

	stats.XGPer90 = per90(s.xg, s.minutes)
	stats.XAPer90 = per90(s.xa, s.minutes)
	stats.XGIPer90 = per90(s.xgi, s.minutes)
	stats.XGDiffPer90 = per90(stats.XGDiff, s.minutes)
	stats.DefconPer90 = per90(stats.DefconScore, s.minutes)

	return stats
}

// per90 scales a windowed total to a per-90-minute rate. A window with no
// minutes yields 0 rather than dividing by zero.
func per90(value float64, minutes int) float64 {
	if minutes == 0 {
		return 0
	}
	return value * 90 / float64(minutes)
}

// ComputeRollingStats returns the trailing-window aggregates at every
// gameweek of a validated series. The window holds the last `window` records
// regardless of whether the player saw the pitch in them, so a benched spell
// drags the rates down instead of silently shrinking the sample.
func ComputeRollingStats(records []schema.PerformanceRecord, window int) []schema.RollingWindowStats {
	if len(records) == 0 || window <= 0 {
		return nil
	}

	stats := make([]schema.RollingWindowStats, 0, len(records))
	var sums rollingSums
	for i, rec := range records {
		sums.add(rec)
		if i >= window {
			sums.remove(records[i-window])
		}
		stats = append(stats, sums.snapshot(rec, window))
	}
	return stats
}
