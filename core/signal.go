package core

import (
	"github.com/k1lgor/fpl-momentum-tracker/internal/contract"
	"github.com/k1lgor/fpl-momentum-tracker/schema"
)

// Classify applies the ordered signal rules to one (player, window) row.
// Rules are first-match:
//
//  1. Rotation risk: barely playing while overperforming xG. The hot streak
//     is not backed by minutes, so sell into the price peak.
//  2. Falling momentum below the sell cutoff.
//  3. Rising momentum above the buy cutoff.
//  4. Everything else holds, including series too short to fit a trend and
//     scores sitting exactly on a cutoff.
func Classify(stats schema.RollingWindowStats, momentum schema.MomentumScore, t contract.SignalThresholds) schema.Signal {
	if stats.GamesPlayedPct < t.RotationPct && stats.XGDiff > t.RotationXGDiff {
		return schema.SellSignal
	}
	if momentum.Valid {
		if momentum.Score < t.Sell {
			return schema.SellSignal
		}
		if momentum.Score > t.Buy {
			return schema.BuySignal
		}
	}
	return schema.HoldSignal
}
