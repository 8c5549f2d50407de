package core

import (
	"slices"
	"sort"
	"strings"

	"github.com/k1lgor/fpl-momentum-tracker/internal/contract"
	"github.com/k1lgor/fpl-momentum-tracker/schema"
)

// positionRank orders positions the way squads are listed: keepers first,
// forwards last.
var positionRank = map[schema.Position]int{
	schema.Goalkeeper: 0,
	schema.Defender:   1,
	schema.Midfielder: 2,
	schema.Forward:    3,
}

// FilterPlayers applies the position, team and price filters to the player
// pool and orders it by position, then price descending.
func FilterPlayers(players []schema.Player, cfg *contract.Config) []schema.Player {
	out := make([]schema.Player, 0, len(players))
	for _, p := range players {
		if len(cfg.PositionFilter) > 0 && !slices.Contains(cfg.PositionFilter, p.Position) {
			continue
		}
		if cfg.TeamFilter != "" && !strings.EqualFold(p.TeamName, cfg.TeamFilter) {
			continue
		}
		if cfg.MaxPrice > 0 && float64(p.NowCost)/10.0 > cfg.MaxPrice {
			continue
		}
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if positionRank[a.Position] != positionRank[b.Position] {
			return positionRank[a.Position] < positionRank[b.Position]
		}
		if a.NowCost != b.NowCost {
			return a.NowCost > b.NowCost
		}
		return a.ID < b.ID
	})
	return out
}
