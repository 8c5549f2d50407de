package core

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/k1lgor/fpl-momentum-tracker/internal/contract"
	"github.com/k1lgor/fpl-momentum-tracker/schema"
)

// FetchOutput is the result of a full pool download: the bootstrap player
// list, one gameweek series per player whose history fetch succeeded, and
// the current gameweek.
type FetchOutput struct {
	Players  []schema.Player
	Pool     []schema.PlayerSeries
	Gameweek int
	Failed   int
}

// historyResult pairs one player with their fetched series (or the error).
type historyResult struct {
	player  schema.Player
	records []schema.PerformanceRecord
	err     error
}

// fetchPool downloads the bootstrap pool and every player's gameweek history
// using a bounded worker pool. A failed history fetch drops that player with
// a warning; the rest of the pool continues.
func fetchPool(ctx context.Context, cfg *contract.Config, client contract.FPLClient, mgr contract.StoreManager) (*FetchOutput, error) {
	// --- 1. Bootstrap Pool (with caching) ---
	players, err := cachedFetchPlayers(ctx, cfg, client, mgr)
	if err != nil {
		return nil, err
	}

	gameweek, err := client.GetCurrentGameweek(ctx)
	if err != nil {
		return nil, err
	}

	// --- 2. Per-Player Histories ---
	playerCh := make(chan schema.Player, len(players))
	resultCh := make(chan historyResult, len(players))
	var wg sync.WaitGroup

	for range cfg.FetchWorkers {
		wg.Go(func() {
			for p := range playerCh {
				records, err := cachedFetchHistory(ctx, cfg, client, mgr, p.ID)
				resultCh <- historyResult{player: p, records: records, err: err}
			}
		})
	}

	for _, p := range players {
		playerCh <- p
	}
	close(playerCh)

	wg.Wait()
	close(resultCh)

	// --- 3. Collect Series, Dropping Failures ---
	output := &FetchOutput{Players: players, Gameweek: gameweek}
	for r := range resultCh {
		if r.err != nil {
			contract.LogWarn(fmt.Sprintf("History fetch failed for %s (id %d)", r.player.WebName, r.player.ID), r.err)
			output.Failed++
			continue
		}
		output.Pool = append(output.Pool, schema.PlayerSeries{Player: r.player, Records: r.records})
	}

	// Worker completion order is nondeterministic; fix it before writing.
	sort.Slice(output.Pool, func(i, j int) bool {
		return output.Pool[i].Player.ID < output.Pool[j].Player.ID
	})

	return output, nil
}
