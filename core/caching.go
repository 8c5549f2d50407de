package core

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/k1lgor/fpl-momentum-tracker/internal/contract"
	"github.com/k1lgor/fpl-momentum-tracker/schema"
)

// currentCacheVersion defines the version of the cache schema
const currentCacheVersion = 1

// cacheTTL bounds how long an API response stays usable. FPL stats settle
// within hours of a deadline, so anything older than this is refetched.
const cacheTTL = 6 * time.Hour

// cachedFetchPlayers wraps the bootstrap pool fetch with the response cache.
func cachedFetchPlayers(ctx context.Context, cfg *contract.Config, client contract.FPLClient, mgr contract.StoreManager) ([]schema.Player, error) {
	store := responseStore(cfg, mgr)
	if store == nil {
		return client.GetPlayers(ctx)
	}

	key := generateCacheKey(cfg, "bootstrap-static")
	var cached []schema.Player
	if checkCacheHit(store, key, &cached) {
		return cached, nil
	}

	players, err := client.GetPlayers(ctx)
	if err != nil {
		return nil, err
	}
	storeInCache(store, key, players)
	return players, nil
}

// cachedFetchHistory wraps a per-player history fetch with the response cache.
func cachedFetchHistory(ctx context.Context, cfg *contract.Config, client contract.FPLClient, mgr contract.StoreManager, playerID int) ([]schema.PerformanceRecord, error) {
	store := responseStore(cfg, mgr)
	if store == nil {
		return client.GetPlayerHistory(ctx, playerID)
	}

	key := generateCacheKey(cfg, fmt.Sprintf("element-summary/%d", playerID))
	var cached []schema.PerformanceRecord
	if checkCacheHit(store, key, &cached) {
		return cached, nil
	}

	records, err := client.GetPlayerHistory(ctx, playerID)
	if err != nil {
		return nil, err
	}
	storeInCache(store, key, records)
	return records, nil
}

// responseStore returns the configured response store, or nil when caching
// is disabled or a forced refresh was requested.
func responseStore(cfg *contract.Config, mgr contract.StoreManager) contract.CacheStore {
	if cfg.Refresh || mgr == nil {
		return nil
	}
	return mgr.GetResponseStore()
}

// checkCacheHit attempts to retrieve and decode a cached payload into out.
func checkCacheHit(store contract.CacheStore, key string, out any) bool {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return false // Cache miss
	}

	// Validate version and staleness
	if version == currentCacheVersion {
		entryTimestamp := time.Unix(ts, 0)
		if time.Since(entryTimestamp) <= cacheTTL {
			if err := json.Unmarshal(data, out); err == nil {
				return true // Cache hit
			}
		}
	}

	return false // Cache miss (stale or version mismatch)
}

// storeInCache persists a payload, silently dropping it on failure so a cache
// problem never breaks a fetch.
func storeInCache(store contract.CacheStore, key string, payload any) {
	if data, err := json.Marshal(payload); err == nil {
		_ = store.Set(key, data, currentCacheVersion, time.Now().Unix())
	}
}

// generateCacheKey creates a unique key for an endpoint under the configured
// base URL, so switching mirrors never serves stale rows.
func generateCacheKey(cfg *contract.Config, endpoint string) string {
	key := fmt.Sprintf("%s:%s", cfg.BaseURL, endpoint)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
