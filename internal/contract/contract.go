// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/k1lgor/fpl-momentum-tracker/schema"
)

// FPLClient defines the necessary operations against the Fantasy Premier League API.
// This allows the core analysis logic to be tested without hitting the live endpoints.
type FPLClient interface {
	// --- Bootstrap ---

	// GetPlayers returns the bootstrap player pool with team names and positions
	// resolved, filtered to the configured availability statuses.
	GetPlayers(ctx context.Context) ([]schema.Player, error)

	// GetCurrentGameweek returns the id of the latest finished or in-progress event.
	GetCurrentGameweek(ctx context.Context) (int, error)

	// --- Per-player history ---

	// GetPlayerHistory returns the chronological gameweek history for one player.
	GetPlayerHistory(ctx context.Context, playerID int) ([]schema.PerformanceRecord, error)
}

// StoreManager defines the interface for managing storage backends.
// This allows the storage layer to be mocked for testing.
type StoreManager interface {
	GetResponseStore() CacheStore
	GetAnalysisStore() AnalysisStore
}

// CacheStore defines the interface for cached API response storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// AnalysisStore defines the interface for tracking analysis runs and storing signals.
type AnalysisStore interface {
	// BeginAnalysis creates a new analysis run and returns its unique ID
	BeginAnalysis(startTime time.Time, configParams map[string]any) (int64, error)

	// EndAnalysis updates the analysis run with completion data
	EndAnalysis(analysisID int64, endTime time.Time, totalPlayers int, gameweek int) error

	// RecordPlayerSignals stores the classified rows produced by an analysis run
	RecordPlayerSignals(analysisID int64, rows []schema.PlayerAnalysis) error

	// GetAllAnalysisRuns returns every recorded analysis run, for export
	GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error)

	// GetAllPlayerSignals returns every recorded player signal, for export
	GetAllPlayerSignals() ([]schema.PlayerSignalRecord, error)

	// GetStatus returns status information about the analysis store
	GetStatus() (schema.AnalysisStatus, error)

	// Close closes the underlying connection
	Close() error
}
