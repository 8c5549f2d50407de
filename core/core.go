// Package core has core logic for rolling aggregation, momentum fitting
// and signal classification.
package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"time"

	"github.com/k1lgor/fpl-momentum-tracker/internal/contract"
	"github.com/k1lgor/fpl-momentum-tracker/internal/outwriter"
	"github.com/k1lgor/fpl-momentum-tracker/internal/parquet"
	"github.com/k1lgor/fpl-momentum-tracker/schema"
)

// ExecuteFetch downloads the player pool and per-player histories, then
// persists both as parquet datasets under cfg.DataDir.
// It serves as the main entry point for the 'fetch' command.
func ExecuteFetch(ctx context.Context, cfg *contract.Config, client contract.FPLClient, mgr contract.StoreManager) error {
	start := time.Now()

	output, err := fetchPool(ctx, cfg, client, mgr)
	if err != nil {
		return err
	}
	if !shouldSuppressHeader(ctx) {
		outwriter.LogFetchHeader(cfg, len(output.Players), output.Gameweek)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir %s: %w", cfg.DataDir, err)
	}
	if err := parquet.WritePlayers(output.Players, parquet.PlayersPath(cfg.DataDir)); err != nil {
		return fmt.Errorf("write players dataset: %w", err)
	}
	if err := parquet.WriteHistory(output.Pool, parquet.HistoryPath(cfg.DataDir)); err != nil {
		return fmt.Errorf("write history dataset: %w", err)
	}

	duration := time.Since(start)
	if cfg.UseEmojis {
		fmt.Printf("✅ Fetched %d players (%d histories, %d failed) in %v\n", len(output.Players), len(output.Pool), output.Failed, duration.Round(time.Millisecond))
	} else {
		fmt.Printf("Fetched %d players (%d histories, %d failed) in %v\n", len(output.Players), len(output.Pool), output.Failed, duration.Round(time.Millisecond))
	}
	fmt.Printf("Dataset: %s\n", cfg.DataDir)
	return nil
}

// ExecuteAnalyze loads the fetched datasets, runs the full rolling-window
// and momentum analysis, persists the analysis dataset and renders the
// report view.
// It serves as the main entry point for the 'analyze' command.
func ExecuteAnalyze(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()

	pool, err := loadDataset(cfg)
	if err != nil {
		return err
	}

	result, err := runAnalysisCore(ctx, cfg, mgr, pool)
	if err != nil {
		return err
	}

	if err := parquet.WriteAnalysis(result.Rows, parquet.AnalysisPath(cfg.DataDir)); err != nil {
		return fmt.Errorf("write analysis dataset: %w", err)
	}

	view := BuildReportView(result.Rows, cfg)
	duration := time.Since(start)
	return outwriter.WriteAnalysisResults(view, result.Skipped, cfg, duration)
}

// ExecuteReport renders filtered views over the saved analysis dataset
// without refetching or recomputing anything.
// It serves as the main entry point for the 'report' command.
func ExecuteReport(_ context.Context, cfg *contract.Config) error {
	start := time.Now()

	rows, err := readAnalysisDataset(cfg)
	if err != nil {
		return err
	}

	view := BuildReportView(rows, cfg)
	duration := time.Since(start)
	return outwriter.WriteAnalysisResults(view, nil, cfg, duration)
}

// ExecutePlayers lists the fetched player pool with the report filters
// applied.
// It serves as the main entry point for the 'players' command.
func ExecutePlayers(_ context.Context, cfg *contract.Config) error {
	start := time.Now()

	players, err := readPlayersDataset(cfg)
	if err != nil {
		return err
	}

	view := FilterPlayers(players, cfg)
	duration := time.Since(start)
	return outwriter.WritePlayersResults(view, cfg, duration)
}

// GetAnalysisResults runs the analysis over the saved datasets and returns
// the raw result, suppressing interactive headers. MCP tool handlers build
// their responses from this.
func GetAnalysisResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (*schema.AnalysisResult, error) {
	pool, err := loadDataset(cfg)
	if err != nil {
		return nil, err
	}
	return runAnalysisCore(WithSuppressHeader(ctx), cfg, mgr, pool)
}

// GetReportRows returns the saved analysis dataset with the configured
// report view applied.
func GetReportRows(cfg *contract.Config) ([]schema.PlayerAnalysis, error) {
	rows, err := readAnalysisDataset(cfg)
	if err != nil {
		return nil, err
	}
	return BuildReportView(rows, cfg), nil
}

// GetPlayersResults returns the fetched player pool with filters applied.
func GetPlayersResults(cfg *contract.Config) ([]schema.Player, error) {
	players, err := readPlayersDataset(cfg)
	if err != nil {
		return nil, err
	}
	return FilterPlayers(players, cfg), nil
}

// loadDataset joins the players and history datasets back into per-player
// series, sorted by player id.
func loadDataset(cfg *contract.Config) ([]schema.PlayerSeries, error) {
	players, err := readPlayersDataset(cfg)
	if err != nil {
		return nil, err
	}
	histories, err := parquet.ReadHistory(parquet.HistoryPath(cfg.DataDir))
	if err != nil {
		return nil, datasetError(cfg, err)
	}

	pool := make([]schema.PlayerSeries, 0, len(players))
	for _, p := range players {
		pool = append(pool, schema.PlayerSeries{Player: p, Records: histories[p.ID]})
	}
	sort.Slice(pool, func(i, j int) bool {
		return pool[i].Player.ID < pool[j].Player.ID
	})
	return pool, nil
}

func readPlayersDataset(cfg *contract.Config) ([]schema.Player, error) {
	players, err := parquet.ReadPlayers(parquet.PlayersPath(cfg.DataDir))
	if err != nil {
		return nil, datasetError(cfg, err)
	}
	return players, nil
}

func readAnalysisDataset(cfg *contract.Config) ([]schema.PlayerAnalysis, error) {
	rows, err := parquet.ReadAnalysis(parquet.AnalysisPath(cfg.DataDir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("no analysis dataset in %s, run 'fpltracker analyze' first", cfg.DataDir)
		}
		return nil, err
	}
	return rows, nil
}

// datasetError points the user at 'fetch' when a dataset file is missing.
func datasetError(cfg *contract.Config, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("no dataset in %s, run 'fpltracker fetch' first", cfg.DataDir)
	}
	return err
}
