// Package main provides a performance benchmarking tool for the fpltracker CLI.
// It measures execution times across synthetic pool sizes and command types,
// running each test multiple times, treating the first successful cached run as
// cold and averaging the rest as warm, generating CSV output for performance
// analysis and documentation.
//
// A local HTTP server stands in for the FPL API, so no network access or real
// season data is needed. Histories are generated deterministically per player.
//
// Prerequisites:
// - fpltracker binary installed and available in PATH
//
// Usage: go run benchmark/main.go [scratch-dir]
//
//	scratch-dir: Directory for datasets, cache files and results
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// benchGameweeks is how many rounds each synthetic season has.
const benchGameweeks = 38

// BenchmarkResult captures one command at one pool size: the no-cache
// average, the first (cold) cached run and the warm-run average.
type BenchmarkResult struct {
	PoolSize    int
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig fixes the shape of a benchmark session.
type BenchmarkConfig struct {
	ScratchDir   string
	Timeout      time.Duration
	FetchWorkers int
	NoCacheRuns  int
	CacheRuns    int
	PoolSizes    []int
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [scratch-dir]\n", os.Args[0])
		os.Exit(1)
	}
	scratchDir, err := filepath.Abs(os.Args[1])
	if err != nil {
		fmt.Printf("Invalid scratch dir: %v\n", err)
		os.Exit(1)
	}

	config := BenchmarkConfig{
		ScratchDir:   scratchDir,
		Timeout:      5 * time.Minute,
		FetchWorkers: 14,
		NoCacheRuns:  3,
		CacheRuns:    4,
		PoolSizes:    []int{50, 200, 500},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(config, results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites confirms the binary is installed and the scratch dir
// is writable before any timing starts.
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("fpltracker"); err != nil {
		return fmt.Errorf("fpltracker binary not found in PATH")
	}

	if err := os.MkdirAll(config.ScratchDir, 0o755); err != nil {
		return fmt.Errorf("cannot create scratch dir %s: %w", config.ScratchDir, err)
	}

	return nil
}

// runBenchmarks walks every pool size through fetch, analyze and report.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %v pool sizes, %v timeout, %d fetch workers, no-cache: %d runs, cache: %d runs\n",
		config.PoolSizes, config.Timeout, config.FetchWorkers, config.NoCacheRuns, config.CacheRuns)

	for _, size := range config.PoolSizes {
		fmt.Printf("Benchmarking pool of %d players\n", size)

		server := newSyntheticServer(size)
		dataDir := filepath.Join(config.ScratchDir, fmt.Sprintf("pool_%d", size))
		cacheDB := filepath.Join(config.ScratchDir, fmt.Sprintf("cache_%d.db", size))

		// Fetch runs both cache phases; it leaves datasets behind for the
		// compute commands that follow.
		fetchArgs := fmt.Sprintf("--base-url %s --data-dir %s --fetch-workers %d", server.URL, dataDir, config.FetchWorkers)
		result := runBenchmarkSuite(config, size, "fetch", "fetch (synthetic API)", fetchArgs, cacheDB, true)
		results = append(results, result)

		// Analyze and report are pure local computation; only one phase applies.
		analyzeArgs := fmt.Sprintf("--data-dir %s --windows 4,6,10", dataDir)
		result = runBenchmarkSuite(config, size, "analyze", "analyze (windows 4,6,10)", analyzeArgs, "", false)
		results = append(results, result)

		reportArgs := fmt.Sprintf("--data-dir %s --limit 50", dataDir)
		result = runBenchmarkSuite(config, size, "report", "report (top 50)", reportArgs, "", false)
		results = append(results, result)

		server.Close()
	}

	return results
}

// runBenchmarkSuite times one command without caching and, when cached is
// set, again with a SQLite cache.
func runBenchmarkSuite(config BenchmarkConfig, size int, command, description, extraArgs, cacheDB string, cached bool) BenchmarkResult {
	fmt.Printf("Running %s for %d players\n", description, size)

	runPhase := func(cacheBackend, cacheConnect string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, command, extraArgs, cacheBackend, cacheConnect, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avg := sum / float64(len(times))
			avgTime = fmt.Sprintf("%.3fs", avg)
		}
		return cold, avgTime
	}

	_, noCacheAvg := runPhase("none", "", config.NoCacheRuns, "No-cache")

	coldTimeStr, warmAvg := "n/a", "n/a"
	if cached {
		coldTime, warm := runPhase("sqlite", cacheDB, config.CacheRuns, "Cache")
		warmAvg = warm
		coldTimeStr = "TIMEOUT"
		if coldTime > 0 {
			coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
		}
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		PoolSize:    size,
		Command:     command,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes the command numRuns times. Runs that fail or hit
// the timeout are dropped rather than recorded; the first surviving run is
// the cold time, the rest are warm.
func runBenchmark(config BenchmarkConfig, command, extraArgs, cacheBackend, cacheConnect string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{command, "--cache-backend", cacheBackend}
	if cacheConnect != "" {
		args = append(args, "--cache-db-connect", cacheConnect)
	}
	args = append(args, strings.Fields(extraArgs)...)

	var times []float64
	for range numRuns {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()

		cmd := exec.CommandContext(ctx, "fpltracker", args...)
		cmd.Dir = config.ScratchDir
		output, err := cmd.CombinedOutput()
		cancel()

		if err == nil && isSuccess(output, command) {
			times = append(times, time.Since(start).Seconds())
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess inspects the command output because fpltracker exits zero even
// when a run produced nothing useful.
func isSuccess(output []byte, command string) bool {
	outputStr := string(output)

	if command == "fetch" {
		return strings.Contains(outputStr, "Fetched") &&
			strings.Contains(outputStr, "players")
	}
	return strings.Contains(outputStr, "Completed in") &&
		strings.Contains(outputStr, "workers")
}

// newSyntheticServer serves a deterministic FPL-shaped season for size players.
func newSyntheticServer(size int) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/bootstrap-static/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(syntheticBootstrap(size))
	})
	mux.HandleFunc("/element-summary/", func(w http.ResponseWriter, r *http.Request) {
		idStr := strings.Trim(strings.TrimPrefix(r.URL.Path, "/element-summary/"), "/")
		id, err := strconv.Atoi(idStr)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(syntheticHistory(id))
	})
	return httptest.NewServer(mux)
}

// syntheticBootstrap builds a bootstrap payload with size pickable players.
func syntheticBootstrap(size int) map[string]any {
	events := make([]map[string]any, 0, benchGameweeks)
	for gw := 1; gw <= benchGameweeks; gw++ {
		events = append(events, map[string]any{
			"id":         gw,
			"is_current": gw == benchGameweeks,
			"finished":   gw < benchGameweeks,
		})
	}

	teams := make([]map[string]any, 0, 20)
	for i := 1; i <= 20; i++ {
		teams = append(teams, map[string]any{
			"id":         i,
			"name":       fmt.Sprintf("Team %d", i),
			"short_name": fmt.Sprintf("T%02d", i),
		})
	}

	elements := make([]map[string]any, 0, size)
	for id := 1; id <= size; id++ {
		elements = append(elements, map[string]any{
			"id":           id,
			"first_name":   "Player",
			"second_name":  strconv.Itoa(id),
			"web_name":     fmt.Sprintf("Player%d", id),
			"team":         (id % 20) + 1,
			"element_type": (id % 4) + 1,
			"now_cost":     40 + (id % 100),
			"status":       "a",
		})
	}

	return map[string]any{
		"events":   events,
		"teams":    teams,
		"elements": elements,
	}
}

// syntheticHistory builds a full-season history for one player. The values
// only need to be deterministic and plausible, not realistic.
func syntheticHistory(id int) map[string]any {
	history := make([]map[string]any, 0, benchGameweeks)
	for gw := 1; gw <= benchGameweeks; gw++ {
		minutes := 90
		if (id+gw)%7 == 0 {
			minutes = 0 // benched now and then
		}
		xgi := 0.05 * float64((id+gw)%14)
		history = append(history, map[string]any{
			"round":                           gw,
			"minutes":                         minutes,
			"goals_scored":                    (id + gw) % 3 / 2,
			"assists":                         (id + gw) % 5 / 4,
			"clean_sheets":                    (id + gw) % 2,
			"goals_conceded":                  (id + gw) % 3,
			"saves":                           0,
			"tackles":                         (id + gw) % 4,
			"recoveries":                      (id + gw) % 9,
			"clearances_blocks_interceptions": (id + gw) % 5,
			"expected_goals":                  fmt.Sprintf("%.2f", xgi/2),
			"expected_assists":                fmt.Sprintf("%.2f", xgi/2),
			"expected_goal_involvements":      fmt.Sprintf("%.2f", xgi),
			"expected_goals_conceded":         fmt.Sprintf("%.2f", 0.1*float64((id+gw)%15)),
		})
	}
	return map[string]any{"history": history}
}

// saveResults appends nothing; each session gets its own timestamped CSV.
func saveResults(config BenchmarkConfig, results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(config.ScratchDir, fmt.Sprintf("fpltracker_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"pool_size", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		rec := []string{strconv.Itoa(result.PoolSize), result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}
		if err := writer.Write(rec); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary prints a per-command digest of the session.
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "fetch", "Fetch:")
	printCommandSummary(results, "analyze", "Analyze:")
	printCommandSummary(results, "report", "Report:")

	fmt.Printf("Benchmark script completed successfully\n")
}

// printCommandSummary lists every pool size measured for one command.
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-4d players: No-cache: %s, Cold: %s, Warm: %s\n", result.PoolSize, result.NoCacheTime, result.ColdTime, result.WarmTime)
		}
	}
}
