//go:build integration

// Package integration contains integration tests for fpltracker.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags integration ./integration
// Or use: make test-integration
package integration

import (
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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixtureGameweeks is how many finished rounds the fake season has.
const fixtureGameweeks = 6

// fixtureXGI returns the expected_goal_involvements served for a player and
// gameweek. Player 1 rises steadily, player 2 falls steadily, so the signal
// each one should earn is known in advance.
func fixtureXGI(playerID, gw int) float64 {
	if playerID == 1 {
		return 0.1 * float64(gw)
	}
	return 0.1 * float64(fixtureGameweeks+1-gw)
}

// bootstrapFixture mimics the bootstrap-static payload for a tiny league.
// Player 3 is injured and player 4 is a manager entry; neither should
// survive into the fetched pool.
func bootstrapFixture() map[string]any {
	events := make([]map[string]any, 0, fixtureGameweeks)
	for gw := 1; gw <= fixtureGameweeks; gw++ {
		events = append(events, map[string]any{
			"id":         gw,
			"is_current": gw == fixtureGameweeks,
			"finished":   gw < fixtureGameweeks,
		})
	}
	return map[string]any{
		"events": events,
		"teams": []map[string]any{
			{"id": 1, "name": "Liverpool", "short_name": "LIV"},
			{"id": 2, "name": "Arsenal", "short_name": "ARS"},
		},
		"elements": []map[string]any{
			{"id": 1, "first_name": "Mohamed", "second_name": "Salah", "web_name": "Salah", "team": 1, "element_type": 3, "now_cost": 129, "status": "a"},
			{"id": 2, "first_name": "Gabriel", "second_name": "Magalhaes", "web_name": "Gabriel", "team": 2, "element_type": 2, "now_cost": 62, "status": "a"},
			{"id": 3, "first_name": "Long", "second_name": "Absence", "web_name": "Crocked", "team": 2, "element_type": 4, "now_cost": 55, "status": "i"},
			{"id": 4, "first_name": "Head", "second_name": "Coach", "web_name": "Gaffer", "team": 1, "element_type": 5, "now_cost": 10, "status": "a"},
		},
	}
}

// historyFixture mimics the element-summary payload for one player. The
// expected-goals figures are served as strings, the way the real API does.
func historyFixture(playerID int) map[string]any {
	tackles, recoveries, cbi := 1, 4, 1
	if playerID == 2 {
		tackles, recoveries, cbi = 3, 8, 4
	}

	history := make([]map[string]any, 0, fixtureGameweeks)
	for gw := 1; gw <= fixtureGameweeks; gw++ {
		xgi := fixtureXGI(playerID, gw)
		history = append(history, map[string]any{
			"round":                           gw,
			"minutes":                         90,
			"goals_scored":                    0,
			"assists":                         0,
			"clean_sheets":                    0,
			"goals_conceded":                  1,
			"saves":                           0,
			"tackles":                         tackles,
			"recoveries":                      recoveries,
			"clearances_blocks_interceptions": cbi,
			"expected_goals":                  fmt.Sprintf("%.2f", xgi/2),
			"expected_assists":                fmt.Sprintf("%.2f", xgi/2),
			"expected_goal_involvements":      fmt.Sprintf("%.2f", xgi),
			"expected_goals_conceded":         "0.90",
		})
	}
	return map[string]any{"history": history}
}

// newFakeFPLServer serves the fixture payloads over HTTP.
func newFakeFPLServer() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/bootstrap-static/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(bootstrapFixture())
	})
	mux.HandleFunc("/element-summary/", func(w http.ResponseWriter, r *http.Request) {
		idStr := strings.Trim(strings.TrimPrefix(r.URL.Path, "/element-summary/"), "/")
		id, err := strconv.Atoi(idStr)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(historyFixture(id))
	})
	return httptest.NewServer(mux)
}

// TestTrackerPipelineVerification runs the full fetch, analyze and report
// pipeline against a fake FPL API and verifies the CSV output against
// values recomputed from the fixtures.
func TestTrackerPipelineVerification(t *testing.T) {
	server := newFakeFPLServer()
	defer server.Close()

	workDir := t.TempDir()
	dataDir := filepath.Join(workDir, "data")

	// Build the binary
	trackerPath := filepath.Join(workDir, "fpltracker")
	buildCmd := exec.Command("go", "build", "-o", trackerPath, "./cmd/fpltracker")
	buildCmd.Dir = ".." // Project root
	require.NoError(t, buildCmd.Run())

	runTracker := func(args ...string) (string, error) {
		shared := []string{
			"--base-url", server.URL,
			"--data-dir", dataDir,
			"--cache-backend", "none",
		}
		cmd := exec.Command(trackerPath, append(args, shared...)...)
		cmd.Dir = workDir // avoid picking up a repo-level config file
		out, err := cmd.CombinedOutput()
		return string(out), err
	}

	// Fetch the fixture season
	out, err := runTracker("fetch")
	require.NoError(t, err, out)

	// The injured player and the manager entry must not reach the pool
	poolPath := filepath.Join(workDir, "pool.csv")
	out, err = runTracker("players", "--output", "csv", "--output-file", poolPath)
	require.NoError(t, err, out)
	poolRows := readCSVRows(t, poolPath)
	require.Len(t, poolRows, 2)

	// Analyze a single 4-gameweek window
	out, err = runTracker("analyze", "--windows", "4")
	require.NoError(t, err, out)

	// Report to CSV
	reportPath := filepath.Join(workDir, "report.csv")
	out, err = runTracker("report", "--output", "csv", "--output-file", reportPath)
	require.NoError(t, err, out)

	header, rows := readCSVTable(t, reportPath)
	require.Len(t, rows, 2)
	col := columnIndex(t, header)

	// Momentum sorts descending, so the riser leads the table
	riser, faller := rows[0], rows[1]
	assert.Equal(t, "1", riser[col["rank"]])
	assert.Equal(t, "Salah", riser[col["player"]])
	assert.Equal(t, "BUY", riser[col["signal"]])
	assert.Equal(t, "Rising", riser[col["trend"]])
	assert.Equal(t, "Gabriel", faller[col["player"]])
	assert.Equal(t, "SELL", faller[col["signal"]])
	assert.Equal(t, "Falling", faller[col["trend"]])

	for _, row := range rows {
		assert.Equal(t, "4", row[col["window"]])
		assert.Equal(t, strconv.Itoa(fixtureGameweeks), row[col["gameweek"]])
		assert.Equal(t, "4", row[col["games_played"]])
	}

	// Cross-check the rolling sum against the served fixture values
	var wantXGI float64
	for gw := fixtureGameweeks - 3; gw <= fixtureGameweeks; gw++ {
		wantXGI += fixtureXGI(1, gw)
	}
	gotXGI, err := strconv.ParseFloat(riser[col["rolling_xgi"]], 64)
	require.NoError(t, err)
	assert.InDelta(t, wantXGI, gotXGI, 0.005)

	// The faller leads on defensive contribution per fixture construction
	gotDefcon, err := strconv.ParseFloat(faller[col["defcon_score"]], 64)
	require.NoError(t, err)
	wantDefcon := 4.0 * (3.0 + 8.0/4.0 + 4.0)
	assert.InDelta(t, wantDefcon, gotDefcon, 0.005)
}

// readCSVRows returns the data rows of a CSV file, header excluded.
func readCSVRows(t *testing.T, path string) [][]string {
	_, rows := readCSVTable(t, path)
	return rows
}

// readCSVTable returns the header and data rows of a CSV file.
func readCSVTable(t *testing.T, path string) ([]string, [][]string) {
	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, records)
	return records[0], records[1:]
}

// columnIndex maps header names to column positions.
func columnIndex(t *testing.T, header []string) map[string]int {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, want := range []string{"rank", "player", "window", "gameweek", "games_played", "rolling_xgi", "defcon_score", "trend", "signal"} {
		_, ok := col[want]
		require.True(t, ok, "missing column %s", want)
	}
	return col
}
