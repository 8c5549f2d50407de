//go:build basic

package integration

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTrackerVersion verifies the binary reports build metadata.
func TestTrackerVersion(t *testing.T) {
	out, err := exec.Command(getTrackerBinary(), "version").CombinedOutput()
	require.NoError(t, err)

	assert.Contains(t, string(out), "fpltracker CLI")
	assert.Contains(t, string(out), "Version:")
	assert.Contains(t, string(out), "Runtime:")
}

// TestTrackerHelp verifies the top-level command wiring.
func TestTrackerHelp(t *testing.T) {
	out, err := exec.Command(getTrackerBinary(), "--help").CombinedOutput()
	require.NoError(t, err)

	for _, sub := range []string{"fetch", "analyze", "report", "players", "cache", "analysis", "mcp", "version"} {
		assert.Contains(t, string(out), sub)
	}
}

// TestTrackerReportWithoutDataset verifies the guidance shown when the
// pipeline is run out of order.
func TestTrackerReportWithoutDataset(t *testing.T) {
	cmd := exec.Command(getTrackerBinary(),
		"report",
		"--data-dir", t.TempDir(),
		"--cache-backend", "none",
	)
	cmd.Dir = t.TempDir() // avoid picking up a repo-level config file
	out, err := cmd.CombinedOutput()
	require.Error(t, err)

	assert.Contains(t, string(out), "analyze")
}

// TestTrackerAnalyzeWithoutDataset verifies analyze points back at fetch.
func TestTrackerAnalyzeWithoutDataset(t *testing.T) {
	cmd := exec.Command(getTrackerBinary(),
		"analyze",
		"--data-dir", t.TempDir(),
		"--cache-backend", "none",
	)
	cmd.Dir = t.TempDir()
	out, err := cmd.CombinedOutput()
	require.Error(t, err)

	assert.Contains(t, string(out), "fetch")
}
