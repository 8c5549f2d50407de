package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/k1lgor/fpl-momentum-tracker/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlainSignalLabel(t *testing.T) {
	tests := []struct {
		name     string
		signal   schema.Signal
		expected string
	}{
		{"Buy", schema.BuySignal, "BUY"},
		{"Sell", schema.SellSignal, "SELL"},
		{"Hold", schema.HoldSignal, "HOLD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetPlainSignalLabel(tt.signal))
		})
	}
}

func TestGetColorSignalLabel(t *testing.T) {
	// Color output may be stripped in a non-TTY environment, so only check
	// that the plain label text survives.
	for _, sig := range schema.AllSignals {
		label := GetColorSignalLabel(sig)
		assert.Contains(t, label, string(sig))
	}
}

func TestSelectOutputFile(t *testing.T) {
	// Empty path falls back to stdout.
	f, err := SelectOutputFile("")
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, f)

	// Non-empty path creates the file.
	path := filepath.Join(t.TempDir(), "report.csv")
	f, err = SelectOutputFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.NotEqual(t, os.Stdout, f)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestGetCacheDBFilePath(t *testing.T) {
	path := GetCacheDBFilePath()

	// Should not be empty
	assert.NotEmpty(t, path)

	// Should contain the database name
	assert.Contains(t, path, ".fpltracker_cache.db")

	// Should be in home directory
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, homeDir), "path %s should start with home dir %s", path, homeDir)
}

func TestGetAnalysisDBFilePath(t *testing.T) {
	path := GetAnalysisDBFilePath()

	assert.NotEmpty(t, path)
	assert.Contains(t, path, ".fpltracker_analysis.db")

	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, homeDir), "path %s should start with home dir %s", path, homeDir)
}

func TestParseBoolString(t *testing.T) {
	tests := []struct {
		input       string
		want        bool
		expectError bool
	}{
		{"yes", true, false},
		{"YES", true, false},
		{"true", true, false},
		{"1", true, false},
		{"no", false, false},
		{"False", false, false},
		{"0", false, false},
		{"", false, true},
		{"maybe", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBoolString(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
