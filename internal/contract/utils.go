package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/k1lgor/fpl-momentum-tracker/schema"
)

// Color variables for console output.
var (
	BuyColor  = color.New(color.FgGreen, color.Bold) // buyColor marks players trending up.
	SellColor = color.New(color.FgRed, color.Bold)   // sellColor marks players trending down or rotation risks.
	HoldColor = color.New(color.FgYellow)            // holdColor marks neutral or unproven trends.
)

// GetPlainSignalLabel returns the plain text label for a signal. This is the
// core representation used for CSV, JSON, parquet and table printing.
func GetPlainSignalLabel(sig schema.Signal) string {
	return string(sig)
}

// GetColorSignalLabel returns a colored signal label for console output (table).
// It uses GetPlainSignalLabel to determine the string, and then applies the
// appropriate color.
func GetColorSignalLabel(sig schema.Signal) string {
	text := GetPlainSignalLabel(sig)

	switch sig {
	case schema.BuySignal:
		return BuyColor.Sprint(text)
	case schema.SellSignal:
		return SellColor.Sprint(text)
	default: // "HOLD"
		return HoldColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the
// provided file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for response cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".fpltracker_cache.db"
	}
	return filepath.Join(homeDir, ".fpltracker_cache.db")
}

// GetAnalysisDBFilePath returns the path to the SQLite DB file for analysis storage.
func GetAnalysisDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".fpltracker_analysis.db"
	}
	return filepath.Join(homeDir, ".fpltracker_analysis.db")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
