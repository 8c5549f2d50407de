package outwriter

import (
	"os"

	"github.com/k1lgor/fpl-momentum-tracker/internal/contract"
	"golang.org/x/term"
)

// getMaxNameWidth calculates the maximum width for player names in table
// output based on terminal width.
func getMaxNameWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		// Get terminal width
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the fixed columns with table formatting
	baseWidth := 92 // Rank through Signal with borders/padding

	// Calculate available space for the name
	available := termWidth - baseWidth
	if available < 12 {
		// Minimum reasonable name width
		return 12
	}
	if available > 30 {
		// Maximum name width to prevent ragged tables
		return 30
	}
	return available
}
