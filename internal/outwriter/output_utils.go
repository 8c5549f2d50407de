package outwriter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/k1lgor/fpl-momentum-tracker/internal/contract"
)

// writeWithFile runs the writer callback against the report destination:
// the given file path, or stdout when the path is empty. The confirmation
// note goes to stderr so piped report output stays clean.
func writeWithFile(outputFile string, useEmojis bool, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		savedNote(os.Stderr, useEmojis, successMsg, outputFile)
	}
	return nil
}

// savedNote prints the saved-to-disk confirmation, with the emoji prefix
// following the same toggle as every other decorated line.
func savedNote(w io.Writer, useEmojis bool, action, path string) {
	if useEmojis {
		fmt.Fprintf(w, "💾 %s to %s\n", action, path)
		return
	}
	fmt.Fprintf(w, "%s to %s\n", action, path)
}

// writeJSON indents report payloads uniformly across output formats.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// createFormatters builds the float formatter for the report's precision
// flag plus the fixed integer verb the table and CSV writers share.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	fmtFloat = func(v float64) string {
		return fmt.Sprintf("%.*f", precision, v)
	}
	return fmtFloat, "%d"
}

// momentumPrecision fixes the decimals for slope-scale values. Momentum
// scores live in the third decimal, so the report precision flag would
// round most of them to zero.
const momentumPrecision = 4

// fmtMomentum formats a nullable momentum-scale value, rendering "n/a"
// for insufficient-data rows.
func fmtMomentum(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.*f", momentumPrecision, *v)
}
