package iocache

import (
	"errors"
	"fmt"

	"github.com/k1lgor/fpl-momentum-tracker/internal/parquet"
)

// ExecuteAnalysisExport dumps every recorded run and player signal to a pair
// of Parquet files named <outputFile>.analysis_runs.parquet and
// <outputFile>.player_signals.parquet.
func ExecuteAnalysisExport(outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := Manager.GetAnalysisStore()
	if store == nil {
		return errors.New("analysis tracking is not configured. Set --analysis-backend to enable it")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("read analysis status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("nothing to export: no analysis runs recorded yet")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total analysis runs: %d\n", status.TotalRuns)
	fmt.Printf("Total signal records: %d\n", status.TableSizes[playerSignalsTable])

	analysisRuns, err := store.GetAllAnalysisRuns()
	if err != nil {
		return fmt.Errorf("retrieve analysis runs: %w", err)
	}
	playerSignals, err := store.GetAllPlayerSignals()
	if err != nil {
		return fmt.Errorf("retrieve player signals: %w", err)
	}

	runsFile := outputFile + ".analysis_runs.parquet"
	if err := parquet.WriteRuns(analysisRuns, runsFile); err != nil {
		return fmt.Errorf("write analysis runs: %w", err)
	}
	fmt.Printf("Exported %d analysis runs to: %s\n", len(analysisRuns), runsFile)

	signalsFile := outputFile + ".player_signals.parquet"
	if err := parquet.WriteSignals(playerSignals, signalsFile); err != nil {
		return fmt.Errorf("write player signals: %w", err)
	}
	fmt.Printf("Exported %d player signal records to: %s\n", len(playerSignals), signalsFile)

	fmt.Println("\nExport complete. Load the files with DuckDB, Spark, pandas or any other Parquet reader.")

	return nil
}
