package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/k1lgor/fpl-momentum-tracker/internal/contract"
	"github.com/k1lgor/fpl-momentum-tracker/internal/parquet"
	"github.com/k1lgor/fpl-momentum-tracker/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// ReportParquetFile is the default file name for parquet report exports,
// kept distinct from the analysis dataset written by analyze.
const ReportParquetFile = "momentum_report.parquet"

// WriteAnalysisResults outputs the report view, dispatching based on the
// output format configured. Skipped series are surfaced on stderr so the
// data outputs stay clean.
func WriteAnalysisResults(view []schema.PlayerAnalysis, skipped []schema.SeriesIssue, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(cfg.Precision)
	enriched := schema.EnrichPlayerAnalyses(view)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeAnalysisJSONResults(enriched, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeAnalysisCSVResults(enriched, cfg, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeAnalysisParquetResults(view, cfg); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		err := writeWithFile(cfg.OutputFile, cfg.UseEmojis, func(w io.Writer) error {
			return writeAnalysisTable(enriched, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
		if err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	}

	logSkippedSeries(skipped, cfg)
	return nil
}

// writeAnalysisJSONResults handles opening the file and calling the JSON writer.
func writeAnalysisJSONResults(enriched []schema.EnrichedPlayerAnalysis, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, cfg.UseEmojis, func(w io.Writer) error {
		return writeJSON(w, enriched)
	}, "Wrote JSON")
}

// writeAnalysisCSVResults handles opening the file and calling the CSV writer.
func writeAnalysisCSVResults(enriched []schema.EnrichedPlayerAnalysis, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	return writeWithFile(cfg.OutputFile, cfg.UseEmojis, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeAnalysisCSVRows(csvWriter, enriched, fmtFloat, intFmt)
	}, "Wrote CSV")
}

// writeAnalysisParquetResults writes the view rows as a parquet file.
func writeAnalysisParquetResults(view []schema.PlayerAnalysis, cfg *contract.Config) error {
	outputPath := cfg.OutputFile
	if outputPath == "" {
		outputPath = filepath.Join(cfg.DataDir, ReportParquetFile)
	}
	if err := parquet.WriteAnalysis(view, outputPath); err != nil {
		return err
	}
	savedNote(os.Stderr, cfg.UseEmojis, "Wrote parquet", outputPath)
	return nil
}

// writeAnalysisTable generates and writes the human-readable table.
func writeAnalysisTable(enriched []schema.EnrichedPlayerAnalysis, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Rank", "Player", "Team", "Pos", "Price", "W", "GW", "xGI", "xG+/-", "Defcon", "Momentum", "Trend", "Signal"}
	table.Header(headers)

	// 2. Configure Separators/Borders to match a minimal look
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	signalLabel := contract.GetPlainSignalLabel
	if cfg.UseColors {
		signalLabel = contract.GetColorSignalLabel
	}

	// 3. Populate Rows, one per (player, window) pair in header order
	var data [][]string
	nameWidth := getMaxNameWidth(cfg)
	for _, e := range enriched {
		row := []string{
			strconv.Itoa(e.Rank),
			schema.TruncateName(e.WebName, nameWidth),
			e.TeamName,
			string(e.Position),
			schema.FormatPrice(e.NowCost),
			fmt.Sprintf(intFmt, e.WindowSize),
			fmt.Sprintf(intFmt, e.Gameweek),
			fmtFloat(e.RollingXGI),
			fmtFloat(e.XGDiff),
			fmtFloat(e.DefconScore),
			fmtMomentum(e.MomentumScore),
			e.Trend,
			signalLabel(e.Signal),
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// Compute summary stats
	windows := make(map[int]struct{})
	gameweek := 0
	for _, e := range enriched {
		windows[e.WindowSize] = struct{}{}
		if e.Gameweek > gameweek {
			gameweek = e.Gameweek
		}
	}
	if _, err := fmt.Fprintf(writer, "Showing %d rows across %d windows (gameweek %d)\n", len(enriched), len(windows), gameweek); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Completed in %v with %d workers.\n", duration.Round(time.Millisecond), cfg.Workers); err != nil {
		return err
	}
	return nil
}

// writeAnalysisCSVRows writes the report view in CSV format.
func writeAnalysisCSVRows(w *csv.Writer, enriched []schema.EnrichedPlayerAnalysis, fmtFloat func(float64) string, intFmt string) error {
	// CSV header
	header := []string{
		"rank",
		"player_id",
		"player",
		"team",
		"position",
		"price",
		"window",
		"gameweek",
		"games_played",
		"games_played_pct",
		"minutes_pct",
		"rolling_minutes",
		"rolling_goals",
		"rolling_assists",
		"rolling_xg",
		"rolling_xa",
		"rolling_xgi",
		"rolling_xgc",
		"xg_diff",
		"xg_per_90",
		"xgi_per_90",
		"xg_diff_per_90",
		"defcon_score",
		"defcon_per_90",
		"slope",
		"r_squared",
		"momentum_score",
		"sufficient_data",
		"trend",
		"signal",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, e := range enriched {
		rec := []string{
			strconv.Itoa(e.Rank),
			fmt.Sprintf(intFmt, e.PlayerID),
			e.WebName,
			e.TeamName,
			string(e.Position),
			schema.FormatPrice(e.NowCost),
			fmt.Sprintf(intFmt, e.WindowSize),
			fmt.Sprintf(intFmt, e.Gameweek),
			fmt.Sprintf(intFmt, e.GamesPlayed),
			fmtFloat(e.GamesPlayedPct),
			fmtFloat(e.MinutesPct),
			fmt.Sprintf(intFmt, e.RollingMinutes),
			fmt.Sprintf(intFmt, e.RollingGoals),
			fmt.Sprintf(intFmt, e.RollingAssists),
			fmtFloat(e.RollingXG),
			fmtFloat(e.RollingXA),
			fmtFloat(e.RollingXGI),
			fmtFloat(e.RollingXGC),
			fmtFloat(e.XGDiff),
			fmtFloat(e.XGPer90),
			fmtFloat(e.XGIPer90),
			fmtFloat(e.XGDiffPer90),
			fmtFloat(e.DefconScore),
			fmtFloat(e.DefconPer90),
			fmtMomentum(e.Slope),
			fmtMomentum(e.RSquared),
			fmtMomentum(e.MomentumScore),
			strconv.FormatBool(e.SufficientData),
			e.Trend,
			contract.GetPlainSignalLabel(e.Signal),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// logSkippedSeries reports rejected series on stderr.
func logSkippedSeries(skipped []schema.SeriesIssue, cfg *contract.Config) {
	if len(skipped) == 0 {
		return
	}
	if cfg.UseEmojis {
		fmt.Fprintf(os.Stderr, "⚠️  Skipped %d series:\n", len(skipped))
	} else {
		fmt.Fprintf(os.Stderr, "Skipped %d series:\n", len(skipped))
	}
	for _, issue := range skipped {
		fmt.Fprintf(os.Stderr, "  - %s (id %d): %s\n", issue.WebName, issue.PlayerID, issue.Reason)
	}
}
