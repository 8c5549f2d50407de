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

// PoolParquetFile is the default file name for parquet pool exports, kept
// distinct from the players dataset written by fetch.
const PoolParquetFile = "player_pool.parquet"

// statusLabels spells out the FPL availability codes for table display.
var statusLabels = map[string]string{
	"a": "Available",
	"d": "Doubtful",
	"i": "Injured",
	"n": "On loan",
	"s": "Suspended",
	"u": "Unavailable",
}

// statusLabel renders an availability code, falling back to the raw code
// for anything the API adds later.
func statusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

// playerView shapes a Player for JSON output. The schema type carries no
// JSON tags because the parquet layer owns persistence.
type playerView struct {
	ID         int             `json:"id"`
	WebName    string          `json:"web_name"`
	FirstName  string          `json:"first_name"`
	SecondName string          `json:"second_name"`
	TeamName   string          `json:"team_name"`
	Position   schema.Position `json:"position"`
	NowCost    int             `json:"now_cost"`
	Status     string          `json:"status"`
}

// WritePlayersResults outputs the player pool listing, dispatching based on
// the output format configured.
func WritePlayersResults(players []schema.Player, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writePlayersJSONResults(players, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writePlayersCSVResults(players, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writePlayersParquetResults(players, cfg); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		err := writeWithFile(cfg.OutputFile, cfg.UseEmojis, func(w io.Writer) error {
			return writePlayersTable(players, cfg, duration, w)
		}, "Wrote table")
		if err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	}
	return nil
}

// writePlayersJSONResults handles opening the file and calling the JSON writer.
func writePlayersJSONResults(players []schema.Player, cfg *contract.Config) error {
	views := make([]playerView, len(players))
	for i, p := range players {
		views[i] = playerView{
			ID:         p.ID,
			WebName:    schema.DisplayName(p),
			FirstName:  p.FirstName,
			SecondName: p.SecondName,
			TeamName:   p.TeamName,
			Position:   p.Position,
			NowCost:    p.NowCost,
			Status:     p.Status,
		}
	}
	return writeWithFile(cfg.OutputFile, cfg.UseEmojis, func(w io.Writer) error {
		return writeJSON(w, views)
	}, "Wrote JSON")
}

// writePlayersCSVResults handles opening the file and calling the CSV writer.
func writePlayersCSVResults(players []schema.Player, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, cfg.UseEmojis, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writePlayersCSVRows(csvWriter, players)
	}, "Wrote CSV")
}

// writePlayersParquetResults writes the pool view as a parquet file.
func writePlayersParquetResults(players []schema.Player, cfg *contract.Config) error {
	outputPath := cfg.OutputFile
	if outputPath == "" {
		outputPath = filepath.Join(cfg.DataDir, PoolParquetFile)
	}
	if err := parquet.WritePlayers(players, outputPath); err != nil {
		return err
	}
	savedNote(os.Stderr, cfg.UseEmojis, "Wrote parquet", outputPath)
	return nil
}

// writePlayersTable generates and writes the human-readable pool table.
func writePlayersTable(players []schema.Player, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Rank", "Player", "Team", "Pos", "Price", "Status"}
	table.Header(headers)

	// 2. Configure Separators/Borders to match a minimal look
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows in pool order
	var data [][]string
	nameWidth := getMaxNameWidth(cfg)
	for i, p := range players {
		row := []string{
			strconv.Itoa(i + 1),
			schema.TruncateName(schema.DisplayName(p), nameWidth),
			p.TeamName,
			string(p.Position),
			schema.FormatPrice(p.NowCost),
			statusLabel(p.Status),
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

	if _, err := fmt.Fprintf(writer, "Showing %d players\n", len(players)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Completed in %v.\n", duration.Round(time.Millisecond)); err != nil {
		return err
	}
	return nil
}

// writePlayersCSVRows writes the pool view in CSV format.
func writePlayersCSVRows(w *csv.Writer, players []schema.Player) error {
	header := []string{
		"rank",
		"player_id",
		"player",
		"first_name",
		"second_name",
		"team",
		"position",
		"price",
		"status",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, p := range players {
		rec := []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(p.ID),
			schema.DisplayName(p),
			p.FirstName,
			p.SecondName,
			p.TeamName,
			string(p.Position),
			schema.FormatPrice(p.NowCost),
			p.Status,
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
