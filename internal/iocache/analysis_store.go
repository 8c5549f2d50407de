package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/k1lgor/fpl-momentum-tracker/internal/contract"
	"github.com/k1lgor/fpl-momentum-tracker/schema"
)

// Run-tracking table names, shared with the embedded migrations.
const (
	analysisRunsTable  = "momentum_analysis_runs"
	playerSignalsTable = "momentum_player_signals"
)

// AnalysisStoreImpl is the SQL-backed AnalysisStore.
type AnalysisStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
}

var _ contract.AnalysisStore = &AnalysisStoreImpl{} // Compile-time check

// openAnalysisBackend opens the run-tracking database for the given backend.
// A NoneBackend yields a nil handle, meaning tracking is disabled.
func openAnalysisBackend(backend schema.DatabaseBackend, connStr string) (*sql.DB, string, error) {
	var driverName string
	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		if connStr == "" {
			connStr = GetAnalysisDBFilePath()
		}
	case schema.MySQLBackend:
		driverName = "mysql"
	case schema.PostgreSQLBackend:
		driverName = "pgx"
	case schema.NoneBackend:
		return nil, "", nil
	default:
		return nil, "", fmt.Errorf("unsupported backend: %s", backend)
	}

	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return nil, "", fmt.Errorf("open %s analysis database: %w (connection string %q)", backend, err, connStr)
	}
	if backend == schema.SQLiteBackend {
		// A single connection avoids "database is locked" under concurrent writes
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("connect to %s analysis database: %w. Verify the server is running and credentials are valid", backend, err)
	}

	return db, driverName, nil
}

// NewAnalysisStore opens the run-tracking store, creating its tables on
// first use. NoneBackend yields a store whose writes all no-op.
func NewAnalysisStore(backend schema.DatabaseBackend, connStr string) (contract.AnalysisStore, error) {
	db, driverName, err := openAnalysisBackend(backend, connStr)
	if err != nil {
		return nil, err
	}

	if db != nil {
		if err := createAnalysisTables(db, backend); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create analysis tables: %w", err)
		}
	}

	return &AnalysisStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
	}, nil
}

// createAnalysisTables issues the idempotent DDL for both tables.
func createAnalysisTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{analysisRunsTable, getCreateAnalysisRunsQuery(backend)},
		{playerSignalsTable, getCreatePlayerSignalsQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}

	return nil
}

// getCreateAnalysisRunsQuery returns the CREATE TABLE query for momentum_analysis_runs.
func getCreateAnalysisRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(analysisRunsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				total_players INT NOT NULL DEFAULT 0,
				gameweek INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				total_players INT NOT NULL DEFAULT 0,
				gameweek INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				total_players INTEGER NOT NULL DEFAULT 0,
				gameweek INTEGER NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreatePlayerSignalsQuery returns the CREATE TABLE query for momentum_player_signals.
func getCreatePlayerSignalsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(playerSignalsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				player_id INT NOT NULL,
				web_name VARCHAR(100) NOT NULL,
				team_name VARCHAR(100) NOT NULL,
				position VARCHAR(3) NOT NULL,
				window_size INT NOT NULL,
				gameweek INT NOT NULL,
				now_cost INT NOT NULL,
				rolling_xg DOUBLE NOT NULL,
				rolling_goals INT NOT NULL,
				xg_diff DOUBLE NOT NULL,
				games_played_pct DOUBLE NOT NULL,
				minutes_pct DOUBLE NOT NULL,
				defcon_score DOUBLE NOT NULL,
				slope DOUBLE,
				r_squared DOUBLE,
				momentum_score DOUBLE,
				sufficient_data BOOLEAN NOT NULL,
				signal VARCHAR(10) NOT NULL,
				PRIMARY KEY (run_id, player_id, window_size)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				player_id INT NOT NULL,
				web_name TEXT NOT NULL,
				team_name TEXT NOT NULL,
				position TEXT NOT NULL,
				window_size INT NOT NULL,
				gameweek INT NOT NULL,
				now_cost INT NOT NULL,
				rolling_xg DOUBLE PRECISION NOT NULL,
				rolling_goals INT NOT NULL,
				xg_diff DOUBLE PRECISION NOT NULL,
				games_played_pct DOUBLE PRECISION NOT NULL,
				minutes_pct DOUBLE PRECISION NOT NULL,
				defcon_score DOUBLE PRECISION NOT NULL,
				slope DOUBLE PRECISION,
				r_squared DOUBLE PRECISION,
				momentum_score DOUBLE PRECISION,
				sufficient_data BOOLEAN NOT NULL,
				signal TEXT NOT NULL,
				PRIMARY KEY (run_id, player_id, window_size)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				player_id INTEGER NOT NULL,
				web_name TEXT NOT NULL,
				team_name TEXT NOT NULL,
				position TEXT NOT NULL,
				window_size INTEGER NOT NULL,
				gameweek INTEGER NOT NULL,
				now_cost INTEGER NOT NULL,
				rolling_xg REAL NOT NULL,
				rolling_goals INTEGER NOT NULL,
				xg_diff REAL NOT NULL,
				games_played_pct REAL NOT NULL,
				minutes_pct REAL NOT NULL,
				defcon_score REAL NOT NULL,
				slope REAL,
				r_squared REAL,
				momentum_score REAL,
				sufficient_data INTEGER NOT NULL,
				signal TEXT NOT NULL,
				PRIMARY KEY (run_id, player_id, window_size)
			);
		`, quotedTableName)
	}
}

// storedTime scans a timestamp column from any of the three backends.
// SQLite stores RFC3339Nano strings, MySQL and PostgreSQL return native
// datetimes. A NULL leaves Valid false, which is how nullable end_time
// columns come back for unfinished runs.
type storedTime struct {
	Time  time.Time
	Valid bool
}

func (st *storedTime) Scan(v any) error {
	switch x := v.(type) {
	case nil:
		st.Time, st.Valid = time.Time{}, false
		return nil
	case time.Time:
		st.Time, st.Valid = x, true
		return nil
	case string:
		t, err := time.Parse(time.RFC3339Nano, x)
		if err != nil {
			return fmt.Errorf("parse stored timestamp %q: %w", x, err)
		}
		st.Time, st.Valid = t, true
		return nil
	case []byte:
		return st.Scan(string(x))
	default:
		return fmt.Errorf("cannot scan %T into timestamp", v)
	}
}

// BeginAnalysis creates a new analysis run and returns its unique ID.
func (as *AnalysisStoreImpl) BeginAnalysis(startTime time.Time, configParams map[string]any) (int64, error) {
	if as.backend == schema.NoneBackend || as.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("marshal config params: %w", err)
	}

	runsTable := quoteTableName(analysisRunsTable, as.backend)

	// PostgreSQL has no LastInsertId, so it takes the RETURNING path.
	var runID int64
	if as.backend == schema.PostgreSQLBackend {
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES ($1, $2) RETURNING run_id`, runsTable)
		err = as.db.QueryRow(query, startTime, string(configJSON)).Scan(&runID)
	} else {
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES (?, ?)`, runsTable)
		var result sql.Result
		result, err = as.db.Exec(query, formatTime(startTime, as.backend), string(configJSON))
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("insert analysis run: %w", err)
	}

	return runID, nil
}

// EndAnalysis updates the analysis run with completion data.
func (as *AnalysisStoreImpl) EndAnalysis(analysisID int64, endTime time.Time, totalPlayers int, gameweek int) error {
	if as.backend == schema.NoneBackend || as.db == nil {
		return nil
	}

	runsTable := quoteTableName(analysisRunsTable, as.backend)

	// The run duration is derived from the recorded start_time so that the
	// stored value stays consistent even if callers pass a skewed endTime.
	var start storedTime
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, runsTable, placeholderFor(as.backend))
	if err := as.db.QueryRow(query, analysisID).Scan(&start); err != nil {
		return fmt.Errorf("read start_time for run %d: %w", analysisID, err)
	}
	durationMs := endTime.Sub(start.Time).Milliseconds()

	var updateQuery string
	var args []any
	if as.backend == schema.PostgreSQLBackend {
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = $1, run_duration_ms = $2, total_players = $3, gameweek = $4 WHERE run_id = $5`, runsTable)
		args = []any{endTime, durationMs, totalPlayers, gameweek, analysisID}
	} else {
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = ?, run_duration_ms = ?, total_players = ?, gameweek = ? WHERE run_id = ?`, runsTable)
		args = []any{formatTime(endTime, as.backend), durationMs, totalPlayers, gameweek, analysisID}
	}

	if _, err := as.db.Exec(updateQuery, args...); err != nil {
		return fmt.Errorf("finalize analysis run %d: %w", analysisID, err)
	}

	return nil
}

// signalColumns is the column order shared by the insert statement and the
// signal-dump query. Keep in sync with the CREATE TABLE definitions above.
const signalColumns = `run_id, player_id, web_name, team_name, position,
    window_size, gameweek, now_cost, rolling_xg, rolling_goals,
    xg_diff, games_played_pct, minutes_pct, defcon_score,
    slope, r_squared, momentum_score, sufficient_data, signal`

// placeholderList builds the VALUES placeholder list for n columns,
// numbered for PostgreSQL and positional for SQLite/MySQL.
func placeholderList(backend schema.DatabaseBackend, n int) string {
	parts := make([]string, n)
	for i := range n {
		if backend == schema.PostgreSQLBackend {
			parts[i] = fmt.Sprintf("$%d", i+1)
		} else {
			parts[i] = "?"
		}
	}
	return strings.Join(parts, ", ")
}

// RecordPlayerSignals stores all classified rows for a run in a single transaction.
func (as *AnalysisStoreImpl) RecordPlayerSignals(analysisID int64, rows []schema.PlayerAnalysis) error {
	if as.backend == schema.NoneBackend || as.db == nil {
		return nil
	}

	if len(rows) == 0 {
		return nil
	}

	tx, err := as.db.Begin()
	if err != nil {
		return fmt.Errorf("begin signals transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(getInsertSignalQuery(as.backend))
	if err != nil {
		return fmt.Errorf("prepare signal insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, row := range rows {
		_, err := stmt.Exec(
			analysisID, row.PlayerID, row.WebName, row.TeamName, string(row.Position),
			row.WindowSize, row.Gameweek, row.NowCost, row.RollingXG, row.RollingGoals,
			row.XGDiff, row.GamesPlayedPct, row.MinutesPct, row.DefconScore,
			row.Slope, row.RSquared, row.MomentumScore, row.SufficientData, string(row.Signal),
		)
		if err != nil {
			return fmt.Errorf("insert signal for player %d window %d: %w", row.PlayerID, row.WindowSize, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit signals for run %d: %w", analysisID, err)
	}

	return nil
}

// getInsertSignalQuery returns the INSERT query for momentum_player_signals.
func getInsertSignalQuery(backend schema.DatabaseBackend) string {
	return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		quoteTableName(playerSignalsTable, backend), signalColumns, placeholderList(backend, 19))
}

// Close closes the underlying connection.
func (as *AnalysisStoreImpl) Close() error {
	if as.db != nil {
		return as.db.Close()
	}
	return nil
}

// GetStatus returns status information about the analysis store.
func (as *AnalysisStoreImpl) GetStatus() (schema.AnalysisStatus, error) {
	status := schema.AnalysisStatus{
		Backend:    string(as.backend),
		Connected:  as.db != nil,
		TableSizes: make(map[string]int64),
	}

	if as.backend == schema.NoneBackend || as.db == nil {
		return status, nil
	}

	runsTable := quoteTableName(analysisRunsTable, as.backend)
	signalsTable := quoteTableName(playerSignalsTable, as.backend)

	if err := as.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runsTable)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("count analysis runs: %w", err)
	}

	if status.TotalRuns > 0 {
		var lastStart, oldestStart storedTime

		lastRunQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", runsTable)
		if err := as.db.QueryRow(lastRunQuery).Scan(&status.LastRunID, &lastStart); err != nil {
			return status, fmt.Errorf("read last run: %w", err)
		}
		status.LastRunTime = lastStart.Time

		oldestRunQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", runsTable)
		if err := as.db.QueryRow(oldestRunQuery).Scan(&oldestStart); err != nil {
			return status, fmt.Errorf("read oldest run: %w", err)
		}
		status.OldestRunTime = oldestStart.Time

		if err := as.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", signalsTable)).Scan(&status.TotalSignals); err != nil {
			return status, fmt.Errorf("count recorded signals: %w", err)
		}
	}

	for _, table := range []string{analysisRunsTable, playerSignalsTable} {
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, as.backend))
		var count int64
		if err := as.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("count rows in %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllAnalysisRuns retrieves all analysis runs from the store.
func (as *AnalysisStoreImpl) GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error) {
	if as.backend == schema.NoneBackend || as.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT run_id, start_time, end_time, run_duration_ms, total_players, gameweek, config_params FROM %s ORDER BY run_id",
		quoteTableName(analysisRunsTable, as.backend))

	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query analysis runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.AnalysisRunRecord
	for rows.Next() {
		var record schema.AnalysisRunRecord
		var start, end storedTime

		if err := rows.Scan(&record.RunID, &start, &end, &record.RunDurationMs, &record.TotalPlayers, &record.Gameweek, &record.ConfigParams); err != nil {
			return nil, fmt.Errorf("scan analysis run: %w", err)
		}
		record.StartTime = start.Time
		if end.Valid {
			record.EndTime = &end.Time
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analysis runs: %w", err)
	}

	return results, nil
}

// GetAllPlayerSignals retrieves all recorded player signals from the store.
func (as *AnalysisStoreImpl) GetAllPlayerSignals() ([]schema.PlayerSignalRecord, error) {
	if as.backend == schema.NoneBackend || as.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY run_id, window_size, player_id",
		signalColumns, quoteTableName(playerSignalsTable, as.backend))

	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query player signals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.PlayerSignalRecord
	for rows.Next() {
		var record schema.PlayerSignalRecord

		if err := rows.Scan(&record.RunID, &record.PlayerID, &record.WebName, &record.TeamName, &record.Position,
			&record.WindowSize, &record.Gameweek, &record.NowCost, &record.RollingXG, &record.RollingGoals,
			&record.XGDiff, &record.GamesPlayedPct, &record.MinutesPct, &record.DefconScore,
			&record.Slope, &record.RSquared, &record.MomentumScore, &record.SufficientData, &record.Signal); err != nil {
			return nil, fmt.Errorf("scan player signal: %w", err)
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate player signals: %w", err)
	}

	return results, nil
}

// formatTime renders a bind value for a timestamp column. SQLite has no
// native datetime type, so it gets the RFC3339Nano string form that
// storedTime parses back out.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	if backend == schema.SQLiteBackend {
		return t.Format(time.RFC3339Nano)
	}
	return t
}
