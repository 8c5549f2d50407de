package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"   // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/k1lgor/fpl-momentum-tracker/internal/contract"
	"github.com/k1lgor/fpl-momentum-tracker/schema"
	_ "modernc.org/sqlite" // SQLite driver
)

// ResponseStore persists raw FPL API payloads between runs, so a refetch
// within the cache TTL never leaves the machine. One row per endpoint key,
// upserted whenever the endpoint is fetched again.
type ResponseStore struct {
	db      *sql.DB
	table   string
	backend schema.DatabaseBackend
	connStr string
}

var _ contract.CacheStore = &ResponseStore{} // Compile-time check

// NewResponseStore opens the configured backend and ensures the response
// table exists. A NoneBackend store accepts writes and misses every read,
// which keeps the fetch path free of cache-enabled branches.
func NewResponseStore(table string, backend schema.DatabaseBackend, connStr string) (contract.CacheStore, error) {
	if err := validateTableName(table); err != nil {
		return nil, err
	}

	if backend == schema.NoneBackend {
		return &ResponseStore{table: table, backend: backend}, nil
	}

	db, err := openResponseBackend(backend, connStr)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("response cache %s backend unreachable: %w. Check that the server is running and the connection string is valid", backend, err)
	}
	if _, err := db.Exec(responseTableSQL(table, backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create response table %s: %w", table, err)
	}

	return &ResponseStore{db: db, table: table, backend: backend, connStr: connStr}, nil
}

// openResponseBackend maps a backend to its SQL driver and opens the handle.
func openResponseBackend(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = GetDBFilePath()
		}
		db, err := sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("open SQLite response cache at %q: %w. Ensure the directory is writable", dbPath, err)
		}
		// A single connection keeps SQLite away from "database is locked".
		db.SetMaxOpenConns(1)
		return db, nil

	case schema.MySQLBackend:
		db, err := sql.Open("mysql", connStr)
		if err != nil {
			return nil, fmt.Errorf("open MySQL response cache: %w. Expected format: user:password@tcp(host:port)/dbname", err)
		}
		return db, nil

	case schema.PostgreSQLBackend:
		db, err := sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("open PostgreSQL response cache: %w. Expected format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}
		return db, nil

	default:
		return nil, fmt.Errorf("unsupported cache backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}
}

// responseTableSQL returns the backend-flavored CREATE TABLE statement for
// cached API responses. endpoint_key is the SHA-256 cache key, payload the
// raw JSON body, schema_version guards against stale record layouts and
// fetched_at (unix seconds) drives TTL checks.
func responseTableSQL(table string, backend schema.DatabaseBackend) string {
	quoted := quoteTableName(table, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				endpoint_key VARCHAR(255) PRIMARY KEY,
				payload MEDIUMBLOB NOT NULL,
				schema_version INT NOT NULL,
				fetched_at BIGINT NOT NULL
			);
		`, quoted)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				endpoint_key TEXT PRIMARY KEY,
				payload BYTEA NOT NULL,
				schema_version INTEGER NOT NULL,
				fetched_at BIGINT NOT NULL
			);
		`, quoted)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				endpoint_key TEXT PRIMARY KEY,
				payload BLOB NOT NULL,
				schema_version INTEGER NOT NULL,
				fetched_at INTEGER NOT NULL
			);
		`, quoted)
	}
}

// upsertResponseSQL returns the backend-flavored insert-or-replace statement.
func upsertResponseSQL(table string, backend schema.DatabaseBackend) string {
	quoted := quoteTableName(table, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (endpoint_key, payload, schema_version, fetched_at) VALUES (?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE payload = new.payload, schema_version = new.schema_version, fetched_at = new.fetched_at`, quoted)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (endpoint_key, payload, schema_version, fetched_at) VALUES ($1, $2, $3, $4)
			ON CONFLICT (endpoint_key) DO UPDATE SET payload = EXCLUDED.payload, schema_version = EXCLUDED.schema_version, fetched_at = EXCLUDED.fetched_at`, quoted)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (endpoint_key, payload, schema_version, fetched_at) VALUES (?, ?, ?, ?)`, quoted)
	}
}

// placeholderFor returns the parameter placeholder style of a backend.
func placeholderFor(backend schema.DatabaseBackend) string {
	if backend == schema.PostgreSQLBackend {
		return "$1"
	}
	return "?" // SQLite and MySQL
}

// Get returns the cached payload, schema version and fetch time for a key.
// A miss (or a NoneBackend store) surfaces as sql.ErrNoRows.
func (rs *ResponseStore) Get(key string) ([]byte, int, int64, error) {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, 0, 0, sql.ErrNoRows
	}

	query := fmt.Sprintf(`SELECT payload, schema_version, fetched_at FROM %s WHERE endpoint_key = %s`,
		quoteTableName(rs.table, rs.backend), placeholderFor(rs.backend))

	var payload []byte
	var version int
	var fetchedAt int64
	if err := rs.db.QueryRow(query, key).Scan(&payload, &version, &fetchedAt); err != nil {
		return nil, 0, 0, err
	}
	return payload, version, fetchedAt, nil
}

// Set stores or replaces the cached payload for a key. NoneBackend drops the
// write silently.
func (rs *ResponseStore) Set(key string, payload []byte, version int, fetchedAt int64) error {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}
	_, err := rs.db.Exec(upsertResponseSQL(rs.table, rs.backend), key, payload, version, fetchedAt)
	return err
}

// Close closes the underlying DB connection.
func (rs *ResponseStore) Close() error {
	if rs.db == nil {
		return nil
	}
	return rs.db.Close()
}

// GetStatus reports entry counts, the fetch-time range and an estimated
// on-disk footprint of the response table.
func (rs *ResponseStore) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{
		Backend:   string(rs.backend),
		Connected: rs.db != nil,
	}
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return status, nil
	}

	quoted := quoteTableName(rs.table, rs.backend)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoted)
	if err := rs.db.QueryRow(countQuery).Scan(&status.TotalEntries); err != nil {
		return status, fmt.Errorf("count cached responses: %w", err)
	}
	if status.TotalEntries == 0 {
		return status, nil
	}

	var newest, oldest int64
	rangeQuery := fmt.Sprintf("SELECT MAX(fetched_at), MIN(fetched_at) FROM %s", quoted)
	if err := rs.db.QueryRow(rangeQuery).Scan(&newest, &oldest); err != nil {
		return status, fmt.Errorf("read response fetch-time range: %w", err)
	}
	status.LastEntryTime = time.Unix(newest, 0)
	status.OldestEntryTime = time.Unix(oldest, 0)

	status.TableSizeBytes = rs.estimateTableSize(status.TotalEntries)
	return status, nil
}

// estimateTableSize asks each backend for its own notion of table size and
// falls back to a rough per-row estimate when the backend cannot answer.
func (rs *ResponseStore) estimateTableSize(entries int) int64 {
	fallback := int64(entries) * 1000

	switch rs.backend {
	case schema.SQLiteBackend:
		var size int64
		row := rs.db.QueryRow("SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
		if err := row.Scan(&size); err != nil {
			return 0
		}
		return size

	case schema.MySQLBackend:
		dsn, err := mysql.ParseDSN(rs.connStr)
		if err != nil || dsn.DBName == "" {
			return fallback
		}
		var size int64
		row := rs.db.QueryRow(
			"SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?",
			dsn.DBName, rs.table)
		if err := row.Scan(&size); err != nil {
			return fallback
		}
		return size

	case schema.PostgreSQLBackend:
		var size int64
		row := rs.db.QueryRow("SELECT pg_total_relation_size($1)", rs.table)
		if err := row.Scan(&size); err != nil {
			return fallback
		}
		return size

	default:
		return fallback
	}
}
