package iocache

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/k1lgor/fpl-momentum-tracker/schema"
)

//go:embed migrations/*/*.sql
var migrationsFS embed.FS

// migrationsDir returns the embedded migrations directory for the backend.
// Each backend has its own directory because the DDL dialects differ.
func migrationsDir(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return "migrations/mysql"
	case schema.PostgreSQLBackend:
		return "migrations/postgres"
	default: // SQLite
		return "migrations/sqlite"
	}
}

// openMigrationDB opens a plain database/sql handle for the migration run.
// The caller owns the returned handle.
func openMigrationDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = GetAnalysisDBFilePath()
		}
		db, err := sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("open SQLite analysis database: %w", err)
		}
		// In-memory SQLite vanishes when its only connection closes
		db.SetMaxOpenConns(1)
		return db, nil

	case schema.MySQLBackend:
		db, err := sql.Open("mysql", connStr)
		if err != nil {
			return nil, fmt.Errorf("open MySQL analysis database: %w", err)
		}
		return db, nil

	case schema.PostgreSQLBackend:
		db, err := sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("open PostgreSQL analysis database: %w", err)
		}
		return db, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}
}

// migrateDriverFor wraps an open handle in the golang-migrate driver
// matching the backend.
func migrateDriverFor(backend schema.DatabaseBackend, db *sql.DB) (database.Driver, error) {
	switch backend {
	case schema.MySQLBackend:
		return mysql.WithInstance(db, &mysql.Config{})
	case schema.PostgreSQLBackend:
		return postgres.WithInstance(db, &postgres.Config{})
	default: // SQLite
		return sqlite.WithInstance(db, &sqlite.Config{})
	}
}

// MigrateAnalysis moves the run-tracking schema to targetVersion.
// Negative means latest, zero rolls everything back, positive pins an
// exact version.
func MigrateAnalysis(backend schema.DatabaseBackend, connStr string, targetVersion int) error {
	if backend == schema.NoneBackend {
		return fmt.Errorf("migrations are not supported for NoneBackend")
	}

	db, err := openMigrationDB(backend, connStr)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping analysis database: %w", err)
	}

	driver, err := migrateDriverFor(backend, db)
	if err != nil {
		return fmt.Errorf("create %s migrate driver: %w", backend, err)
	}

	migrationFS, err := fs.Sub(migrationsFS, migrationsDir(backend))
	if err != nil {
		return fmt.Errorf("access embedded migrations: %w", err)
	}
	sourceDriver, err := iofs.New(migrationFS, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "fpltracker", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	currentVersion, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("read current migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in a dirty state at version %d. Please fix manually or force version", currentVersion)
	}

	switch {
	case targetVersion < 0:
		err = m.Up()
		if err != nil && err != migrate.ErrNoChange {
			return fmt.Errorf("migrate to latest version: %w", err)
		}
		if err == migrate.ErrNoChange {
			fmt.Println("Schema already at the latest version, nothing to do.")
		} else {
			newVersion, _, _ := m.Version()
			fmt.Printf("Migrated schema from version %d to %d\n", currentVersion, newVersion)
		}

	case targetVersion == 0:
		// Roll back every migration, leaving an empty schema
		err = m.Down()
		if err != nil && err != migrate.ErrNoChange {
			return fmt.Errorf("roll back to version 0: %w", err)
		}
		if err == migrate.ErrNoChange {
			fmt.Println("Schema already at version 0, nothing to do.")
		} else {
			fmt.Printf("Rolled schema back from version %d to 0\n", currentVersion)
		}

	default:
		err = m.Migrate(uint(targetVersion))
		if err != nil && err != migrate.ErrNoChange {
			return fmt.Errorf("migrate to version %d: %w", targetVersion, err)
		}
		if err == migrate.ErrNoChange {
			fmt.Printf("Schema already at version %d, nothing to do.\n", targetVersion)
		} else {
			fmt.Printf("Migrated schema from version %d to %d\n", currentVersion, targetVersion)
		}
	}

	return nil
}
