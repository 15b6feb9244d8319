package database

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// sqlxSQLiteName is the driver name handed to sqlx so Rebind keeps "?" placeholders.
const sqlxSQLiteName = "sqlite3"

// NewSQLiteDB opens a SQLite database file for local development and tests.
// SQLite allows a single writer, so the pool is pinned to one connection.
func NewSQLiteDB(path string) (*sqlx.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

	sqlDB, err := sqlx.Open(DriverSQLite, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	return sqlx.NewDb(sqlDB.DB, sqlxSQLiteName), nil
}

// Open connects to the configured driver.
func Open(driver, databaseURL, sqlitePath string, maxOpenConns int) (*sqlx.DB, error) {
	switch driver {
	case DriverPostgres:
		return NewPostgresDB(&PostgresConfig{URL: databaseURL, MaxOpenConns: maxOpenConns})
	case DriverSQLite:
		return NewSQLiteDB(sqlitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Dialect maps a sqlx handle back to the migration set it needs.
func Dialect(db *sqlx.DB) string {
	if db.DriverName() == DriverPostgres {
		return DriverPostgres
	}
	return DriverSQLite
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
