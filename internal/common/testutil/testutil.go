// Package testutil provides SQLite-backed fixtures for package tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mommatch/mommatch-backend/internal/common/database"
)

// DefaultPassword is the password of every user created by CreateUser
const DefaultPassword = "correct horse battery"

// NewTestDB opens a migrated SQLite database in a per-test temp dir
func NewTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := database.NewSQLiteDB(filepath.Join(t.TempDir(), "mommatch.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = database.Migrate(context.Background(), db)
	require.NoError(t, err)
	return db
}

// PostgresURLEnv names the variable that enables PostgreSQL-backed tests
const PostgresURLEnv = "MOMMATCH_TEST_POSTGRES_URL"

// NewPostgresTestDB opens and migrates the database named by PostgresURLEnv,
// skipping the test when it is unset. The database is shared, so callers
// create uniquely named users and remove them when done.
func NewPostgresTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	url := os.Getenv(PostgresURLEnv)
	if url == "" {
		t.Skipf("%s not set", PostgresURLEnv)
	}

	db, err := database.NewPostgresDBFromURL(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = database.Migrate(context.Background(), db)
	require.NoError(t, err)
	return db
}

// CreateUser inserts a member named name and returns its id
func CreateUser(t *testing.T, db *sqlx.DB, name string) int64 {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	require.NoError(t, err)

	now := time.Now().UTC()
	email := fmt.Sprintf("%s@example.com", strings.ToLower(name))
	var id int64
	err = db.QueryRowxContext(context.Background(), db.Rebind(`
		INSERT INTO users (email, display_name, password_hash, bio, city, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`),
		email, name, string(hash), "Mom of two", "Lagos", now, now,
	).Scan(&id)
	require.NoError(t, err)
	return id
}
