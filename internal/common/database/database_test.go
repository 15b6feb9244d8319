package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := NewSQLiteDB(filepath.Join(t.TempDir(), "mommatch.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrateAppliesOnce(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	applied, err := Migrate(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	applied, err = Migrate(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 0, applied)

	for _, table := range []string{"users", "interests", "interest_pairs", "conversations"} {
		var name string
		err := db.Get(&name, "SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table)
		require.NoError(t, err, table)
	}
}

func TestDialect(t *testing.T) {
	db := openTestDB(t)
	assert.Equal(t, DriverSQLite, Dialect(db))
	assert.Equal(t, "SELECT ?", db.Rebind("SELECT ?"))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("mysql", "", "", 0)
	require.Error(t, err)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	_, err := Migrate(ctx, db)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = WithTx(ctx, db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO users (email, display_name, password_hash) VALUES (?, ?, ?)",
			"ana@example.com", "Ana", "x")
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM users"))
	assert.Zero(t, count)
}

func TestWithTxCommits(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	_, err := Migrate(ctx, db)
	require.NoError(t, err)

	err = WithTx(ctx, db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO users (email, display_name, password_hash) VALUES (?, ?, ?)",
			"ana@example.com", "Ana", "x")
		return err
	})
	require.NoError(t, err)

	var count int
	require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM users"))
	assert.Equal(t, 1, count)
}

func TestIsUniqueViolation(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	_, err := Migrate(ctx, db)
	require.NoError(t, err)

	insert := "INSERT INTO users (email, display_name, password_hash) VALUES (?, ?, ?)"
	_, err = db.ExecContext(ctx, insert, "ana@example.com", "Ana", "x")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, insert, "ana@example.com", "Ana", "x")
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
	assert.False(t, IsUniqueViolation(errors.New("other")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestExtractUp(t *testing.T) {
	got := extractUp("-- +migrate Up\nCREATE TABLE a (id INT);\n-- +migrate Down\nDROP TABLE a;")
	assert.Equal(t, "\nCREATE TABLE a (id INT);\n", got)
	assert.Equal(t, "SELECT 1", extractUp("SELECT 1"))
}
