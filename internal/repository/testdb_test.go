package repository

import (
	"database/sql"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// newTestDB opens an in-memory database with the real schema applied.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// Each pool connection would get its own empty in-memory database.
	db.SetMaxOpenConns(1)

	_, err = db.Exec("PRAGMA foreign_keys=ON")
	require.NoError(t, err)

	schema, err := os.ReadFile("../../migrations/001_initial_schema.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	return db
}
