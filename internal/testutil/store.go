// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"recipe_memo/internal/common/dbx"
	"recipe_memo/internal/platform/database"

	"github.com/stretchr/testify/require"
)

// OpenStore opens a fresh, migrated database under t.TempDir and closes it
// when the test ends.
func OpenStore(t *testing.T) *database.Store {
	t.Helper()
	store, err := database.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// Invite inserts an active, unused invitation for userID.
func Invite(t *testing.T, db dbx.DBTX, userID, role string) {
	t.Helper()
	_, err := db.ExecContext(context.Background(),
		"INSERT INTO allowed_users (userid, role) VALUES (?, ?)", userID, role)
	require.NoError(t, err)
}

// CountRows returns the number of rows in table.
func CountRows(t *testing.T, db dbx.DBTX, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}
