package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T, name string) *LoanRepository {
	t.Helper()
	repo, err := Initialize(context.Background(), filepath.Join(t.TempDir(), name), StoreOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

// writeLegacyLedger writes a ledger in the layout used before ids were
// stored: loans(date, name, amount) and no schema version table.
func writeLegacyLedger(t *testing.T, path string, rows [][3]string) {
	t.Helper()
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec("CREATE TABLE loans (date text, name text, amount real)")
	require.NoError(t, err)
	for _, r := range rows {
		_, err = db.Exec("INSERT INTO loans VALUES (?, ?, ?)", r[0], r[1], r[2])
		require.NoError(t, err)
	}
}
