// Package teststore opens throwaway SQLite stores for tests.
package teststore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mcoot/playerdb/internal/model"
	"github.com/mcoot/playerdb/internal/query"
	"github.com/mcoot/playerdb/internal/storage/sqlstore"
	"github.com/mcoot/playerdb/internal/testutil"
)

// New opens a store on a fresh database file in the test's temp dir.
// The store is closed when the test ends.
func New(t testing.TB) *sqlstore.Store {
	t.Helper()

	cfg := sqlstore.Config{
		Driver:       sqlstore.DriverSQLite,
		DSN:          filepath.Join(t.TempDir(), "players.db"),
		CreateSchema: true,
	}
	store, err := sqlstore.Open(context.Background(), cfg, testutil.NopLogger())
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	return store
}

// Seed inserts players in order and returns their ids
func Seed(t testing.TB, store *sqlstore.Store, players ...model.PlayerInput) []model.PlayerID {
	t.Helper()

	ids := make([]model.PlayerID, 0, len(players))
	for _, p := range players {
		stmt, err := query.Insert(p)
		if err != nil {
			t.Fatalf("build insert: %v", err)
		}
		res, err := store.Exec(context.Background(), stmt)
		if err != nil {
			t.Fatalf("seed player %q: %v", p.Firstname, err)
		}
		ids = append(ids, model.PlayerID(res.LastInsertID))
	}
	return ids
}
