package factory

import (
	"testing"

	"github.com/mcoot/playerdb/internal/model"
	"github.com/mcoot/playerdb/internal/storage/sqlstore"
	"github.com/mcoot/playerdb/internal/testutil"
	"github.com/mcoot/playerdb/internal/testutil/teststore"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// SQLStore is the concrete store, for seeding
	SQLStore *sqlstore.Store

	t testing.TB
}

// NewTestApp creates an App backed by a throwaway SQLite database
func NewTestApp(t testing.TB) *TestApp {
	store := teststore.New(t)

	return &TestApp{
		App:      newWithDependencies(store, testutil.NopLogger()),
		SQLStore: store,
		t:        t,
	}
}

// Seed inserts players directly, bypassing validation
func (a *TestApp) Seed(players ...model.PlayerInput) []model.PlayerID {
	return teststore.Seed(a.t, a.SQLStore, players...)
}

// SeedDefaultPlayers inserts a small fixed roster:
// Toto (active), Motor (inactive), Abc (inactive)
func (a *TestApp) SeedDefaultPlayers() []model.PlayerID {
	return a.Seed(
		model.PlayerInput{Firstname: "Toto", IsOK: true, NbGame: 3, DateLastGame: "2020-01-01"},
		model.PlayerInput{Firstname: "Motor", IsOK: false, NbGame: 0, DateLastGame: "2018-04-20"},
		model.PlayerInput{Firstname: "Abc", IsOK: false, NbGame: 7, DateLastGame: "2019-06-15"},
	)
}
