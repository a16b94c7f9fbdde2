package factory

import (
	"context"
	"io"
	"log/slog"

	"github.com/mcoot/playerdb/internal/services/player"
	"github.com/mcoot/playerdb/internal/storage"
	"github.com/mcoot/playerdb/internal/storage/sqlstore"
)

// App contains all wired application components
type App struct {
	// Storage
	Store storage.Store

	// Services
	PlayerService *player.Service
}

// Config holds configuration for the application factory
type Config struct {
	// Store holds database connection settings.
	// If zero value, defaults to sqlstore.DefaultConfig()
	Store sqlstore.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	storeCfg := cfg.Store
	if storeCfg.Driver == "" {
		storeCfg = sqlstore.DefaultConfig()
	}

	store, err := sqlstore.Open(ctx, storeCfg, logger)
	if err != nil {
		return nil, err
	}

	return newWithDependencies(store, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Store, logger *slog.Logger) *App {
	return &App{
		Store:         store,
		PlayerService: player.New(store, logger),
	}
}

// Close releases the store
func (a *App) Close() error {
	return a.Store.Close()
}
