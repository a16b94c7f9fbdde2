package sqlstore

// Config holds database connection settings
type Config struct {
	// Driver selects the dialect: "sqlite3", "mysql" or "postgres"
	Driver string
	// DSN is the driver specific data source name
	DSN string
	// CreateSchema creates the player table if it does not exist
	CreateSchema bool
	// MaxOpenConns caps the pool; ignored for sqlite3, which always uses one
	MaxOpenConns int
}

// DefaultConfig returns a local SQLite configuration
func DefaultConfig() Config {
	return Config{
		Driver:       DriverSQLite,
		DSN:          "players.db",
		CreateSchema: true,
		MaxOpenConns: 10,
	}
}
