package sqlstore

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// Supported drivers
const (
	DriverSQLite   = "sqlite3"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// dialect captures what differs between the supported databases
type dialect struct {
	name        string
	placeholder sq.PlaceholderFormat
	// returningID means inserts report their id through RETURNING
	// instead of LastInsertId
	returningID bool
	schema      string
	// pragmas run once after connecting
	pragmas      []string
	normalizeDSN func(string) (string, error)
	errorCode    func(error) string
}

var dialects = map[string]dialect{
	DriverSQLite: {
		name:        DriverSQLite,
		placeholder: sq.Question,
		pragmas: []string{
			"PRAGMA journal_mode = WAL",
			"PRAGMA busy_timeout = 5000",
		},
		schema: `CREATE TABLE IF NOT EXISTS player (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	firstname VARCHAR(255) NOT NULL,
	isok TINYINT NOT NULL DEFAULT 0,
	nbgame INTEGER NOT NULL DEFAULT 0,
	datelastgame DATE
)`,
		normalizeDSN: func(dsn string) (string, error) { return dsn, nil },
		errorCode: func(err error) string {
			var e sqlite3.Error
			if errors.As(err, &e) {
				return strconv.Itoa(int(e.ExtendedCode))
			}
			return ""
		},
	},
	DriverMySQL: {
		name:        DriverMySQL,
		placeholder: sq.Question,
		schema: `CREATE TABLE IF NOT EXISTS player (
	id INT AUTO_INCREMENT PRIMARY KEY,
	firstname VARCHAR(255) NOT NULL,
	isok TINYINT(1) NOT NULL DEFAULT 0,
	nbgame INT NOT NULL DEFAULT 0,
	datelastgame DATE
)`,
		normalizeDSN: normalizeMySQLDSN,
		errorCode: func(err error) string {
			var e *mysql.MySQLError
			if errors.As(err, &e) {
				return strconv.Itoa(int(e.Number))
			}
			return ""
		},
	},
	DriverPostgres: {
		name:        DriverPostgres,
		placeholder: sq.Dollar,
		returningID: true,
		schema: `CREATE TABLE IF NOT EXISTS player (
	id SERIAL PRIMARY KEY,
	firstname VARCHAR(255) NOT NULL,
	isok SMALLINT NOT NULL DEFAULT 0,
	nbgame INTEGER NOT NULL DEFAULT 0,
	datelastgame DATE
)`,
		normalizeDSN: func(dsn string) (string, error) { return dsn, nil },
		errorCode: func(err error) string {
			var e *pq.Error
			if errors.As(err, &e) {
				return string(e.Code)
			}
			return ""
		},
	},
}

func dialectFor(driver string) (dialect, error) {
	d, ok := dialects[driver]
	if !ok {
		return dialect{}, fmt.Errorf("unsupported driver %q", driver)
	}
	return d, nil
}

// normalizeMySQLDSN makes DATE columns come back as time.Time in UTC
func normalizeMySQLDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}
