// Package sqlstore implements storage.Store over database/sql for SQLite,
// MySQL and PostgreSQL.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcoot/playerdb/internal/metrics"
	"github.com/mcoot/playerdb/internal/model"
	"github.com/mcoot/playerdb/internal/query"
	"github.com/mcoot/playerdb/internal/storage"
)

// Store is a storage.Store backed by a *sql.DB pool
type Store struct {
	db      *sql.DB
	dialect dialect
	logger  *slog.Logger
}

// Compile-time interface check
var _ storage.Store = (*Store)(nil)

// Open connects to the configured database and optionally creates the schema
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	d, err := dialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	dsn, err := d.normalizeDSN(cfg.DSN)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(d.name, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if d.name == DriverSQLite {
		// SQLite allows a single writer
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	for _, pragma := range d.pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	s := &Store{db: db, dialect: d, logger: logger}

	if cfg.CreateSchema {
		if err := s.applySchema(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	logger.Info("store opened", "driver", d.name, "create_schema", cfg.CreateSchema)
	return s, nil
}

// applySchema creates the player table if missing
func (s *Store) applySchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, s.dialect.schema)
	return err
}

// Query runs stmt on any pooled connection
func (s *Store) Query(ctx context.Context, stmt query.Statement) ([]model.Row, error) {
	return s.executor(s.db).Query(ctx, stmt)
}

// Exec runs stmt on any pooled connection
func (s *Store) Exec(ctx context.Context, stmt query.Statement) (storage.Result, error) {
	return s.executor(s.db).Exec(ctx, stmt)
}

// Session pins one connection for the duration of fn
func (s *Store) Session(ctx context.Context, fn func(storage.Executor) error) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return &storage.Error{Op: "session", Err: err, Code: s.dialect.errorCode(err)}
	}
	defer func() { _ = conn.Close() }()

	return fn(s.executor(conn))
}

// Ping checks the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the pool
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) executor(q queryer) *executor {
	return &executor{q: q, dialect: s.dialect, logger: s.logger}
}

// queryer is satisfied by both *sql.DB and *sql.Conn
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type executor struct {
	q       queryer
	dialect dialect
	logger  *slog.Logger
}

func (e *executor) Query(ctx context.Context, stmt query.Statement) ([]model.Row, error) {
	text, err := e.render(stmt)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows, err := e.q.QueryContext(ctx, text, stmt.Args...)
	if err != nil {
		return nil, e.fail(stmt, text, err)
	}
	defer func() { _ = rows.Close() }()

	result, err := scanRows(rows)
	if err != nil {
		return nil, e.fail(stmt, text, err)
	}

	e.observe(stmt, text, start)
	return result, nil
}

func (e *executor) Exec(ctx context.Context, stmt query.Statement) (storage.Result, error) {
	text, err := e.render(stmt)
	if err != nil {
		return storage.Result{}, err
	}

	start := time.Now()

	if stmt.Kind == query.KindInsert && e.dialect.returningID {
		text += " RETURNING id"
		var id int64
		if err := e.q.QueryRowContext(ctx, text, stmt.Args...).Scan(&id); err != nil {
			return storage.Result{}, e.fail(stmt, text, err)
		}
		e.observe(stmt, text, start)
		return storage.Result{LastInsertID: id, RowsAffected: 1}, nil
	}

	res, err := e.q.ExecContext(ctx, text, stmt.Args...)
	if err != nil {
		return storage.Result{}, e.fail(stmt, text, err)
	}

	var out storage.Result
	if out.RowsAffected, err = res.RowsAffected(); err != nil {
		return storage.Result{}, e.fail(stmt, text, err)
	}
	if stmt.Kind == query.KindInsert {
		if out.LastInsertID, err = res.LastInsertId(); err != nil {
			return storage.Result{}, e.fail(stmt, text, err)
		}
	}

	e.observe(stmt, text, start)
	return out, nil
}

// render rewrites placeholders for the dialect
func (e *executor) render(stmt query.Statement) (string, error) {
	text, err := e.dialect.placeholder.ReplacePlaceholders(stmt.SQL)
	if err != nil {
		return "", &storage.Error{Op: stmt.Kind.String(), SQL: stmt.SQL, Err: err}
	}
	return text, nil
}

func (e *executor) observe(stmt query.Statement, text string, start time.Time) {
	elapsed := time.Since(start)
	metrics.RecordStoreStatement(stmt.Kind.String(), elapsed)
	e.logger.Debug("statement executed",
		"kind", stmt.Kind.String(),
		"sql", text,
		"args", len(stmt.Args),
		"duration_ms", elapsed.Milliseconds(),
	)
}

func (e *executor) fail(stmt query.Statement, text string, err error) error {
	code := e.dialect.errorCode(err)
	metrics.RecordStoreError(stmt.Kind.String(), code)
	e.logger.Warn("statement failed",
		"kind", stmt.Kind.String(),
		"sql", text,
		"error", err,
	)
	return &storage.Error{Op: stmt.Kind.String(), SQL: text, Code: code, Err: err}
}

// scanRows reads every row into a column-name keyed map with driver values
// normalized to the player column types
func scanRows(rows *sql.Rows) ([]model.Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := []model.Row{}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(model.Row, len(cols))
		for i, col := range cols {
			v, err := model.NormalizeColumn(col, values[i])
			if err != nil {
				return nil, err
			}
			row[col] = v
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
