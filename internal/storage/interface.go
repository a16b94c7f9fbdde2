package storage

import (
	"context"

	"github.com/mcoot/playerdb/internal/model"
	"github.com/mcoot/playerdb/internal/query"
)

// Executor runs built statements against the relational store
type Executor interface {
	// Query runs a statement that returns rows, each value already
	// converted by model.NormalizeColumn
	Query(ctx context.Context, stmt query.Statement) ([]model.Row, error)
	// Exec runs a write statement
	Exec(ctx context.Context, stmt query.Statement) (Result, error)
}

// Result reports the outcome of a write
type Result struct {
	// LastInsertID is the generated id for inserts, zero otherwise
	LastInsertID int64
	RowsAffected int64
}

// Store is an Executor backed by a connection pool
type Store interface {
	Executor

	// Session runs fn against a single connection, so a read issued
	// after a write inside fn observes that write
	Session(ctx context.Context, fn func(Executor) error) error

	Ping(ctx context.Context) error
	Close() error
}
