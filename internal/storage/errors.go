package storage

import "fmt"

// Error is a failure reported by the store while running a statement
type Error struct {
	// Op is the statement kind (select, insert, ...)
	Op string
	// SQL is the statement text as sent to the driver
	SQL string
	// Code is the driver specific error code, if any
	Code string
	Err  error
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Message returns the driver's human-readable message
func (e *Error) Message() string {
	return e.Err.Error()
}

// Unwrap returns the driver error
func (e *Error) Unwrap() error {
	return e.Err
}
