package model

import "errors"

var (
	// ErrPlayerNotFound is returned when no player matches an id or filter
	ErrPlayerNotFound = errors.New("player not found")

	// ErrUnexpectedColumnType means the driver returned a value that
	// cannot be converted to the column's API type
	ErrUnexpectedColumnType = errors.New("unexpected column type")
)
