// Package db holds shared database error types.
package db

import "errors"

// ErrKeyNotFound signals a missing cache key.
var ErrKeyNotFound = errors.New("db: key not found")

// Op constants name the failing operation for error context.
const (
	OpGet   = "GET"
	OpSet   = "SET"
	OpPing  = "PING"
	OpExec  = "EXEC"
	OpQuery = "QUERY"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
