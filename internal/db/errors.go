package db

import "errors"

// Sentinel errors for storage operations.
var (
	ErrKeyNotFound      = errors.New("db: key not found")
	ErrUniqueViolation  = errors.New("db: unique constraint violated")
	ErrMigrationsFailed = errors.New("db: migrations failed")
)

// Op names used for error context. Redis ops match command names.
const (
	OpGet     = "GET"
	OpSet     = "SET"
	OpPing    = "PING"
	OpQuery   = "QUERY"
	OpExec    = "EXEC"
	OpMigrate = "MIGRATE"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
