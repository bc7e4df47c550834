package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/momcircle/matchd/internal/db"
)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation pq.ErrorCode = "23505"

// IsUniqueViolation reports whether err is a Postgres unique constraint failure.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// IsNoRows reports whether err is sql.ErrNoRows.
func IsNoRows(err error) bool { return errors.Is(err, sql.ErrNoRows) }

// Wrap annotates err with op. Unique violations also match db.ErrUniqueViolation.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsUniqueViolation(err) {
		return &db.Error{Op: op, Err: errors.Join(db.ErrUniqueViolation, err)}
	}
	return &db.Error{Op: op, Err: err}
}
