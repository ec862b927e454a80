// Package postgres implements the domain store interfaces on PostgreSQL
// via pgx. Queries are plain SQL; cart invariants (one cart per session,
// one line per product) are enforced by uniqueness constraints so the
// lookup-or-create paths are single atomic statements.
package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL error code for unique_violation.
const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a unique-constraint violation
// on the named constraint. An empty constraint matches any.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	if pgErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
