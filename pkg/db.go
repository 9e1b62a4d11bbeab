package pkg

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// IsUniqueViolationError checks if the error is a unique violation error.
// If constraint names are given, the violated constraint must be one of them.
func IsUniqueViolationError(err error, constraints ...string) bool {
	return isPgError(err, pgUniqueViolation, constraints)
}

// IsForeignKeyViolationError checks if the error is a foreign key violation error
func IsForeignKeyViolationError(err error, constraints ...string) bool {
	return isPgError(err, pgForeignKeyViolation, constraints)
}

func isPgError(err error, code string, constraints []string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != code {
		return false
	}
	if len(constraints) == 0 {
		return true
	}
	for _, c := range constraints {
		if pgErr.ConstraintName == c {
			return true
		}
	}
	return false
}
