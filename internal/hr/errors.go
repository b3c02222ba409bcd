package hr

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAttemptExists = errors.New("attempt already recorded")
)

// isUniqueViolation recognizes the (employee, quiz) uniqueness breach on both
// drivers: pgx surfaces SQLSTATE 23505, modernc/sqlite only an error string.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
