package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound: the row does not exist (or is not visible to the caller).
	ErrNotFound = errors.New("repository: not found")
	// ErrStaleStatus: a compare-and-set update matched zero rows because
	// the status guard failed. The caller lost a race or is retrying an
	// already-applied action.
	ErrStaleStatus = errors.New("repository: stale status")
	// ErrDuplicate: a unique constraint rejected the insert.
	ErrDuplicate = errors.New("repository: duplicate")
)

// isUniqueViolation recognizes unique-index failures from both backends:
// Postgres reports SQLSTATE 23505, the sqlite driver only gives us the
// message text.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique")
}
