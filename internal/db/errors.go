package db

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrDuplicateLink marks a write rejected by the episodes primary key.
var ErrDuplicateLink = errors.New("duplicate episode link")

// StoreWriteError is returned when AppendEpisodes could not commit its batch.
// Nothing from the batch is persisted when it is returned.
type StoreWriteError struct {
	Rows int
	Err  error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("store write of %d episodes failed: %v", e.Rows, e.Err)
}

func (e *StoreWriteError) Unwrap() error { return e.Err }

// isUniqueViolation recognizes primary key conflicts from both supported drivers.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT:
			return true
		}
	}
	return false
}

func writeError(rows int, err error) error {
	if isUniqueViolation(err) {
		err = fmt.Errorf("%w: %v", ErrDuplicateLink, err)
	}
	return &StoreWriteError{Rows: rows, Err: err}
}
