// Package sqlerr translates driver-level errors into the domain taxonomy so
// callers above the storage layer never inspect SQLSTATEs.
package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/carson-networks/card-ledger/internal/ledger"
)

const (
	codeUniqueViolation      = "23505"
	codeSerializationFailure = "40001"
	codeLockNotAvailable     = "55P03"
)

// Map converts sql.ErrNoRows and recognised Postgres SQLSTATEs into ledger
// errors. Unrecognised errors pass through unchanged.
func Map(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case codeLockNotAvailable:
			return fmt.Errorf("%w: %v", ledger.ErrLockTimeout, err)
		case codeUniqueViolation:
			return fmt.Errorf("%w: %v", ledger.ErrConflict, err)
		case codeSerializationFailure:
			return fmt.Errorf("%w: %v", ledger.ErrConcurrencyConflict, err)
		}
	}
	return err
}
