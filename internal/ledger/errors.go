// Package ledger holds the domain error taxonomy shared across layers. It
// imports nothing from the rest of the module so every layer can depend on it.
package ledger

import (
	"errors"
	"fmt"
)

// Domain errors shared by the storage and service layers. The HTTP layer maps
// them to status codes; everything not listed here is treated as internal.
var (
	// ErrNotFound means the account or transaction does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict means the requested transition is not allowed: re-processing
	// a non-pending transaction, or a unique constraint violation in storage.
	ErrConflict = errors.New("conflict")

	// ErrInsufficientFunds means the transaction amount exceeds the account's
	// available balance. The transaction stays pending.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrLockTimeout means the account row lock could not be acquired within
	// the configured bound. Retryable.
	ErrLockTimeout = errors.New("lock timeout")

	// ErrConcurrencyConflict means a concurrent writer modified the same row
	// between read and write. The conflicting row is reloaded once before this
	// is surfaced. Retryable.
	ErrConcurrencyConflict = errors.New("concurrency conflict")
)

// ValidationError reports malformed input on a specific field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsRetryable reports whether the caller may re-attempt the operation.
// Only lock timeouts and concurrency conflicts qualify; everything else is
// terminal for the current call.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrLockTimeout) || errors.Is(err, ErrConcurrencyConflict)
}
