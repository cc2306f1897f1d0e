package transaction

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// Status is the transaction state machine. Pending is the only non-terminal
// state; Completed, Failed and Cancelled are terminal and never transition
// again. The integer values are the persisted representation.
type Status int16

const (
	StatusPending Status = iota
	StatusCompleted
	StatusFailed
	StatusCancelled
)

// Terminal reports whether the status permits no further transition.
func (s Status) Terminal() bool {
	return s != StatusPending
}

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Transaction represents a single debit request against an account.
// CompletedAt is set only on the transition to Completed.
type Transaction struct {
	ID          uuid.UUID
	AccountID   uuid.UUID
	Amount      decimal.Decimal
	Currency    string
	Status      Status
	Description string
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// TransactionCreate is the input for creating a new transaction. New rows are
// always inserted as Pending.
type TransactionCreate struct {
	AccountID   uuid.UUID
	Amount      decimal.Decimal
	Currency    string
	Description string
}

// TransactionFilter specifies filters for listing transactions.
type TransactionFilter struct {
	AccountID *uuid.UUID
	Status    *Status
	Limit     int
	Offset    int
}

// ITable defines read-only transaction storage operations. Lists are ordered
// by created_at descending with id as tiebreak.
//
//go:generate mockery --name ITable --output mock_ITable.go
type ITable interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	List(ctx context.Context, filter *TransactionFilter) ([]*Transaction, error)
}

// IWriter defines transaction mutations inside a unit of work. UpdateStatus is
// a guarded transition: the row must currently be in the from status, otherwise
// the row is reloaded once and ErrConcurrencyConflict is returned.
type IWriter interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*Transaction, error)
	Insert(ctx context.Context, create *TransactionCreate) (*Transaction, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status, completedAt *time.Time) error
}
