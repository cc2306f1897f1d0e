package account

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// Account represents a card account record. Balance is the nominal balance
// fixed at creation; the ledger core never mutates it. Spending room is always
// derived from it plus the transaction history.
type Account struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	CardNumber string
	Balance    decimal.Decimal
	CreatedAt  time.Time
	LastUsedAt *time.Time
}

// AccountCreate is the input for creating a new account.
type AccountCreate struct {
	UserID     uuid.UUID
	CardNumber string
	Balance    decimal.Decimal
}

// AccountFilter specifies filters for listing accounts.
type AccountFilter struct {
	UserID *uuid.UUID
	Limit  int
	Offset int
}

// ITable defines read-only account storage operations. Implementations must
// never take row locks; locked reads live on IWriter.
//
//go:generate mockery --name ITable --output mock_ITable.go
type ITable interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)
	List(ctx context.Context, filter *AccountFilter) ([]*Account, error)
}

// IWriter defines account mutations inside a unit of work. FindByIDForUpdate
// holds an exclusive lock on the row until the surrounding unit of work commits
// or rolls back; acquisition is bounded by the configured lock timeout.
type IWriter interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Account, error)
	Insert(ctx context.Context, create *AccountCreate) (uuid.UUID, error)
	TouchLastUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error
}
