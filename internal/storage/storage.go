package storage

import (
	"context"

	"github.com/carson-networks/card-ledger/internal/storage/account"
	"github.com/carson-networks/card-ledger/internal/storage/transaction"
)

// UnitOfWork groups store mutations into a single atomic commit. Row locks
// taken through the writers are released exactly at Commit or Rollback.
type UnitOfWork interface {
	Accounts() account.IWriter
	Transactions() transaction.IWriter
	Commit() error
	Rollback() error
}

// TxBeginner opens new units of work.
type TxBeginner interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}

// Storage bundles the read-only table gateways with the unit-of-work factory.
// The fields are interfaces so the Postgres and in-memory backends are
// interchangeable.
type Storage struct {
	Accounts     account.ITable
	Transactions transaction.ITable
	UnitOfWork   TxBeginner
}

// Write opens a new unit of work.
func (s *Storage) Write(ctx context.Context) (UnitOfWork, error) {
	return s.UnitOfWork.Begin(ctx)
}
