package storage

import (
	"context"

	"github.com/stephenafamo/bob"

	"github.com/carson-networks/card-ledger/internal/storage/account"
	"github.com/carson-networks/card-ledger/internal/storage/transaction"
)

// Writer is the Postgres unit of work: all mutations performed through it run
// inside one database transaction, and row locks taken via the account writer
// are released when the transaction ends.
type Writer struct {
	tx           bob.Tx
	accounts     *account.Writer
	transactions *transaction.Writer
}

var _ UnitOfWork = (*Writer)(nil)

func NewWriter(tx bob.Tx) *Writer {
	return &Writer{
		tx:           tx,
		accounts:     account.NewWriter(tx),
		transactions: transaction.NewWriter(tx),
	}
}

func (w *Writer) Accounts() account.IWriter {
	return w.accounts
}

func (w *Writer) Transactions() transaction.IWriter {
	return w.transactions
}

func (w *Writer) Commit() error {
	return w.tx.Commit(context.Background())
}

func (w *Writer) Rollback() error {
	return w.tx.Rollback(context.Background())
}
