package actions

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/card-ledger/internal/ledger"
	"github.com/carson-networks/card-ledger/internal/ledger/balance"
	"github.com/carson-networks/card-ledger/internal/storage"
	"github.com/carson-networks/card-ledger/internal/storage/transaction"
)

// ProcessTransaction completes a pending transaction. All processing for one
// account is serialized on the account row lock; the funds check and the
// status transition happen atomically within the unit of work, so the balance
// after each successful completion reflects exactly the transactions completed
// so far.
type ProcessTransaction struct {
	TransactionID uuid.UUID

	// Processed is set to the completed transaction on success.
	Processed *transaction.Transaction
}

var _ IAction = (*ProcessTransaction)(nil)

func (a *ProcessTransaction) Perform(ctx context.Context, uow storage.UnitOfWork) error {
	tx, err := uow.Transactions().FindByID(ctx, a.TransactionID)
	if err != nil {
		return err
	}
	if tx.Status.Terminal() {
		return fmt.Errorf("%w: transaction %s already %s", ledger.ErrConflict, tx.ID, tx.Status)
	}

	acct, err := uow.Accounts().FindByIDForUpdate(ctx, tx.AccountID)
	if err != nil {
		return err
	}

	// Re-read under the lock: another worker may have completed or cancelled
	// this transaction between the first read and lock acquisition.
	tx, err = uow.Transactions().FindByID(ctx, a.TransactionID)
	if err != nil {
		return err
	}
	if tx.Status.Terminal() {
		return fmt.Errorf("%w: transaction %s already %s", ledger.ErrConflict, tx.ID, tx.Status)
	}

	history, err := uow.Transactions().ListByAccount(ctx, acct.ID)
	if err != nil {
		return err
	}
	others := history[:0:0]
	for _, h := range history {
		if h.ID != tx.ID {
			others = append(others, h)
		}
	}

	available := balance.Settled(acct.Balance, others)
	if tx.Amount.GreaterThan(available) {
		return fmt.Errorf("%w: amount %s exceeds available balance %s",
			ledger.ErrInsufficientFunds, tx.Amount, available)
	}

	now := time.Now().UTC()
	if err := uow.Transactions().UpdateStatus(ctx, tx.ID, transaction.StatusPending, transaction.StatusCompleted, &now); err != nil {
		return err
	}
	if err := uow.Accounts().TouchLastUsed(ctx, acct.ID, now); err != nil {
		return err
	}

	completed := *tx
	completed.Status = transaction.StatusCompleted
	completed.CompletedAt = &now
	a.Processed = &completed
	return nil
}
