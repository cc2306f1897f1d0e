package actions

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/card-ledger/internal/ledger"
	"github.com/carson-networks/card-ledger/internal/storage"
	"github.com/carson-networks/card-ledger/internal/storage/transaction"
)

// CancelTransaction moves a pending transaction to Cancelled. Cancelled
// transactions no longer reduce the available balance.
type CancelTransaction struct {
	TransactionID uuid.UUID

	Cancelled *transaction.Transaction
}

var _ IAction = (*CancelTransaction)(nil)

func (a *CancelTransaction) Perform(ctx context.Context, uow storage.UnitOfWork) error {
	cancelled, err := terminatePending(ctx, uow, a.TransactionID, transaction.StatusCancelled)
	if err != nil {
		return err
	}
	a.Cancelled = cancelled
	return nil
}

// FailTransaction moves a pending transaction to Failed.
type FailTransaction struct {
	TransactionID uuid.UUID

	Failed *transaction.Transaction
}

var _ IAction = (*FailTransaction)(nil)

func (a *FailTransaction) Perform(ctx context.Context, uow storage.UnitOfWork) error {
	failed, err := terminatePending(ctx, uow, a.TransactionID, transaction.StatusFailed)
	if err != nil {
		return err
	}
	a.Failed = failed
	return nil
}

// terminatePending transitions a pending transaction to the given terminal
// status under the owning account's lock. completed_at is never stamped here;
// it belongs to the Completed transition alone.
func terminatePending(ctx context.Context, uow storage.UnitOfWork, id uuid.UUID, to transaction.Status) (*transaction.Transaction, error) {
	tx, err := uow.Transactions().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx.Status.Terminal() {
		return nil, fmt.Errorf("%w: transaction %s already %s", ledger.ErrConflict, tx.ID, tx.Status)
	}

	if _, err := uow.Accounts().FindByIDForUpdate(ctx, tx.AccountID); err != nil {
		return nil, err
	}

	tx, err = uow.Transactions().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx.Status.Terminal() {
		return nil, fmt.Errorf("%w: transaction %s already %s", ledger.ErrConflict, tx.ID, tx.Status)
	}

	if err := uow.Transactions().UpdateStatus(ctx, tx.ID, transaction.StatusPending, to, nil); err != nil {
		return nil, err
	}

	updated := *tx
	updated.Status = to
	return &updated, nil
}
