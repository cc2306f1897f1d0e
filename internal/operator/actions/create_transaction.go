package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/card-ledger/internal/storage"
	"github.com/carson-networks/card-ledger/internal/storage/transaction"
)

// CreateTransaction inserts a new pending transaction for an account. The
// account is read without a lock: creation never blocks on in-flight
// processing and never touches the balance.
type CreateTransaction struct {
	AccountID   uuid.UUID
	Amount      decimal.Decimal
	Currency    string
	Description string

	// Created is set to the inserted transaction on success.
	Created *transaction.Transaction
}

var _ IAction = (*CreateTransaction)(nil)

func (a *CreateTransaction) Perform(ctx context.Context, uow storage.UnitOfWork) error {
	if _, err := uow.Accounts().FindByID(ctx, a.AccountID); err != nil {
		return err
	}

	created, err := uow.Transactions().Insert(ctx, &transaction.TransactionCreate{
		AccountID:   a.AccountID,
		Amount:      a.Amount,
		Currency:    a.Currency,
		Description: a.Description,
	})
	if err != nil {
		return err
	}

	a.Created = created
	return nil
}
