package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/card-ledger/internal/storage"
	"github.com/carson-networks/card-ledger/internal/storage/account"
)

// CreateAccount registers a new card account with its nominal balance. The
// balance is fixed here and never mutated again by the ledger. A duplicate
// card number surfaces as a conflict from the unique index.
type CreateAccount struct {
	UserID     uuid.UUID
	CardNumber string
	Balance    decimal.Decimal

	// CreatedID is set to the new account's ID on success.
	CreatedID uuid.UUID
}

var _ IAction = (*CreateAccount)(nil)

func (a *CreateAccount) Perform(ctx context.Context, uow storage.UnitOfWork) error {
	id, err := uow.Accounts().Insert(ctx, &account.AccountCreate{
		UserID:     a.UserID,
		CardNumber: a.CardNumber,
		Balance:    a.Balance,
	})
	if err != nil {
		return err
	}

	a.CreatedID = id
	return nil
}
