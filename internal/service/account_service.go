package service

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/card-ledger/internal/ledger"
	"github.com/carson-networks/card-ledger/internal/ledger/balance"
	"github.com/carson-networks/card-ledger/internal/operator"
	"github.com/carson-networks/card-ledger/internal/operator/actions"
	"github.com/carson-networks/card-ledger/internal/storage"
	"github.com/carson-networks/card-ledger/internal/storage/account"
	"github.com/carson-networks/card-ledger/internal/storage/transaction"
)

const defaultAccountLimit = 20

// AccountService handles card account management and balance reporting. The
// nominal balance is set once at creation; the ledger core only ever reads it.
type AccountService struct {
	storage  *storage.Storage
	operator *operator.OperatorDelegator
}

// NewAccountService creates a new AccountService.
func NewAccountService(store *storage.Storage, op *operator.OperatorDelegator) *AccountService {
	return &AccountService{storage: store, operator: op}
}

// CreateAccount registers a new card account. Duplicate card numbers surface
// as ErrConflict.
func (s *AccountService) CreateAccount(ctx context.Context, userID uuid.UUID, cardNumber string, balance decimal.Decimal) (*Account, error) {
	if cardNumber == "" {
		return nil, ledger.NewValidationError("cardNumber", "must not be empty")
	}
	if balance.IsNegative() {
		return nil, ledger.NewValidationError("balance", "must not be negative")
	}

	action := &actions.CreateAccount{
		UserID:     userID,
		CardNumber: cardNumber,
		Balance:    balance,
	}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, err
	}

	return s.GetAccount(ctx, action.CreatedID)
}

// GetAccount retrieves an account by ID.
func (s *AccountService) GetAccount(ctx context.Context, id uuid.UUID) (*Account, error) {
	row, err := s.storage.Accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := accountFromStorage(row)
	return &result, nil
}

// ListAccounts returns a page of accounts using cursor pagination.
func (s *AccountService) ListAccounts(ctx context.Context, cursor *AccountCursor) ([]Account, *AccountCursor, error) {
	limit := defaultAccountLimit
	offset := 0
	if cursor != nil {
		limit = cursor.Limit
		offset = cursor.Position
	}

	rows, err := s.storage.Accounts.List(ctx, &account.AccountFilter{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, nil, err
	}

	if len(rows) == 0 {
		return nil, nil, nil
	}

	var nextCursor *AccountCursor
	if len(rows) > limit {
		rows = rows[:limit]
		nextCursor = &AccountCursor{
			Position: offset + limit,
			Limit:    limit,
		}
	}

	result := make([]Account, len(rows))
	for i, row := range rows {
		result[i] = accountFromStorage(row)
	}
	return result, nextCursor, nil
}

// AvailableBalance reports the account's spendable balance: the nominal
// balance minus pending and completed transactions, clamped at zero. Reads a
// plain snapshot; no account lock is taken.
func (s *AccountService) AvailableBalance(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
	acct, err := s.storage.Accounts.FindByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	history, err := s.storage.Transactions.List(ctx, &transaction.TransactionFilter{AccountID: &accountID})
	if err != nil {
		return decimal.Zero, err
	}

	return balance.Available(acct.Balance, history), nil
}
