package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/card-ledger/internal/ledger"
	"github.com/carson-networks/card-ledger/internal/operator"
	"github.com/carson-networks/card-ledger/internal/operator/actions"
	"github.com/carson-networks/card-ledger/internal/storage"
	"github.com/carson-networks/card-ledger/internal/storage/transaction"
)

// TransactionService is the ledger service boundary for transactions: create,
// query, and drive the per-transaction state machine. Mutations run as
// operator actions so every one is a single atomic unit of work; reads go
// straight to the store and never take the account lock.
type TransactionService struct {
	storage  *storage.Storage
	operator *operator.OperatorDelegator
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(store *storage.Storage, op *operator.OperatorDelegator) *TransactionService {
	return &TransactionService{storage: store, operator: op}
}

// CreateTransaction persists a new pending transaction against the account.
// Each invocation creates a new transaction; idempotency is the caller's
// concern. The account balance and lock are untouched.
func (s *TransactionService) CreateTransaction(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, currency, description string) (*Transaction, error) {
	if !amount.IsPositive() {
		return nil, ledger.NewValidationError("amount", "must be greater than zero")
	}
	normalized, err := normalizeCurrency(currency)
	if err != nil {
		return nil, err
	}

	action := &actions.CreateTransaction{
		AccountID:   accountID,
		Amount:      amount,
		Currency:    normalized,
		Description: description,
	}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, err
	}

	created := transactionFromStorage(action.Created)
	return &created, nil
}

// GetTransaction retrieves a transaction by ID.
func (s *TransactionService) GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	row, err := s.storage.Transactions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := transactionFromStorage(row)
	return &result, nil
}

// ListTransactionsByAccount returns the account's transactions ordered by
// creation time descending. The list is computed fresh per call and may lag an
// in-flight processing that has not committed yet.
func (s *TransactionService) ListTransactionsByAccount(ctx context.Context, accountID uuid.UUID) ([]Transaction, error) {
	if _, err := s.storage.Accounts.FindByID(ctx, accountID); err != nil {
		return nil, err
	}

	rows, err := s.storage.Transactions.List(ctx, &transaction.TransactionFilter{AccountID: &accountID})
	if err != nil {
		return nil, err
	}

	result := make([]Transaction, len(rows))
	for i, row := range rows {
		result[i] = transactionFromStorage(row)
	}
	return result, nil
}

// ProcessTransaction completes a pending transaction, serialized per account
// on the account row lock. Terminal transactions return ErrConflict and are
// never re-stamped; insufficient funds leave the transaction pending with no
// persisted change.
func (s *TransactionService) ProcessTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	// Fast path before any lock: absent or already-terminal transactions fail
	// without entering a unit of work. The action re-checks under the lock.
	if err := s.checkPending(ctx, id); err != nil {
		return nil, err
	}

	action := &actions.ProcessTransaction{TransactionID: id}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, err
	}

	processed := transactionFromStorage(action.Processed)
	return &processed, nil
}

// CancelTransaction moves a pending transaction to Cancelled, releasing the
// funds it held against the available balance.
func (s *TransactionService) CancelTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	if err := s.checkPending(ctx, id); err != nil {
		return nil, err
	}

	action := &actions.CancelTransaction{TransactionID: id}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, err
	}

	cancelled := transactionFromStorage(action.Cancelled)
	return &cancelled, nil
}

// FailTransaction moves a pending transaction to Failed.
func (s *TransactionService) FailTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	if err := s.checkPending(ctx, id); err != nil {
		return nil, err
	}

	action := &actions.FailTransaction{TransactionID: id}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, err
	}

	failed := transactionFromStorage(action.Failed)
	return &failed, nil
}

func (s *TransactionService) checkPending(ctx context.Context, id uuid.UUID) error {
	row, err := s.storage.Transactions.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if row.Status.Terminal() {
		return fmt.Errorf("%w: transaction %s already %s", ledger.ErrConflict, row.ID, row.Status)
	}
	return nil
}

// normalizeCurrency validates a 3-letter currency code and uppercases it.
func normalizeCurrency(currency string) (string, error) {
	if len(currency) != 3 {
		return "", ledger.NewValidationError("currency", "must be a 3-letter code")
	}
	for _, r := range currency {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return "", ledger.NewValidationError("currency", "must contain only letters")
		}
	}
	return strings.ToUpper(currency), nil
}
