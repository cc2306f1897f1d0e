package memory

import (
	"bytes"
	"context"
	"sort"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/card-ledger/internal/storage/account"
	"github.com/carson-networks/card-ledger/internal/storage/transaction"
)

// accountTable implements the read-only account contract over committed state.
type accountTable struct {
	s *Store
}

var _ account.ITable = (*accountTable)(nil)

func (t *accountTable) FindByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return t.s.getAccount(id)
}

func (t *accountTable) List(ctx context.Context, filter *account.AccountFilter) ([]*account.Account, error) {
	t.s.mu.RLock()
	var result []*account.Account
	for _, a := range t.s.accounts {
		if filter != nil && filter.UserID != nil && a.UserID != *filter.UserID {
			continue
		}
		result = append(result, copyAccount(a))
	}
	t.s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return bytes.Compare(result[i].ID.Bytes(), result[j].ID.Bytes()) < 0
	})

	if filter != nil {
		if filter.Offset > 0 {
			if filter.Offset >= len(result) {
				return nil, nil
			}
			result = result[filter.Offset:]
		}
		if filter.Limit > 0 && len(result) > filter.Limit+1 {
			result = result[:filter.Limit+1]
		}
	}
	return result, nil
}

// transactionTable implements the read-only transaction contract over
// committed state.
type transactionTable struct {
	s *Store
}

var _ transaction.ITable = (*transactionTable)(nil)

func (t *transactionTable) FindByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	return t.s.getTransaction(id)
}

func (t *transactionTable) List(ctx context.Context, filter *transaction.TransactionFilter) ([]*transaction.Transaction, error) {
	return t.s.listTransactions(filter), nil
}
