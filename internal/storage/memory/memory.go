// Package memory is an in-memory implementation of the storage contract. It
// backs tests and local development (STORAGE_BACKEND=memory) with the same
// semantics as the Postgres backend: per-account exclusive locks bounded by a
// timeout, staged writes applied atomically at commit, and guarded status
// transitions.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/card-ledger/internal/ledger"
	"github.com/carson-networks/card-ledger/internal/storage"
	"github.com/carson-networks/card-ledger/internal/storage/account"
	"github.com/carson-networks/card-ledger/internal/storage/transaction"
)

// Store holds all committed state. Reads take the RWMutex; mutations are
// staged in a unit of work and applied under the write lock at commit.
// Per-account exclusive locks are one-slot channels so acquisition can be
// bounded by a timeout and the caller's context.
type Store struct {
	mu          sync.RWMutex
	lockTimeout time.Duration

	accounts     map[uuid.UUID]account.Account
	cardNumbers  map[string]uuid.UUID
	transactions map[uuid.UUID]transaction.Transaction
	locks        map[uuid.UUID]chan struct{}
}

func New(lockTimeout time.Duration) *Store {
	return &Store{
		lockTimeout:  lockTimeout,
		accounts:     make(map[uuid.UUID]account.Account),
		cardNumbers:  make(map[string]uuid.UUID),
		transactions: make(map[uuid.UUID]transaction.Transaction),
		locks:        make(map[uuid.UUID]chan struct{}),
	}
}

// Storage returns the facade wired to this store.
func (s *Store) Storage() *storage.Storage {
	return &storage.Storage{
		Accounts:     &accountTable{s: s},
		Transactions: &transactionTable{s: s},
		UnitOfWork:   s,
	}
}

// Begin opens a new unit of work.
func (s *Store) Begin(ctx context.Context) (storage.UnitOfWork, error) {
	return &unitOfWork{s: s}, nil
}

func (s *Store) accountLock(id uuid.UUID) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.locks[id]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[id] = ch
	}
	return ch
}

func (s *Store) acquire(ctx context.Context, id uuid.UUID) error {
	ch := s.accountLock(id)
	select {
	case ch <- struct{}{}:
		return nil
	case <-time.After(s.lockTimeout):
		return fmt.Errorf("%w: account %s", ledger.ErrLockTimeout, id)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) release(id uuid.UUID) {
	<-s.accountLock(id)
}

func (s *Store) getAccount(id uuid.UUID) (*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", ledger.ErrNotFound, id)
	}
	return copyAccount(a), nil
}

func (s *Store) getTransaction(id uuid.UUID) (*transaction.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tx, ok := s.transactions[id]
	if !ok {
		return nil, fmt.Errorf("%w: transaction %s", ledger.ErrNotFound, id)
	}
	return copyTransaction(tx), nil
}

func (s *Store) listTransactions(filter *transaction.TransactionFilter) []*transaction.Transaction {
	s.mu.RLock()
	var result []*transaction.Transaction
	for _, tx := range s.transactions {
		if filter != nil {
			if filter.AccountID != nil && tx.AccountID != *filter.AccountID {
				continue
			}
			if filter.Status != nil && tx.Status != *filter.Status {
				continue
			}
		}
		result = append(result, copyTransaction(tx))
	}
	s.mu.RUnlock()

	// created_at descending, id descending as tiebreak, matching the SQL list.
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return bytes.Compare(result[i].ID.Bytes(), result[j].ID.Bytes()) > 0
	})

	if filter != nil {
		if filter.Offset > 0 {
			if filter.Offset >= len(result) {
				return nil
			}
			result = result[filter.Offset:]
		}
		if filter.Limit > 0 && len(result) > filter.Limit+1 {
			result = result[:filter.Limit+1]
		}
	}
	return result
}

func copyAccount(a account.Account) *account.Account {
	cp := a
	if a.LastUsedAt != nil {
		t := *a.LastUsedAt
		cp.LastUsedAt = &t
	}
	return &cp
}

func copyTransaction(tx transaction.Transaction) *transaction.Transaction {
	cp := tx
	if tx.CompletedAt != nil {
		t := *tx.CompletedAt
		cp.CompletedAt = &t
	}
	return &cp
}
