package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/card-ledger/internal/ledger"
	"github.com/carson-networks/card-ledger/internal/storage"
	"github.com/carson-networks/card-ledger/internal/storage/account"
	"github.com/carson-networks/card-ledger/internal/storage/transaction"
)

// stage is one deferred mutation. check runs first against committed state;
// apply runs only after every staged check has passed, so a failing stage
// never leaves earlier stages half applied.
type stage struct {
	check func() error
	apply func()
}

// unitOfWork stages mutations and applies them atomically under the store's
// write lock at Commit. Reads inside the unit of work see committed state;
// the account lock held via FindByIDForUpdate keeps that state stable for the
// locked account until Commit or Rollback releases it.
type unitOfWork struct {
	s      *Store
	held   []uuid.UUID
	staged []stage
	done   bool
}

var _ storage.UnitOfWork = (*unitOfWork)(nil)

func (u *unitOfWork) Accounts() account.IWriter {
	return &accountWriter{u: u}
}

func (u *unitOfWork) Transactions() transaction.IWriter {
	return &transactionWriter{u: u}
}

func (u *unitOfWork) Commit() error {
	if u.done {
		return nil
	}
	u.done = true
	defer u.releaseLocks()

	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	for _, st := range u.staged {
		if st.check == nil {
			continue
		}
		if err := st.check(); err != nil {
			return err
		}
	}
	for _, st := range u.staged {
		st.apply()
	}
	return nil
}

func (u *unitOfWork) Rollback() error {
	if u.done {
		return nil
	}
	u.done = true
	u.staged = nil
	u.releaseLocks()
	return nil
}

func (u *unitOfWork) releaseLocks() {
	for _, id := range u.held {
		u.s.release(id)
	}
	u.held = nil
}

func (u *unitOfWork) holding(id uuid.UUID) bool {
	for _, held := range u.held {
		if held == id {
			return true
		}
	}
	return false
}

// accountWriter implements account mutations on the staged unit of work.
type accountWriter struct {
	u *unitOfWork
}

var _ account.IWriter = (*accountWriter)(nil)

func (w *accountWriter) FindByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return w.u.s.getAccount(id)
}

func (w *accountWriter) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	if !w.u.holding(id) {
		if err := w.u.s.acquire(ctx, id); err != nil {
			return nil, err
		}
		w.u.held = append(w.u.held, id)
	}
	return w.u.s.getAccount(id)
}

func (w *accountWriter) Insert(ctx context.Context, create *account.AccountCreate) (uuid.UUID, error) {
	id := uuid.Must(uuid.NewV4())
	row := account.Account{
		ID:         id,
		UserID:     create.UserID,
		CardNumber: create.CardNumber,
		Balance:    create.Balance,
		CreatedAt:  time.Now().UTC(),
	}

	s := w.u.s
	s.mu.RLock()
	_, taken := s.cardNumbers[row.CardNumber]
	s.mu.RUnlock()
	if taken {
		return uuid.Nil, fmt.Errorf("%w: card number already registered", ledger.ErrConflict)
	}

	w.u.staged = append(w.u.staged, stage{
		check: func() error {
			// Re-check under the write lock: a concurrent commit may have
			// taken the card number since the staging-time check.
			if _, taken := s.cardNumbers[row.CardNumber]; taken {
				return fmt.Errorf("%w: card number already registered", ledger.ErrConflict)
			}
			return nil
		},
		apply: func() {
			s.accounts[id] = row
			s.cardNumbers[row.CardNumber] = id
		},
	})
	return id, nil
}

func (w *accountWriter) TouchLastUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	s := w.u.s
	w.u.staged = append(w.u.staged, stage{
		check: func() error {
			if _, ok := s.accounts[id]; !ok {
				return fmt.Errorf("%w: account %s", ledger.ErrNotFound, id)
			}
			return nil
		},
		apply: func() {
			a := s.accounts[id]
			t := usedAt
			a.LastUsedAt = &t
			s.accounts[id] = a
		},
	})
	return nil
}

// transactionWriter implements transaction mutations on the staged unit of
// work.
type transactionWriter struct {
	u *unitOfWork
}

var _ transaction.IWriter = (*transactionWriter)(nil)

func (w *transactionWriter) FindByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	return w.u.s.getTransaction(id)
}

func (w *transactionWriter) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*transaction.Transaction, error) {
	return w.u.s.listTransactions(&transaction.TransactionFilter{AccountID: &accountID}), nil
}

func (w *transactionWriter) Insert(ctx context.Context, create *transaction.TransactionCreate) (*transaction.Transaction, error) {
	row := transaction.Transaction{
		ID:          uuid.Must(uuid.NewV4()),
		AccountID:   create.AccountID,
		Amount:      create.Amount,
		Currency:    create.Currency,
		Status:      transaction.StatusPending,
		Description: create.Description,
		CreatedAt:   time.Now().UTC(),
	}
	s := w.u.s
	w.u.staged = append(w.u.staged, stage{
		apply: func() {
			s.transactions[row.ID] = row
		},
	})
	return copyTransaction(row), nil
}

func (w *transactionWriter) UpdateStatus(ctx context.Context, id uuid.UUID, from, to transaction.Status, completedAt *time.Time) error {
	s := w.u.s

	// Guarded transition, checked against committed state. The caller holds
	// the owning account's lock, so no concurrent writer can move this row
	// before our commit applies.
	current, err := w.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if current.Status != from {
		return fmt.Errorf("%w: transaction %s is %s, not %s",
			ledger.ErrConcurrencyConflict, id, current.Status, from)
	}

	w.u.staged = append(w.u.staged, stage{
		check: func() error {
			tx, ok := s.transactions[id]
			if !ok {
				return fmt.Errorf("%w: transaction %s", ledger.ErrNotFound, id)
			}
			if tx.Status != from {
				return fmt.Errorf("%w: transaction %s is %s, not %s",
					ledger.ErrConcurrencyConflict, id, tx.Status, from)
			}
			return nil
		},
		apply: func() {
			tx := s.transactions[id]
			tx.Status = to
			if completedAt != nil {
				t := *completedAt
				tx.CompletedAt = &t
			}
			s.transactions[id] = tx
		},
	})
	return nil
}
