package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"

	"github.com/carson-networks/card-ledger/internal/config"
	"github.com/carson-networks/card-ledger/internal/storage/account"
	"github.com/carson-networks/card-ledger/internal/storage/transaction"
)

// NewStorage opens the Postgres backend described by the environment config.
func NewStorage(env *config.Config) (*Storage, error) {
	sqlDB, err := sql.Open("postgres", env.PostgresURL())
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}

	db := bob.NewDB(sqlDB)
	return &Storage{
		Accounts:     account.NewReader(db),
		Transactions: transaction.NewReader(db),
		UnitOfWork: &txBeginner{
			db:          db,
			lockTimeout: env.LockTimeout,
		},
	}, nil
}

// txBeginner opens database transactions with the session lock_timeout set, so
// every FOR UPDATE inside the unit of work waits at most that long before
// failing with ledger.ErrLockTimeout.
type txBeginner struct {
	db          bob.DB
	lockTimeout time.Duration
}

var _ TxBeginner = (*txBeginner)(nil)

func (b *txBeginner) Begin(ctx context.Context) (UnitOfWork, error) {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("BeginTx: %w", err)
	}

	// lock_timeout only accepts a literal, not a bind parameter. The value is
	// an integer from config, never user input.
	setTimeout := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", b.lockTimeout.Milliseconds())
	if _, err := bob.Exec(ctx, tx, psql.RawQuery(setTimeout)); err != nil {
		_ = tx.Rollback(ctx)
		return nil, fmt.Errorf("set lock_timeout: %w", err)
	}

	return NewWriter(tx), nil
}
