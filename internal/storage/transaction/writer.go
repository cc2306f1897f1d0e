package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/um"

	"github.com/carson-networks/card-ledger/internal/ledger"
	"github.com/carson-networks/card-ledger/internal/storage/sqlerr"
)

// Writer provides transaction mutations inside a database transaction.
type Writer struct {
	tx bob.Tx
	Reader
}

var _ IWriter = (*Writer)(nil)

func NewWriter(tx bob.Tx) *Writer {
	return &Writer{
		tx: tx,
		Reader: Reader{
			exec: tx,
		},
	}
}

// ListByAccount returns the account's full transaction history, newest first.
func (w *Writer) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*Transaction, error) {
	return w.List(ctx, &TransactionFilter{AccountID: &accountID})
}

// Insert creates a new pending transaction and returns it.
func (w *Writer) Insert(ctx context.Context, create *TransactionCreate) (*Transaction, error) {
	row := &Transaction{
		ID:          uuid.Must(uuid.NewV4()),
		AccountID:   create.AccountID,
		Amount:      create.Amount,
		Currency:    create.Currency,
		Status:      StatusPending,
		Description: create.Description,
		CreatedAt:   time.Now().UTC(),
	}
	q := psql.Insert(
		im.Into("transactions", "id", "account_id", "amount", "currency", "status", "description", "created_at"),
		im.Values(psql.Arg(row.ID, row.AccountID, row.Amount, row.Currency, int16(row.Status), row.Description, row.CreatedAt)),
	)
	if _, err := bob.Exec(ctx, w.tx, q); err != nil {
		return nil, sqlerr.Map(err)
	}
	return row, nil
}

// UpdateStatus transitions a transaction from one status to another. The
// update is guarded on the current status; if no row matches, the row is
// reloaded once and ledger.ErrConcurrencyConflict is returned so the caller
// can retry with fresh state.
func (w *Writer) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status, completedAt *time.Time) error {
	mods := []bob.Mod[*dialect.UpdateQuery]{
		um.Table("transactions"),
		um.SetCol("status").ToArg(int16(to)),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
		um.Where(psql.Quote("status").EQ(psql.Arg(int16(from)))),
	}
	if completedAt != nil {
		mods = append(mods, um.SetCol("completed_at").ToArg(*completedAt))
	}

	res, err := bob.Exec(ctx, w.tx, psql.Update(mods...))
	if err != nil {
		return sqlerr.Map(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Reload once so the conflicting state is fresh, then surface the
		// conflict instead of silently discarding the intended transition.
		current, findErr := w.FindByID(ctx, id)
		if findErr != nil {
			return findErr
		}
		return fmt.Errorf("%w: transaction %s is %s, not %s",
			ledger.ErrConcurrencyConflict, id, current.Status, from)
	}
	return nil
}
