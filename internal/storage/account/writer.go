package account

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/card-ledger/internal/storage/sqlerr"
)

// Writer provides account mutations inside a transaction. Plain reads come
// from the embedded Reader bound to the same transaction.
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

// FindByIDForUpdate retrieves an account by primary key, holding an exclusive
// row lock until the transaction commits or rolls back. The session's
// lock_timeout bounds the wait; expiry surfaces as ledger.ErrLockTimeout.
func (w *Writer) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Account, error) {
	q := selectAccounts(
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
		sm.ForUpdate(),
	)
	row, err := bob.One(ctx, w.tx, q, scan.StructMapper[accountRow]())
	if err != nil {
		return nil, sqlerr.Map(err)
	}
	return rowToAccount(row), nil
}

// Insert creates a new account and returns its ID. A duplicate card number
// violates the unique index and surfaces as ledger.ErrConflict.
func (w *Writer) Insert(ctx context.Context, create *AccountCreate) (uuid.UUID, error) {
	id := uuid.Must(uuid.NewV4())
	q := psql.Insert(
		im.Into("accounts", "id", "user_id", "card_number", "balance", "created_at"),
		im.Values(psql.Arg(id, create.UserID, create.CardNumber, create.Balance, time.Now().UTC())),
	)
	if _, err := bob.Exec(ctx, w.tx, q); err != nil {
		return uuid.Nil, sqlerr.Map(err)
	}
	return id, nil
}

// TouchLastUsed stamps the account's last_used_at. Called only under the row
// lock taken by FindByIDForUpdate.
func (w *Writer) TouchLastUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	q := psql.Update(
		um.Table("accounts"),
		um.SetCol("last_used_at").ToArg(usedAt),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	if _, err := bob.Exec(ctx, w.tx, q); err != nil {
		return sqlerr.Map(err)
	}
	return nil
}
