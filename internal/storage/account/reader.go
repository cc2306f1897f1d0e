package account

import (
	"context"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/card-ledger/internal/storage/sqlerr"
)

// accountRow is the scan target for the accounts table.
type accountRow struct {
	ID         uuid.UUID           `db:"id"`
	UserID     uuid.UUID           `db:"user_id"`
	CardNumber string              `db:"card_number"`
	Balance    decimal.Decimal     `db:"balance"`
	CreatedAt  time.Time           `db:"created_at"`
	LastUsedAt null.Val[time.Time] `db:"last_used_at"`
}

func rowToAccount(row accountRow) *Account {
	return &Account{
		ID:         row.ID,
		UserID:     row.UserID,
		CardNumber: row.CardNumber,
		Balance:    row.Balance,
		CreatedAt:  row.CreatedAt,
		LastUsedAt: row.LastUsedAt.Ptr(),
	}
}

func selectAccounts(mods ...bob.Mod[*dialect.SelectQuery]) bob.BaseQuery[*dialect.SelectQuery] {
	base := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns("id", "user_id", "card_number", "balance", "created_at", "last_used_at"),
		sm.From("accounts"),
	}
	return psql.Select(append(base, mods...)...)
}

// Reader provides read-only access to the accounts table. It never takes row
// locks.
type Reader struct {
	exec bob.Executor
}

var _ ITable = (*Reader)(nil)

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

// FindByID retrieves an account by primary key.
func (r *Reader) FindByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	q := selectAccounts(sm.Where(psql.Quote("id").EQ(psql.Arg(id))))
	row, err := bob.One(ctx, r.exec, q, scan.StructMapper[accountRow]())
	if err != nil {
		return nil, sqlerr.Map(err)
	}
	return rowToAccount(row), nil
}

// List returns accounts matching the filter, ordered by creation time then id.
// Nil filter returns all.
func (r *Reader) List(ctx context.Context, filter *AccountFilter) ([]*Account, error) {
	var mods []bob.Mod[*dialect.SelectQuery]
	if filter != nil {
		if filter.UserID != nil {
			mods = append(mods, sm.Where(psql.Quote("user_id").EQ(psql.Arg(*filter.UserID))))
		}
		if filter.Limit > 0 {
			mods = append(mods, sm.Limit(filter.Limit+1))
		}
		if filter.Offset > 0 {
			mods = append(mods, sm.Offset(filter.Offset))
		}
	}
	mods = append(mods,
		sm.OrderBy(psql.Quote("created_at")).Asc(),
		sm.OrderBy(psql.Quote("id")).Asc(),
	)

	rows, err := bob.All(ctx, r.exec, selectAccounts(mods...), scan.StructMapper[accountRow]())
	if err != nil {
		return nil, sqlerr.Map(err)
	}
	result := make([]*Account, len(rows))
	for i, row := range rows {
		result[i] = rowToAccount(row)
	}
	return result, nil
}
