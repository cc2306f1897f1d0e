package transaction

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

// transactionRow is the scan target for the transactions table.
type transactionRow struct {
	ID          uuid.UUID           `db:"id"`
	AccountID   uuid.UUID           `db:"account_id"`
	Amount      decimal.Decimal     `db:"amount"`
	Currency    string              `db:"currency"`
	Status      int16               `db:"status"`
	Description string              `db:"description"`
	CreatedAt   time.Time           `db:"created_at"`
	CompletedAt null.Val[time.Time] `db:"completed_at"`
}

func rowToTransaction(row transactionRow) *Transaction {
	return &Transaction{
		ID:          row.ID,
		AccountID:   row.AccountID,
		Amount:      row.Amount,
		Currency:    row.Currency,
		Status:      Status(row.Status),
		Description: row.Description,
		CreatedAt:   row.CreatedAt,
		CompletedAt: row.CompletedAt.Ptr(),
	}
}

func selectTransactions(mods ...bob.Mod[*dialect.SelectQuery]) bob.BaseQuery[*dialect.SelectQuery] {
	base := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns("id", "account_id", "amount", "currency", "status", "description", "created_at", "completed_at"),
		sm.From("transactions"),
	}
	return psql.Select(append(base, mods...)...)
}

// Reader provides read-only access to the transactions table.
type Reader struct {
	exec bob.Executor
}

var _ ITable = (*Reader)(nil)

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

// FindByID retrieves a transaction by primary key.
func (r *Reader) FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	q := selectTransactions(sm.Where(psql.Quote("id").EQ(psql.Arg(id))))
	row, err := bob.One(ctx, r.exec, q, scan.StructMapper[transactionRow]())
	if err != nil {
		return nil, sqlerr.Map(err)
	}
	return rowToTransaction(row), nil
}

// List returns transactions matching the filter, ordered by created_at
// descending with id as tiebreak. Nil filter returns all.
func (r *Reader) List(ctx context.Context, filter *TransactionFilter) ([]*Transaction, error) {
	var mods []bob.Mod[*dialect.SelectQuery]
	if filter != nil {
		if filter.AccountID != nil {
			mods = append(mods, sm.Where(psql.Quote("account_id").EQ(psql.Arg(*filter.AccountID))))
		}
		if filter.Status != nil {
			mods = append(mods, sm.Where(psql.Quote("status").EQ(psql.Arg(int16(*filter.Status)))))
		}
		if filter.Limit > 0 {
			mods = append(mods, sm.Limit(filter.Limit+1))
		}
		if filter.Offset > 0 {
			mods = append(mods, sm.Offset(filter.Offset))
		}
	}
	mods = append(mods,
		sm.OrderBy(psql.Quote("created_at")).Desc(),
		sm.OrderBy(psql.Quote("id")).Desc(),
	)

	rows, err := bob.All(ctx, r.exec, selectTransactions(mods...), scan.StructMapper[transactionRow]())
	if err != nil {
		return nil, sqlerr.Map(err)
	}
	result := make([]*Transaction, len(rows))
	for i, row := range rows {
		result[i] = rowToTransaction(row)
	}
	return result, nil
}
