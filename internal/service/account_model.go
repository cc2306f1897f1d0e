package service

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/card-ledger/internal/storage/account"
)

// Account represents a card account in the service layer. Balance is the
// nominal balance fixed at creation; AvailableBalance on AccountService
// derives the spendable amount.
type Account struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	CardNumber string
	Balance    decimal.Decimal
	CreatedAt  time.Time
	LastUsedAt *time.Time
}

// AccountCursor identifies a position in a paginated result set.
type AccountCursor struct {
	Position int
	Limit    int
}

func accountFromStorage(row *account.Account) Account {
	return Account{
		ID:         row.ID,
		UserID:     row.UserID,
		CardNumber: row.CardNumber,
		Balance:    row.Balance,
		CreatedAt:  row.CreatedAt,
		LastUsedAt: row.LastUsedAt,
	}
}
