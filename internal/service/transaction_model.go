package service

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/card-ledger/internal/storage/transaction"
)

// TransactionStatus represents a transaction state in the service layer.
type TransactionStatus int16

const (
	TransactionPending TransactionStatus = iota
	TransactionCompleted
	TransactionFailed
	TransactionCancelled
)

func (s TransactionStatus) String() string {
	return transaction.Status(s).String()
}

// Transaction represents a transaction in the service layer.
type Transaction struct {
	ID          uuid.UUID
	AccountID   uuid.UUID
	Amount      decimal.Decimal
	Currency    string
	Status      TransactionStatus
	Description string
	CreatedAt   time.Time
	CompletedAt *time.Time
}

func transactionFromStorage(row *transaction.Transaction) Transaction {
	return Transaction{
		ID:          row.ID,
		AccountID:   row.AccountID,
		Amount:      row.Amount,
		Currency:    row.Currency,
		Status:      TransactionStatus(row.Status),
		Description: row.Description,
		CreatedAt:   row.CreatedAt,
		CompletedAt: row.CompletedAt,
	}
}
