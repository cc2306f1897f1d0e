package transaction

import (
	"time"

	"github.com/carson-networks/card-ledger/internal/service"
)

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID          string `json:"id" doc:"Transaction UUID"`
	AccountID   string `json:"accountID" doc:"Account UUID"`
	Amount      string `json:"amount" doc:"Decimal amount"`
	Currency    string `json:"currency" doc:"3-letter currency code"`
	Status      string `json:"status" doc:"pending, completed, failed or cancelled"`
	Description string `json:"description,omitempty" doc:"Free-form description"`
	CreatedAt   string `json:"createdAt" doc:"RFC3339 creation time"`
	CompletedAt string `json:"completedAt,omitempty" doc:"RFC3339 completion time, only set once completed"`
}

func fromService(tx *service.Transaction) Transaction {
	result := Transaction{
		ID:          tx.ID.String(),
		AccountID:   tx.AccountID.String(),
		Amount:      tx.Amount.String(),
		Currency:    tx.Currency,
		Status:      tx.Status.String(),
		Description: tx.Description,
		CreatedAt:   tx.CreatedAt.Format(time.RFC3339),
	}
	if tx.CompletedAt != nil {
		result.CompletedAt = tx.CompletedAt.Format(time.RFC3339)
	}
	return result
}
