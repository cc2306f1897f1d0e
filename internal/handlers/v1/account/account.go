package account

import (
	"time"

	"github.com/carson-networks/card-ledger/internal/service"
)

// Account is the API response model for a card account.
type Account struct {
	ID         string `json:"id" doc:"Account UUID"`
	UserID     string `json:"userID" doc:"Owning user UUID"`
	CardNumber string `json:"cardNumber" doc:"Card number"`
	Balance    string `json:"balance" doc:"Nominal balance, fixed at creation"`
	CreatedAt  string `json:"createdAt" doc:"RFC3339 creation time"`
	LastUsedAt string `json:"lastUsedAt,omitempty" doc:"RFC3339 time of the last completed transaction"`
}

func fromService(acct *service.Account) Account {
	result := Account{
		ID:         acct.ID.String(),
		UserID:     acct.UserID.String(),
		CardNumber: acct.CardNumber,
		Balance:    acct.Balance.String(),
		CreatedAt:  acct.CreatedAt.Format(time.RFC3339),
	}
	if acct.LastUsedAt != nil {
		result.LastUsedAt = acct.LastUsedAt.Format(time.RFC3339)
	}
	return result
}
