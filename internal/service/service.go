package service

import (
	"github.com/carson-networks/card-ledger/internal/operator"
	"github.com/carson-networks/card-ledger/internal/storage"
)

// Service holds all business logic services.
type Service struct {
	Transaction *TransactionService
	Account     *AccountService
}

// NewService creates a new Service with the given storage and operator.
func NewService(store *storage.Storage, op *operator.OperatorDelegator) *Service {
	return &Service{
		Transaction: NewTransactionService(store, op),
		Account:     NewAccountService(store, op),
	}
}
