// Package balance holds the pure balance arithmetic of the card ledger.
// Nothing here performs I/O; callers pass the nominal balance and the
// transaction history they already hold.
package balance

import (
	"github.com/shopspring/decimal"

	"github.com/carson-networks/card-ledger/internal/storage/transaction"
)

// Available computes the balance reported to callers: the nominal balance
// minus the amount of every pending and completed transaction, each counted
// exactly once. Cancelled and failed transactions do not reduce the balance.
// The result is clamped at zero so an inconsistent history never reports a
// negative balance.
func Available(nominal decimal.Decimal, txs []*transaction.Transaction) decimal.Decimal {
	balance := nominal
	for _, tx := range txs {
		switch tx.Status {
		case transaction.StatusPending, transaction.StatusCompleted:
			balance = balance.Sub(tx.Amount)
		}
	}
	return clampZero(balance)
}

// Settled computes the funds gate used when processing: the nominal balance
// minus completed transactions only. Pending transactions do not reserve
// funds at the gate; each one is admitted against the settled history at the
// moment it holds the account lock, so concurrent pending siblings cannot
// starve each other. Clamped at zero.
func Settled(nominal decimal.Decimal, txs []*transaction.Transaction) decimal.Decimal {
	balance := nominal
	for _, tx := range txs {
		if tx.Status == transaction.StatusCompleted {
			balance = balance.Sub(tx.Amount)
		}
	}
	return clampZero(balance)
}

func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
