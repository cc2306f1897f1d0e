package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/card-ledger/internal/ledger"
)

// Two pending transactions of 80.00 against a 100.00 account, processed
// concurrently: the account lock serializes them, so exactly one completes
// and the other fails the funds check.
func TestProcessTransaction_ConcurrentSiblingsOneWins(t *testing.T) {
	svc := newTestServices(t)
	acct := newTestAccount(t, svc, "100.00")

	a, err := svc.Transaction.CreateTransaction(
		context.Background(), acct.ID, decimal.RequireFromString("80.00"), "USD", "")
	require.NoError(t, err)
	b, err := svc.Transaction.CreateTransaction(
		context.Background(), acct.ID, decimal.RequireFromString("80.00"), "USD", "")
	require.NoError(t, err)

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for _, tx := range []*Transaction{a, b} {
		wg.Add(1)
		go func(tx *Transaction) {
			defer wg.Done()
			_, err := svc.Transaction.ProcessTransaction(context.Background(), tx.ID)
			results <- err
		}(tx)
	}
	wg.Wait()
	close(results)

	var completed, insufficient int
	for err := range results {
		switch {
		case err == nil:
			completed++
		case errors.Is(err, ledger.ErrInsufficientFunds):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, completed)
	assert.Equal(t, 1, insufficient)

	balance, err := svc.Account.AvailableBalance(context.Background(), acct.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("20.00")),
		"balance %s", balance)
}

// Fifteen pending transactions of 10.00 against a 100.00 account, processed
// concurrently: exactly ten complete and five fail the funds check, and the
// settled total never exceeds the nominal balance.
func TestProcessTransaction_ConcurrentNeverOverspends(t *testing.T) {
	svc := newTestServices(t)
	acct := newTestAccount(t, svc, "100.00")

	const total = 15
	ids := make([]*Transaction, total)
	for i := range ids {
		tx, err := svc.Transaction.CreateTransaction(
			context.Background(), acct.ID, decimal.RequireFromString("10.00"), "USD", "")
		require.NoError(t, err)
		ids[i] = tx
	}

	results := make(chan error, total)
	var wg sync.WaitGroup
	for _, tx := range ids {
		wg.Add(1)
		go func(tx *Transaction) {
			defer wg.Done()
			_, err := svc.Transaction.ProcessTransaction(context.Background(), tx.ID)
			results <- err
		}(tx)
	}
	wg.Wait()
	close(results)

	var completed, insufficient int
	for err := range results {
		switch {
		case err == nil:
			completed++
		case errors.Is(err, ledger.ErrInsufficientFunds):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 10, completed)
	assert.Equal(t, 5, insufficient)

	balance, err := svc.Account.AvailableBalance(context.Background(), acct.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.Zero), "balance %s", balance)
}

// Concurrent process and cancel of the same pending transaction: exactly one
// of the two transitions wins, the loser reports a conflict.
func TestProcessAndCancel_SameTransactionOneWins(t *testing.T) {
	svc := newTestServices(t)
	acct := newTestAccount(t, svc, "100.00")

	tx, err := svc.Transaction.CreateTransaction(
		context.Background(), acct.ID, decimal.RequireFromString("10.00"), "USD", "")
	require.NoError(t, err)

	results := make(chan error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := svc.Transaction.ProcessTransaction(context.Background(), tx.ID)
		results <- err
	}()
	go func() {
		defer wg.Done()
		_, err := svc.Transaction.CancelTransaction(context.Background(), tx.ID)
		results <- err
	}()
	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ledger.ErrConflict) || errors.Is(err, ledger.ErrConcurrencyConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, conflicts)

	after, err := svc.Transaction.GetTransaction(context.Background(), tx.ID)
	require.NoError(t, err)
	assert.Contains(t, []TransactionStatus{TransactionCompleted, TransactionCancelled}, after.Status)
}
