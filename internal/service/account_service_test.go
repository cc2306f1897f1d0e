package service

import (
	"context"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/card-ledger/internal/ledger"
)

// -- CreateAccount tests --

func TestCreateAccount_Success(t *testing.T) {
	svc := newTestServices(t)
	userID := uuid.Must(uuid.NewV4())

	acct, err := svc.Account.CreateAccount(
		context.Background(), userID, "4111111111111111", decimal.RequireFromString("250.00"))
	require.NoError(t, err)

	assert.Equal(t, userID, acct.UserID)
	assert.Equal(t, "4111111111111111", acct.CardNumber)
	assert.True(t, acct.Balance.Equal(decimal.RequireFromString("250.00")))
	assert.False(t, acct.CreatedAt.IsZero())
	assert.Nil(t, acct.LastUsedAt)
}

func TestCreateAccount_DuplicateCardNumber(t *testing.T) {
	svc := newTestServices(t)

	_, err := svc.Account.CreateAccount(
		context.Background(), uuid.Must(uuid.NewV4()), "4000000000000002", decimal.RequireFromString("10.00"))
	require.NoError(t, err)

	_, err = svc.Account.CreateAccount(
		context.Background(), uuid.Must(uuid.NewV4()), "4000000000000002", decimal.RequireFromString("20.00"))
	assert.ErrorIs(t, err, ledger.ErrConflict)
}

func TestCreateAccount_EmptyCardNumberRejected(t *testing.T) {
	svc := newTestServices(t)

	_, err := svc.Account.CreateAccount(
		context.Background(), uuid.Must(uuid.NewV4()), "", decimal.RequireFromString("10.00"))
	assert.True(t, ledger.IsValidation(err))
}

func TestCreateAccount_NegativeBalanceRejected(t *testing.T) {
	svc := newTestServices(t)

	_, err := svc.Account.CreateAccount(
		context.Background(), uuid.Must(uuid.NewV4()), "4111111111111111", decimal.RequireFromString("-1.00"))
	assert.True(t, ledger.IsValidation(err))
}

func TestCreateAccount_ZeroBalanceAllowed(t *testing.T) {
	svc := newTestServices(t)

	acct, err := svc.Account.CreateAccount(
		context.Background(), uuid.Must(uuid.NewV4()), "4111111111111111", decimal.Zero)
	require.NoError(t, err)
	assert.True(t, acct.Balance.Equal(decimal.Zero))
}

// -- GetAccount tests --

func TestGetAccount_NotFound(t *testing.T) {
	svc := newTestServices(t)

	_, err := svc.Account.GetAccount(context.Background(), uuid.Must(uuid.NewV4()))
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

// -- ListAccounts tests --

func TestListAccounts_Empty(t *testing.T) {
	svc := newTestServices(t)

	accounts, nextCursor, err := svc.Account.ListAccounts(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, accounts)
	assert.Nil(t, nextCursor)
}

func TestListAccounts_SinglePage(t *testing.T) {
	svc := newTestServices(t)
	for i := 0; i < 3; i++ {
		newTestAccount(t, svc, "10.00")
	}

	accounts, nextCursor, err := svc.Account.ListAccounts(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, accounts, 3)
	assert.Nil(t, nextCursor)
}

func TestListAccounts_Paginated(t *testing.T) {
	svc := newTestServices(t)
	for i := 0; i < 5; i++ {
		newTestAccount(t, svc, "10.00")
	}

	first, nextCursor, err := svc.Account.ListAccounts(context.Background(), &AccountCursor{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, first, 2)
	require.NotNil(t, nextCursor)
	assert.Equal(t, 2, nextCursor.Position)
	assert.Equal(t, 2, nextCursor.Limit)

	second, nextCursor, err := svc.Account.ListAccounts(context.Background(), nextCursor)
	require.NoError(t, err)
	assert.Len(t, second, 2)
	require.NotNil(t, nextCursor)
	assert.Equal(t, 4, nextCursor.Position)

	third, nextCursor, err := svc.Account.ListAccounts(context.Background(), nextCursor)
	require.NoError(t, err)
	assert.Len(t, third, 1)
	assert.Nil(t, nextCursor)

	// No overlap across pages.
	seen := map[uuid.UUID]bool{}
	for _, page := range [][]Account{first, second, third} {
		for _, a := range page {
			assert.False(t, seen[a.ID])
			seen[a.ID] = true
		}
	}
	assert.Len(t, seen, 5)
}

// -- AvailableBalance tests --

func TestAvailableBalance_NoTransactions(t *testing.T) {
	svc := newTestServices(t)
	acct := newTestAccount(t, svc, "100.00")

	balance, err := svc.Account.AvailableBalance(context.Background(), acct.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("100.00")))
}

func TestAvailableBalance_PendingHoldsFunds(t *testing.T) {
	svc := newTestServices(t)
	acct := newTestAccount(t, svc, "100.00")

	_, err := svc.Transaction.CreateTransaction(
		context.Background(), acct.ID, decimal.RequireFromString("30.00"), "USD", "")
	require.NoError(t, err)

	balance, err := svc.Account.AvailableBalance(context.Background(), acct.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("70.00")))
}

func TestAvailableBalance_ClampedAtZero(t *testing.T) {
	svc := newTestServices(t)
	acct := newTestAccount(t, svc, "100.00")

	// Two large pendings overdraw the reported balance; it clamps to zero.
	for i := 0; i < 2; i++ {
		_, err := svc.Transaction.CreateTransaction(
			context.Background(), acct.ID, decimal.RequireFromString("80.00"), "USD", "")
		require.NoError(t, err)
	}

	balance, err := svc.Account.AvailableBalance(context.Background(), acct.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.Zero))
}

func TestAvailableBalance_UnknownAccount(t *testing.T) {
	svc := newTestServices(t)

	_, err := svc.Account.AvailableBalance(context.Background(), uuid.Must(uuid.NewV4()))
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}
