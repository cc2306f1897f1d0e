package transaction

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/card-ledger/internal/ledger"
	"github.com/carson-networks/card-ledger/internal/service"
)

// mockTransactionService mocks the per-handler service interfaces.
type mockTransactionService struct {
	mock.Mock
}

func (m *mockTransactionService) CreateTransaction(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, currency, description string) (*service.Transaction, error) {
	args := m.Called(ctx, accountID, amount, currency, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Transaction), args.Error(1)
}

func (m *mockTransactionService) GetTransaction(ctx context.Context, id uuid.UUID) (*service.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Transaction), args.Error(1)
}

func (m *mockTransactionService) ProcessTransaction(ctx context.Context, id uuid.UUID) (*service.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Transaction), args.Error(1)
}

func (m *mockTransactionService) CancelTransaction(ctx context.Context, id uuid.UUID) (*service.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Transaction), args.Error(1)
}

func (m *mockTransactionService) FailTransaction(ctx context.Context, id uuid.UUID) (*service.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Transaction), args.Error(1)
}

func (m *mockTransactionService) ListTransactionsByAccount(ctx context.Context, accountID uuid.UUID) ([]service.Transaction, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.Transaction), args.Error(1)
}

func pendingTx(accountID uuid.UUID, amount string) *service.Transaction {
	return &service.Transaction{
		ID:        uuid.Must(uuid.NewV4()),
		AccountID: accountID,
		Amount:    decimal.RequireFromString(amount),
		Currency:  "USD",
		Status:    service.TransactionPending,
		CreatedAt: time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC),
	}
}

// -- Create --

func TestHTTP_CreateTransaction_Success(t *testing.T) {
	accountID := uuid.Must(uuid.NewV4())
	created := pendingTx(accountID, "12.50")

	mockSvc := new(mockTransactionService)
	mockSvc.On("CreateTransaction", mock.Anything, accountID,
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.RequireFromString("12.50")) }),
		"USD", "coffee").Return(created, nil)

	_, api := humatest.New(t)
	NewCreateTransactionHandler(mockSvc).Register(api)

	resp := api.Post("/v1/transaction", CreateTransactionBody{
		AccountID:   accountID.String(),
		Amount:      "12.50",
		Currency:    "USD",
		Description: "coffee",
	})

	assert.Equal(t, http.StatusCreated, resp.Code)
	var body Transaction
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, created.ID.String(), body.ID)
	assert.Equal(t, "pending", body.Status)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_CreateTransaction_MissingRequiredFields(t *testing.T) {
	mockSvc := new(mockTransactionService)
	_, api := humatest.New(t)
	NewCreateTransactionHandler(mockSvc).Register(api)

	// Huma schema validation rejects the request before the handler runs.
	resp := api.Post("/v1/transaction", CreateTransactionBody{
		AccountID: uuid.Must(uuid.NewV4()).String(),
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	mockSvc.AssertNotCalled(t, "CreateTransaction")
}

func TestHTTP_CreateTransaction_InvalidAccountID(t *testing.T) {
	mockSvc := new(mockTransactionService)
	_, api := humatest.New(t)
	NewCreateTransactionHandler(mockSvc).Register(api)

	resp := api.Post("/v1/transaction", CreateTransactionBody{
		AccountID: "not-a-uuid",
		Amount:    "10.00",
		Currency:  "USD",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockSvc.AssertNotCalled(t, "CreateTransaction")
}

func TestHTTP_CreateTransaction_InvalidAmount(t *testing.T) {
	mockSvc := new(mockTransactionService)
	_, api := humatest.New(t)
	NewCreateTransactionHandler(mockSvc).Register(api)

	resp := api.Post("/v1/transaction", CreateTransactionBody{
		AccountID: uuid.Must(uuid.NewV4()).String(),
		Amount:    "not-a-decimal",
		Currency:  "USD",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockSvc.AssertNotCalled(t, "CreateTransaction")
}

func TestHTTP_CreateTransaction_ValidationErrorFromService(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("CreateTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, ledger.NewValidationError("amount", "must be greater than zero"))

	_, api := humatest.New(t)
	NewCreateTransactionHandler(mockSvc).Register(api)

	resp := api.Post("/v1/transaction", CreateTransactionBody{
		AccountID: uuid.Must(uuid.NewV4()).String(),
		Amount:    "-1.00",
		Currency:  "USD",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestHTTP_CreateTransaction_AccountNotFound(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("CreateTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: account missing", ledger.ErrNotFound))

	_, api := humatest.New(t)
	NewCreateTransactionHandler(mockSvc).Register(api)

	resp := api.Post("/v1/transaction", CreateTransactionBody{
		AccountID: uuid.Must(uuid.NewV4()).String(),
		Amount:    "10.00",
		Currency:  "USD",
	})

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

// -- Get --

func TestHTTP_GetTransaction_Success(t *testing.T) {
	tx := pendingTx(uuid.Must(uuid.NewV4()), "5.00")

	mockSvc := new(mockTransactionService)
	mockSvc.On("GetTransaction", mock.Anything, tx.ID).Return(tx, nil)

	_, api := humatest.New(t)
	NewGetTransactionHandler(mockSvc).Register(api)

	resp := api.Get("/v1/transaction/" + tx.ID.String())

	assert.Equal(t, http.StatusOK, resp.Code)
	var body Transaction
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, tx.ID.String(), body.ID)
	assert.Equal(t, "5", body.Amount)
	assert.Empty(t, body.CompletedAt)
}

func TestHTTP_GetTransaction_NotFound(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("GetTransaction", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: transaction missing", ledger.ErrNotFound))

	_, api := humatest.New(t)
	NewGetTransactionHandler(mockSvc).Register(api)

	resp := api.Get("/v1/transaction/" + uuid.Must(uuid.NewV4()).String())
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHTTP_GetTransaction_InvalidID(t *testing.T) {
	mockSvc := new(mockTransactionService)
	_, api := humatest.New(t)
	NewGetTransactionHandler(mockSvc).Register(api)

	resp := api.Get("/v1/transaction/not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockSvc.AssertNotCalled(t, "GetTransaction")
}

// -- Process --

func TestHTTP_ProcessTransaction_Success(t *testing.T) {
	completedAt := time.Date(2025, 8, 1, 11, 0, 0, 0, time.UTC)
	tx := pendingTx(uuid.Must(uuid.NewV4()), "40.00")
	tx.Status = service.TransactionCompleted
	tx.CompletedAt = &completedAt

	mockSvc := new(mockTransactionService)
	mockSvc.On("ProcessTransaction", mock.Anything, tx.ID).Return(tx, nil)

	_, api := humatest.New(t)
	NewProcessTransactionHandler(mockSvc).Register(api)

	resp := api.Post("/v1/transaction/" + tx.ID.String() + "/process")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body Transaction
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "completed", body.Status)
	assert.Equal(t, completedAt.Format(time.RFC3339), body.CompletedAt)
}

func TestHTTP_ProcessTransaction_InsufficientFunds(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("ProcessTransaction", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: amount exceeds balance", ledger.ErrInsufficientFunds))

	_, api := humatest.New(t)
	NewProcessTransactionHandler(mockSvc).Register(api)

	resp := api.Post("/v1/transaction/" + uuid.Must(uuid.NewV4()).String() + "/process")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestHTTP_ProcessTransaction_AlreadyTerminal(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("ProcessTransaction", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: already completed", ledger.ErrConflict))

	_, api := humatest.New(t)
	NewProcessTransactionHandler(mockSvc).Register(api)

	resp := api.Post("/v1/transaction/" + uuid.Must(uuid.NewV4()).String() + "/process")
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestHTTP_ProcessTransaction_LockTimeoutRetryable(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("ProcessTransaction", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: account busy", ledger.ErrLockTimeout))

	_, api := humatest.New(t)
	NewProcessTransactionHandler(mockSvc).Register(api)

	resp := api.Post("/v1/transaction/" + uuid.Must(uuid.NewV4()).String() + "/process")
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

// -- Cancel / Fail --

func TestHTTP_CancelTransaction_Success(t *testing.T) {
	tx := pendingTx(uuid.Must(uuid.NewV4()), "10.00")
	tx.Status = service.TransactionCancelled

	mockSvc := new(mockTransactionService)
	mockSvc.On("CancelTransaction", mock.Anything, tx.ID).Return(tx, nil)

	_, api := humatest.New(t)
	NewCancelTransactionHandler(mockSvc).Register(api)

	resp := api.Post("/v1/transaction/" + tx.ID.String() + "/cancel")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body Transaction
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "cancelled", body.Status)
}

func TestHTTP_CancelTransaction_AlreadyTerminal(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("CancelTransaction", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: already cancelled", ledger.ErrConflict))

	_, api := humatest.New(t)
	NewCancelTransactionHandler(mockSvc).Register(api)

	resp := api.Post("/v1/transaction/" + uuid.Must(uuid.NewV4()).String() + "/cancel")
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestHTTP_FailTransaction_Success(t *testing.T) {
	tx := pendingTx(uuid.Must(uuid.NewV4()), "10.00")
	tx.Status = service.TransactionFailed

	mockSvc := new(mockTransactionService)
	mockSvc.On("FailTransaction", mock.Anything, tx.ID).Return(tx, nil)

	_, api := humatest.New(t)
	NewFailTransactionHandler(mockSvc).Register(api)

	resp := api.Post("/v1/transaction/" + tx.ID.String() + "/fail")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body Transaction
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "failed", body.Status)
}

// -- List --

func TestHTTP_ListTransactions_Success(t *testing.T) {
	accountID := uuid.Must(uuid.NewV4())
	rows := []service.Transaction{
		*pendingTx(accountID, "2.00"),
		*pendingTx(accountID, "1.00"),
	}

	mockSvc := new(mockTransactionService)
	mockSvc.On("ListTransactionsByAccount", mock.Anything, accountID).Return(rows, nil)

	_, api := humatest.New(t)
	NewListTransactionsHandler(mockSvc).Register(api)

	resp := api.Get("/v1/account/" + accountID.String() + "/transactions")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ListTransactionsResponseBody
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Transactions, 2)
	assert.Equal(t, rows[0].ID.String(), body.Transactions[0].ID)
}

func TestHTTP_ListTransactions_AccountNotFound(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("ListTransactionsByAccount", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: account missing", ledger.ErrNotFound))

	_, api := humatest.New(t)
	NewListTransactionsHandler(mockSvc).Register(api)

	resp := api.Get("/v1/account/" + uuid.Must(uuid.NewV4()).String() + "/transactions")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
