package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/card-ledger/internal/handlers/v1/apierror"
	"github.com/carson-networks/card-ledger/internal/service"
)

// CreateTransactionBody is the request body for creating a transaction.
type CreateTransactionBody struct {
	AccountID   string `json:"accountID" required:"true" doc:"Account UUID"`
	Amount      string `json:"amount" required:"true" doc:"Decimal amount, must be positive"`
	Currency    string `json:"currency" required:"true" doc:"3-letter currency code"`
	Description string `json:"description,omitempty" doc:"Free-form description"`
}

// CreateTransactionInput is the Huma input for creating a transaction.
type CreateTransactionInput struct {
	Body CreateTransactionBody
}

// CreateTransactionOutput is the Huma output for creating a transaction.
type CreateTransactionOutput struct {
	Body Transaction
}

// transactionCreator is the service interface for creating transactions.
type transactionCreator interface {
	CreateTransaction(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, currency, description string) (*service.Transaction, error)
}

// CreateTransactionHandler handles POST /v1/transaction.
type CreateTransactionHandler struct {
	TransactionService transactionCreator
}

// NewCreateTransactionHandler creates a new CreateTransactionHandler.
func NewCreateTransactionHandler(svc transactionCreator) *CreateTransactionHandler {
	return &CreateTransactionHandler{TransactionService: svc}
}

// Register registers the create transaction endpoint with the Huma API.
func (h *CreateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-transaction",
		Method:        http.MethodPost,
		Path:          "/v1/transaction",
		Summary:       "Create transaction",
		Description:   "Creates a new pending transaction against an account.",
		Tags:          []string{"Transactions"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

// parseCreateTransactionInput parses the API input. Amount sign and currency
// format are business rules checked by the service, not here.
func parseCreateTransactionInput(input *CreateTransactionInput) (accountID uuid.UUID, amount decimal.Decimal, err error) {
	accountID, err = uuid.FromString(input.Body.AccountID)
	if err != nil {
		return uuid.Nil, decimal.Zero, huma.NewError(http.StatusBadRequest, "invalid accountID", err)
	}
	amount, err = decimal.NewFromString(input.Body.Amount)
	if err != nil {
		return uuid.Nil, decimal.Zero, huma.NewError(http.StatusBadRequest, "invalid amount", err)
	}
	return accountID, amount, nil
}

func (h *CreateTransactionHandler) handle(ctx context.Context, input *CreateTransactionInput) (*CreateTransactionOutput, error) {
	accountID, amount, err := parseCreateTransactionInput(input)
	if err != nil {
		return nil, err
	}

	created, err := h.TransactionService.CreateTransaction(ctx, accountID, amount, input.Body.Currency, input.Body.Description)
	if err != nil {
		return nil, apierror.FromService(err, "failed to create transaction")
	}

	return &CreateTransactionOutput{Body: fromService(created)}, nil
}
