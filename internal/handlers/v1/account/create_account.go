package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/card-ledger/internal/handlers/v1/apierror"
	"github.com/carson-networks/card-ledger/internal/service"
)

// CreateAccountBody is the request body for creating an account.
type CreateAccountBody struct {
	UserID     string `json:"userID" required:"true" doc:"Owning user UUID"`
	CardNumber string `json:"cardNumber" required:"true" doc:"Card number, unique across accounts"`
	Balance    string `json:"balance" required:"true" doc:"Nominal balance, fixed for the account's lifetime"`
}

// CreateAccountInput is the Huma input for creating an account.
type CreateAccountInput struct {
	Body CreateAccountBody
}

// CreateAccountOutput is the Huma output for creating an account.
type CreateAccountOutput struct {
	Body Account
}

// accountCreator is the service interface for creating accounts.
type accountCreator interface {
	CreateAccount(ctx context.Context, userID uuid.UUID, cardNumber string, balance decimal.Decimal) (*service.Account, error)
}

// CreateAccountHandler handles POST /v1/account.
type CreateAccountHandler struct {
	AccountService accountCreator
}

// NewCreateAccountHandler creates a new CreateAccountHandler.
func NewCreateAccountHandler(svc accountCreator) *CreateAccountHandler {
	return &CreateAccountHandler{AccountService: svc}
}

// Register registers the create account endpoint with the Huma API.
func (h *CreateAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-account",
		Method:        http.MethodPost,
		Path:          "/v1/account",
		Summary:       "Create account",
		Description:   "Registers a new card account with its nominal balance.",
		Tags:          []string{"Accounts"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func (h *CreateAccountHandler) handle(ctx context.Context, input *CreateAccountInput) (*CreateAccountOutput, error) {
	userID, err := uuid.FromString(input.Body.UserID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid userID", err)
	}
	balance, err := decimal.NewFromString(input.Body.Balance)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid balance", err)
	}

	created, err := h.AccountService.CreateAccount(ctx, userID, input.Body.CardNumber, balance)
	if err != nil {
		return nil, apierror.FromService(err, "failed to create account")
	}

	return &CreateAccountOutput{Body: fromService(created)}, nil
}
