package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/card-ledger/internal/handlers/v1/apierror"
)

// GetBalanceInput is the Huma input for fetching an account's balance.
type GetBalanceInput struct {
	ID string `path:"id" doc:"Account UUID"`
}

// GetBalanceResponseBody is the response body for the balance endpoint.
type GetBalanceResponseBody struct {
	AccountID        string `json:"accountID" doc:"Account UUID"`
	AvailableBalance string `json:"availableBalance" doc:"Nominal balance minus pending and completed transactions, never negative"`
}

// GetBalanceOutput is the Huma output for the balance endpoint.
type GetBalanceOutput struct {
	Body GetBalanceResponseBody
}

// balanceReporter is the service interface for balance reporting.
type balanceReporter interface {
	AvailableBalance(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error)
}

// GetBalanceHandler handles GET /v1/account/{id}/balance.
type GetBalanceHandler struct {
	AccountService balanceReporter
}

// NewGetBalanceHandler creates a new GetBalanceHandler.
func NewGetBalanceHandler(svc balanceReporter) *GetBalanceHandler {
	return &GetBalanceHandler{AccountService: svc}
}

// Register registers the balance endpoint with the Huma API.
func (h *GetBalanceHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-account-balance",
		Method:      http.MethodGet,
		Path:        "/v1/account/{id}/balance",
		Summary:     "Get account balance",
		Description: "Returns the account's available balance from a plain snapshot; no lock is taken.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *GetBalanceHandler) handle(ctx context.Context, input *GetBalanceInput) (*GetBalanceOutput, error) {
	id, err := uuid.FromString(input.ID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid account id", err)
	}

	balance, err := h.AccountService.AvailableBalance(ctx, id)
	if err != nil {
		return nil, apierror.FromService(err, "failed to get balance")
	}

	return &GetBalanceOutput{
		Body: GetBalanceResponseBody{
			AccountID:        id.String(),
			AvailableBalance: balance.String(),
		},
	}, nil
}
