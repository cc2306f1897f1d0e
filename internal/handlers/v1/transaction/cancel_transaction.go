package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/card-ledger/internal/handlers/v1/apierror"
	"github.com/carson-networks/card-ledger/internal/service"
)

// CancelTransactionInput is the Huma input for cancelling a transaction.
type CancelTransactionInput struct {
	ID string `path:"id" doc:"Transaction UUID"`
}

// CancelTransactionOutput is the Huma output for cancelling a transaction.
type CancelTransactionOutput struct {
	Body Transaction
}

// transactionCanceller is the service interface for cancelling transactions.
type transactionCanceller interface {
	CancelTransaction(ctx context.Context, id uuid.UUID) (*service.Transaction, error)
}

// CancelTransactionHandler handles POST /v1/transaction/{id}/cancel.
type CancelTransactionHandler struct {
	TransactionService transactionCanceller
}

// NewCancelTransactionHandler creates a new CancelTransactionHandler.
func NewCancelTransactionHandler(svc transactionCanceller) *CancelTransactionHandler {
	return &CancelTransactionHandler{TransactionService: svc}
}

// Register registers the cancel transaction endpoint with the Huma API.
func (h *CancelTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "cancel-transaction",
		Method:      http.MethodPost,
		Path:        "/v1/transaction/{id}/cancel",
		Summary:     "Cancel transaction",
		Description: "Cancels a pending transaction, releasing its hold on the available balance.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *CancelTransactionHandler) handle(ctx context.Context, input *CancelTransactionInput) (*CancelTransactionOutput, error) {
	id, err := uuid.FromString(input.ID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid transaction id", err)
	}

	cancelled, err := h.TransactionService.CancelTransaction(ctx, id)
	if err != nil {
		return nil, apierror.FromService(err, "failed to cancel transaction")
	}

	return &CancelTransactionOutput{Body: fromService(cancelled)}, nil
}
