package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/card-ledger/internal/handlers/v1/apierror"
	"github.com/carson-networks/card-ledger/internal/service"
)

// FailTransactionInput is the Huma input for failing a transaction.
type FailTransactionInput struct {
	ID string `path:"id" doc:"Transaction UUID"`
}

// FailTransactionOutput is the Huma output for failing a transaction.
type FailTransactionOutput struct {
	Body Transaction
}

// transactionFailer is the service interface for failing transactions.
type transactionFailer interface {
	FailTransaction(ctx context.Context, id uuid.UUID) (*service.Transaction, error)
}

// FailTransactionHandler handles POST /v1/transaction/{id}/fail.
type FailTransactionHandler struct {
	TransactionService transactionFailer
}

// NewFailTransactionHandler creates a new FailTransactionHandler.
func NewFailTransactionHandler(svc transactionFailer) *FailTransactionHandler {
	return &FailTransactionHandler{TransactionService: svc}
}

// Register registers the fail transaction endpoint with the Huma API.
func (h *FailTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "fail-transaction",
		Method:      http.MethodPost,
		Path:        "/v1/transaction/{id}/fail",
		Summary:     "Fail transaction",
		Description: "Marks a pending transaction as failed, releasing its hold on the available balance.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *FailTransactionHandler) handle(ctx context.Context, input *FailTransactionInput) (*FailTransactionOutput, error) {
	id, err := uuid.FromString(input.ID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid transaction id", err)
	}

	failed, err := h.TransactionService.FailTransaction(ctx, id)
	if err != nil {
		return nil, apierror.FromService(err, "failed to mark transaction failed")
	}

	return &FailTransactionOutput{Body: fromService(failed)}, nil
}
