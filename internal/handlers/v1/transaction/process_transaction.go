package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/card-ledger/internal/handlers/v1/apierror"
	"github.com/carson-networks/card-ledger/internal/logging"
	"github.com/carson-networks/card-ledger/internal/service"
)

// ProcessTransactionInput is the Huma input for processing a transaction.
type ProcessTransactionInput struct {
	ID string `path:"id" doc:"Transaction UUID"`
}

// ProcessTransactionOutput is the Huma output for processing a transaction.
type ProcessTransactionOutput struct {
	Body Transaction
}

// transactionProcessor is the service interface for completing transactions.
type transactionProcessor interface {
	ProcessTransaction(ctx context.Context, id uuid.UUID) (*service.Transaction, error)
}

// ProcessTransactionHandler handles POST /v1/transaction/{id}/process.
type ProcessTransactionHandler struct {
	TransactionService transactionProcessor
}

// NewProcessTransactionHandler creates a new ProcessTransactionHandler.
func NewProcessTransactionHandler(svc transactionProcessor) *ProcessTransactionHandler {
	return &ProcessTransactionHandler{TransactionService: svc}
}

// Register registers the process transaction endpoint with the Huma API.
func (h *ProcessTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "process-transaction",
		Method:      http.MethodPost,
		Path:        "/v1/transaction/{id}/process",
		Summary:     "Process transaction",
		Description: "Completes a pending transaction if the account has sufficient available balance. Retryable failures return 503.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *ProcessTransactionHandler) handle(ctx context.Context, input *ProcessTransactionInput) (*ProcessTransactionOutput, error) {
	logData := logging.GetLogData(ctx)
	id, err := uuid.FromString(input.ID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid transaction id", err)
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("processTransactionMs")
	}
	processed, err := h.TransactionService.ProcessTransaction(ctx, id)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, apierror.FromService(err, "failed to process transaction")
	}

	return &ProcessTransactionOutput{Body: fromService(processed)}, nil
}
