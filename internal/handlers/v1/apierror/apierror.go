// Package apierror maps domain errors onto HTTP status codes for the huma
// handlers. Retryable errors map to 503 so clients know backoff applies.
package apierror

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/card-ledger/internal/ledger"
)

// FromService converts a service-layer error into a huma status error.
func FromService(err error, message string) error {
	switch {
	case ledger.IsValidation(err):
		return huma.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrNotFound):
		return huma.NewError(http.StatusNotFound, message, err)
	case errors.Is(err, ledger.ErrConflict):
		return huma.NewError(http.StatusConflict, message, err)
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return huma.NewError(http.StatusUnprocessableEntity, message, err)
	case ledger.IsRetryable(err):
		return huma.NewError(http.StatusServiceUnavailable, message, err)
	default:
		return huma.NewError(http.StatusInternalServerError, message, err)
	}
}
