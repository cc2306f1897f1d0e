package actions

import (
	"context"

	"github.com/carson-networks/card-ledger/internal/storage"
)

// IAction is a single ledger mutation executed by an operator worker. Perform
// runs inside the given unit of work; the worker commits on nil error and
// rolls back otherwise, so an action never observes a partially persisted
// state of its own making.
type IAction interface {
	Perform(ctx context.Context, uow storage.UnitOfWork) error
}
