package operator

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/card-ledger/internal/ledger"
	"github.com/carson-networks/card-ledger/internal/operator/actions"
	"github.com/carson-networks/card-ledger/internal/storage"
)

// Operator is the worker that executes ledger actions from the queue. Each
// action runs inside its own unit of work: rolled back on failure, committed
// on success. Account row locks taken by the action are released with the
// commit or rollback, never held beyond it.
type Operator struct {
	storage *storage.Storage
	queue   chan ActionItem
}

func NewOperator(s *storage.Storage, queue chan ActionItem) *Operator {
	return &Operator{
		storage: s,
		queue:   queue,
	}
}

// Run listens to the queue and processes items. Exits when the queue is closed.
func (o *Operator) Run() {
	for item := range o.queue {
		o.processItem(item)
	}
}

func (o *Operator) processItem(item ActionItem) {
	uow, err := o.storage.Write(item.ctx)
	if err != nil {
		item.response <- ActionItemResponse{err: err}
		return
	}

	err = item.action.Perform(item.ctx, uow)
	if err != nil {
		_ = uow.Rollback()
		if ledger.IsRetryable(err) {
			logrus.WithError(err).Info("Operator.processItem.retryable")
		}
		item.response <- ActionItemResponse{err: err}
		return
	}

	if err = uow.Commit(); err != nil {
		item.response <- ActionItemResponse{err: err}
		return
	}

	item.response <- ActionItemResponse{}
}

type ActionItem struct {
	ctx      context.Context
	action   actions.IAction
	response chan ActionItemResponse
}

type ActionItemResponse struct {
	err error
}
