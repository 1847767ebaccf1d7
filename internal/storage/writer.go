package storage

import (
	"context"

	"github.com/stephenafamo/bob"

	"github.com/carson-networks/budget-ledger/internal/storage/lookup"
	"github.com/carson-networks/budget-ledger/internal/storage/subscription"
	"github.com/carson-networks/budget-ledger/internal/storage/transaction"
)

type Writer struct {
	tx           bob.Tx
	Lookup       *lookup.Writer
	Subscription *subscription.Writer
	Transaction  *transaction.Writer
}

func NewWriter(tx bob.Tx) *Writer {
	return &Writer{
		tx:           tx,
		Lookup:       lookup.NewWriter(tx),
		Subscription: subscription.NewWriter(tx),
		Transaction:  transaction.NewWriter(tx),
	}
}

func (w *Writer) Commit(ctx context.Context) error {
	return w.tx.Commit(ctx)
}

func (w *Writer) Rollback(ctx context.Context) error {
	return w.tx.Rollback(ctx)
}
