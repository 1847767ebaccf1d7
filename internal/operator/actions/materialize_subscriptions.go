package actions

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/recurrence"
	"github.com/carson-networks/budget-ledger/internal/storage"
	"github.com/carson-networks/budget-ledger/internal/storage/lookup"
	"github.com/carson-networks/budget-ledger/internal/storage/subscription"
	"github.com/carson-networks/budget-ledger/internal/storage/transaction"
)

// MaterializeSubscriptions runs one materialization pass inside the action's
// transaction, so a failed pass leaves no rows behind.
type MaterializeSubscriptions struct {
	Materializer *recurrence.Materializer
	UserID       uuid.UUID
	Now          time.Time

	Result *recurrence.Result
	IAction
}

func (m *MaterializeSubscriptions) Name() string {
	return "MaterializeSubscriptions"
}

func (m *MaterializeSubscriptions) Perform(ctx context.Context, writer *storage.Writer) error {
	result, err := m.Materializer.Materialize(ctx, writerLedger{writer: writer}, m.UserID, m.Now)
	if err != nil {
		return err
	}

	m.Result = result
	return nil
}

// writerLedger exposes a storage Writer as a recurrence.Ledger.
type writerLedger struct {
	writer *storage.Writer
}

func (l writerLedger) ListActiveSubscriptions(ctx context.Context, userID uuid.UUID) ([]*subscription.Subscription, error) {
	include := true
	return l.writer.Subscription.List(ctx, &subscription.SubscriptionFilter{UserID: userID, Include: &include})
}

func (l writerLedger) ListLookups(ctx context.Context, userID uuid.UUID) ([]*lookup.Item, error) {
	return l.writer.Lookup.List(ctx, &lookup.LookupFilter{UserID: userID})
}

func (l writerLedger) ListTransactions(ctx context.Context, filter *transaction.TransactionFilter) ([]*transaction.Transaction, error) {
	return l.writer.Transaction.List(ctx, filter)
}

func (l writerLedger) InsertTransaction(ctx context.Context, create *transaction.TransactionCreate) (*transaction.Transaction, error) {
	return l.writer.Transaction.Insert(ctx, create)
}
