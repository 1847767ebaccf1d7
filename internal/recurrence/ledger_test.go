package recurrence

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/storage/lookup"
	"github.com/carson-networks/budget-ledger/internal/storage/subscription"
	"github.com/carson-networks/budget-ledger/internal/storage/transaction"
)

// memLedger is an in-memory Ledger enforcing the (subscription, period)
// uniqueness the database provides.
type memLedger struct {
	mu            sync.Mutex
	subscriptions []*subscription.Subscription
	lookups       []*lookup.Item
	transactions  []*transaction.Transaction

	listCalls   int
	insertErr   error
	listSubsErr error
}

var _ Ledger = (*memLedger)(nil)

func (l *memLedger) ListActiveSubscriptions(ctx context.Context, userID uuid.UUID) ([]*subscription.Subscription, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.listSubsErr != nil {
		return nil, l.listSubsErr
	}
	var result []*subscription.Subscription
	for _, sub := range l.subscriptions {
		if sub.UserID == userID && sub.Include {
			result = append(result, sub)
		}
	}
	return result, nil
}

func (l *memLedger) ListLookups(ctx context.Context, userID uuid.UUID) ([]*lookup.Item, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var result []*lookup.Item
	for _, item := range l.lookups {
		if item.UserID == userID {
			result = append(result, item)
		}
	}
	return result, nil
}

func (l *memLedger) ListTransactions(ctx context.Context, filter *transaction.TransactionFilter) ([]*transaction.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listCalls++

	periods := make(map[string]struct{})
	for _, period := range filter.BillingPeriods {
		periods[period] = struct{}{}
	}

	var result []*transaction.Transaction
	for _, tx := range l.transactions {
		if tx.UserID != filter.UserID {
			continue
		}
		if filter.From != nil && tx.TransactionDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !tx.TransactionDate.Before(*filter.To) {
			continue
		}
		if filter.Type != nil && tx.Type != *filter.Type {
			continue
		}
		if filter.Unlinked && tx.SubscriptionID != nil {
			continue
		}
		if len(periods) > 0 {
			if _, ok := periods[tx.BillingPeriod]; !ok {
				continue
			}
		}
		result = append(result, tx)
	}
	return result, nil
}

func (l *memLedger) InsertTransaction(ctx context.Context, create *transaction.TransactionCreate) (*transaction.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.insertErr != nil {
		return nil, l.insertErr
	}
	if create.SubscriptionID != nil {
		for _, tx := range l.transactions {
			if tx.SubscriptionID != nil && *tx.SubscriptionID == *create.SubscriptionID && tx.BillingPeriod == create.BillingPeriod {
				return nil, transaction.ErrAlreadyMaterialized
			}
		}
	}
	tx := &transaction.Transaction{
		ID:              uuid.Must(uuid.NewV4()),
		UserID:          create.UserID,
		Type:            create.Type,
		Description:     create.Description,
		Amount:          create.Amount,
		Category:        create.Category,
		PaymentMethod:   create.PaymentMethod,
		TransactionDate: create.TransactionDate,
		SubscriptionID:  create.SubscriptionID,
		BillingPeriod:   create.BillingPeriod,
		CreatedAt:       create.TransactionDate,
	}
	l.transactions = append(l.transactions, tx)
	return tx, nil
}

func (l *memLedger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.transactions)
}

var errStoreDown = errors.New("store unreachable")

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 9, 30, 0, 0, time.UTC)
}
