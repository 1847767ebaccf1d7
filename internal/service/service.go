package service

import (
	"context"
	"time"

	"github.com/carson-networks/budget-ledger/internal/operator/actions"
	"github.com/carson-networks/budget-ledger/internal/session"
	"github.com/carson-networks/budget-ledger/internal/storage"
)

// Dispatcher runs a write action in its own storage transaction.
type Dispatcher interface {
	Process(ctx context.Context, action actions.IAction) error
}

// Service holds all business logic services.
type Service struct {
	Transaction  *TransactionService
	Subscription *SubscriptionService
	Lookup       *LookupService
	Summary      *SummaryService
	Session      *SessionService
}

// NewService creates a new Service reading from store and writing through dispatcher.
func NewService(store *storage.Storage, dispatcher Dispatcher, sessions *session.Manager, loc *time.Location) *Service {
	return &Service{
		Transaction:  NewTransactionService(store.Reader.Transactions, dispatcher),
		Subscription: NewSubscriptionService(store.Reader.Subscriptions, dispatcher),
		Lookup:       NewLookupService(store.Reader.Lookups, dispatcher),
		Summary:      NewSummaryService(store.Reader.Transactions, loc),
		Session:      NewSessionService(sessions),
	}
}
