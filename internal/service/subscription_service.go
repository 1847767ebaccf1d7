package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/operator/actions"
	"github.com/carson-networks/budget-ledger/internal/storage/subscription"
)

// SubscriptionService manages a user's recurring-charge templates.
type SubscriptionService struct {
	reader     subscription.IReader
	dispatcher Dispatcher
}

func NewSubscriptionService(reader subscription.IReader, dispatcher Dispatcher) *SubscriptionService {
	return &SubscriptionService{reader: reader, dispatcher: dispatcher}
}

func (s *SubscriptionService) CreateSubscription(ctx context.Context, userID uuid.UUID, sub Subscription) (*Subscription, error) {
	action := &actions.CreateSubscription{
		Create: subscription.SubscriptionCreate{
			UserID:        userID,
			Name:          sub.Name,
			Amount:        sub.Amount,
			BillingCycle:  subscription.BillingCycle(sub.BillingCycle),
			BillingDay:    sub.BillingDay,
			BillingMonth:  sub.BillingMonth,
			Category:      sub.Category,
			PaymentMethod: sub.PaymentMethod,
			Include:       sub.Include,
		},
	}
	if err := s.dispatcher.Process(ctx, action); err != nil {
		return nil, err
	}

	created := subscriptionFromStorage(action.Created)
	return &created, nil
}

func (s *SubscriptionService) UpdateSubscription(ctx context.Context, userID, id uuid.UUID, patch SubscriptionPatch) (*Subscription, error) {
	action := &actions.UpdateSubscription{
		UserID:         userID,
		SubscriptionID: id,
		Update:         patch.toStorage(),
	}
	if err := s.dispatcher.Process(ctx, action); err != nil {
		return nil, err
	}

	updated := subscriptionFromStorage(action.Updated)
	return &updated, nil
}

func (s *SubscriptionService) DeleteSubscription(ctx context.Context, userID, id uuid.UUID) error {
	return s.dispatcher.Process(ctx, &actions.DeleteSubscription{UserID: userID, SubscriptionID: id})
}

func (s *SubscriptionService) GetSubscription(ctx context.Context, userID, id uuid.UUID) (*Subscription, error) {
	row, err := s.reader.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	sub := subscriptionFromStorage(row)
	return &sub, nil
}

// ListSubscriptions returns the user's subscriptions. A nil include returns
// active and paused ones.
func (s *SubscriptionService) ListSubscriptions(ctx context.Context, userID uuid.UUID, include *bool) ([]Subscription, error) {
	rows, err := s.reader.List(ctx, &subscription.SubscriptionFilter{UserID: userID, Include: include})
	if err != nil {
		return nil, err
	}

	subs := make([]Subscription, len(rows))
	for i, row := range rows {
		subs[i] = subscriptionFromStorage(row)
	}
	return subs, nil
}
