package actions

import (
	"context"

	"github.com/carson-networks/budget-ledger/internal/recurrence"
	"github.com/carson-networks/budget-ledger/internal/storage"
	"github.com/carson-networks/budget-ledger/internal/storage/subscription"
)

type CreateSubscription struct {
	Create subscription.SubscriptionCreate

	Created *subscription.Subscription
	IAction
}

func (c *CreateSubscription) Name() string {
	return "CreateSubscription"
}

func (c *CreateSubscription) Perform(ctx context.Context, writer *storage.Writer) error {
	if c.Create.BillingCycle == subscription.CycleMonthly {
		c.Create.BillingMonth = 0
	}
	candidate := &subscription.Subscription{
		Name:          c.Create.Name,
		Amount:        c.Create.Amount,
		BillingCycle:  c.Create.BillingCycle,
		BillingDay:    c.Create.BillingDay,
		BillingMonth:  c.Create.BillingMonth,
		Category:      c.Create.Category,
		PaymentMethod: c.Create.PaymentMethod,
	}
	if err := recurrence.Validate(candidate); err != nil {
		return &InvalidInputError{Err: err}
	}

	created, err := writer.Subscription.Insert(ctx, &c.Create)
	if err != nil {
		return err
	}

	c.Created = created
	return nil
}
