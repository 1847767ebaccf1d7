package actions

import (
	"context"

	"github.com/aarondl/opt/omit"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/recurrence"
	"github.com/carson-networks/budget-ledger/internal/storage"
	"github.com/carson-networks/budget-ledger/internal/storage/subscription"
)

type UpdateSubscription struct {
	UserID         uuid.UUID
	SubscriptionID uuid.UUID
	Update         subscription.SubscriptionUpdate

	Updated *subscription.Subscription
	IAction
}

func (u *UpdateSubscription) Name() string {
	return "UpdateSubscription"
}

// Perform validates the merged record so a partial update cannot leave an
// unmaterializable subscription behind.
func (u *UpdateSubscription) Perform(ctx context.Context, writer *storage.Writer) error {
	current, err := writer.Subscription.FindByID(ctx, u.UserID, u.SubscriptionID)
	if err != nil {
		return err
	}

	merged := u.Update.Apply(*current)
	if merged.BillingCycle == subscription.CycleMonthly && merged.BillingMonth != 0 {
		merged.BillingMonth = 0
		u.Update.BillingMonth = omit.From(0)
	}
	if err := recurrence.Validate(&merged); err != nil {
		return &InvalidInputError{Err: err}
	}

	if u.Update.Empty() {
		u.Updated = current
		return nil
	}

	updated, err := writer.Subscription.Update(ctx, u.UserID, u.SubscriptionID, &u.Update)
	if err != nil {
		return err
	}

	u.Updated = updated
	return nil
}
