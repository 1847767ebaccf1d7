package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/storage"
)

type DeleteSubscription struct {
	UserID         uuid.UUID
	SubscriptionID uuid.UUID
	IAction
}

func (d *DeleteSubscription) Name() string {
	return "DeleteSubscription"
}

func (d *DeleteSubscription) Perform(ctx context.Context, writer *storage.Writer) error {
	return writer.Subscription.Delete(ctx, d.UserID, d.SubscriptionID)
}
