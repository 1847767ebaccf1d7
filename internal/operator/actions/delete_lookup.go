package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/storage"
)

type DeleteLookup struct {
	UserID uuid.UUID
	ItemID uuid.UUID
	IAction
}

func (d *DeleteLookup) Name() string {
	return "DeleteLookup"
}

func (d *DeleteLookup) Perform(ctx context.Context, writer *storage.Writer) error {
	return writer.Lookup.Delete(ctx, d.UserID, d.ItemID)
}
