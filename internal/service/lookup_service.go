package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/operator/actions"
	"github.com/carson-networks/budget-ledger/internal/storage/lookup"
)

type LookupKind string

const (
	LookupKindCategory      LookupKind = "category"
	LookupKindPaymentMethod LookupKind = "payment_method"
)

// LookupItem is a category or payment-method label.
type LookupItem struct {
	ID        uuid.UUID
	Kind      LookupKind
	Name      string
	Color     *string
	IsDefault bool
}

type LookupService struct {
	reader     lookup.IReader
	dispatcher Dispatcher
}

func NewLookupService(reader lookup.IReader, dispatcher Dispatcher) *LookupService {
	return &LookupService{reader: reader, dispatcher: dispatcher}
}

func (s *LookupService) CreateLookup(ctx context.Context, userID uuid.UUID, item LookupItem) (*LookupItem, error) {
	action := &actions.CreateLookup{
		Create: lookup.ItemCreate{
			UserID:    userID,
			Kind:      lookup.Kind(item.Kind),
			Name:      item.Name,
			Color:     item.Color,
			IsDefault: item.IsDefault,
		},
	}
	if err := s.dispatcher.Process(ctx, action); err != nil {
		return nil, err
	}

	created := lookupFromStorage(action.Created)
	return &created, nil
}

// DeleteLookup removes one of the user's lookup items. Transactions keep
// their label text.
func (s *LookupService) DeleteLookup(ctx context.Context, userID, id uuid.UUID) error {
	return s.dispatcher.Process(ctx, &actions.DeleteLookup{UserID: userID, ItemID: id})
}

// ListLookups returns the user's lookup items, optionally of one kind.
func (s *LookupService) ListLookups(ctx context.Context, userID uuid.UUID, kind *LookupKind) ([]LookupItem, error) {
	filter := &lookup.LookupFilter{UserID: userID}
	if kind != nil {
		storageKind := lookup.Kind(*kind)
		filter.Kind = &storageKind
	}

	rows, err := s.reader.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]LookupItem, len(rows))
	for i, row := range rows {
		items[i] = lookupFromStorage(row)
	}
	return items, nil
}

func lookupFromStorage(row *lookup.Item) LookupItem {
	return LookupItem{
		ID:        row.ID,
		Kind:      LookupKind(row.Kind),
		Name:      row.Name,
		Color:     row.Color,
		IsDefault: row.IsDefault,
	}
}
