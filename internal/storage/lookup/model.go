package lookup

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
)

const tableName = "lookup_items"

// ErrDuplicate is returned by Insert when the user already has an item of
// the same kind and name.
var ErrDuplicate = errors.New("lookup item already exists")

var ErrNotFound = errors.New("lookup item not found")

// Kind distinguishes the lookup lists a user maintains.
type Kind string

const (
	KindCategory      Kind = "category"
	KindPaymentMethod Kind = "payment_method"
)

// Valid reports whether k is a known lookup kind.
func (k Kind) Valid() bool {
	return k == KindCategory || k == KindPaymentMethod
}

// Item is a user-managed label that transactions and subscriptions refer to by name.
type Item struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Kind      Kind
	Name      string
	Color     *string
	IsDefault bool
	CreatedAt time.Time
}

// ItemCreate is the input for creating a lookup item.
type ItemCreate struct {
	UserID    uuid.UUID
	Kind      Kind
	Name      string
	Color     *string
	IsDefault bool
}

// LookupFilter specifies filters for listing lookup items.
// UserID is always applied.
type LookupFilter struct {
	UserID uuid.UUID
	Kind   *Kind
}

// IReader defines the read operations on the lookup_items table.
//
//go:generate mockery --name IReader --inpackage --filename mock_IReader.go
type IReader interface {
	List(ctx context.Context, filter *LookupFilter) ([]*Item, error)
}

// Names returns the set of item names of the given kind.
func Names(items []*Item, kind Kind) map[string]struct{} {
	names := make(map[string]struct{})
	for _, item := range items {
		if item.Kind == kind {
			names[item.Name] = struct{}{}
		}
	}
	return names
}

var columns = []any{
	"id",
	"user_id",
	"kind",
	"name",
	"color",
	"is_default",
	"created_at",
}

type itemRow struct {
	ID        uuid.UUID      `db:"id"`
	UserID    uuid.UUID      `db:"user_id"`
	Kind      string         `db:"kind"`
	Name      string         `db:"name"`
	Color     sql.NullString `db:"color"`
	IsDefault bool           `db:"is_default"`
	CreatedAt time.Time      `db:"created_at"`
}

func rowToItem(row itemRow) *Item {
	item := &Item{
		ID:        row.ID,
		UserID:    row.UserID,
		Kind:      Kind(row.Kind),
		Name:      row.Name,
		IsDefault: row.IsDefault,
		CreatedAt: row.CreatedAt,
	}
	if row.Color.Valid {
		color := row.Color.String
		item.Color = &color
	}
	return item
}
