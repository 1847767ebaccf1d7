package subscription

import (
	"context"
	"errors"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

const tableName = "subscriptions"

var ErrNotFound = errors.New("subscription not found")

// BillingCycle is how often a subscription charges.
type BillingCycle string

const (
	CycleMonthly BillingCycle = "monthly"
	CycleYearly  BillingCycle = "yearly"
)

// Subscription is a recurring-charge template. BillingMonth is only
// meaningful for yearly subscriptions and is 0 otherwise.
type Subscription struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Name          string
	Amount        decimal.Decimal
	BillingCycle  BillingCycle
	BillingDay    int
	BillingMonth  int
	Category      string
	PaymentMethod string
	Include       bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SubscriptionCreate is the input for creating a subscription.
type SubscriptionCreate struct {
	UserID        uuid.UUID
	Name          string
	Amount        decimal.Decimal
	BillingCycle  BillingCycle
	BillingDay    int
	BillingMonth  int
	Category      string
	PaymentMethod string
	Include       bool
}

// SubscriptionUpdate carries the fields to change; unset fields are left as is.
type SubscriptionUpdate struct {
	Name          omit.Val[string]
	Amount        omit.Val[decimal.Decimal]
	BillingCycle  omit.Val[BillingCycle]
	BillingDay    omit.Val[int]
	BillingMonth  omit.Val[int]
	Category      omit.Val[string]
	PaymentMethod omit.Val[string]
	Include       omit.Val[bool]
}

// Empty reports whether the update changes nothing.
func (u *SubscriptionUpdate) Empty() bool {
	return u.Name.IsUnset() &&
		u.Amount.IsUnset() &&
		u.BillingCycle.IsUnset() &&
		u.BillingDay.IsUnset() &&
		u.BillingMonth.IsUnset() &&
		u.Category.IsUnset() &&
		u.PaymentMethod.IsUnset() &&
		u.Include.IsUnset()
}

// Apply returns a copy of sub with the update's set fields applied.
func (u *SubscriptionUpdate) Apply(sub Subscription) Subscription {
	sub.Name = u.Name.GetOr(sub.Name)
	sub.Amount = u.Amount.GetOr(sub.Amount)
	sub.BillingCycle = u.BillingCycle.GetOr(sub.BillingCycle)
	sub.BillingDay = u.BillingDay.GetOr(sub.BillingDay)
	sub.BillingMonth = u.BillingMonth.GetOr(sub.BillingMonth)
	sub.Category = u.Category.GetOr(sub.Category)
	sub.PaymentMethod = u.PaymentMethod.GetOr(sub.PaymentMethod)
	sub.Include = u.Include.GetOr(sub.Include)
	return sub
}

// SubscriptionFilter specifies filters for listing subscriptions.
// UserID is always applied; a nil Include returns paused and active rows.
type SubscriptionFilter struct {
	UserID  uuid.UUID
	Include *bool
}

// IReader defines the read operations on the subscriptions table.
//
//go:generate mockery --name IReader --inpackage --filename mock_IReader.go
type IReader interface {
	FindByID(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*Subscription, error)
	List(ctx context.Context, filter *SubscriptionFilter) ([]*Subscription, error)
}

var columns = []any{
	"id",
	"user_id",
	"name",
	"amount",
	"billing_cycle",
	"billing_day",
	"billing_month",
	"category",
	"payment_method",
	"include",
	"created_at",
	"updated_at",
}

type subscriptionRow struct {
	ID            uuid.UUID       `db:"id"`
	UserID        uuid.UUID       `db:"user_id"`
	Name          string          `db:"name"`
	Amount        decimal.Decimal `db:"amount"`
	BillingCycle  string          `db:"billing_cycle"`
	BillingDay    int             `db:"billing_day"`
	BillingMonth  int             `db:"billing_month"`
	Category      string          `db:"category"`
	PaymentMethod string          `db:"payment_method"`
	Include       bool            `db:"include"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

func rowToSubscription(row subscriptionRow) *Subscription {
	return &Subscription{
		ID:            row.ID,
		UserID:        row.UserID,
		Name:          row.Name,
		Amount:        row.Amount,
		BillingCycle:  BillingCycle(row.BillingCycle),
		BillingDay:    row.BillingDay,
		BillingMonth:  row.BillingMonth,
		Category:      row.Category,
		PaymentMethod: row.PaymentMethod,
		Include:       row.Include,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}
