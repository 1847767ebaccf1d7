package service

import (
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-ledger/internal/storage/subscription"
)

type BillingCycle string

const (
	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleYearly  BillingCycle = "yearly"
)

// Subscription represents a recurring charge in the service layer.
type Subscription struct {
	ID            uuid.UUID
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

// SubscriptionPatch lists the fields a partial update changes.
type SubscriptionPatch struct {
	Name          omit.Val[string]
	Amount        omit.Val[decimal.Decimal]
	BillingCycle  omit.Val[BillingCycle]
	BillingDay    omit.Val[int]
	BillingMonth  omit.Val[int]
	Category      omit.Val[string]
	PaymentMethod omit.Val[string]
	Include       omit.Val[bool]
}

func (p SubscriptionPatch) toStorage() subscription.SubscriptionUpdate {
	update := subscription.SubscriptionUpdate{
		Name:          p.Name,
		Amount:        p.Amount,
		BillingDay:    p.BillingDay,
		BillingMonth:  p.BillingMonth,
		Category:      p.Category,
		PaymentMethod: p.PaymentMethod,
		Include:       p.Include,
	}
	if cycle, ok := p.BillingCycle.Get(); ok {
		update.BillingCycle = omit.From(subscription.BillingCycle(cycle))
	}
	return update
}

func subscriptionFromStorage(row *subscription.Subscription) Subscription {
	return Subscription{
		ID:            row.ID,
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
