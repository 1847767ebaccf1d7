package subscription

import (
	"time"

	"github.com/carson-networks/budget-ledger/internal/service"
)

// Subscription is the API response model for a recurring charge.
type Subscription struct {
	ID            string `json:"id" doc:"Subscription UUID"`
	Name          string `json:"name" doc:"Display name, also used as the generated transaction description"`
	Amount        string `json:"amount" doc:"Decimal amount charged each period"`
	BillingCycle  string `json:"billingCycle" enum:"monthly,yearly" doc:"How often the charge recurs"`
	BillingDay    int    `json:"billingDay" doc:"Day of month the charge is due"`
	BillingMonth  int    `json:"billingMonth,omitempty" doc:"Month the charge is due, yearly subscriptions only"`
	Category      string `json:"category,omitempty" doc:"Category label"`
	PaymentMethod string `json:"paymentMethod,omitempty" doc:"Payment method label"`
	Include       bool   `json:"include" doc:"Whether the subscription is active"`
	CreatedAt     string `json:"createdAt" doc:"RFC3339 creation time"`
	UpdatedAt     string `json:"updatedAt" doc:"RFC3339 last update time"`
}

// FromService converts a service subscription into its API model.
func FromService(sub service.Subscription) Subscription {
	return Subscription{
		ID:            sub.ID.String(),
		Name:          sub.Name,
		Amount:        sub.Amount.String(),
		BillingCycle:  string(sub.BillingCycle),
		BillingDay:    sub.BillingDay,
		BillingMonth:  sub.BillingMonth,
		Category:      sub.Category,
		PaymentMethod: sub.PaymentMethod,
		Include:       sub.Include,
		CreatedAt:     sub.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     sub.UpdatedAt.Format(time.RFC3339),
	}
}
