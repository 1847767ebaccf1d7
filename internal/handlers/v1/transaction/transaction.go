package transaction

import (
	"time"

	"github.com/carson-networks/budget-ledger/internal/service"
)

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID              string  `json:"id" doc:"Transaction UUID"`
	Type            string  `json:"type" enum:"expense,income" doc:"Direction of the money movement"`
	Description     string  `json:"description" doc:"Description of the transaction"`
	Amount          string  `json:"amount" doc:"Decimal amount"`
	Category        string  `json:"category,omitempty" doc:"Category label"`
	PaymentMethod   string  `json:"paymentMethod,omitempty" doc:"Payment method label"`
	ReceiptURL      *string `json:"receiptUrl,omitempty" doc:"Link to a stored receipt"`
	TransactionDate string  `json:"transactionDate" doc:"RFC3339 transaction date"`
	SubscriptionID  *string `json:"subscriptionID,omitempty" doc:"Subscription that generated this transaction"`
	BillingPeriod   string  `json:"billingPeriod,omitempty" doc:"Billing period of a generated transaction"`
	CreatedAt       string  `json:"createdAt" doc:"RFC3339 creation time"`
}

// FromService converts a service transaction into its API model.
func FromService(tx service.Transaction) Transaction {
	resp := Transaction{
		ID:              tx.ID.String(),
		Type:            string(tx.Type),
		Description:     tx.Description,
		Amount:          tx.Amount.String(),
		Category:        tx.Category,
		PaymentMethod:   tx.PaymentMethod,
		ReceiptURL:      tx.ReceiptURL,
		TransactionDate: tx.TransactionDate.Format(time.RFC3339),
		BillingPeriod:   tx.BillingPeriod,
		CreatedAt:       tx.CreatedAt.Format(time.RFC3339),
	}
	if tx.SubscriptionID != nil {
		id := tx.SubscriptionID.String()
		resp.SubscriptionID = &id
	}
	return resp
}
