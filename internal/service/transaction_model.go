package service

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-ledger/internal/storage/transaction"
)

// TransactionType is the direction of a money movement in the service layer.
type TransactionType string

const (
	TransactionTypeExpense TransactionType = "expense"
	TransactionTypeIncome  TransactionType = "income"
)

// Transaction represents a transaction in the service layer.
type Transaction struct {
	ID              uuid.UUID
	Type            TransactionType
	Description     string
	Amount          decimal.Decimal
	Category        string
	PaymentMethod   string
	ReceiptURL      *string
	TransactionDate time.Time
	SubscriptionID  *uuid.UUID
	BillingPeriod   string
	CreatedAt       time.Time
}

// TransactionQuery narrows a transaction listing. Nil fields are not applied.
type TransactionQuery struct {
	From          *time.Time
	To            *time.Time
	Type          *TransactionType
	Category      *string
	PaymentMethod *string
}

// TransactionCursor identifies a position in a paginated result set
// and carries the limit and maxCreationTime so subsequent pages are consistent.
type TransactionCursor struct {
	Position        int
	Limit           int
	MaxCreationTime time.Time
}

func transactionFromStorage(row *transaction.Transaction) Transaction {
	return Transaction{
		ID:              row.ID,
		Type:            TransactionType(row.Type),
		Description:     row.Description,
		Amount:          row.Amount,
		Category:        row.Category,
		PaymentMethod:   row.PaymentMethod,
		ReceiptURL:      row.ReceiptURL,
		TransactionDate: row.TransactionDate,
		SubscriptionID:  row.SubscriptionID,
		BillingPeriod:   row.BillingPeriod,
		CreatedAt:       row.CreatedAt,
	}
}
