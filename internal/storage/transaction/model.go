package transaction

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

const tableName = "transactions"

// ErrAlreadyMaterialized is returned by Insert when a row for the same
// (subscription, billing period) already exists.
var ErrAlreadyMaterialized = errors.New("transaction already materialized for subscription period")

// Type is the direction of a money movement.
type Type string

const (
	TypeExpense Type = "expense"
	TypeIncome  Type = "income"
)

// Valid reports whether t is a known transaction type.
func (t Type) Valid() bool {
	return t == TypeExpense || t == TypeIncome
}

// Transaction represents a transaction record.
type Transaction struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Type            Type
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

// Materialized reports whether the row was generated from a subscription.
func (t *Transaction) Materialized() bool {
	return t.SubscriptionID != nil
}

// TransactionCreate is the input for creating a new transaction.
type TransactionCreate struct {
	UserID          uuid.UUID
	Type            Type
	Description     string
	Amount          decimal.Decimal
	Category        string
	PaymentMethod   string
	ReceiptURL      *string
	TransactionDate time.Time // defaults to now if zero
	SubscriptionID  *uuid.UUID
	BillingPeriod   string
}

// TransactionFilter specifies filters for listing transactions.
// UserID is always applied.
type TransactionFilter struct {
	UserID          uuid.UUID
	From            *time.Time // inclusive
	To              *time.Time // exclusive
	Type            *Type
	Category        *string
	PaymentMethod   *string
	Description     *string
	SubscriptionID  *uuid.UUID
	BillingPeriods  []string
	Unlinked        bool // only rows not generated from a subscription
	Limit           int
	Offset          int
	MaxCreationTime *time.Time
}

// TransactionCursor identifies a position in a paginated result set
// and carries the limit and maxCreationTime so subsequent pages are consistent.
type TransactionCursor struct {
	Position        int
	Limit           int
	MaxCreationTime time.Time
}

// IReader defines the read operations on the transactions table.
//
//go:generate mockery --name IReader --inpackage --filename mock_IReader.go
type IReader interface {
	List(ctx context.Context, filter *TransactionFilter) ([]*Transaction, error)
}

var columns = []any{
	"id",
	"user_id",
	"type",
	"description",
	"amount",
	"category",
	"payment_method",
	"receipt_url",
	"transaction_date",
	"subscription_id",
	"billing_period",
	"created_at",
}

type transactionRow struct {
	ID              uuid.UUID       `db:"id"`
	UserID          uuid.UUID       `db:"user_id"`
	Type            string          `db:"type"`
	Description     string          `db:"description"`
	Amount          decimal.Decimal `db:"amount"`
	Category        string          `db:"category"`
	PaymentMethod   string          `db:"payment_method"`
	ReceiptURL      sql.NullString  `db:"receipt_url"`
	TransactionDate time.Time       `db:"transaction_date"`
	SubscriptionID  uuid.NullUUID   `db:"subscription_id"`
	BillingPeriod   sql.NullString  `db:"billing_period"`
	CreatedAt       time.Time       `db:"created_at"`
}

func rowToTransaction(row transactionRow) *Transaction {
	tx := &Transaction{
		ID:              row.ID,
		UserID:          row.UserID,
		Type:            Type(row.Type),
		Description:     row.Description,
		Amount:          row.Amount,
		Category:        row.Category,
		PaymentMethod:   row.PaymentMethod,
		TransactionDate: row.TransactionDate,
		BillingPeriod:   row.BillingPeriod.String,
		CreatedAt:       row.CreatedAt,
	}
	if row.ReceiptURL.Valid {
		url := row.ReceiptURL.String
		tx.ReceiptURL = &url
	}
	if row.SubscriptionID.Valid {
		id := row.SubscriptionID.UUID
		tx.SubscriptionID = &id
	}
	return tx
}
