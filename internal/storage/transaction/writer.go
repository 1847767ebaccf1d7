package transaction

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/scan"
)

type Writer struct {
	tx bob.Tx
	Reader
}

func NewWriter(tx bob.Tx) *Writer {
	return &Writer{
		tx: tx,
		Reader: Reader{
			exec: tx,
		},
	}
}

// Insert creates a transaction. Rows carrying a subscription id are unique
// per (subscription_id, billing_period); a duplicate is dropped by the
// database and reported as ErrAlreadyMaterialized.
func (w *Writer) Insert(ctx context.Context, create *TransactionCreate) (*Transaction, error) {
	transactionDate := create.TransactionDate
	if transactionDate.IsZero() {
		transactionDate = time.Now()
	}

	var receiptURL sql.NullString
	if create.ReceiptURL != nil {
		receiptURL = sql.NullString{String: *create.ReceiptURL, Valid: true}
	}
	var subscriptionID uuid.NullUUID
	var billingPeriod sql.NullString
	if create.SubscriptionID != nil {
		subscriptionID = uuid.NullUUID{UUID: *create.SubscriptionID, Valid: true}
		billingPeriod = sql.NullString{String: create.BillingPeriod, Valid: true}
	}

	query := psql.Insert(
		im.Into(tableName,
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
		),
		im.Values(psql.Arg(
			create.UserID,
			string(create.Type),
			create.Description,
			create.Amount,
			create.Category,
			create.PaymentMethod,
			receiptURL,
			transactionDate,
			subscriptionID,
			billingPeriod,
		)),
		im.OnConflict("subscription_id", "billing_period").DoNothing(),
		im.Returning(columns...),
	)

	row, err := bob.One(ctx, w.tx, query, scan.StructMapper[transactionRow]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAlreadyMaterialized
	}
	if err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}
	return rowToTransaction(row), nil
}
