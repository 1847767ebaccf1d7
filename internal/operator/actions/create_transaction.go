package actions

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-ledger/internal/storage"
	"github.com/carson-networks/budget-ledger/internal/storage/transaction"
)

type CreateTransaction struct {
	UserID          uuid.UUID
	Type            transaction.Type
	Description     string
	Amount          decimal.Decimal
	Category        string
	PaymentMethod   string
	ReceiptURL      *string
	TransactionDate time.Time

	Created *transaction.Transaction
	IAction
}

func (t *CreateTransaction) Name() string {
	return "CreateTransaction"
}

func (t *CreateTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	if !t.Type.Valid() {
		return &InvalidInputError{Err: fmt.Errorf("unknown transaction type %q", t.Type)}
	}
	if !t.Amount.IsPositive() {
		return &InvalidInputError{Err: fmt.Errorf("amount must be greater than zero")}
	}

	created, err := writer.Transaction.Insert(ctx, &transaction.TransactionCreate{
		UserID:          t.UserID,
		Type:            t.Type,
		Description:     t.Description,
		Amount:          t.Amount,
		Category:        t.Category,
		PaymentMethod:   t.PaymentMethod,
		ReceiptURL:      t.ReceiptURL,
		TransactionDate: t.TransactionDate,
	})
	if err != nil {
		return err
	}

	t.Created = created
	return nil
}
