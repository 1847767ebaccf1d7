package subscription

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/um"
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

func (w *Writer) Insert(ctx context.Context, create *SubscriptionCreate) (*Subscription, error) {
	query := psql.Insert(
		im.Into(tableName,
			"user_id",
			"name",
			"amount",
			"billing_cycle",
			"billing_day",
			"billing_month",
			"category",
			"payment_method",
			"include",
		),
		im.Values(psql.Arg(
			create.UserID,
			create.Name,
			create.Amount,
			string(create.BillingCycle),
			create.BillingDay,
			create.BillingMonth,
			create.Category,
			create.PaymentMethod,
			create.Include,
		)),
		im.Returning(columns...),
	)

	row, err := bob.One(ctx, w.tx, query, scan.StructMapper[subscriptionRow]())
	if err != nil {
		return nil, fmt.Errorf("insert subscription: %w", err)
	}
	return rowToSubscription(row), nil
}

// Update writes the set fields of update and returns the stored row.
func (w *Writer) Update(ctx context.Context, userID uuid.UUID, id uuid.UUID, update *SubscriptionUpdate) (*Subscription, error) {
	queryMods := []bob.Mod[*dialect.UpdateQuery]{
		um.Table(tableName),
		um.SetCol("updated_at").To(psql.Raw("now()")),
	}
	if v, ok := update.Name.Get(); ok {
		queryMods = append(queryMods, um.SetCol("name").ToArg(v))
	}
	if v, ok := update.Amount.Get(); ok {
		queryMods = append(queryMods, um.SetCol("amount").ToArg(v))
	}
	if v, ok := update.BillingCycle.Get(); ok {
		queryMods = append(queryMods, um.SetCol("billing_cycle").ToArg(string(v)))
	}
	if v, ok := update.BillingDay.Get(); ok {
		queryMods = append(queryMods, um.SetCol("billing_day").ToArg(v))
	}
	if v, ok := update.BillingMonth.Get(); ok {
		queryMods = append(queryMods, um.SetCol("billing_month").ToArg(v))
	}
	if v, ok := update.Category.Get(); ok {
		queryMods = append(queryMods, um.SetCol("category").ToArg(v))
	}
	if v, ok := update.PaymentMethod.Get(); ok {
		queryMods = append(queryMods, um.SetCol("payment_method").ToArg(v))
	}
	if v, ok := update.Include.Get(); ok {
		queryMods = append(queryMods, um.SetCol("include").ToArg(v))
	}
	queryMods = append(queryMods,
		um.Where(psql.Quote("user_id").EQ(psql.Arg(userID))),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
		um.Returning(columns...),
	)

	row, err := bob.One(ctx, w.tx, psql.Update(queryMods...), scan.StructMapper[subscriptionRow]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update subscription: %w", err)
	}
	return rowToSubscription(row), nil
}

// Delete removes a subscription. Transactions it already produced are kept
// and lose their link.
func (w *Writer) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	query := psql.Delete(
		dm.From(tableName),
		dm.Where(psql.Quote("user_id").EQ(psql.Arg(userID))),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	res, err := bob.Exec(ctx, w.tx, query)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete subscription rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
