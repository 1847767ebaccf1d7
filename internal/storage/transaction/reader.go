package transaction

import (
	"context"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"
)

var _ IReader = (*Reader)(nil)

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

// List returns the user's transactions matching the filter, newest first.
// A positive Limit fetches one extra row so callers can detect a next page.
func (r *Reader) List(ctx context.Context, filter *TransactionFilter) ([]*Transaction, error) {
	rows, err := bob.All(ctx, r.exec, listQuery(filter), scan.StructMapper[transactionRow]())
	if err != nil {
		return nil, err
	}

	result := make([]*Transaction, len(rows))
	for i, row := range rows {
		result[i] = rowToTransaction(row)
	}
	return result, nil
}

func listQuery(filter *TransactionFilter) bob.BaseQuery[*dialect.SelectQuery] {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From(tableName),
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(filter.UserID))),
	}

	if filter.From != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("transaction_date").GTE(psql.Arg(*filter.From))))
	}
	if filter.To != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("transaction_date").LT(psql.Arg(*filter.To))))
	}
	if filter.Type != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("type").EQ(psql.Arg(string(*filter.Type)))))
	}
	if filter.Category != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("category").EQ(psql.Arg(*filter.Category))))
	}
	if filter.PaymentMethod != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("payment_method").EQ(psql.Arg(*filter.PaymentMethod))))
	}
	if filter.Description != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("description").EQ(psql.Arg(*filter.Description))))
	}
	if filter.SubscriptionID != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("subscription_id").EQ(psql.Arg(*filter.SubscriptionID))))
	}
	if len(filter.BillingPeriods) > 0 {
		periods := make([]any, len(filter.BillingPeriods))
		for i, period := range filter.BillingPeriods {
			periods[i] = period
		}
		queryMods = append(queryMods, sm.Where(psql.Quote("billing_period").In(psql.Arg(periods...))))
	}
	if filter.Unlinked {
		queryMods = append(queryMods, sm.Where(psql.Quote("subscription_id").IsNull()))
	}
	if filter.MaxCreationTime != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("created_at").LTE(psql.Arg(*filter.MaxCreationTime))))
	}
	if filter.Limit > 0 {
		queryMods = append(queryMods, sm.Limit(filter.Limit+1))
	}
	if filter.Offset > 0 {
		queryMods = append(queryMods, sm.Offset(filter.Offset))
	}

	queryMods = append(queryMods,
		sm.OrderBy(psql.Quote("transaction_date")).Desc(),
		sm.OrderBy(psql.Quote("created_at")).Desc(),
		sm.OrderBy(psql.Quote("id")).Desc(),
	)
	return psql.Select(queryMods...)
}
