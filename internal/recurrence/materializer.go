package recurrence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/budget-ledger/internal/logging"
	"github.com/carson-networks/budget-ledger/internal/storage/lookup"
	"github.com/carson-networks/budget-ledger/internal/storage/subscription"
	"github.com/carson-networks/budget-ledger/internal/storage/transaction"
)

// TimestampPolicy selects the date stamped on a materialized transaction.
type TimestampPolicy string

const (
	// TimestampNow stamps the moment of materialization.
	TimestampNow TimestampPolicy = "now"
	// TimestampBillingDay stamps the billing day of the due period.
	TimestampBillingDay TimestampPolicy = "billing_day"
)

func ParseTimestampPolicy(s string) (TimestampPolicy, error) {
	switch TimestampPolicy(s) {
	case "", TimestampNow:
		return TimestampNow, nil
	case TimestampBillingDay:
		return TimestampBillingDay, nil
	}
	return "", fmt.Errorf("unknown timestamp policy %q", s)
}

type SkipReason string

const (
	SkipInvalid              SkipReason = "invalid"
	SkipNotDue               SkipReason = "not_due"
	SkipAlreadyMaterialized  SkipReason = "already_materialized"
	SkipUnknownCategory      SkipReason = "unknown_category"
	SkipUnknownPaymentMethod SkipReason = "unknown_payment_method"
)

type Skip struct {
	SubscriptionID uuid.UUID
	Name           string
	Reason         SkipReason
	Detail         string
}

// Result is the outcome of one materialization pass.
type Result struct {
	Created []*transaction.Transaction
	Skipped []Skip
}

// Count is the number of transactions created by the pass.
func (r *Result) Count() int {
	if r == nil {
		return 0
	}
	return len(r.Created)
}

// Ledger is the read and write surface a pass runs against. Implementations
// scope every call to userID.
type Ledger interface {
	ListActiveSubscriptions(ctx context.Context, userID uuid.UUID) ([]*subscription.Subscription, error)
	ListLookups(ctx context.Context, userID uuid.UUID) ([]*lookup.Item, error)
	ListTransactions(ctx context.Context, filter *transaction.TransactionFilter) ([]*transaction.Transaction, error)
	InsertTransaction(ctx context.Context, create *transaction.TransactionCreate) (*transaction.Transaction, error)
}

type Options struct {
	Location        *time.Location
	TimestampPolicy TimestampPolicy
	// LegacyMatch also treats unlinked transactions with the subscription's
	// name, category and payment method in the current month as charged.
	LegacyMatch bool
}

type Materializer struct {
	log  logrus.FieldLogger
	opts Options
}

func NewMaterializer(log logrus.FieldLogger, opts Options) *Materializer {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.TimestampPolicy == "" {
		opts.TimestampPolicy = TimestampNow
	}
	return &Materializer{log: log, opts: opts}
}

type dueItem struct {
	sub     *subscription.Subscription
	period  Period
	dueDate time.Time
}

// Materialize creates one expense transaction for every active subscription
// that is due at now and not yet charged for its period. Invalid
// subscriptions are skipped. Any ledger error aborts the pass.
func (m *Materializer) Materialize(ctx context.Context, ledger Ledger, userID uuid.UUID, now time.Time) (*Result, error) {
	log := m.log.WithField("userID", userID.String())

	subs, err := ledger.ListActiveSubscriptions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list active subscriptions: %w", err)
	}

	result := &Result{}
	var due []dueItem
	for _, sub := range subs {
		if !sub.Include {
			continue
		}
		if err := Validate(sub); err != nil {
			detail := Describe(err)
			log.WithFields(logrus.Fields{
				"subscriptionID": sub.ID.String(),
				"reason":         detail,
			}).Warn("Materializer.InvalidSubscription")
			result.skip(sub, SkipInvalid, detail)
			continue
		}
		period, dueDate, ok := DuePeriod(sub, now, m.opts.Location)
		if !ok {
			result.skip(sub, SkipNotDue, "")
			continue
		}
		due = append(due, dueItem{sub: sub, period: period, dueDate: dueDate})
	}

	if len(due) > 0 {
		if err := m.materializeDue(ctx, ledger, userID, now, due, result, log); err != nil {
			return nil, err
		}
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("materializedCount", result.Count())
	}
	log.WithFields(logrus.Fields{
		"created": result.Count(),
		"skipped": len(result.Skipped),
	}).Info("Materializer.Complete")
	return result, nil
}

func (m *Materializer) materializeDue(
	ctx context.Context,
	ledger Ledger,
	userID uuid.UUID,
	now time.Time,
	due []dueItem,
	result *Result,
	log logrus.FieldLogger,
) error {
	charged, err := m.loadCharged(ctx, ledger, userID, now)
	if err != nil {
		return err
	}

	items, err := ledger.ListLookups(ctx, userID)
	if err != nil {
		return fmt.Errorf("list lookups: %w", err)
	}
	categories := lookup.Names(items, lookup.KindCategory)
	paymentMethods := lookup.Names(items, lookup.KindPaymentMethod)

	for _, item := range due {
		sub := item.sub
		if charged.has(item) {
			result.skip(sub, SkipAlreadyMaterialized, item.period.Key())
			continue
		}
		if !knownLabel(categories, sub.Category) {
			log.WithField("subscriptionID", sub.ID.String()).Warn("Materializer.UnknownCategory")
			result.skip(sub, SkipUnknownCategory, sub.Category)
			continue
		}
		if !knownLabel(paymentMethods, sub.PaymentMethod) {
			log.WithField("subscriptionID", sub.ID.String()).Warn("Materializer.UnknownPaymentMethod")
			result.skip(sub, SkipUnknownPaymentMethod, sub.PaymentMethod)
			continue
		}

		transactionDate := now
		if m.opts.TimestampPolicy == TimestampBillingDay {
			transactionDate = item.dueDate
		}
		subID := sub.ID
		created, err := ledger.InsertTransaction(ctx, &transaction.TransactionCreate{
			UserID:          userID,
			Type:            transaction.TypeExpense,
			Description:     sub.Name,
			Amount:          sub.Amount,
			Category:        sub.Category,
			PaymentMethod:   sub.PaymentMethod,
			TransactionDate: transactionDate,
			SubscriptionID:  &subID,
			BillingPeriod:   item.period.Key(),
		})
		if errors.Is(err, transaction.ErrAlreadyMaterialized) {
			result.skip(sub, SkipAlreadyMaterialized, item.period.Key())
			continue
		}
		if err != nil {
			return fmt.Errorf("materialize subscription %s for %s: %w", sub.ID, item.period, err)
		}
		result.Created = append(result.Created, created)
	}
	return nil
}

// loadCharged fetches, in at most two queries, every existing transaction
// that can mark one of the due subscriptions as already charged. Rows keyed
// for the current month or year are both read, so a subscription whose
// cycle changed after it was charged this month is still seen as charged.
func (m *Materializer) loadCharged(
	ctx context.Context,
	ledger Ledger,
	userID uuid.UUID,
	now time.Time,
) (*chargedIndex, error) {
	index := &chargedIndex{
		keyed:     make(map[string]struct{}),
		thisMonth: make(map[uuid.UUID]struct{}),
		legacy:    make(map[string]struct{}),
	}

	local := now.In(m.opts.Location)
	monthKey := Period{Cycle: subscription.CycleMonthly, Year: local.Year(), Month: local.Month()}.Key()
	yearKey := Period{Cycle: subscription.CycleYearly, Year: local.Year()}.Key()
	from, to := monthBounds(now, m.opts.Location)

	keyed, err := ledger.ListTransactions(ctx, &transaction.TransactionFilter{
		UserID:         userID,
		BillingPeriods: []string{monthKey, yearKey},
	})
	if err != nil {
		return nil, fmt.Errorf("list materialized transactions: %w", err)
	}
	for _, tx := range keyed {
		if tx.SubscriptionID == nil {
			continue
		}
		index.keyed[keyedKey(*tx.SubscriptionID, tx.BillingPeriod)] = struct{}{}
		inMonth := !tx.TransactionDate.Before(from) && tx.TransactionDate.Before(to)
		if tx.BillingPeriod == monthKey || inMonth {
			index.thisMonth[*tx.SubscriptionID] = struct{}{}
		}
	}

	if !m.opts.LegacyMatch {
		return index, nil
	}

	expense := transaction.TypeExpense
	unlinked, err := ledger.ListTransactions(ctx, &transaction.TransactionFilter{
		UserID:   userID,
		From:     &from,
		To:       &to,
		Type:     &expense,
		Unlinked: true,
	})
	if err != nil {
		return nil, fmt.Errorf("list unlinked transactions: %w", err)
	}
	for _, tx := range unlinked {
		if tx.SubscriptionID == nil {
			index.legacy[legacyKey(tx.Description, tx.Category, tx.PaymentMethod)] = struct{}{}
		}
	}
	return index, nil
}

type chargedIndex struct {
	keyed     map[string]struct{}
	thisMonth map[uuid.UUID]struct{}
	legacy    map[string]struct{}
}

func (c *chargedIndex) has(item dueItem) bool {
	if _, ok := c.keyed[keyedKey(item.sub.ID, item.period.Key())]; ok {
		return true
	}
	if _, ok := c.thisMonth[item.sub.ID]; ok {
		return true
	}
	_, ok := c.legacy[legacyKey(item.sub.Name, item.sub.Category, item.sub.PaymentMethod)]
	return ok
}

func keyedKey(subscriptionID uuid.UUID, periodKey string) string {
	return subscriptionID.String() + "|" + periodKey
}

func legacyKey(description, category, paymentMethod string) string {
	return description + "\x00" + category + "\x00" + paymentMethod
}

// knownLabel accepts empty labels and any label when the user keeps no
// lookup items of that kind.
func knownLabel(names map[string]struct{}, label string) bool {
	if label == "" || len(names) == 0 {
		return true
	}
	_, ok := names[label]
	return ok
}

func (r *Result) skip(sub *subscription.Subscription, reason SkipReason, detail string) {
	r.Skipped = append(r.Skipped, Skip{
		SubscriptionID: sub.ID,
		Name:           sub.Name,
		Reason:         reason,
		Detail:         detail,
	})
}
