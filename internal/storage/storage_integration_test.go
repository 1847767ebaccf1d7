//go:build integration

package storage_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/carson-networks/budget-ledger/internal/config"
	"github.com/carson-networks/budget-ledger/internal/operator"
	"github.com/carson-networks/budget-ledger/internal/operator/actions"
	"github.com/carson-networks/budget-ledger/internal/recurrence"
	"github.com/carson-networks/budget-ledger/internal/storage"
	"github.com/carson-networks/budget-ledger/internal/storage/lookup"
	"github.com/carson-networks/budget-ledger/internal/storage/subscription"
	"github.com/carson-networks/budget-ledger/internal/storage/transaction"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.Out = io.Discard
	return logger
}

// newTestStorage starts a throwaway Postgres and applies the migrations.
func newTestStorage(t *testing.T) *storage.Storage {
	t.Helper()
	ctx := context.Background()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("ledger"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("testpassword"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	host, err := ctr.Host(ctx)
	require.NoError(t, err)
	port, err := ctr.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	store, err := storage.NewStorage(config.PostgresConfig{
		Address:  host,
		Port:     port.Port(),
		DB:       "ledger",
		Username: "postgres",
		Password: "testpassword",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, storage.Migrate(store.DB, quietLogger()))
	// A second run is a no-op.
	require.NoError(t, storage.Migrate(store.DB, quietLogger()))
	return store
}

func newDelegator(t *testing.T, store *storage.Storage) *operator.OperatorDelegator {
	t.Helper()
	delegator := operator.NewOperatorDelegator(store, quietLogger(), 2, 10)
	delegator.Start()
	t.Cleanup(delegator.Stop)
	return delegator
}

func insertSubscription(t *testing.T, store *storage.Storage, create subscription.SubscriptionCreate) *subscription.Subscription {
	t.Helper()
	ctx := context.Background()
	writer, err := store.Write(ctx)
	require.NoError(t, err)
	sub, err := writer.Subscription.Insert(ctx, &create)
	require.NoError(t, err)
	require.NoError(t, writer.Commit(ctx))
	return sub
}

func TestIntegration_MaterializeIsIdempotent(t *testing.T) {
	store := newTestStorage(t)
	delegator := newDelegator(t, store)
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV4())

	sub := insertSubscription(t, store, subscription.SubscriptionCreate{
		UserID:       userID,
		Name:         "Netflix",
		Amount:       decimal.RequireFromString("15.49"),
		BillingCycle: subscription.CycleMonthly,
		BillingDay:   5,
		Category:     "Entertainment",
		Include:      true,
	})
	insertSubscription(t, store, subscription.SubscriptionCreate{
		UserID:       userID,
		Name:         "Paused gym",
		Amount:       decimal.RequireFromString("30"),
		BillingCycle: subscription.CycleMonthly,
		BillingDay:   1,
		Include:      false,
	})

	materializer := recurrence.NewMaterializer(quietLogger(), recurrence.Options{LegacyMatch: true})
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

	first := &actions.MaterializeSubscriptions{Materializer: materializer, UserID: userID, Now: now}
	require.NoError(t, delegator.Process(ctx, first))
	require.Equal(t, 1, first.Result.Count())
	created := first.Result.Created[0]
	require.NotNil(t, created.SubscriptionID)
	assert.Equal(t, sub.ID, *created.SubscriptionID)
	assert.Equal(t, "2025-06", created.BillingPeriod)
	assert.Equal(t, transaction.TypeExpense, created.Type)
	assert.True(t, created.Amount.Equal(decimal.RequireFromString("15.49")))

	second := &actions.MaterializeSubscriptions{Materializer: materializer, UserID: userID, Now: now.Add(time.Hour)}
	require.NoError(t, delegator.Process(ctx, second))
	assert.Equal(t, 0, second.Result.Count())

	rows, err := store.Reader.Transactions.List(ctx, &transaction.TransactionFilter{UserID: userID})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestIntegration_DuplicatePeriodInsertConflicts(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV4())

	sub := insertSubscription(t, store, subscription.SubscriptionCreate{
		UserID:       userID,
		Name:         "Domain",
		Amount:       decimal.RequireFromString("12"),
		BillingCycle: subscription.CycleYearly,
		BillingDay:   1,
		BillingMonth: 3,
		Include:      true,
	})

	create := &transaction.TransactionCreate{
		UserID:         userID,
		Type:           transaction.TypeExpense,
		Description:    sub.Name,
		Amount:         sub.Amount,
		SubscriptionID: &sub.ID,
		BillingPeriod:  "2025",
	}

	writer, err := store.Write(ctx)
	require.NoError(t, err)
	_, err = writer.Transaction.Insert(ctx, create)
	require.NoError(t, err)
	_, err = writer.Transaction.Insert(ctx, create)
	assert.ErrorIs(t, err, transaction.ErrAlreadyMaterialized)
	require.NoError(t, writer.Commit(ctx))
}

func TestIntegration_SubscriptionUpdateAndDelete(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV4())

	sub := insertSubscription(t, store, subscription.SubscriptionCreate{
		UserID:       userID,
		Name:         "Spotify",
		Amount:       decimal.RequireFromString("9.99"),
		BillingCycle: subscription.CycleMonthly,
		BillingDay:   20,
		Include:      true,
	})

	writer, err := store.Write(ctx)
	require.NoError(t, err)
	updated, err := writer.Subscription.Update(ctx, userID, sub.ID, &subscription.SubscriptionUpdate{
		Amount:  omit.From(decimal.RequireFromString("10.99")),
		Include: omit.From(false),
	})
	require.NoError(t, err)
	assert.True(t, updated.Amount.Equal(decimal.RequireFromString("10.99")))
	assert.False(t, updated.Include)
	assert.Equal(t, "Spotify", updated.Name)

	_, err = writer.Subscription.Update(ctx, uuid.Must(uuid.NewV4()), sub.ID, &subscription.SubscriptionUpdate{
		Name: omit.From("Stolen"),
	})
	assert.ErrorIs(t, err, subscription.ErrNotFound)

	require.NoError(t, writer.Subscription.Delete(ctx, userID, sub.ID))
	assert.ErrorIs(t, writer.Subscription.Delete(ctx, userID, sub.ID), subscription.ErrNotFound)
	require.NoError(t, writer.Commit(ctx))

	_, err = store.Reader.Subscriptions.FindByID(ctx, userID, sub.ID)
	assert.ErrorIs(t, err, subscription.ErrNotFound)
}

func TestIntegration_LookupDuplicate(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV4())

	writer, err := store.Write(ctx)
	require.NoError(t, err)
	create := &lookup.ItemCreate{UserID: userID, Kind: lookup.KindCategory, Name: "Food"}
	_, err = writer.Lookup.Insert(ctx, create)
	require.NoError(t, err)
	_, err = writer.Lookup.Insert(ctx, create)
	assert.ErrorIs(t, err, lookup.ErrDuplicate)
	require.NoError(t, writer.Commit(ctx))

	items, err := store.Reader.Lookups.List(ctx, &lookup.LookupFilter{UserID: userID})
	require.NoError(t, err)
	require.Len(t, items, 1)

	writer, err = store.Write(ctx)
	require.NoError(t, err)
	assert.ErrorIs(t, writer.Lookup.Delete(ctx, uuid.Must(uuid.NewV4()), items[0].ID), lookup.ErrNotFound)
	require.NoError(t, writer.Lookup.Delete(ctx, userID, items[0].ID))
	assert.ErrorIs(t, writer.Lookup.Delete(ctx, userID, items[0].ID), lookup.ErrNotFound)
	require.NoError(t, writer.Commit(ctx))

	items, err = store.Reader.Lookups.List(ctx, &lookup.LookupFilter{UserID: userID})
	require.NoError(t, err)
	assert.Empty(t, items)
}

// failingLookup inserts a row and then fails, so its transaction must roll back.
type failingLookup struct {
	create lookup.ItemCreate
}

func (f *failingLookup) Name() string { return "FailingLookup" }

func (f *failingLookup) Perform(ctx context.Context, writer *storage.Writer) error {
	if _, err := writer.Lookup.Insert(ctx, &f.create); err != nil {
		return err
	}
	return errors.New("boom")
}

func TestIntegration_FailedActionRollsBack(t *testing.T) {
	store := newTestStorage(t)
	delegator := newDelegator(t, store)
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV4())

	err := delegator.Process(ctx, &failingLookup{create: lookup.ItemCreate{
		UserID: userID,
		Kind:   lookup.KindPaymentMethod,
		Name:   "Visa",
	}})
	require.EqualError(t, err, "boom")

	items, err := store.Reader.Lookups.List(ctx, &lookup.LookupFilter{UserID: userID})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestIntegration_CycleChangeNotChargedTwiceInMonth(t *testing.T) {
	store := newTestStorage(t)
	delegator := newDelegator(t, store)
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV4())

	gym := insertSubscription(t, store, subscription.SubscriptionCreate{
		UserID:       userID,
		Name:         "Gym",
		Amount:       decimal.RequireFromString("30"),
		BillingCycle: subscription.CycleMonthly,
		BillingDay:   1,
		Include:      true,
	})

	materializer := recurrence.NewMaterializer(quietLogger(), recurrence.Options{})
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)

	first := &actions.MaterializeSubscriptions{Materializer: materializer, UserID: userID, Now: now}
	require.NoError(t, delegator.Process(ctx, first))
	require.Equal(t, 1, first.Result.Count())

	require.NoError(t, delegator.Process(ctx, &actions.UpdateSubscription{
		UserID:         userID,
		SubscriptionID: gym.ID,
		Update: subscription.SubscriptionUpdate{
			BillingCycle: omit.From(subscription.CycleYearly),
			BillingMonth: omit.From(6),
		},
	}))

	second := &actions.MaterializeSubscriptions{Materializer: materializer, UserID: userID, Now: now.Add(time.Hour)}
	require.NoError(t, delegator.Process(ctx, second))
	assert.Equal(t, 0, second.Result.Count())

	rows, err := store.Reader.Transactions.List(ctx, &transaction.TransactionFilter{UserID: userID})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
