package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/budget-ledger/internal/operator/actions"
	"github.com/carson-networks/budget-ledger/internal/recurrence"
	"github.com/carson-networks/budget-ledger/internal/session"
	"github.com/carson-networks/budget-ledger/internal/storage/transaction"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.Out = io.Discard
	return logger
}

func TestStartSession_DispatchesOnePass(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	subID := uuid.Must(uuid.NewV4())
	dispatcher.perform = func(action actions.IAction) error {
		materialize := action.(*actions.MaterializeSubscriptions)
		assert.Equal(t, testUserID, materialize.UserID)
		materialize.Result = &recurrence.Result{
			Created: []*transaction.Transaction{{
				ID:          uuid.Must(uuid.NewV4()),
				Type:        transaction.TypeExpense,
				Description: "Netflix",
				Amount:      decimal.RequireFromString("15.49"),
			}},
			Skipped: []recurrence.Skip{
				{SubscriptionID: subID, Name: "Broken", Reason: recurrence.SkipInvalid},
				{Name: "Later", Reason: recurrence.SkipNotDue},
			},
		}
		return nil
	}

	materializer := recurrence.NewMaterializer(quietLogger(), recurrence.Options{})
	manager := session.NewManager(quietLogger(), time.Hour, NewMaterializeRunner(dispatcher, materializer))
	svc := NewSessionService(manager)
	sessionID := uuid.Must(uuid.NewV4())

	start, err := svc.StartSession(context.Background(), sessionID, testUserID)
	require.NoError(t, err)
	assert.Equal(t, sessionID, start.SessionID)
	assert.Equal(t, 1, start.Processed)
	require.Len(t, start.Skipped, 1)
	assert.Equal(t, "invalid", start.Skipped[0].Reason)
	assert.Equal(t, subID, start.Skipped[0].SubscriptionID)

	again, err := svc.StartSession(context.Background(), sessionID, testUserID)
	require.NoError(t, err)
	assert.Equal(t, 1, again.Processed)
	assert.Len(t, dispatcher.dispatched, 1)
}

func TestStartSession_FailureSurfaced(t *testing.T) {
	boom := errors.New("store unreachable")
	dispatcher := &fakeDispatcher{perform: func(action actions.IAction) error { return boom }}

	materializer := recurrence.NewMaterializer(quietLogger(), recurrence.Options{})
	manager := session.NewManager(quietLogger(), time.Hour, NewMaterializeRunner(dispatcher, materializer))

	_, err := NewSessionService(manager).StartSession(context.Background(), uuid.Must(uuid.NewV4()), testUserID)
	assert.ErrorIs(t, err, boom)
}

func TestEndSession_NextStartRunsAgain(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	passes := 0
	dispatcher.perform = func(action actions.IAction) error {
		passes++
		action.(*actions.MaterializeSubscriptions).Result = &recurrence.Result{}
		return nil
	}

	materializer := recurrence.NewMaterializer(quietLogger(), recurrence.Options{})
	manager := session.NewManager(quietLogger(), time.Hour, NewMaterializeRunner(dispatcher, materializer))
	svc := NewSessionService(manager)
	sessionID := uuid.Must(uuid.NewV4())

	_, err := svc.StartSession(context.Background(), sessionID, testUserID)
	require.NoError(t, err)
	svc.EndSession(sessionID)
	_, err = svc.StartSession(context.Background(), sessionID, testUserID)
	require.NoError(t, err)

	assert.Equal(t, 2, passes)
}
