package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/operator/actions"
	"github.com/carson-networks/budget-ledger/internal/recurrence"
	"github.com/carson-networks/budget-ledger/internal/session"
)

// SkippedSubscription explains why a subscription produced no transaction.
type SkippedSubscription struct {
	SubscriptionID uuid.UUID
	Name           string
	Reason         string
}

// SessionStart reports the outcome of a session's materialization pass.
type SessionStart struct {
	SessionID uuid.UUID
	StartedAt time.Time
	Processed int
	Created   []Transaction
	Skipped   []SkippedSubscription
}

type SessionService struct {
	sessions *session.Manager
}

func NewSessionService(sessions *session.Manager) *SessionService {
	return &SessionService{sessions: sessions}
}

// StartSession materializes due subscriptions the first time a session is
// started and returns the same outcome on every later call.
func (s *SessionService) StartSession(ctx context.Context, sessionID, userID uuid.UUID) (*SessionStart, error) {
	sess, result, err := s.sessions.Start(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	start := &SessionStart{
		SessionID: sess.ID,
		StartedAt: sess.StartedAt,
		Processed: result.Count(),
	}
	for _, created := range result.Created {
		start.Created = append(start.Created, transactionFromStorage(created))
	}
	for _, skip := range result.Skipped {
		if skip.Reason == recurrence.SkipNotDue {
			continue
		}
		start.Skipped = append(start.Skipped, SkippedSubscription{
			SubscriptionID: skip.SubscriptionID,
			Name:           skip.Name,
			Reason:         string(skip.Reason),
		})
	}
	return start, nil
}

// NewMaterializeRunner returns a session.Runner that dispatches each pass as
// one transactional action.
func NewMaterializeRunner(dispatcher Dispatcher, materializer *recurrence.Materializer) session.Runner {
	return func(ctx context.Context, userID uuid.UUID, now time.Time) (*recurrence.Result, error) {
		action := &actions.MaterializeSubscriptions{
			Materializer: materializer,
			UserID:       userID,
			Now:          now,
		}
		if err := dispatcher.Process(ctx, action); err != nil {
			return nil, err
		}
		return action.Result, nil
	}
}

// EndSession forgets the session so the next start runs a new pass.
func (s *SessionService) EndSession(sessionID uuid.UUID) {
	s.sessions.End(sessionID)
}
