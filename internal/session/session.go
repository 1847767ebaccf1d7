package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/budget-ledger/internal/recurrence"
)

// ErrSessionOwner is returned when a session id is presented by a user other
// than the one that started it.
var ErrSessionOwner = errors.New("session belongs to another user")

const DefaultTTL = 12 * time.Hour

// Runner performs one materialization pass for userID at now.
type Runner func(ctx context.Context, userID uuid.UUID, now time.Time) (*recurrence.Result, error)

// Session is one logical login. Its materialization pass runs at most once,
// no matter how many times the session start is signalled.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	StartedAt time.Time

	once   sync.Once
	result *recurrence.Result
	err    error
}

type Manager struct {
	log logrus.FieldLogger
	ttl time.Duration
	run Runner
	now func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

// NewManager keeps sessions for ttl after they start. A non-positive ttl
// falls back to DefaultTTL so the session map stays bounded.
func NewManager(log logrus.FieldLogger, ttl time.Duration, run Runner) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		log:      log,
		ttl:      ttl,
		run:      run,
		now:      time.Now,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Start returns the session's materialization outcome, running the pass if
// this is the first start for sessionID. Concurrent callers wait for the
// first pass and share its result. A failed pass is not retried within the
// same session.
func (m *Manager) Start(ctx context.Context, sessionID, userID uuid.UUID) (*Session, *recurrence.Result, error) {
	sess, err := m.lookup(sessionID, userID)
	if err != nil {
		return nil, nil, err
	}

	sess.once.Do(func() {
		log := m.log.WithFields(logrus.Fields{
			"sessionID": sessionID.String(),
			"userID":    userID.String(),
		})
		// The pass outlives the request that triggered it.
		sess.result, sess.err = m.run(context.WithoutCancel(ctx), userID, sess.StartedAt)
		if sess.err != nil {
			log.WithError(sess.err).Error("Session.Materialize.Error")
			return
		}
		log.WithField("created", sess.result.Count()).Info("Session.Materialize.Complete")
	})
	return sess, sess.result, sess.err
}

// End forgets a session. A later Start with the same id runs a new pass.
func (m *Manager) End(sessionID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) lookup(sessionID, userID uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.evictLocked(now)

	if sess, ok := m.sessions[sessionID]; ok {
		if sess.UserID != userID {
			return nil, ErrSessionOwner
		}
		return sess, nil
	}

	sess := &Session{ID: sessionID, UserID: userID, StartedAt: now}
	m.sessions[sessionID] = sess
	return sess, nil
}

func (m *Manager) evictLocked(now time.Time) {
	for id, sess := range m.sessions {
		if now.Sub(sess.StartedAt) > m.ttl {
			delete(m.sessions, id)
		}
	}
}
