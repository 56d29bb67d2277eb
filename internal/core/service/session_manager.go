package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vigilcam/portal/internal/core/domain"
	"github.com/vigilcam/portal/internal/core/ports"
	"github.com/vigilcam/portal/internal/pkg/metrics"
)

const (
	DefaultSessionTTL = 24 * time.Hour
	sessionIDBytes    = 32
	maxIDAttempts     = 3
)

// SessionManager owns the session lifecycle on top of a SessionStore:
// Absent -> Active -> (Expired | Destroyed).
type SessionManager struct {
	store   ports.SessionStore
	ttl     time.Duration
	now     func() time.Time
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// SessionOption customises a SessionManager.
type SessionOption func(*SessionManager)

// WithClock replaces time.Now, mainly so tests can move past the TTL.
func WithClock(now func() time.Time) SessionOption {
	return func(m *SessionManager) { m.now = now }
}

func WithSessionMetrics(mt *metrics.Metrics) SessionOption {
	return func(m *SessionManager) { m.metrics = mt }
}

// NewSessionManager returns a SessionManager. A non-positive ttl falls back to
// DefaultSessionTTL.
func NewSessionManager(store ports.SessionStore, ttl time.Duration, log zerolog.Logger, opts ...SessionOption) *SessionManager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	m := &SessionManager{store: store, ttl: ttl, now: time.Now, log: log}
	for _, opt := range opts {
		opt(m)
	}
	if m.metrics == nil {
		m.metrics = metrics.NewNop()
	}
	return m
}

// TTL is the fixed lifetime given to every new session.
func (m *SessionManager) TTL() time.Duration { return m.ttl }

func (m *SessionManager) Create(ctx context.Context, userID, email, fullName string) (*domain.Session, error) {
	now := m.now().UTC()

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, err := newSessionID()
		if err != nil {
			return nil, fmt.Errorf("generate session id: %w", err)
		}

		sess := &domain.Session{
			ID:        id,
			UserID:    userID,
			Email:     email,
			FullName:  fullName,
			CreatedAt: now,
			ExpiresAt: now.Add(m.ttl),
		}

		err = m.store.Save(ctx, sess)
		if errors.Is(err, domain.ErrSessionExists) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create session: %w", err)
		}

		m.metrics.SessionsTotal.WithLabelValues("created").Inc()
		m.log.Debug().Str("user_id", userID).Time("expires_at", sess.ExpiresAt).Msg("session created")
		return sess, nil
	}
	return nil, fmt.Errorf("create session: %w", domain.ErrSessionExists)
}

// Validate returns the session if it exists and has not expired. It never
// extends the expiry.
func (m *SessionManager) Validate(ctx context.Context, id string) (*domain.Session, error) {
	if id == "" {
		return nil, domain.ErrInvalidSession
	}

	sess, err := m.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			m.metrics.SessionsTotal.WithLabelValues("rejected").Inc()
			return nil, domain.ErrInvalidSession
		}
		return nil, &domain.SessionError{Op: "validate", Err: err}
	}

	if sess.Expired(m.now()) {
		m.metrics.SessionsTotal.WithLabelValues("rejected").Inc()
		return nil, domain.ErrInvalidSession
	}
	return sess, nil
}

// Destroy removes the session. Unknown IDs are not an error.
func (m *SessionManager) Destroy(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return &domain.SessionError{Op: "destroy", Err: err}
	}
	m.metrics.SessionsTotal.WithLabelValues("destroyed").Inc()
	return nil
}

func newSessionID() (string, error) {
	b := make([]byte, sessionIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
