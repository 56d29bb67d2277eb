package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vigilcam/portal/internal/core/domain"
)

const keyPrefix = "session:"

// SessionStore keeps sessions in Redis. Each key carries a native TTL equal to
// the session's remaining lifetime.
// Key format: session:<id>
type SessionStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client, now: time.Now}
}

func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("save session: %w", domain.ErrInvalidSession)
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return &domain.StorageError{Op: "encode session", Err: err}
	}

	ok, err := s.client.SetNX(ctx, s.key(session.ID), payload, ttl).Result()
	if err != nil {
		return &domain.StorageError{Op: "save session", Err: err}
	}
	if !ok {
		return domain.ErrSessionExists
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, &domain.StorageError{Op: "get session", Err: err}
	}

	return decodeSession(raw)
}

func decodeSession(raw []byte) (*domain.Session, error) {
	var sess domain.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, &domain.StorageError{Op: "decode session", Err: err}
	}
	return &sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return &domain.StorageError{Op: "delete session", Err: err}
	}
	return nil
}

func (s *SessionStore) key(id string) string {
	return keyPrefix + id
}
