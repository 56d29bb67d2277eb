package memory

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vigilcam/portal/internal/core/domain"
)

// SessionStore keeps sessions in a map. Expired entries are removed by the
// cleanup worker started with StartCleanup.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
	log      zerolog.Logger
	now      func() time.Time
}

func NewSessionStore(log zerolog.Logger) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]domain.Session),
		log:      log,
		now:      time.Now,
	}
}

func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.ID]; exists {
		return domain.ErrSessionExists
	}
	s.sessions[session.ID] = *session
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// CleanupExpired removes every session whose expiry has passed and returns
// how many were removed.
func (s *SessionStore) CleanupExpired(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// StartCleanup runs CleanupExpired every interval until ctx is cancelled.
func (s *SessionStore) StartCleanup(ctx context.Context, interval time.Duration) {
	s.log.Debug().Dur("interval", interval).Msg("starting session cleanup worker")
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				s.log.Debug().Msg("stopping session cleanup worker")
				return
			case <-ticker.C:
				n, err := s.CleanupExpired(ctx)
				if err != nil {
					if ctx.Err() == nil {
						s.log.Error().Err(err).Msg("failed to cleanup sessions")
					}
					continue
				}
				if n > 0 {
					s.log.Debug().Int("removed", n).Msg("expired sessions removed")
				}
			}
		}
	}()
}
