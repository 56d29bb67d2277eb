package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vigilcam/portal/internal/core/domain"
	"github.com/vigilcam/portal/internal/core/ports"
	"github.com/vigilcam/portal/internal/pkg/metrics"
)

const (
	maxPasswordBytes = 72
	decoyPassword    = "decoy-password-for-unknown-accounts"

	// fallbackDecoy is a well-formed cost 10 bcrypt digest.
	fallbackDecoy = "$2a$10$k87L/MF28Q673VKh8/cPi.SUl7MU/rWuSiIDDFayrKk/1tBsSQu4u"
)

// AuthService implements registration, login and logout.
type AuthService struct {
	users    ports.UserRepository
	hasher   ports.PasswordHasher
	sessions ports.SessionManager
	metrics  *metrics.Metrics
	log      zerolog.Logger

	decoyMu sync.Mutex
	decoy   string
}

func NewAuthService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	sessions ports.SessionManager,
	m *metrics.Metrics,
	log zerolog.Logger,
) *AuthService {
	if m == nil {
		m = metrics.NewNop()
	}
	return &AuthService{
		users:    users,
		hasher:   hasher,
		sessions: sessions,
		metrics:  m,
		log:      log,
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Session, error) {
	fullName := strings.TrimSpace(in.FullName)
	email := domain.NormalizeEmail(in.Email)

	if fullName == "" || email == "" || in.Password == "" {
		return nil, s.fail("register", "invalid_input", domain.ErrInvalidInput)
	}
	if in.Password != in.ConfirmPassword {
		return nil, s.fail("register", "password_mismatch", domain.ErrPasswordMismatch)
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, s.fail("register", "password_too_long", domain.ErrPasswordTooLong)
	}

	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, s.fail("register", "hash_failed", fmt.Errorf("register: %w", err))
	}

	user, err := s.users.Create(ctx, &domain.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, s.fail("register", "email_taken", domain.ErrEmailTaken)
		}
		return nil, s.fail("register", "storage", fmt.Errorf("register: %w", err))
	}

	sess, err := s.sessions.Create(ctx, user.ID, user.Email, user.FullName)
	if err != nil {
		return nil, s.fail("register", "session", fmt.Errorf("register: %w", err))
	}

	s.metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()
	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return sess, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, s.fail("login", "invalid_credentials", domain.ErrInvalidCredentials)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, s.fail("login", "storage", fmt.Errorf("login: %w", err))
		}
		// Spend the same bcrypt time as a real check so timing does not
		// reveal whether the account exists.
		_, _ = s.hasher.Verify(ctx, password, s.decoyHash())
		return nil, s.fail("login", "invalid_credentials", domain.ErrInvalidCredentials)
	}

	ok, err := s.hasher.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		return nil, s.fail("login", "verify_failed", fmt.Errorf("login: %w", err))
	}
	if !ok {
		return nil, s.fail("login", "invalid_credentials", domain.ErrInvalidCredentials)
	}

	sess, err := s.sessions.Create(ctx, user.ID, user.Email, user.FullName)
	if err != nil {
		return nil, s.fail("login", "session", fmt.Errorf("login: %w", err))
	}

	s.metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return sess, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Destroy(ctx, sessionID); err != nil {
		return s.fail("logout", "session", err)
	}
	s.metrics.AuthAttemptsTotal.WithLabelValues("logout", "success").Inc()
	return nil
}

// fail records the outcome and returns err unchanged.
func (s *AuthService) fail(op, reason string, err error) error {
	s.metrics.AuthAttemptsTotal.WithLabelValues(op, reason).Inc()
	ev := s.log.Warn()
	switch reason {
	case "storage", "session", "hash_failed", "verify_failed":
		ev = s.log.Error()
	}
	ev.Err(err).Str("operation", op).Str("reason", reason).Msg("auth operation failed")
	return err
}

// WarmDecoy computes the digest used for unknown-account logins so the first
// such login does not pay for an extra hash.
func (s *AuthService) WarmDecoy(ctx context.Context) error {
	h, err := s.hasher.Hash(ctx, decoyPassword)
	if err != nil {
		return fmt.Errorf("warm decoy hash: %w", err)
	}
	s.decoyMu.Lock()
	if s.decoy == "" {
		s.decoy = h
	}
	s.decoyMu.Unlock()
	return nil
}

// decoyHash returns the cached decoy digest, computing it on first use. The
// hash runs detached from the caller's context and outside the lock. When it
// fails, fallbackDecoy is used so the verify still costs a full bcrypt run.
func (s *AuthService) decoyHash() string {
	s.decoyMu.Lock()
	d := s.decoy
	s.decoyMu.Unlock()
	if d != "" {
		return d
	}

	if err := s.WarmDecoy(context.Background()); err != nil {
		s.log.Warn().Err(err).Msg("using fallback decoy hash")
		return fallbackDecoy
	}

	s.decoyMu.Lock()
	defer s.decoyMu.Unlock()
	return s.decoy
}
