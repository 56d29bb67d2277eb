package ports

import (
	"context"

	"github.com/vigilcam/portal/internal/core/domain"
)

// SessionStore persists session records until their ExpiresAt.
type SessionStore interface {
	// Save stores a new session. It returns domain.ErrSessionExists if the ID is taken.
	Save(ctx context.Context, session *domain.Session) error
	// Get returns domain.ErrSessionNotFound when no entry exists.
	Get(ctx context.Context, id string) (*domain.Session, error)
	// Delete is a no-op for unknown IDs.
	Delete(ctx context.Context, id string) error
}

// SessionManager issues, validates and destroys sessions.
type SessionManager interface {
	Create(ctx context.Context, userID, email, fullName string) (*domain.Session, error)
	Validate(ctx context.Context, id string) (*domain.Session, error)
	Destroy(ctx context.Context, id string) error
}
