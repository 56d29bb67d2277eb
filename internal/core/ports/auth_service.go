package ports

import (
	"context"

	"github.com/vigilcam/portal/internal/core/domain"
)

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	FullName        string
	Email           string
	Password        string
	ConfirmPassword string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Session, error)
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	Logout(ctx context.Context, sessionID string) error
}
