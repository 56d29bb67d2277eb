package ports

import (
	"context"

	"github.com/vigilcam/portal/internal/core/domain"
)

// UserRepository is the credential store. Create must enforce email
// uniqueness atomically and return domain.ErrEmailTaken on conflict.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}
