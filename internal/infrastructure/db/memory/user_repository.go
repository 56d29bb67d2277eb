package memory

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"io"
	"sync"
	"time"

	"github.com/vigilcam/portal/internal/core/domain"
)

// UserRepository is an in-process credential store. The uniqueness check and
// the insert happen under the same lock.
type UserRepository struct {
	mu      sync.RWMutex
	byEmail map[string]*domain.User
	random  io.Reader
}

func NewUserRepository() *UserRepository {
	return &UserRepository{byEmail: make(map[string]*domain.User), random: rand.Reader}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return nil, domain.ErrEmailTaken
	}

	id, err := r.newID()
	if err != nil {
		return nil, &domain.StorageError{Op: "create user", Err: err}
	}

	stored := *user
	stored.ID = id
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	r.byEmail[stored.Email] = &stored

	out := stored
	return &out, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

// newID returns a 12-byte hex identifier, the same shape as a Mongo ObjectID.
func (r *UserRepository) newID() (string, error) {
	b := make([]byte, 12)
	if _, err := io.ReadFull(r.random, b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
