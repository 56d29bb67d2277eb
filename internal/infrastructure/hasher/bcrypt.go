package hasher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/vigilcam/portal/internal/core/domain"
	"github.com/vigilcam/portal/internal/pkg/metrics"
)

// DefaultCost matches the work factor the portal has always used.
const DefaultCost = 10

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// Runner executes fn off the calling goroutine and waits for it.
// *queue.Pool satisfies it.
type Runner interface {
	Do(ctx context.Context, fn func()) error
}

// Bcrypt implements ports.PasswordHasher with golang.org/x/crypto/bcrypt.
type Bcrypt struct {
	cost    int
	runner  Runner
	metrics *metrics.Metrics
}

// NewBcrypt returns a hasher with the given cost. Out-of-range costs fall back
// to DefaultCost. When runner is nil the work runs on the calling goroutine.
func NewBcrypt(cost int, runner Runner, m *metrics.Metrics) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	if m == nil {
		m = metrics.NewNop()
	}
	return &Bcrypt{cost: cost, runner: runner, metrics: m}
}

func (b *Bcrypt) Hash(ctx context.Context, plaintext string) (string, error) {
	if len(plaintext) > MaxPasswordBytes {
		return "", domain.ErrPasswordTooLong
	}

	var (
		digest []byte
		err    error
	)
	if runErr := b.run(ctx, "hash", func() {
		digest, err = bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	}); runErr != nil {
		return "", runErr
	}
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(digest), nil
}

func (b *Bcrypt) Verify(ctx context.Context, plaintext, digest string) (bool, error) {
	var err error
	if runErr := b.run(ctx, "verify", func() {
		err = bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	}); runErr != nil {
		return false, runErr
	}

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("bcrypt verify: %w", err)
	}
}

func (b *Bcrypt) run(ctx context.Context, op string, fn func()) error {
	start := time.Now()
	defer func() {
		b.metrics.PasswordHashDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	if b.runner == nil {
		fn()
		return nil
	}
	return b.runner.Do(ctx, fn)
}
