package ports

import "context"

// PasswordHasher computes and verifies salted one-way password digests.
type PasswordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	// Verify returns (false, nil) on mismatch and an error only when the
	// digest is malformed or the context ends first.
	Verify(ctx context.Context, plaintext, digest string) (bool, error)
}
