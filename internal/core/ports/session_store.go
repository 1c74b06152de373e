package ports

import (
	"context"
	"time"
)

// SessionStore keeps the server-side session facts a signed token cannot
// carry: revocations and pending recovery tokens.
type SessionStore interface {
	Revoke(ctx context.Context, sessionID string, until time.Time) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
	SaveRecovery(ctx context.Context, tokenHash, email string, ttl time.Duration) error
	// ConsumeRecovery returns the email bound to tokenHash and deletes it.
	// It returns domain.ErrInvalidRecoveryToken when missing or expired.
	ConsumeRecovery(ctx context.Context, tokenHash string) (string, error)
}
