package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/domain"
)

const (
	revokedPrefix  = "session:revoked:"
	recoveryPrefix = "session:recovery:"
)

// SessionStore keeps revoked session ids and pending recovery tokens, each
// expiring on its own TTL.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Revoke marks sessionID as signed out until the token's own expiry.
func (s *SessionStore) Revoke(ctx context.Context, sessionID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, revokedPrefix+sessionID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *SessionStore) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedPrefix+sessionID).Result()
	if err != nil {
		return false, fmt.Errorf("session lookup: %w", err)
	}
	return n > 0, nil
}

func (s *SessionStore) SaveRecovery(ctx context.Context, tokenHash, email string, ttl time.Duration) error {
	if err := s.client.Set(ctx, recoveryPrefix+tokenHash, email, ttl).Err(); err != nil {
		return fmt.Errorf("save recovery token: %w", err)
	}
	return nil
}

// ConsumeRecovery reads and deletes the token atomically so a link works once.
func (s *SessionStore) ConsumeRecovery(ctx context.Context, tokenHash string) (string, error) {
	email, err := s.client.GetDel(ctx, recoveryPrefix+tokenHash).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrInvalidRecoveryToken
	}
	if err != nil {
		return "", fmt.Errorf("consume recovery token: %w", err)
	}
	return email, nil
}
