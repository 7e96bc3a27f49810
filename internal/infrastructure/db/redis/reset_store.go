package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/savemate/deals-api/internal/core/domain"
)

const resetKeyPrefix = "pwreset:"

// ResetTokenStore keeps password reset tokens in Redis with a TTL. Tokens
// are single-use: Consume removes the key atomically, so two concurrent
// resets with the same token cannot both succeed.
type ResetTokenStore struct {
	client *redis.Client
}

func NewResetTokenStore(client *redis.Client) *ResetTokenStore {
	return &ResetTokenStore{client: client}
}

func (s *ResetTokenStore) Save(ctx context.Context, token, userID string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := s.client.Set(ctx, resetKeyPrefix+token, userID, ttl).Err(); err != nil {
		return fmt.Errorf("save reset token: %w", err)
	}
	return nil
}

// Consume returns the user id for the token and deletes it. Unknown and
// expired tokens are indistinguishable to the caller.
func (s *ResetTokenStore) Consume(ctx context.Context, token string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	userID, err := s.client.GetDel(ctx, resetKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.NewUnauthorized("Invalid or expired token")
		}
		return "", fmt.Errorf("consume reset token: %w", err)
	}
	return userID, nil
}
