package revocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// minRedisTTL keeps ids of tokens that are about to expire for a little while anyway.
const minRedisTTL = time.Second

// RedisStore keeps revoked ids in redis with a TTL equal to the remaining
// lifetime of the token, so the set shrinks on its own once tokens expire.
type RedisStore struct {
	client *redis.Client
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func revokedKey(tokenId string) string {
	return fmt.Sprintf("revoked_token:%s", tokenId)
}

func (r *RedisStore) Revoke(ctx context.Context, tokenId string, expiresAt time.Time) error {
	ttl := max(time.Until(expiresAt), minRedisTTL)
	if err := r.client.Set(ctx, revokedKey(tokenId), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (r *RedisStore) IsRevoked(ctx context.Context, tokenId string) (bool, error) {
	err := r.client.Get(ctx, revokedKey(tokenId)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check revocation: %w", err)
	}
	return true, nil
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
