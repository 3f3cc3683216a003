package auth

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// ChallengeCache remembers that a code was already mailed for an
// (account, device) pair, so repeated logins during an outstanding challenge
// do not trigger repeat emails. The auth service treats a nil cache and cache
// errors alike as "nothing outstanding"; suppression is best-effort and must
// never block a login.
type ChallengeCache interface {
	Outstanding(ctx context.Context, key string) (bool, error)
	Mark(ctx context.Context, key string, ttl time.Duration) error
	Clear(ctx context.Context, key string) error
}

type redisChallengeCache struct {
	client *redis.Client
}

// NewRedisChallengeCache wraps a Redis client as a ChallengeCache.
func NewRedisChallengeCache(client *redis.Client) ChallengeCache {
	return &redisChallengeCache{client: client}
}

func (c *redisChallengeCache) Outstanding(ctx context.Context, key string) (bool, error) {
	if _, err := c.client.Get(ctx, key).Result(); err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (c *redisChallengeCache) Mark(ctx context.Context, key string, ttl time.Duration) error {
	return c.client.Set(ctx, key, "1", ttl).Err()
}

func (c *redisChallengeCache) Clear(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}
