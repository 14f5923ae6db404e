package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/modushop/backend/internal/model"
	"github.com/redis/go-redis/v9"
)

// AttemptCache holds the short-lived failure counters that feed lockout
// escalation. INCR gives an atomic increment-and-fetch, so two concurrent
// failures can never both observe the same pre-threshold count.
type AttemptCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAttemptCache(client *redis.Client, ttl time.Duration) *AttemptCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &AttemptCache{client: client, ttl: ttl}
}

func attemptKey(reason model.LockReason, ip, email string) string {
	return fmt.Sprintf("auth:attempt:%s:%s:%s", reason, ip, email)
}

// Increment bumps the counter and returns the new value. The TTL is armed on
// the first hit only, so the window is measured from the first failure.
func (c *AttemptCache) Increment(ctx context.Context, reason model.LockReason, ip, email string) (int64, error) {
	key := attemptKey(reason, ip, email)
	count, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := c.client.Expire(ctx, key, c.ttl).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}

func (c *AttemptCache) Delete(ctx context.Context, reason model.LockReason, ip, email string) error {
	return c.client.Del(ctx, attemptKey(reason, ip, email)).Err()
}

// Reset drops the counters for every reason at once.
func (c *AttemptCache) Reset(ctx context.Context, ip, email string) error {
	return c.client.Del(ctx,
		attemptKey(model.LockReasonCaptcha, ip, email),
		attemptKey(model.LockReasonPassword, ip, email),
	).Err()
}
