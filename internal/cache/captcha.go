package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// CaptchaCache stores pending captcha answers keyed by challenge id.
type CaptchaCache struct {
	client *redis.Client
}

func NewCaptchaCache(client *redis.Client) *CaptchaCache {
	return &CaptchaCache{client: client}
}

func captchaKey(id string) string {
	return "auth:captcha:" + id
}

func (c *CaptchaCache) Store(ctx context.Context, id, answer string, ttl time.Duration) error {
	return c.client.Set(ctx, captchaKey(id), answer, ttl).Err()
}

// Take returns the stored answer and deletes it in the same command, so a
// challenge can be validated at most once.
func (c *CaptchaCache) Take(ctx context.Context, id string) (string, bool, error) {
	answer, err := c.client.GetDel(ctx, captchaKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return answer, true, nil
}
