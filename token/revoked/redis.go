package revoked

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ Repo = (*RedisRepo)(nil)

// RedisRepo stores revocation entries as keys with a native TTL, so expiry
// needs no explicit purge.
type RedisRepo struct {
	client  *redis.Client
	prefix  string
	nowFunc func() time.Time
}

type RedisRepoOption func(*RedisRepo)

// WithRedisNowFunc sets the now time function (primarily for testing)
func WithRedisNowFunc(now func() time.Time) RedisRepoOption {
	return func(r *RedisRepo) {
		r.nowFunc = now
	}
}

func NewRedisRepo(client *redis.Client, options ...RedisRepoOption) *RedisRepo {
	r := &RedisRepo{
		client:  client,
		prefix:  "ignore_token:",
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *RedisRepo) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, r.prefix+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *RedisRepo) Revoke(ctx context.Context, token string, expireAt time.Time) error {
	ttl := expireAt.Sub(r.nowFunc())
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, r.prefix+token, "1", ttl).Err()
}
