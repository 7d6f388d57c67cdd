package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	if ttl == 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, code string) (string, error) {
	val, err := r.client.Get(ctx, keyPrefix+code).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrMiss
		}
		return "", err
	}
	return val, nil
}

func (r *Redis) Set(ctx context.Context, code, url string) error {
	return r.client.Set(ctx, keyPrefix+code, url, r.ttl).Err()
}

func (r *Redis) Del(ctx context.Context, code string) error {
	return r.client.Del(ctx, keyPrefix+code).Err()
}
