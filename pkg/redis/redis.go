package redis

import (
	"context"

	goredis "github.com/redis/go-redis/v9"
)

func (r *redisImpl) Subscribe(ctx context.Context, channels ...string) *goredis.PubSub {
	return r.client.Subscribe(ctx, channels...)
}

// Ping checks if the connection is alive
func (r *redisImpl) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (r *redisImpl) Close() error {
	return r.client.Close()
}
