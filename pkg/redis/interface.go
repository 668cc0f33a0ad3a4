package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

// IRedis is the subset of Redis the service needs: pub/sub and liveness.
type IRedis interface {
	Subscribe(ctx context.Context, channels ...string) *goredis.PubSub
	Ping(ctx context.Context) error
	Close() error
}

// New connects to Redis and verifies the connection with a ping.
func New(ctx context.Context, cfg Config) (IRedis, error) {
	if cfg.Addr == "" {
		return nil, ErrAddrRequired
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = DefaultConnectTimeout
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisImpl{client: client}, nil
}
