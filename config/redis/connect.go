package redis

import (
	"context"
	"time"

	"notify-srv/config"
	pkgRedis "notify-srv/pkg/redis"
)

// Connect initializes and returns a Redis client
func Connect(ctx context.Context, cfg config.RedisConfig, timeout time.Duration) (pkgRedis.IRedis, error) {
	return pkgRedis.New(ctx, pkgRedis.Config{
		Addr:           cfg.Addr,
		Password:       cfg.Password,
		DB:             cfg.DB,
		ConnectTimeout: timeout,
	})
}
