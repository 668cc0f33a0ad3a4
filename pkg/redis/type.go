package redis

import (
	"time"

	goredis "github.com/redis/go-redis/v9"
)

type Config struct {
	Addr           string
	Password       string
	DB             int
	ConnectTimeout time.Duration
}

type redisImpl struct {
	client *goredis.Client
}
