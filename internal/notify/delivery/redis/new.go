package redis

import (
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"notify-srv/internal/notify"
	"notify-srv/pkg/log"
	pkgRedis "notify-srv/pkg/redis"
)

const (
	defaultPingInterval   = 90 * time.Second
	defaultConnectTimeout = 5 * time.Second
)

type Options struct {
	PingInterval   time.Duration
	ConnectTimeout time.Duration
}

// subscriber relays Redis pub/sub messages published on the change-feed
// channel names. It is used where database triggers are bridged into Redis.
type subscriber struct {
	redis  pkgRedis.IRedis
	logger log.Logger
	opt    Options

	// Lifecycle fields
	mu        sync.Mutex
	pubsub    *goredis.PubSub
	cancel    func()
	wg        sync.WaitGroup
	closeOnce sync.Once
}

var _ notify.ChangeFeed = (*subscriber)(nil)

func New(redis pkgRedis.IRedis, logger log.Logger, opt Options) notify.ChangeFeed {
	if opt.PingInterval <= 0 {
		opt.PingInterval = defaultPingInterval
	}
	if opt.ConnectTimeout <= 0 {
		opt.ConnectTimeout = defaultConnectTimeout
	}
	return &subscriber{
		redis:  redis,
		logger: logger,
		opt:    opt,
	}
}
