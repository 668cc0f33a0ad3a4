package postgres

import (
	"sync"
	"time"

	"github.com/lib/pq"

	"notify-srv/internal/notify"
	"notify-srv/pkg/log"
)

const (
	defaultPingInterval   = 90 * time.Second
	defaultConnectTimeout = 5 * time.Second

	// pq requires reconnect intervals even though a lost connection is
	// reported as a fault and never waited out.
	minReconnectInterval = time.Second
	maxReconnectInterval = time.Minute
)

type Options struct {
	PingInterval   time.Duration
	ConnectTimeout time.Duration
}

type feed struct {
	l   log.Logger
	dsn string
	opt Options

	mu       sync.Mutex
	listener *pq.Listener

	wg        sync.WaitGroup
	done      chan struct{}
	closeOnce sync.Once
}

var _ notify.ChangeFeed = (*feed)(nil)

// New returns a change feed backed by PostgreSQL LISTEN/NOTIFY on dsn.
func New(l log.Logger, dsn string, opt Options) notify.ChangeFeed {
	if opt.PingInterval <= 0 {
		opt.PingInterval = defaultPingInterval
	}
	if opt.ConnectTimeout <= 0 {
		opt.ConnectTimeout = defaultConnectTimeout
	}
	return &feed{
		l:    l,
		dsn:  dsn,
		opt:  opt,
		done: make(chan struct{}),
	}
}
