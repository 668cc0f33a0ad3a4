package usecase

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"notify-srv/internal/notify"
	"notify-srv/internal/registry"
	"notify-srv/pkg/log"
)

// DefaultKeepAlive is the idle interval after which a session emits a
// keep-alive frame.
const DefaultKeepAlive = 15 * time.Second

type Options struct {
	KeepAlive time.Duration
	// Clock drives the sessions' idle timers. Nil means the real clock.
	Clock clockwork.Clock
}

type implUseCase struct {
	l         log.Logger
	registry  *registry.Registry
	clock     clockwork.Clock
	keepAlive time.Duration

	ready    atomic.Bool
	sessions atomic.Int64
}

var _ notify.UseCase = (*implUseCase)(nil)

// New creates the fanout use case over reg.
func New(l log.Logger, reg *registry.Registry, opt Options) notify.UseCase {
	if opt.KeepAlive <= 0 {
		opt.KeepAlive = DefaultKeepAlive
	}
	if opt.Clock == nil {
		opt.Clock = clockwork.NewRealClock()
	}
	return &implUseCase{
		l:         l,
		registry:  reg,
		clock:     opt.Clock,
		keepAlive: opt.KeepAlive,
	}
}

func (uc *implUseCase) Ready() bool {
	return uc.ready.Load()
}

func (uc *implUseCase) GetStats(ctx context.Context) (notify.Stats, error) {
	st := uc.registry.Stats()
	return notify.Stats{
		Users:          st.Users,
		Receivers:      st.Receivers,
		ActiveSessions: int(uc.sessions.Load()),
	}, nil
}
