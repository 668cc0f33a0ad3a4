package usecase

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	"notify-srv/internal/metrics"
	"notify-srv/internal/notify"
	"notify-srv/internal/registry"
	"notify-srv/pkg/scope"
)

type session struct {
	uc        *implUseCase
	principal scope.Principal
	rcv       *registry.Receiver
	idle      clockwork.Timer
	interval  time.Duration
	closed    bool
}

// Subscribe attaches a receiver for p's user. It fails only when ctx is
// already done, in which case nothing is attached.
func (uc *implUseCase) Subscribe(ctx context.Context, p scope.Principal) (notify.Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rcv := uc.registry.GetOrCreate(p.UserID).Subscribe()
	uc.sessions.Add(1)

	uc.l.Debugf(ctx, "notify.usecase.Subscribe: session opened for user %d", p.UserID)

	return &session{
		uc:        uc,
		principal: p,
		rcv:       rcv,
		idle:      uc.clock.NewTimer(uc.keepAlive),
		interval:  uc.keepAlive,
	}, nil
}

// Next returns the next event frame, or a keep-alive frame once the
// session has been idle for its interval.
func (s *session) Next(ctx context.Context) (notify.Frame, error) {
	if s.closed {
		return notify.Frame{}, notify.ErrStreamClosed
	}

	select {
	case ev := <-s.rcv.C():
		s.reportLag(ctx)
		s.resetIdle()
		return ev.Frame(), nil

	case <-s.idle.Chan():
		s.reportLag(ctx)
		s.idle.Reset(s.interval)
		return notify.KeepAliveFrame(), nil

	case <-ctx.Done():
		return notify.Frame{}, ctx.Err()
	}
}

func (s *session) reportLag(ctx context.Context) {
	if n := s.rcv.TakeLagged(); n > 0 {
		metrics.SessionLagged.Add(float64(n))
		s.uc.l.Warnf(ctx, "notify.usecase.session: user %d lagged, %d events dropped", s.principal.UserID, n)
	}
}

func (s *session) resetIdle() {
	if !s.idle.Stop() {
		select {
		case <-s.idle.Chan():
		default:
		}
	}
	s.idle.Reset(s.interval)
}

// Close detaches the session's receiver. The user's registry entry stays.
func (s *session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.idle.Stop()
	s.rcv.Close()
	s.uc.sessions.Add(-1)
}
