package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"notify-srv/internal/notify"
)

var errAlreadyListening = errors.New("feed is already listening")

// Listen subscribes to channels. It returns once every LISTEN is
// acknowledged, or with a connection fault when the database cannot be
// reached within the connect timeout.
func (f *feed) Listen(ctx context.Context, channels ...string) (<-chan notify.RawNotification, <-chan error, error) {
	faults := make(chan error, 1)
	report := func(err error) {
		select {
		case faults <- err:
		default:
		}
	}

	listener := pq.NewListener(f.dsn, minReconnectInterval, maxReconnectInterval, func(ev pq.ListenerEventType, err error) {
		switch ev {
		case pq.ListenerEventDisconnected, pq.ListenerEventConnectionAttemptFailed:
			report(fmt.Errorf("%w: %s: %v", notify.ErrConnectionFault, eventName(ev), err))
		}
	})

	f.mu.Lock()
	if f.listener != nil {
		f.mu.Unlock()
		_ = listener.Close()
		return nil, nil, errAlreadyListening
	}
	f.listener = listener
	f.mu.Unlock()

	if err := f.subscribe(ctx, listener, faults, channels); err != nil {
		f.mu.Lock()
		f.listener = nil
		f.mu.Unlock()
		return nil, nil, err
	}

	out := make(chan notify.RawNotification)
	f.wg.Add(1)
	go f.pump(ctx, listener.Notify, listener, out, report)

	return out, faults, nil
}

// subscribe runs the blocking LISTEN calls under the connect timeout.
func (f *feed) subscribe(ctx context.Context, listener *pq.Listener, faults <-chan error, channels []string) error {
	result := make(chan error, 1)
	go func() {
		for _, ch := range channels {
			if err := listener.Listen(ch); err != nil {
				result <- fmt.Errorf("listen %s: %w", ch, err)
				return
			}
		}
		result <- nil
	}()

	timer := time.NewTimer(f.opt.ConnectTimeout)
	defer timer.Stop()

	var err error
	select {
	case err = <-result:
		if err != nil {
			err = fmt.Errorf("%w: %w", notify.ErrConnectionFault, err)
		}
	case err = <-faults:
	case <-timer.C:
		err = fmt.Errorf("%w: no connection after %s", notify.ErrConnectionFault, f.opt.ConnectTimeout)
	case <-ctx.Done():
		err = fmt.Errorf("%w: %w", notify.ErrConnectionFault, ctx.Err())
	}
	if err != nil {
		// unblocks a pending Listen
		_ = listener.Close()
		<-result
	}
	return err
}

// pinger is the keep-alive half of *pq.Listener.
type pinger interface {
	Ping() error
}

// pump relays notifications to out until it is stopped or the connection is
// lost. A lost connection is reported once through report.
func (f *feed) pump(ctx context.Context, notifications <-chan *pq.Notification, p pinger, out chan<- notify.RawNotification, report func(error)) {
	defer f.wg.Done()
	defer close(out)

	ticker := time.NewTicker(f.opt.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-f.done:
			return
		case <-ctx.Done():
			return

		case n, ok := <-notifications:
			if !ok || n == nil {
				// nil marks a reconnect, which loses notifications
				if !f.closing() {
					report(fmt.Errorf("%w: listener connection lost", notify.ErrConnectionFault))
				}
				return
			}
			select {
			case out <- notify.RawNotification{Channel: n.Channel, Payload: n.Extra}:
			case <-f.done:
				return
			case <-ctx.Done():
				return
			}

		case <-ticker.C:
			if err := p.Ping(); err != nil {
				report(fmt.Errorf("%w: ping: %w", notify.ErrConnectionFault, err))
				return
			}
		}
	}
}

func (f *feed) closing() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Close stops the pump and closes the listener connection.
func (f *feed) Close() error {
	var err error
	f.closeOnce.Do(func() {
		close(f.done)

		f.mu.Lock()
		listener := f.listener
		f.mu.Unlock()
		if listener != nil {
			err = listener.Close()
		}
		f.wg.Wait()
	})
	if err != nil {
		return fmt.Errorf("close listener: %w", err)
	}
	return nil
}

func eventName(ev pq.ListenerEventType) string {
	switch ev {
	case pq.ListenerEventConnected:
		return "connected"
	case pq.ListenerEventDisconnected:
		return "disconnected"
	case pq.ListenerEventReconnected:
		return "reconnected"
	case pq.ListenerEventConnectionAttemptFailed:
		return "connection attempt failed"
	default:
		return "unknown event"
	}
}
