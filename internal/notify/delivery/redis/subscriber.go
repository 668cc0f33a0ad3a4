package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"notify-srv/internal/notify"
)

var errAlreadyListening = errors.New("subscriber is already listening")

// Listen subscribes to channels and waits for the subscription to be
// confirmed. Any receive or ping failure afterwards is a connection fault;
// the client's own reconnection is not relied upon.
func (s *subscriber) Listen(ctx context.Context, channels ...string) (<-chan notify.RawNotification, <-chan error, error) {
	s.mu.Lock()
	if s.pubsub != nil {
		s.mu.Unlock()
		return nil, nil, errAlreadyListening
	}
	runCtx, cancel := context.WithCancel(ctx)
	pubsub := s.redis.Subscribe(runCtx, channels...)
	s.pubsub, s.cancel = pubsub, cancel
	s.mu.Unlock()

	// Wait for confirmation that subscription is created
	confirmCtx, stop := context.WithTimeout(runCtx, s.opt.ConnectTimeout)
	defer stop()
	if _, err := pubsub.Receive(confirmCtx); err != nil {
		return nil, nil, fmt.Errorf("%w: subscribe: %w", notify.ErrConnectionFault, err)
	}

	out := make(chan notify.RawNotification)
	faults := make(chan error, 1)
	report := faultReporter(runCtx, faults)

	s.wg.Add(2)
	go s.receive(runCtx, pubsub, out, report)
	go s.ping(runCtx, pubsub, report)

	s.logger.Infof(ctx, "Redis subscriber started on channels: %v", channels)
	return out, faults, nil
}

// faultReporter delivers at most one fault to faults. Errors raised after
// ctx is done come from shutdown and are dropped.
func faultReporter(ctx context.Context, faults chan<- error) func(error) {
	return func(err error) {
		if ctx.Err() != nil {
			return
		}
		select {
		case faults <- err:
		default:
		}
	}
}

// messageReceiver and channelPinger are the halves of *goredis.PubSub the
// workers use.
type messageReceiver interface {
	ReceiveMessage(ctx context.Context) (*goredis.Message, error)
}

type channelPinger interface {
	Ping(ctx context.Context, payload ...string) error
}

func (s *subscriber) receive(ctx context.Context, pubsub messageReceiver, out chan<- notify.RawNotification, report func(error)) {
	defer s.wg.Done()
	defer close(out)

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			report(fmt.Errorf("%w: receive: %w", notify.ErrConnectionFault, err))
			return
		}
		select {
		case out <- toRaw(msg):
		case <-ctx.Done():
			return
		}
	}
}

func (s *subscriber) ping(ctx context.Context, pubsub channelPinger, report func(error)) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.opt.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := pubsub.Ping(ctx); err != nil {
				report(fmt.Errorf("%w: ping: %w", notify.ErrConnectionFault, err))
				return
			}
		}
	}
}

func toRaw(msg *goredis.Message) notify.RawNotification {
	return notify.RawNotification{Channel: msg.Channel, Payload: msg.Payload}
}

// Close ends the subscription and releases the client.
func (s *subscriber) Close() error {
	var errs []error
	s.closeOnce.Do(func() {
		s.mu.Lock()
		pubsub, cancel := s.pubsub, s.cancel
		s.mu.Unlock()

		if cancel != nil {
			cancel()
		}
		if pubsub != nil {
			if err := pubsub.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close pubsub: %w", err))
			}
		}
		s.wg.Wait()
		if err := s.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close client: %w", err))
		}
	})
	return errors.Join(errs...)
}
