package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"notify-srv/internal/metrics"
	"notify-srv/internal/notify"
)

// Run subscribes feed to every known channel and processes notifications
// one at a time until ctx is done or the feed faults. The feed is closed on
// return. Shutdown through ctx returns nil.
func (uc *implUseCase) Run(ctx context.Context, feed notify.ChangeFeed) error {
	defer func() {
		if err := feed.Close(); err != nil {
			uc.l.Warnf(ctx, "notify.usecase.Run.Close: %v", err)
		}
	}()

	notifs, faults, err := feed.Listen(ctx, notify.Channels()...)
	if err != nil {
		return connectionFault(err)
	}

	uc.ready.Store(true)
	metrics.FeedConnected.Set(1)
	defer func() {
		uc.ready.Store(false)
		metrics.FeedConnected.Set(0)
	}()
	uc.l.Infof(ctx, "notify.usecase.Run: listening on %v", notify.Channels())

	for {
		select {
		case <-ctx.Done():
			return nil

		case raw, ok := <-notifs:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return connectionFault(errors.New("notification stream closed"))
			}
			// decode faults are logged and counted by HandleNotification
			_ = uc.HandleNotification(ctx, raw)

		case err, ok := <-faults:
			if ctx.Err() != nil {
				return nil
			}
			if !ok {
				err = errors.New("fault stream closed")
			}
			return connectionFault(err)
		}
	}
}

// HandleNotification decodes raw and dispatches it. It returns the decode
// fault, if any, after logging it.
func (uc *implUseCase) HandleNotification(ctx context.Context, raw notify.RawNotification) error {
	start := time.Now()
	metrics.NotificationsReceived.WithLabelValues(raw.Channel).Inc()

	n, err := decode(raw)
	if err != nil {
		metrics.DecodeFaults.WithLabelValues(raw.Channel, faultReason(err)).Inc()
		uc.l.Warnf(ctx, "notify.usecase.HandleNotification.decode: %v", err)
		return err
	}

	res := uc.dispatch(ctx, n)
	metrics.DispatchDuration.Observe(time.Since(start).Seconds())
	uc.l.Debugf(ctx, "notify.usecase.HandleNotification: %s recipients=%d delivered=%d missed=%d dropped=%d",
		n.Event.Name(), len(n.Recipients), res.delivered, res.missed, res.dropped)
	return nil
}

func connectionFault(err error) error {
	if errors.Is(err, notify.ErrConnectionFault) {
		return err
	}
	return fmt.Errorf("%w: %w", notify.ErrConnectionFault, err)
}
