package usecase

import (
	"context"
	"sync/atomic"

	"notify-srv/internal/notify"
)

type fakeFeed struct {
	notifs    chan notify.RawNotification
	faults    chan error
	listenErr error

	channels []string
	closed   atomic.Bool
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{
		notifs: make(chan notify.RawNotification),
		faults: make(chan error, 1),
	}
}

func (f *fakeFeed) Listen(ctx context.Context, channels ...string) (<-chan notify.RawNotification, <-chan error, error) {
	if f.listenErr != nil {
		return nil, nil, f.listenErr
	}
	f.channels = channels
	return f.notifs, f.faults, nil
}

func (f *fakeFeed) Close() error {
	f.closed.Store(true)
	return nil
}
