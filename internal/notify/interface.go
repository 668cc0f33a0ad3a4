package notify

import (
	"context"

	"notify-srv/pkg/scope"
)

// ChangeFeed is a long-lived subscription to the backing store's
// notification channels.
//
// Listen returns an error when the subscription cannot be established.
// Afterwards notifications arrive on the first channel in arrival order and
// at most one connection fault arrives on the second; a fault is terminal.
type ChangeFeed interface {
	Listen(ctx context.Context, channels ...string) (<-chan RawNotification, <-chan error, error)
	Close() error
}

// UseCase is the fanout pipeline: consume the change feed, decode each
// notification, dispatch it to the registry, and serve stream sessions.
type UseCase interface {
	// Run consumes feed until ctx is done or the feed faults. Decode faults
	// are logged and skipped; only connection faults end the loop.
	Run(ctx context.Context, feed ChangeFeed) error

	// HandleNotification decodes and dispatches a single notification.
	HandleNotification(ctx context.Context, raw RawNotification) error

	// Subscribe opens a stream session for an authenticated principal. It
	// returns ctx's error when ctx is already done.
	Subscribe(ctx context.Context, p scope.Principal) (Stream, error)

	GetStats(ctx context.Context) (Stats, error)

	// Ready reports whether the change feed is subscribed and healthy.
	Ready() bool
}

// Stream is one connection's view of its user's events. It is not safe for
// concurrent use; a transport drives it from a single goroutine.
type Stream interface {
	// Next blocks until an event or a keep-alive is due, or ctx is done.
	Next(ctx context.Context) (Frame, error)
	// Close releases the session's receiver. It is idempotent.
	Close()
}
