package notify

import (
	"errors"
	"fmt"
)

var (
	// ErrConnectionFault means the change-feed subscription could not be
	// established or was lost. It is fatal to the listener.
	ErrConnectionFault = errors.New("change feed connection fault")

	ErrUnknownChannel   = errors.New("unknown channel")
	ErrUnknownOp        = errors.New("unknown op")
	ErrMissingSnapshot  = errors.New("missing snapshot")
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrStreamClosed is returned by Stream.Next after Close.
	ErrStreamClosed = errors.New("stream closed")
)

// DecodeError is a per-notification fault. The notification is skipped.
type DecodeError struct {
	Channel string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %q: %v", e.Channel, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
