package registry

import (
	"sync"
	"sync/atomic"

	"notify-srv/internal/notify"
)

// Sender is the publish side of one user's broadcast. Any number of
// receivers may be attached; each has its own bounded buffer.
type Sender struct {
	userID   int64
	capacity int

	mu        sync.RWMutex
	receivers map[*Receiver]struct{}
}

func newSender(userID int64, capacity int) *Sender {
	return &Sender{
		userID:    userID,
		capacity:  capacity,
		receivers: make(map[*Receiver]struct{}),
	}
}

func (s *Sender) UserID() int64 { return s.userID }

// Subscribe attaches a new receiver.
func (s *Sender) Subscribe() *Receiver {
	r := &Receiver{
		sender: s,
		ch:     make(chan *notify.Event, s.capacity),
	}
	s.mu.Lock()
	s.receivers[r] = struct{}{}
	s.mu.Unlock()
	return r
}

// Send publishes ev to every attached receiver without blocking. It returns
// the number of receivers the event was queued for and how many older
// events were dropped to make room.
func (s *Sender) Send(ev *notify.Event) (delivered, dropped int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for r := range s.receivers {
		if r.push(ev) {
			dropped++
		}
		delivered++
	}
	return delivered, dropped
}

// Len returns the number of attached receivers.
func (s *Sender) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.receivers)
}

func (s *Sender) detach(r *Receiver) {
	s.mu.Lock()
	delete(s.receivers, r)
	s.mu.Unlock()
}

// Receiver is one session's view of a Sender.
type Receiver struct {
	sender *Sender
	ch     chan *notify.Event

	// pushMu serializes publishers so drop-oldest stays consistent.
	pushMu sync.Mutex
	lagged atomic.Uint64
	closed atomic.Bool
}

// push enqueues ev, evicting the oldest buffered event when full. It
// reports whether an event was dropped.
func (r *Receiver) push(ev *notify.Event) bool {
	r.pushMu.Lock()
	defer r.pushMu.Unlock()

	select {
	case r.ch <- ev:
		return false
	default:
	}

	dropped := false
	select {
	case <-r.ch:
		dropped = true
		r.lagged.Add(1)
	default:
	}

	// pushMu excludes other publishers, so there is room now.
	r.ch <- ev
	return dropped
}

// C returns the channel of buffered events. It is never closed.
func (r *Receiver) C() <-chan *notify.Event {
	return r.ch
}

// TakeLagged returns the number of events dropped since the last call
// and resets the counter.
func (r *Receiver) TakeLagged() uint64 {
	return r.lagged.Swap(0)
}

// Close detaches the receiver from its Sender. It is idempotent and leaves
// the registry entry and other receivers untouched.
func (r *Receiver) Close() {
	if r.closed.CompareAndSwap(false, true) {
		r.sender.detach(r)
	}
}
