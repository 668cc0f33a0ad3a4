package registry

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notify-srv/internal/metrics"
	"notify-srv/internal/model"
	"notify-srv/internal/notify"
)

func newEvent(t *testing.T, chatID int64) *notify.Event {
	t.Helper()
	ev, err := notify.NewEvent(notify.NewChat{Chat: model.Chat{ID: chatID, Members: []int64{1}}})
	require.NoError(t, err)
	return ev
}

func TestGetOrCreate_ConcurrentFirstAccessYieldsOneSender(t *testing.T) {
	r := New(4, 8)

	const n = 100
	got := make([]*Sender, n)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			got[i] = r.GetOrCreate(42)
		}(i)
	}
	close(start)
	wg.Wait()

	for i := 1; i < n; i++ {
		assert.Same(t, got[0], got[i])
	}
	assert.Equal(t, 1, r.Stats().Users)
	assert.Equal(t, 1, r.Users())
}

func TestGetOrCreate_CountsInsertsOnly(t *testing.T) {
	r := New(4, 8)
	before := testutil.ToFloat64(metrics.RegistryUsers)

	r.GetOrCreate(1)
	r.GetOrCreate(1)
	r.GetOrCreate(2)
	_, _ = r.Lookup(3)

	assert.Equal(t, 2, r.Users())
	assert.Equal(t, r.Stats().Users, r.Users())
	assert.Equal(t, before+2, testutil.ToFloat64(metrics.RegistryUsers))
}

func TestLookup_DoesNotCreate(t *testing.T) {
	r := New(0, 0)

	_, ok := r.Lookup(7)
	assert.False(t, ok)
	assert.Equal(t, 0, r.Stats().Users)

	s := r.GetOrCreate(7)
	got, ok := r.Lookup(7)
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, int64(7), got.UserID())
}

func TestShardFor_NegativeIDs(t *testing.T) {
	r := New(3, 1)
	s := r.GetOrCreate(-5)
	got, ok := r.Lookup(-5)
	require.True(t, ok)
	assert.Same(t, s, got)
}

func TestSend_EveryReceiverObservesEvent(t *testing.T) {
	r := New(1, 4)
	s := r.GetOrCreate(1)
	a, b := s.Subscribe(), s.Subscribe()

	ev := newEvent(t, 10)
	delivered, dropped := s.Send(ev)
	assert.Equal(t, 2, delivered)
	assert.Equal(t, 0, dropped)

	assert.Same(t, ev, <-a.C())
	assert.Same(t, ev, <-b.C())
}

func TestSend_NoReceivers(t *testing.T) {
	s := New(1, 4).GetOrCreate(1)
	delivered, dropped := s.Send(newEvent(t, 1))
	assert.Zero(t, delivered)
	assert.Zero(t, dropped)
}

func TestSend_FullBufferDropsOldest(t *testing.T) {
	s := New(1, 2).GetOrCreate(1)
	slow := s.Subscribe()
	fast := s.Subscribe()

	e1, e2, e3 := newEvent(t, 1), newEvent(t, 2), newEvent(t, 3)
	s.Send(e1)
	s.Send(e2)
	<-fast.C()
	<-fast.C()

	_, dropped := s.Send(e3)
	assert.Equal(t, 1, dropped)

	assert.Same(t, e2, <-slow.C())
	assert.Same(t, e3, <-slow.C())
	assert.Equal(t, uint64(1), slow.TakeLagged())
	assert.Zero(t, slow.TakeLagged())

	assert.Same(t, e3, <-fast.C())
	assert.Zero(t, fast.TakeLagged())
}

func TestReceiverClose_LeavesEntryAndSiblings(t *testing.T) {
	r := New(2, 4)
	s := r.GetOrCreate(9)
	a, b := s.Subscribe(), s.Subscribe()
	assert.Equal(t, Stats{Users: 1, Receivers: 2}, r.Stats())

	a.Close()
	a.Close()

	got, ok := r.Lookup(9)
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, 1, s.Len())

	ev := newEvent(t, 5)
	delivered, _ := s.Send(ev)
	assert.Equal(t, 1, delivered)
	assert.Same(t, ev, <-b.C())
	assert.Empty(t, a.C())
}

func TestSend_ConcurrentWithClose(t *testing.T) {
	s := New(1, 1).GetOrCreate(1)
	ev := newEvent(t, 1)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		rcv := s.Subscribe()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.Send(ev)
			}
		}()
		go func() {
			defer wg.Done()
			rcv.Close()
		}()
	}
	wg.Wait()
	assert.Zero(t, s.Len())
}
