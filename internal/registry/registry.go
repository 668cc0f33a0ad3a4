package registry

import (
	"sync"
	"sync/atomic"

	"notify-srv/internal/metrics"
)

const (
	DefaultShardCount = 32
	DefaultCapacity   = 256
)

// Stats counts live registry entries and attached receivers.
type Stats struct {
	Users     int
	Receivers int
}

type shard struct {
	mu      sync.RWMutex
	senders map[int64]*Sender
}

// Registry maps a user id to the Sender shared by all of that user's
// sessions. Entries are created on first access and live for the life of
// the process.
type Registry struct {
	shards   []*shard
	capacity int
	users    atomic.Int64
}

// New returns an empty registry. Non-positive arguments fall back to the
// defaults.
func New(shardCount, capacity int) *Registry {
	if shardCount <= 0 {
		shardCount = DefaultShardCount
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	shards := make([]*shard, shardCount)
	for i := range shards {
		shards[i] = &shard{senders: make(map[int64]*Sender)}
	}
	return &Registry{shards: shards, capacity: capacity}
}

func (r *Registry) shardFor(userID int64) *shard {
	return r.shards[uint64(userID)%uint64(len(r.shards))]
}

// GetOrCreate returns the user's Sender, creating it if absent. Concurrent
// first callers for the same user all observe the same Sender.
func (r *Registry) GetOrCreate(userID int64) *Sender {
	sh := r.shardFor(userID)

	sh.mu.RLock()
	s, ok := sh.senders[userID]
	sh.mu.RUnlock()
	if ok {
		return s
	}

	sh.mu.Lock()
	defer sh.mu.Unlock()
	if s, ok := sh.senders[userID]; ok {
		return s
	}
	s = newSender(userID, r.capacity)
	sh.senders[userID] = s
	r.users.Add(1)
	metrics.RegistryUsers.Inc()
	return s
}

// Lookup returns the user's Sender without creating one.
func (r *Registry) Lookup(userID int64) (*Sender, bool) {
	sh := r.shardFor(userID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	s, ok := sh.senders[userID]
	return s, ok
}

// Users returns the number of entries without touching any shard.
func (r *Registry) Users() int {
	return int(r.users.Load())
}

// Stats walks every shard. It is meant for health endpoints, not hot paths.
func (r *Registry) Stats() Stats {
	var st Stats
	for _, sh := range r.shards {
		sh.mu.RLock()
		st.Users += len(sh.senders)
		for _, s := range sh.senders {
			st.Receivers += s.Len()
		}
		sh.mu.RUnlock()
	}
	return st
}
