package notify

import (
	"sort"
)

// Channel names carried by the change feed.
const (
	ChannelChatUpdate     = "chat_update"
	ChannelMessagesCreate = "messages_create"
)

// Channels returns every channel the listener subscribes to.
func Channels() []string {
	return []string{ChannelChatUpdate, ChannelMessagesCreate}
}

// RawNotification is one envelope as delivered by the change feed.
type RawNotification struct {
	Channel string
	Payload string
}

// RecipientSet is a set of user ids.
type RecipientSet map[int64]struct{}

// NewRecipientSet returns a set holding ids.
func NewRecipientSet(ids ...int64) RecipientSet {
	s := make(RecipientSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s RecipientSet) Contains(id int64) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the ids in ascending order.
func (s RecipientSet) Sorted() []int64 {
	ids := make([]int64, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Notification is a decoded RawNotification.
type Notification struct {
	Event      *Event
	Recipients RecipientSet
}

// Frame is one outbound emission of a stream session.
type Frame struct {
	Name      string
	Data      []byte
	KeepAlive bool
}

// KeepAliveFrame is emitted when a session has been idle for its interval.
func KeepAliveFrame() Frame {
	return Frame{KeepAlive: true}
}

// Stats is a snapshot of the pipeline for health and metrics endpoints.
type Stats struct {
	Users          int `json:"users"`
	Receivers      int `json:"receivers"`
	ActiveSessions int `json:"active_sessions"`
}
