package model

import "time"

// ChatType is the kind of a chat, derived from its member count at creation.
type ChatType string

const (
	ChatTypeSingle         ChatType = "single"
	ChatTypeGroup          ChatType = "group"
	ChatTypePrivateChannel ChatType = "private_channel"
	ChatTypePublicChannel  ChatType = "public_channel"
)

// Chat is the full row image of a chat as emitted by the chat_update trigger.
type Chat struct {
	ID        int64     `json:"id"`
	WsID      int64     `json:"ws_id"`
	OwnerID   *int64    `json:"owner_id"`
	Type      ChatType  `json:"type"`
	Name      *string   `json:"name"`
	Members   []int64   `json:"members"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MemberSet returns the chat's members as a set.
func (c Chat) MemberSet() map[int64]struct{} {
	set := make(map[int64]struct{}, len(c.Members))
	for _, id := range c.Members {
		set[id] = struct{}{}
	}
	return set
}
