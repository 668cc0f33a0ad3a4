package model

import "time"

// Message is the full row image of a message as emitted by the
// messages_create trigger.
type Message struct {
	ID        int64     `json:"id"`
	ChatID    int64     `json:"chat_id"`
	SenderID  int64     `json:"sender_id"`
	Content   string    `json:"content"`
	Files     []string  `json:"file"`
	CreatedAt time.Time `json:"created_at"`
}
