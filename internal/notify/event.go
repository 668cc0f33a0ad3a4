package notify

import (
	"encoding/json"
	"fmt"

	"notify-srv/internal/model"
)

// Wire discriminators, one per ChatEvent variant.
const (
	EventNewChat    = "new_chat"
	EventUpdateChat = "update_chat"
	EventDeleteChat = "delete_chat"
	EventNewMessage = "new_message"
)

// ChatEvent is the closed set of changes delivered to subscribers:
// NewChat, UpdateChat, DeleteChat and NewMessage.
type ChatEvent interface {
	isChatEvent()
}

type NewChat struct{ Chat model.Chat }
type UpdateChat struct{ Chat model.Chat }
type DeleteChat struct{ Chat model.Chat }
type NewMessage struct{ Message model.Message }

func (NewChat) isChatEvent()    {}
func (UpdateChat) isChatEvent() {}
func (DeleteChat) isChatEvent() {}
func (NewMessage) isChatEvent() {}

// Event wraps a ChatEvent with its wire form. It is built once per
// notification, shared by pointer with every recipient, and never mutated.
type Event struct {
	payload ChatEvent
	name    string
	data    []byte
}

// NewEvent encodes ce once.
func NewEvent(ce ChatEvent) (*Event, error) {
	var (
		name string
		body any
	)
	switch v := ce.(type) {
	case NewChat:
		name, body = EventNewChat, v.Chat
	case UpdateChat:
		name, body = EventUpdateChat, v.Chat
	case DeleteChat:
		name, body = EventDeleteChat, v.Chat
	case NewMessage:
		name, body = EventNewMessage, v.Message
	default:
		return nil, fmt.Errorf("unsupported chat event %T", ce)
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", name, err)
	}
	return &Event{payload: ce, name: name, data: data}, nil
}

// Payload returns the decoded change.
func (e *Event) Payload() ChatEvent { return e.payload }

// Name returns the wire discriminator.
func (e *Event) Name() string { return e.name }

// Data returns the JSON body. Callers must not modify it.
func (e *Event) Data() []byte { return e.data }

// Frame returns the outbound frame for e.
func (e *Event) Frame() Frame {
	return Frame{Name: e.name, Data: e.data}
}
