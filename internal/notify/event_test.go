package notify

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notify-srv/internal/model"
)

type bogusEvent struct{}

func (bogusEvent) isChatEvent() {}

func TestNewEvent_Discriminators(t *testing.T) {
	c := model.Chat{ID: 1, Type: model.ChatTypeSingle, Members: []int64{1, 2}}
	m := model.Message{ID: 9, ChatID: 1, SenderID: 2, Content: "hello", Files: []string{"a.png"}}

	tcs := map[string]struct {
		ev       ChatEvent
		wantName string
		wantKey  string
	}{
		"new chat":    {ev: NewChat{Chat: c}, wantName: EventNewChat, wantKey: "members"},
		"update chat": {ev: UpdateChat{Chat: c}, wantName: EventUpdateChat, wantKey: "members"},
		"delete chat": {ev: DeleteChat{Chat: c}, wantName: EventDeleteChat, wantKey: "members"},
		"new message": {ev: NewMessage{Message: m}, wantName: EventNewMessage, wantKey: "sender_id"},
	}
	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			ev, err := NewEvent(tc.ev)
			require.NoError(t, err)
			assert.Equal(t, tc.wantName, ev.Name())
			assert.Equal(t, tc.ev, ev.Payload())

			var body map[string]any
			require.NoError(t, json.Unmarshal(ev.Data(), &body))
			assert.Contains(t, body, tc.wantKey)

			f := ev.Frame()
			assert.Equal(t, tc.wantName, f.Name)
			assert.False(t, f.KeepAlive)
		})
	}
}

func TestNewEvent_ChatTypeSurvives(t *testing.T) {
	ev, err := NewEvent(NewChat{Chat: model.Chat{ID: 3, Type: model.ChatTypePublicChannel}})
	require.NoError(t, err)
	assert.Contains(t, string(ev.Data()), `"type":"public_channel"`)
}

func TestNewEvent_Unsupported(t *testing.T) {
	_, err := NewEvent(bogusEvent{})
	assert.Error(t, err)
}

func TestRecipientSet(t *testing.T) {
	s := NewRecipientSet(4, 1, 4, 2)
	assert.Len(t, s, 3)
	assert.True(t, s.Contains(4))
	assert.False(t, s.Contains(3))
	assert.Equal(t, []int64{1, 2, 4}, s.Sorted())
}

func TestDecodeError(t *testing.T) {
	err := &DecodeError{Channel: ChannelChatUpdate, Err: ErrUnknownOp}
	assert.ErrorIs(t, err, ErrUnknownOp)
	assert.Contains(t, err.Error(), "chat_update")
}
