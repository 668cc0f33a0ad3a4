package usecase

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notify-srv/internal/model"
	"notify-srv/internal/notify"
)

func chat(id int64, members ...int64) model.Chat {
	ts := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)
	return model.Chat{
		ID:        id,
		WsID:      1,
		Type:      model.ChatTypeGroup,
		Members:   members,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

func chatPayload(t *testing.T, op string, before, after *model.Chat) string {
	t.Helper()
	b, err := json.Marshal(chatUpdatePayload{Op: op, Old: before, New: after})
	require.NoError(t, err)
	return string(b)
}

func ptr[T any](v T) *T { return &v }

func TestDecode_ChatUpdate(t *testing.T) {
	tcs := map[string]struct {
		op         string
		old, new   *model.Chat
		wantName   string
		wantChatID int64
		wantIDs    []int64
		wantErr    error
	}{
		"insert": {
			op:         opInsert,
			new:        ptr(chat(1, 5, 6)),
			wantName:   notify.EventNewChat,
			wantChatID: 1,
			wantIDs:    []int64{5, 6},
		},
		"delete": {
			op:         opDelete,
			old:        ptr(chat(2, 1, 2)),
			wantName:   notify.EventDeleteChat,
			wantChatID: 2,
			wantIDs:    []int64{1, 2},
		},
		"update same members in other order": {
			op:         opUpdate,
			old:        ptr(chat(3, 1, 2, 3)),
			new:        ptr(chat(3, 3, 1, 2)),
			wantName:   notify.EventUpdateChat,
			wantChatID: 3,
			wantIDs:    []int64{},
		},
		"update changed members": {
			op:         opUpdate,
			old:        ptr(chat(4, 1, 2, 3)),
			new:        ptr(chat(4, 1, 2, 4)),
			wantName:   notify.EventUpdateChat,
			wantChatID: 4,
			wantIDs:    []int64{1, 2, 3, 4},
		},
		"insert duplicate members": {
			op:         opInsert,
			new:        ptr(chat(5, 7, 7, 8)),
			wantName:   notify.EventNewChat,
			wantChatID: 5,
			wantIDs:    []int64{7, 8},
		},
		"insert with old": {
			op:      opInsert,
			old:     ptr(chat(1, 1)),
			new:     ptr(chat(1, 1)),
			wantErr: notify.ErrMissingSnapshot,
		},
		"insert without new": {
			op:      opInsert,
			wantErr: notify.ErrMissingSnapshot,
		},
		"delete without old": {
			op:      opDelete,
			new:     ptr(chat(1, 1)),
			wantErr: notify.ErrMissingSnapshot,
		},
		"update without old": {
			op:      opUpdate,
			new:     ptr(chat(1, 1)),
			wantErr: notify.ErrMissingSnapshot,
		},
		"unknown op": {
			op:      "PATCH",
			new:     ptr(chat(1, 1)),
			wantErr: notify.ErrUnknownOp,
		},
		"lowercase op": {
			op:      "insert",
			new:     ptr(chat(1, 1)),
			wantErr: notify.ErrUnknownOp,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			n, err := decode(notify.RawNotification{
				Channel: notify.ChannelChatUpdate,
				Payload: chatPayload(t, tc.op, tc.old, tc.new),
			})
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				var de *notify.DecodeError
				require.True(t, errors.As(err, &de))
				assert.Equal(t, notify.ChannelChatUpdate, de.Channel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantName, n.Event.Name())
			assert.Equal(t, tc.wantIDs, n.Recipients.Sorted())

			var got model.Chat
			require.NoError(t, json.Unmarshal(n.Event.Data(), &got))
			assert.Equal(t, tc.wantChatID, got.ID)
		})
	}
}

func TestDecode_UpdateCarriesNewSnapshot(t *testing.T) {
	old := chat(9, 1)
	updated := chat(9, 1)
	updated.Name = ptr("renamed")

	n, err := decode(notify.RawNotification{
		Channel: notify.ChannelChatUpdate,
		Payload: chatPayload(t, opUpdate, &old, &updated),
	})
	require.NoError(t, err)

	ce, ok := n.Event.Payload().(notify.UpdateChat)
	require.True(t, ok)
	require.NotNil(t, ce.Chat.Name)
	assert.Equal(t, "renamed", *ce.Chat.Name)
	assert.Empty(t, n.Recipients)
}

func TestDecode_MessagesCreate(t *testing.T) {
	tcs := map[string]struct {
		payload string
		wantIDs []int64
		wantErr error
	}{
		"message key": {
			payload: `{"message":{"id":1,"chat_id":2,"sender_id":3,"content":"hi","file":[],"created_at":"2024-07-01T10:00:00Z"},"users":[3,4]}`,
			wantIDs: []int64{3, 4},
		},
		"legacy messages key": {
			payload: `{"messages":{"id":1,"chat_id":2,"sender_id":3,"content":"hi","file":[],"created_at":"2024-07-01T10:00:00.123456+00:00"},"users":[4,3,4]}`,
			wantIDs: []int64{3, 4},
		},
		"no users": {
			payload: `{"message":{"id":1,"chat_id":2,"sender_id":3,"content":"hi","created_at":"2024-07-01T10:00:00Z"},"users":[]}`,
			wantIDs: []int64{},
		},
		"missing message": {
			payload: `{"users":[1]}`,
			wantErr: notify.ErrMissingSnapshot,
		},
		"null message": {
			payload: `{"message":null,"users":[1]}`,
			wantErr: notify.ErrMissingSnapshot,
		},
		"malformed json": {
			payload: `{"message":`,
			wantErr: notify.ErrMalformedPayload,
		},
		"users not numbers": {
			payload: `{"message":{"id":1},"users":["a"]}`,
			wantErr: notify.ErrMalformedPayload,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			n, err := decode(notify.RawNotification{Channel: notify.ChannelMessagesCreate, Payload: tc.payload})
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, notify.EventNewMessage, n.Event.Name())
			assert.Equal(t, tc.wantIDs, n.Recipients.Sorted())

			ce, ok := n.Event.Payload().(notify.NewMessage)
			require.True(t, ok)
			assert.Equal(t, int64(2), ce.Message.ChatID)
			assert.Equal(t, "hi", ce.Message.Content)
		})
	}
}

func TestDecode_UnknownChannel(t *testing.T) {
	_, err := decode(notify.RawNotification{Channel: "chat_archive", Payload: `{}`})
	require.ErrorIs(t, err, notify.ErrUnknownChannel)
	assert.Equal(t, "unknown_channel", faultReason(err))
}

func TestDecode_MalformedChatUpdate(t *testing.T) {
	_, err := decode(notify.RawNotification{Channel: notify.ChannelChatUpdate, Payload: `not json`})
	require.ErrorIs(t, err, notify.ErrMalformedPayload)
	assert.Equal(t, "malformed_payload", faultReason(err))
}
