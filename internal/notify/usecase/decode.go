package usecase

import (
	"encoding/json"
	"errors"
	"fmt"

	"notify-srv/internal/model"
	"notify-srv/internal/notify"
)

const (
	opInsert = "INSERT"
	opUpdate = "UPDATE"
	opDelete = "DELETE"
)

type chatUpdatePayload struct {
	Op  string      `json:"op"`
	Old *model.Chat `json:"old"`
	New *model.Chat `json:"new"`
}

type messageCreatePayload struct {
	Message *model.Message `json:"message"`
	// Messages is the key written by older trigger versions.
	Messages *model.Message `json:"messages"`
	Users    []int64        `json:"users"`
}

// decode turns one raw notification into an event and its recipients.
// Every failure is a *notify.DecodeError.
func decode(raw notify.RawNotification) (notify.Notification, error) {
	var (
		ce         notify.ChatEvent
		recipients notify.RecipientSet
		err        error
	)
	switch raw.Channel {
	case notify.ChannelChatUpdate:
		ce, recipients, err = decodeChatUpdate(raw.Payload)
	case notify.ChannelMessagesCreate:
		ce, recipients, err = decodeMessageCreate(raw.Payload)
	default:
		err = notify.ErrUnknownChannel
	}
	if err != nil {
		return notify.Notification{}, &notify.DecodeError{Channel: raw.Channel, Err: err}
	}

	ev, err := notify.NewEvent(ce)
	if err != nil {
		return notify.Notification{}, &notify.DecodeError{
			Channel: raw.Channel,
			Err:     fmt.Errorf("%w: %v", notify.ErrMalformedPayload, err),
		}
	}
	return notify.Notification{Event: ev, Recipients: recipients}, nil
}

func decodeChatUpdate(payload string) (notify.ChatEvent, notify.RecipientSet, error) {
	var p chatUpdatePayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", notify.ErrMalformedPayload, err)
	}

	switch p.Op {
	case opInsert:
		if p.Old != nil || p.New == nil {
			return nil, nil, fmt.Errorf("%w: %s needs new only", notify.ErrMissingSnapshot, p.Op)
		}
		return notify.NewChat{Chat: *p.New}, notify.NewRecipientSet(p.New.Members...), nil

	case opDelete:
		if p.Old == nil || p.New != nil {
			return nil, nil, fmt.Errorf("%w: %s needs old only", notify.ErrMissingSnapshot, p.Op)
		}
		return notify.DeleteChat{Chat: *p.Old}, notify.NewRecipientSet(p.Old.Members...), nil

	case opUpdate:
		if p.Old == nil || p.New == nil {
			return nil, nil, fmt.Errorf("%w: %s needs old and new", notify.ErrMissingSnapshot, p.Op)
		}
		return notify.UpdateChat{Chat: *p.New}, updateRecipients(p.Old.MemberSet(), p.New.MemberSet()), nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", notify.ErrUnknownOp, p.Op)
	}
}

// updateRecipients is empty when membership is unchanged, else the union
// of old and new members.
func updateRecipients(before, after map[int64]struct{}) notify.RecipientSet {
	if sameMembers(before, after) {
		return notify.RecipientSet{}
	}
	set := make(notify.RecipientSet, len(before)+len(after))
	for id := range before {
		set[id] = struct{}{}
	}
	for id := range after {
		set[id] = struct{}{}
	}
	return set
}

func sameMembers(a, b map[int64]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if _, ok := b[id]; !ok {
			return false
		}
	}
	return true
}

func decodeMessageCreate(payload string) (notify.ChatEvent, notify.RecipientSet, error) {
	var p messageCreatePayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", notify.ErrMalformedPayload, err)
	}

	msg := p.Message
	if msg == nil {
		msg = p.Messages
	}
	if msg == nil {
		return nil, nil, fmt.Errorf("%w: message", notify.ErrMissingSnapshot)
	}
	return notify.NewMessage{Message: *msg}, notify.NewRecipientSet(p.Users...), nil
}

// faultReason is the metrics label for a decode error.
func faultReason(err error) string {
	switch {
	case errors.Is(err, notify.ErrUnknownChannel):
		return "unknown_channel"
	case errors.Is(err, notify.ErrUnknownOp):
		return "unknown_op"
	case errors.Is(err, notify.ErrMissingSnapshot):
		return "missing_snapshot"
	case errors.Is(err, notify.ErrMalformedPayload):
		return "malformed_payload"
	default:
		return "other"
	}
}
