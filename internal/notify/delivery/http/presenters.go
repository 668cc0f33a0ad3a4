package http

import (
	"encoding/json"

	"notify-srv/internal/notify"
)

const (
	sseContentType = "text/event-stream"
	sseKeepAlive   = ": keep-alive\n\n"
)

// wsFrame is the WebSocket text message for one event.
type wsFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func newWSFrame(f notify.Frame) wsFrame {
	return wsFrame{Event: f.Name, Data: json.RawMessage(f.Data)}
}
