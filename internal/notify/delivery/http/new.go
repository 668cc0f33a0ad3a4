package http

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"notify-srv/internal/notify"
	"notify-srv/pkg/log"
)

const (
	defaultWriteWait     = 10 * time.Second
	defaultPongWait      = 60 * time.Second
	wsMaxIncomingMessage = 512
)

// WSConfig tunes the WebSocket transport.
type WSConfig struct {
	WriteWait       time.Duration
	PongWait        time.Duration
	ReadBufferSize  int
	WriteBufferSize int
}

type Handler struct {
	uc       notify.UseCase
	l        log.Logger
	wsConfig WSConfig
	upgrader websocket.Upgrader
}

func New(uc notify.UseCase, l log.Logger, wsCfg WSConfig) *Handler {
	if wsCfg.WriteWait <= 0 {
		wsCfg.WriteWait = defaultWriteWait
	}
	if wsCfg.PongWait <= 0 {
		wsCfg.PongWait = defaultPongWait
	}
	return &Handler{
		uc:       uc,
		l:        l,
		wsConfig: wsCfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  wsCfg.ReadBufferSize,
			WriteBufferSize: wsCfg.WriteBufferSize,
			// browsers are authenticated by token, not by origin
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}
