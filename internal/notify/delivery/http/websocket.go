package http

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"notify-srv/internal/metrics"
	"notify-srv/internal/notify"
	"notify-srv/pkg/response"
	"notify-srv/pkg/scope"
)

// StreamWebSocket serves the principal's events over a WebSocket. Each
// event is a JSON text message; keep-alives are ping frames.
func (h *Handler) StreamWebSocket(c *gin.Context) {
	ctx := c.Request.Context()

	principal, ok := scope.GetPrincipalFromContext(ctx)
	if !ok {
		response.Unauthorized(c)
		return
	}

	st, err := h.uc.Subscribe(ctx, principal)
	if err != nil {
		// the client is already gone; there is nobody to answer
		h.l.Debugf(ctx, "notify.delivery.http.StreamWebSocket.Subscribe: %v", err)
		return
	}
	defer st.Close()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader has already answered the request
		h.l.Warnf(ctx, "notify.delivery.http.StreamWebSocket.Upgrade: %v", err)
		return
	}
	defer conn.Close()

	sessions := metrics.ActiveSessions.WithLabelValues("ws")
	sessions.Inc()
	defer sessions.Dec()

	// a hijacked connection does not cancel the request context on
	// disconnect, so the read pump does
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer cancel()
		h.readPump(conn)
	}()

	h.writePump(ctx, conn, st)
	_ = conn.Close()
	<-done
}

// readPump discards client messages and extends the read deadline on
// every pong. It returns when the connection fails or closes.
func (h *Handler) readPump(conn *websocket.Conn) {
	conn.SetReadLimit(wsMaxIncomingMessage)
	_ = conn.SetReadDeadline(time.Now().Add(h.wsConfig.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.wsConfig.PongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Handler) writePump(ctx context.Context, conn *websocket.Conn, st notify.Stream) {
	for {
		f, err := st.Next(ctx)
		if err != nil {
			deadline := time.Now().Add(h.wsConfig.WriteWait)
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "")
			_ = conn.WriteControl(websocket.CloseMessage, msg, deadline)
			return
		}

		if f.KeepAlive {
			deadline := time.Now().Add(h.wsConfig.WriteWait)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
			continue
		}

		_ = conn.SetWriteDeadline(time.Now().Add(h.wsConfig.WriteWait))
		if err := conn.WriteJSON(newWSFrame(f)); err != nil {
			h.l.Debugf(ctx, "notify.delivery.http.writePump: %v", err)
			return
		}
	}
}
