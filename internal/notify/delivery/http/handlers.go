package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"notify-srv/internal/metrics"
	"notify-srv/pkg/response"
	"notify-srv/pkg/scope"
)

// StreamEvents serves the principal's events as Server-Sent Events until
// the client disconnects or the server shuts down.
func (h *Handler) StreamEvents(c *gin.Context) {
	ctx := c.Request.Context()

	principal, ok := scope.GetPrincipalFromContext(ctx)
	if !ok {
		response.Unauthorized(c)
		return
	}

	st, err := h.uc.Subscribe(ctx, principal)
	if err != nil {
		// the client is already gone; there is nobody to answer
		h.l.Debugf(ctx, "notify.delivery.http.StreamEvents.Subscribe: %v", err)
		return
	}
	defer st.Close()

	sessions := metrics.ActiveSessions.WithLabelValues("sse")
	sessions.Inc()
	defer sessions.Dec()

	header := c.Writer.Header()
	header.Set("Content-Type", sseContentType)
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()
	c.Writer.Flush()

	for {
		f, err := st.Next(ctx)
		if err != nil {
			h.l.Debugf(ctx, "notify.delivery.http.StreamEvents: user %d stream ended: %v", principal.UserID, err)
			return
		}

		if f.KeepAlive {
			if _, err := io.WriteString(c.Writer, sseKeepAlive); err != nil {
				return
			}
		} else {
			c.SSEvent(f.Name, string(f.Data))
			if c.IsAborted() {
				return
			}
		}
		c.Writer.Flush()
	}
}
