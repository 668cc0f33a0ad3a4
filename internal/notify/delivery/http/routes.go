package http

import (
	"github.com/gin-gonic/gin"

	"notify-srv/internal/middleware"
)

// RegisterRoutes registers the stream routes. Both accept the credential
// in the access_token query parameter since browsers' EventSource and
// WebSocket APIs cannot set headers.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, mw middleware.Middleware) {
	r.GET("/events", mw.Auth(), h.StreamEvents)
	r.GET("/ws", mw.Auth(), h.StreamWebSocket)
}
