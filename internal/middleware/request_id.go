package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"notify-srv/pkg/log"
)

const HeaderRequestID = "X-Request-ID"

// RequestID propagates the caller's X-Request-ID or assigns a UUIDv7. The
// id is echoed on the response and bound to the request's logger.
func (m Middleware) RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			v7, err := uuid.NewV7()
			if err != nil {
				m.l.Warnf(c.Request.Context(), "middleware.RequestID.NewV7: %v", err)
				v7 = uuid.New()
			}
			id = v7.String()
			c.Request.Header.Set(HeaderRequestID, id)
		}
		c.Header(HeaderRequestID, id)

		ctx := log.WithContext(c.Request.Context(), m.l.With("request_id", id))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
