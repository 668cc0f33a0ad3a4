package middleware

import (
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"notify-srv/pkg/log"
	"notify-srv/pkg/response"
)

func Recovery(logger log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				ctx := c.Request.Context()
				logger.Errorf(ctx, "Panic recovered: %v | Method: %s | Path: %s\n%s",
					err, c.Request.Method, c.Request.URL.Path, debug.Stack())

				if !c.Writer.Written() {
					response.PanicError(c, err)
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}
