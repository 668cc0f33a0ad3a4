package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const HeaderServerTime = "X-Server-Time"

// ServerTime reports the handler's elapsed milliseconds in X-Server-Time.
// The header is written just before the response header goes out, so it
// is only meaningful on non-streaming routes.
func ServerTime() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Writer = &serverTimeWriter{ResponseWriter: c.Writer, start: start}
		c.Next()
	}
}

type serverTimeWriter struct {
	gin.ResponseWriter
	start   time.Time
	stamped bool
}

func (w *serverTimeWriter) stamp() {
	if w.stamped {
		return
	}
	w.stamped = true
	elapsed := time.Since(w.start).Milliseconds()
	w.Header().Set(HeaderServerTime, strconv.FormatInt(elapsed, 10))
}

func (w *serverTimeWriter) WriteHeader(code int) {
	w.stamp()
	w.ResponseWriter.WriteHeader(code)
}

func (w *serverTimeWriter) WriteHeaderNow() {
	w.stamp()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *serverTimeWriter) Write(b []byte) (int, error) {
	w.stamp()
	return w.ResponseWriter.Write(b)
}

func (w *serverTimeWriter) WriteString(s string) (int, error) {
	w.stamp()
	return w.ResponseWriter.WriteString(s)
}

var _ http.ResponseWriter = (*serverTimeWriter)(nil)
