package httpserver

import (
	"github.com/gin-gonic/gin"

	"notify-srv/pkg/errors"
	"notify-srv/pkg/response"
)

const serviceName = "notify-srv"

// healthCheck reports feed status and registry counts.
func (srv *HTTPServer) healthCheck(c *gin.Context) {
	ctx := c.Request.Context()

	stats, err := srv.notifyUC.GetStats(ctx)
	if err != nil {
		srv.logger.Errorf(ctx, "httpserver.healthCheck.GetStats: %v", err)
		response.Error(c, err)
		return
	}

	feed := "connected"
	if !srv.notifyUC.Ready() {
		feed = "disconnected"
	}
	database := "unchecked"
	if srv.dependencyCheck != nil {
		database = "connected"
		if err := srv.dependencyCheck(ctx); err != nil {
			database = "unavailable"
		}
	}

	response.OK(c, gin.H{
		"status":          "healthy",
		"service":         serviceName,
		"feed":            feed,
		"database":        database,
		"users":           stats.Users,
		"receivers":       stats.Receivers,
		"active_sessions": stats.ActiveSessions,
	})
}

// readyCheck is 503 until the change feed is subscribed and the backing
// store answers.
func (srv *HTTPServer) readyCheck(c *gin.Context) {
	ctx := c.Request.Context()

	if !srv.notifyUC.Ready() {
		response.HttpError(c, errors.NewUnavailableHTTPError("change feed not subscribed"))
		return
	}
	if srv.dependencyCheck != nil {
		if err := srv.dependencyCheck(ctx); err != nil {
			srv.logger.Warnf(ctx, "httpserver.readyCheck: %v", err)
			response.HttpError(c, errors.NewUnavailableHTTPError("backing store not available"))
			return
		}
	}

	response.OK(c, gin.H{
		"status":  "ready",
		"service": serviceName,
	})
}

func (srv *HTTPServer) liveCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "alive",
		"service": serviceName,
	})
}
