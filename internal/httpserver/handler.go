package httpserver

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"notify-srv/internal/middleware"
	notifyHTTP "notify-srv/internal/notify/delivery/http"
)

func (srv *HTTPServer) mapHandlers() {
	mw := middleware.New(srv.logger, srv.verifier)

	srv.gin.Use(
		middleware.Recovery(srv.logger),
		mw.RequestID(),
		middleware.CORS(middleware.DefaultCORSConfig()),
	)

	// Health check endpoints (no auth required)
	probes := srv.gin.Group("", middleware.ServerTime())
	probes.GET("/health", srv.healthCheck)
	probes.GET("/ready", srv.readyCheck)
	probes.GET("/live", srv.liveCheck)
	probes.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Stream routes
	notifyHTTP.New(srv.notifyUC, srv.logger, srv.wsConfig).RegisterRoutes(&srv.gin.RouterGroup, mw)
}
