package httpserver

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"notify-srv/internal/notify"
	notifyHTTP "notify-srv/internal/notify/delivery/http"
	"notify-srv/pkg/log"
	"notify-srv/pkg/scope"
)

const defaultShutdownTimeout = 10 * time.Second

// HTTPServer represents the HTTP server with all dependencies.
// New() only wires dependencies and validates them.
// Run() (in httpserver.go) serves until its context is cancelled.
type HTTPServer struct {
	// Server configuration
	gin             *gin.Engine
	logger          log.Logger
	host            string
	port            int
	shutdownTimeout time.Duration

	// Stream core
	notifyUC notify.UseCase
	wsConfig notifyHTTP.WSConfig

	// Auth
	verifier scope.Verifier

	// External services
	dependencyCheck func(ctx context.Context) error
}

// Config is the constructor input for HTTPServer.
type Config struct {
	// Server configuration
	Host            string
	Port            int
	Mode            string
	ShutdownTimeout time.Duration

	// Stream configuration
	WSConfig notifyHTTP.WSConfig

	// Auth
	Verifier scope.Verifier

	// DependencyCheck is consulted by /ready and /health. Optional.
	DependencyCheck func(ctx context.Context) error
}

// New creates a new HTTPServer instance with the provided configuration.
// Note: This does NOT start any goroutines. Use (*HTTPServer).Run() to start the service.
func New(logger log.Logger, uc notify.UseCase, cfg Config) (*HTTPServer, error) {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	srv := &HTTPServer{
		gin:             gin.New(),
		logger:          logger,
		host:            cfg.Host,
		port:            cfg.Port,
		shutdownTimeout: cfg.ShutdownTimeout,

		notifyUC: uc,
		wsConfig: cfg.WSConfig,

		verifier:        cfg.Verifier,
		dependencyCheck: cfg.DependencyCheck,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}
	srv.mapHandlers()

	return srv, nil
}

// validate ensures all required dependencies are provided.
func (srv *HTTPServer) validate() error {
	if srv.logger == nil {
		return errors.New("logger is required")
	}
	if srv.port <= 0 {
		return errors.New("port is required")
	}
	if srv.notifyUC == nil {
		return errors.New("notify usecase is required")
	}
	if srv.verifier == nil {
		return errors.New("verifier is required")
	}
	return nil
}

// Handler exposes the router, mainly for tests.
func (srv *HTTPServer) Handler() *gin.Engine {
	return srv.gin
}
