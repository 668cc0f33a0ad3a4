package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"notify-srv/config"
	configPostgre "notify-srv/config/postgre"
	configRedis "notify-srv/config/redis"
	"notify-srv/internal/httpserver"
	"notify-srv/internal/notify"
	notifyHTTP "notify-srv/internal/notify/delivery/http"
	notifyPostgres "notify-srv/internal/notify/delivery/postgres"
	notifyRedis "notify-srv/internal/notify/delivery/redis"
	"notify-srv/internal/notify/usecase"
	"notify-srv/internal/registry"
	"notify-srv/pkg/jwt"
	"notify-srv/pkg/log"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code: 0 on signal shutdown, 1 on startup
// failure or a lost change feed.
func run() int {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config:", err)
		return 1
	}

	// Initialize logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	// Create context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting notify service...")

	// JWT validator (verify tokens from header or query)
	jwtCfg := jwt.Config{
		SecretKey: cfg.JWT.SecretKey,
		Issuer:    cfg.JWT.Issuer,
		Audience:  cfg.JWT.Audience,
	}
	if cfg.JWT.PublicKeyPath != "" {
		pem, err := os.ReadFile(cfg.JWT.PublicKeyPath)
		if err != nil {
			logger.Errorf(ctx, "Failed to read JWT public key: %v", err)
			return 1
		}
		jwtCfg.PublicKeyPEM = pem
	}
	verifier, err := jwt.NewValidator(jwtCfg)
	if err != nil {
		logger.Errorf(ctx, "Failed to initialize JWT validator: %v", err)
		return 1
	}

	// Change feed
	var (
		feed            notify.ChangeFeed
		dependencyCheck func(context.Context) error
	)
	switch cfg.Feed.Driver {
	case config.FeedDriverRedis:
		redisClient, err := configRedis.Connect(ctx, cfg.Redis, cfg.Feed.ConnectTimeout)
		if err != nil {
			logger.Errorf(ctx, "Failed to connect to Redis: %v", err)
			return 1
		}
		dependencyCheck = redisClient.Ping
		feed = notifyRedis.New(redisClient, logger, notifyRedis.Options{
			PingInterval:   cfg.Feed.PingInterval,
			ConnectTimeout: cfg.Feed.ConnectTimeout,
		})
		logger.Info(ctx, "Redis change feed initialized")

	default:
		db, err := configPostgre.Connect(ctx, cfg.Database, cfg.Feed.ConnectTimeout)
		if err != nil {
			logger.Errorf(ctx, "Failed to connect to PostgreSQL: %v", err)
			return 1
		}
		defer configPostgre.Disconnect(db)
		dependencyCheck = func(ctx context.Context) error { return configPostgre.HealthCheck(ctx, db) }
		feed = notifyPostgres.New(logger, cfg.Database.URL, notifyPostgres.Options{
			PingInterval:   cfg.Feed.PingInterval,
			ConnectTimeout: cfg.Feed.ConnectTimeout,
		})
		logger.Info(ctx, "PostgreSQL change feed initialized")
	}

	// Registry and fanout use case
	reg := registry.New(registry.DefaultShardCount, cfg.Stream.ChannelCapacity)
	notifyUC := usecase.New(logger, reg, usecase.Options{
		KeepAlive: cfg.Stream.KeepAliveInterval,
	})

	srv, err := httpserver.New(logger, notifyUC, httpserver.Config{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		Mode:            cfg.Server.Mode,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		WSConfig: notifyHTTP.WSConfig{
			WriteWait:       cfg.WebSocket.WriteWait,
			PongWait:        cfg.WebSocket.PongWait,
			ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
			WriteBufferSize: cfg.WebSocket.WriteBufferSize,
		},
		Verifier:        verifier,
		DependencyCheck: dependencyCheck,
	})
	if err != nil {
		logger.Errorf(ctx, "Failed to initialize HTTP server: %v", err)
		return 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return notifyUC.Run(gctx, feed) })
	g.Go(func() error { return srv.Run(gctx) })

	if err := g.Wait(); err != nil {
		if errors.Is(err, notify.ErrConnectionFault) {
			logger.Errorf(ctx, "Change feed lost, exiting for restart: %v", err)
		} else {
			logger.Errorf(ctx, "Service stopped with error: %v", err)
		}
		return 1
	}

	logger.Info(ctx, "Notify service stopped gracefully")
	return 0
}
