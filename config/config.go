package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
)

// Feed drivers.
const (
	FeedDriverPostgres = "postgres"
	FeedDriverRedis    = "redis"
)

var (
	ErrDatabaseURLRequired = errors.New("config: DATABASE_URL is required for the postgres feed driver")
	ErrUnknownFeedDriver   = errors.New("config: unknown FEED_DRIVER")
	ErrJWTKeyRequired      = errors.New("config: one of JWT_SECRET_KEY or JWT_PUBLIC_KEY_PATH is required")
	ErrInvalidDuration     = errors.New("config: durations must be positive")
	ErrInvalidCapacity     = errors.New("config: STREAM_CHANNEL_CAPACITY must be positive")
	ErrInvalidServerMode   = errors.New("config: SERVER_MODE must be debug, release or test")
)

type Config struct {
	// Server Configuration
	Server ServerConfig
	Logger LoggerConfig

	// Change Feed Configuration
	Database DatabaseConfig
	Feed     FeedConfig
	Redis    RedisConfig

	// Stream Configuration
	Stream    StreamConfig
	WebSocket WebSocketConfig

	// Authentication Configuration
	JWT JWTConfig
}

// ServerConfig is the configuration for the HTTP server
type ServerConfig struct {
	Host            string        `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port            int           `env:"SERVER_PORT" envDefault:"6687"`
	Mode            string        `env:"SERVER_MODE" envDefault:"release"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// LoggerConfig is the configuration for the logger
type LoggerConfig struct {
	Level        string `env:"LOGGER_LEVEL" envDefault:"info"`
	Mode         string `env:"LOGGER_MODE" envDefault:"production"`
	Encoding     string `env:"LOGGER_ENCODING" envDefault:"json"`
	ColorEnabled bool   `env:"LOGGER_COLOR_ENABLED" envDefault:"false"`
}

// DatabaseConfig is the configuration for the PostgreSQL change feed
type DatabaseConfig struct {
	URL string `env:"DATABASE_URL"`
}

// FeedConfig selects and tunes the change-feed driver
type FeedConfig struct {
	Driver         string        `env:"FEED_DRIVER" envDefault:"postgres"`
	PingInterval   time.Duration `env:"FEED_PING_INTERVAL" envDefault:"90s"`
	ConnectTimeout time.Duration `env:"FEED_CONNECT_TIMEOUT" envDefault:"5s"`
}

// RedisConfig is the configuration for Redis
// Note: Only standalone mode is supported
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// StreamConfig is the configuration for stream sessions
type StreamConfig struct {
	KeepAliveInterval time.Duration `env:"STREAM_KEEPALIVE_INTERVAL" envDefault:"15s"`
	ChannelCapacity   int           `env:"STREAM_CHANNEL_CAPACITY" envDefault:"256"`
}

// WebSocketConfig is the configuration for WebSocket connections
type WebSocketConfig struct {
	WriteWait       time.Duration `env:"WS_WRITE_WAIT" envDefault:"10s"`
	PongWait        time.Duration `env:"WS_PONG_WAIT" envDefault:"60s"`
	ReadBufferSize  int           `env:"WS_READ_BUFFER_SIZE" envDefault:"1024"`
	WriteBufferSize int           `env:"WS_WRITE_BUFFER_SIZE" envDefault:"1024"`
}

// JWTConfig is the configuration for the JWT
type JWTConfig struct {
	SecretKey     string `env:"JWT_SECRET_KEY"`
	PublicKeyPath string `env:"JWT_PUBLIC_KEY_PATH"`
	Issuer        string `env:"JWT_ISSUER" envDefault:"chat_server"`
	Audience      string `env:"JWT_AUDIENCE" envDefault:"chat_client"`
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field requirements that env tags cannot express.
func (c *Config) Validate() error {
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidServerMode, c.Server.Mode)
	}

	switch c.Feed.Driver {
	case FeedDriverPostgres:
		if c.Database.URL == "" {
			return ErrDatabaseURLRequired
		}
	case FeedDriverRedis:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFeedDriver, c.Feed.Driver)
	}

	if c.JWT.SecretKey == "" && c.JWT.PublicKeyPath == "" {
		return ErrJWTKeyRequired
	}

	for _, d := range []time.Duration{
		c.Server.ShutdownTimeout,
		c.Feed.PingInterval,
		c.Feed.ConnectTimeout,
		c.Stream.KeepAliveInterval,
		c.WebSocket.WriteWait,
		c.WebSocket.PongWait,
	} {
		if d <= 0 {
			return ErrInvalidDuration
		}
	}
	if c.Stream.ChannelCapacity <= 0 {
		return ErrInvalidCapacity
	}
	return nil
}
