package log

import (
	"context"

	"go.uber.org/zap"
)

// Logger is the structured, context-first logger used across the service.
// Implementations are safe for concurrent use.
type Logger interface {
	Debug(ctx context.Context, arg ...any)
	Debugf(ctx context.Context, template string, arg ...any)
	Info(ctx context.Context, arg ...any)
	Infof(ctx context.Context, template string, arg ...any)
	Warn(ctx context.Context, arg ...any)
	Warnf(ctx context.Context, template string, arg ...any)
	Error(ctx context.Context, arg ...any)
	Errorf(ctx context.Context, template string, arg ...any)
	Fatal(ctx context.Context, arg ...any)
	Fatalf(ctx context.Context, template string, arg ...any)

	// With returns a child logger that adds key/value pairs to every entry.
	With(keysAndValues ...any) Logger
}

// Init builds a Logger from the given Zap configuration.
func Init(cfg ZapConfig) Logger {
	logger := &zapLogger{cfg: &cfg}
	logger.init()
	return logger
}

// NewNop returns a Logger that discards everything.
func NewNop() Logger {
	return &zapLogger{
		cfg:         &ZapConfig{},
		sugarLogger: zap.NewNop().Sugar(),
	}
}

// WithContext stores l in ctx so that entries logged with ctx carry the
// fields already bound to l (request id, user id).
func WithContext(ctx context.Context, l Logger) context.Context {
	zl, ok := l.(*zapLogger)
	if !ok {
		return ctx
	}
	return context.WithValue(ctx, loggerKey{}, zl.sugarLogger)
}
