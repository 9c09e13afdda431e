package xcontext

import (
	"context"

	"github.com/questx-lab/mintstudio/config"
	"github.com/questx-lab/mintstudio/pkg/logger"
)

type (
	configsKey struct{}
	loggerKey  struct{}
)

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

// Configs returns the configurations attached to the context, or the zero
// value if none was attached.
func Configs(ctx context.Context) config.Configs {
	cfg, ok := ctx.Value(configsKey{}).(config.Configs)
	if !ok {
		return config.Configs{}
	}

	return cfg
}

func WithLogger(ctx context.Context, l logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// Logger never returns nil. A context without a logger gets a silent one so
// that library code can log unconditionally.
func Logger(ctx context.Context) logger.Logger {
	l, ok := ctx.Value(loggerKey{}).(logger.Logger)
	if !ok || l == nil {
		return logger.NewLogger(logger.SILENCE)
	}

	return l
}
