package xcontext

import (
	"context"
	"testing"

	"github.com/questx-lab/mintstudio/config"
	"github.com/questx-lab/mintstudio/pkg/logger"
	"github.com/stretchr/testify/require"
)

func TestConfigs(t *testing.T) {
	ctx := context.Background()
	require.Equal(t, config.Configs{}, Configs(ctx))

	cfg := config.Configs{Env: "test"}
	ctx = WithConfigs(ctx, cfg)
	require.Equal(t, "test", Configs(ctx).Env)
}

func TestLogger(t *testing.T) {
	require.NotNil(t, Logger(context.Background()))

	l := logger.NewLogger(logger.DEBUG)
	ctx := WithLogger(context.Background(), l)
	require.Equal(t, l, Logger(ctx))
}
