package logger_test

import (
	"context"
	"testing"

	"github.com/AlfredBerg/rod-profile-scraper/internal/logger"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetup(t *testing.T) {
	for _, env := range []string{logger.DevelopmentEnvironment, logger.ProductionEnvironment, "staging"} {
		require.NoError(t, logger.Setup(env), env)
		require.NotNil(t, logger.Get(context.Background()))
	}
}

func TestGetPrefersContextLogger(t *testing.T) {
	custom := zap.NewExample()
	ctx := logger.WithLogger(context.Background(), custom)
	require.Same(t, custom, logger.Get(ctx))
}

func TestWithFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := logger.WithLogger(context.Background(), zap.New(core))
	ctx = logger.WithFields(ctx, zap.String("url", "https://twitter.com/a"))

	logger.Debug(ctx, "d")
	logger.Info(ctx, "i")
	logger.Warn(ctx, "w")
	logger.Error(ctx, "e")

	require.Equal(t, 4, logs.Len())
	for _, entry := range logs.All() {
		require.Equal(t, "https://twitter.com/a", entry.ContextMap()["url"])
	}
}
