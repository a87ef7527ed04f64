package logger_test

import (
	"context"
	"testing"

	"domainmon/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestGetFallsBackToDefault(t *testing.T) {
	require.NotNil(t, logger.Get(context.Background()))
}

func TestWithLoggerRoundTrip(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := zap.New(core)

	ctx := logger.WithLogger(context.Background(), l)
	logger.Info(ctx, "hello")

	require.Equal(t, 1, logs.Len())
	require.Equal(t, "hello", logs.All()[0].Message)
}

func TestWithFieldsAttachesToEveryLine(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx := logger.WithLogger(context.Background(), zap.New(core))
	ctx = logger.WithFields(ctx, zap.String("account", "alex"))

	logger.Info(ctx, "first")
	logger.Warn(ctx, "second")

	require.Equal(t, 2, logs.Len())
	for _, entry := range logs.All() {
		require.Equal(t, "alex", entry.ContextMap()["account"])
	}
}
