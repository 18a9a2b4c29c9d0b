package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/settlement_app/internal/platform/config"
	"github.com/SscSPs/settlement_app/internal/platform/locker"
	"github.com/SscSPs/settlement_app/internal/repositories/memory"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSetupRepositories_FallsBackToMemory(t *testing.T) {
	repos, closeFn, err := setupRepositories(context.Background(), &config.Config{}, discardLogger())
	require.NoError(t, err)
	require.NotNil(t, closeFn)
	defer closeFn()

	_, ok := repos.TxManager.(*memory.Store)
	assert.True(t, ok, "expected the in-memory store, got %T", repos.TxManager)
}

func TestSetupLocker_LocalWithoutRedis(t *testing.T) {
	l, closeFn := setupLocker(context.Background(), &config.Config{}, discardLogger())
	defer closeFn()

	_, ok := l.(*locker.Local)
	assert.True(t, ok, "expected a local locker, got %T", l)
}

func TestCorsConfig(t *testing.T) {
	open := corsConfig(&config.Config{})
	assert.True(t, open.AllowAllOrigins)
	assert.Contains(t, open.AllowHeaders, "X-Actor-ID")

	restricted := corsConfig(&config.Config{CORSAllowedOrigins: []string{"https://pos.example.com"}})
	assert.False(t, restricted.AllowAllOrigins)
	assert.Equal(t, []string{"https://pos.example.com"}, restricted.AllowOrigins)
	assert.NoError(t, restricted.Validate())
}
