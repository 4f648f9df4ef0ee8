//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/koifarm/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) config.RedisConfig {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	return config.RedisConfig{Enabled: true, Host: host, Port: port.Int()}
}

func TestRedisIdempotencyStore(t *testing.T) {
	cfg := startRedis(t)
	ctx := context.Background()

	store, err := NewIdempotencyStoreFactory(cfg, WithInMemoryFallback(false)).CreateStore(ctx)
	require.NoError(t, err)
	defer store.Close()
	require.IsType(t, &RedisIdempotencyStore{}, store)

	isNew, err := store.MarkProcessed(ctx, "kafka:evt-1", time.Second)
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = store.MarkProcessed(ctx, "kafka:evt-1", time.Second)
	require.NoError(t, err)
	assert.False(t, isNew)

	assert.Eventually(t, func() bool {
		seen, err := store.IsProcessed(ctx, "kafka:evt-1")
		return err == nil && !seen
	}, 5*time.Second, 100*time.Millisecond, "key expires with its ttl")
}
