//go:build integration

package cache

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hungrymonkey/finder/internal/domain/providers"
	redisclient "github.com/hungrymonkey/finder/internal/infrastructure/clients/redis"
	"github.com/hungrymonkey/finder/pkg/config"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func newTestRedisAdapter(t *testing.T) providers.CacheProvider {
	t.Helper()

	cfg := &config.RedisConfig{
		Host:     getEnv("TEST_REDIS_HOST", "localhost"),
		Port:     getEnvAsInt("TEST_REDIS_PORT", 6379),
		Password: getEnv("TEST_REDIS_PASSWORD", ""),
		DB:       getEnvAsInt("TEST_REDIS_DB", 0),
	}

	client, err := redisclient.NewClient(context.Background(), cfg)
	require.NoError(t, err, "Failed to connect to test Redis")
	t.Cleanup(func() { client.Close() })

	// A fresh prefix per test keeps runs independent.
	return NewRedisAdapter(client, "finder-test:"+uuid.NewString()+":")
}

func TestRedisAdapter_RoundTrip(t *testing.T) {
	ctx := context.Background()
	adapter := newTestRedisAdapter(t)

	_, err := adapter.Get(ctx, "hours:missing")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)

	require.NoError(t, adapter.Set(ctx, "hours:abc", []byte(`{"time_open":"11:00"}`), 60))

	got, err := adapter.Get(ctx, "hours:abc")
	require.NoError(t, err)
	assert.JSONEq(t, `{"time_open":"11:00"}`, string(got))

	exists, err := adapter.Exists(ctx, "hours:abc")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, adapter.Delete(ctx, "hours:abc"))
	exists, err = adapter.Exists(ctx, "hours:abc")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRedisAdapter_Expiry(t *testing.T) {
	ctx := context.Background()
	adapter := newTestRedisAdapter(t)

	require.NoError(t, adapter.Set(ctx, "verification:abc", []byte("{}"), 1))

	assert.Eventually(t, func() bool {
		_, err := adapter.Get(ctx, "verification:abc")
		return err == providers.ErrCacheMiss
	}, 3*time.Second, 100*time.Millisecond)
}
