package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hungrymonkey/finder/internal/infrastructure/observability"
	"github.com/hungrymonkey/finder/pkg/config"
	"github.com/hungrymonkey/finder/pkg/retry"
)

// Client wraps the Redis connection backing the fixture API's verification store
type Client struct {
	client *redis.Client
}

// NewClient connects to Redis and verifies the connection, retrying while
// the server comes up.
func NewClient(ctx context.Context, cfg *config.RedisConfig) (*Client, error) {
	return newClient(ctx, cfg, retry.DefaultConfig())
}

func newClient(ctx context.Context, cfg *config.RedisConfig, retryCfg retry.Config) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.RedisAddr(),
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	logger := observability.LoggerFromContext(ctx)
	err := retry.Do(ctx, retryCfg, "Redis",
		func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return client.Ping(ctx).Err()
		},
		func(attempt int, err error, next time.Duration) {
			logger.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", next).Msg("Redis connection attempt failed")
		},
	)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.RedisAddr(), err)
	}

	return &Client{client: client}, nil
}

// Client returns the underlying Redis client
func (c *Client) Client() *redis.Client {
	return c.client
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.client.Close()
}

// Ping verifies the connection to Redis
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
