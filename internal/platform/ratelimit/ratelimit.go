// Package ratelimit builds the limiter guarding the public auth routes.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// KeyPrefix namespaces limiter keys in a shared store.
const KeyPrefix = "sismog:ratelimit"

// New returns a limiter for rate ("10-M" style). With a non-empty redisURL
// the counters live in redis and are shared between instances; otherwise
// they are process-local. The returned close func releases the redis client.
func New(ctx context.Context, rate, redisURL string, logger *slog.Logger) (*limiter.Limiter, func() error, error) {
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid rate limit %q: %w", rate, err)
	}

	if redisURL == "" {
		logger.Info("Rate limiter using in-memory store", slog.String("rate", rate))
		store := memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: KeyPrefix})
		return limiter.New(store, parsed), func() error { return nil }, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: KeyPrefix})
	if err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to create redis limiter store: %w", err)
	}
	logger.Info("Rate limiter using redis store", slog.String("rate", rate), slog.String("addr", opts.Addr))
	return limiter.New(store, parsed), client.Close, nil
}
