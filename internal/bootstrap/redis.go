package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/uni-mart/unimart-backend/config"
)

// OpenRedis connects to the cache used for verified-token lookups. The
// service runs without it, so callers may treat an error as non-fatal.
func OpenRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("REDIS_ADDR is not set")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(pctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
