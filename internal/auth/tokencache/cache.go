// Package tokencache caches verified ID-token identities in Redis so
// hot clients do not pay a Firebase round trip on every request. The
// cache is an optimization only; it is never authoritative.
package tokencache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/uni-mart/unimart-backend/internal/auth"
)

const tokenKeyPrefix = "auth:token:" // auth:token:{sha256(idToken)}

// Cache implements auth.TokenCache on Redis.
type Cache struct {
	client *redis.Client
}

func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Get(ctx context.Context, idToken string) (*auth.Identity, bool) {
	data, err := c.client.Get(ctx, tokenKey(idToken)).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("token cache read failed", slog.String("error", err.Error()))
		return nil, false
	}

	var identity auth.Identity
	if err := json.Unmarshal([]byte(data), &identity); err != nil {
		slog.Warn("token cache entry corrupt", slog.String("error", err.Error()))
		return nil, false
	}
	return &identity, true
}

func (c *Cache) Put(ctx context.Context, idToken string, identity *auth.Identity, ttl time.Duration) {
	data, err := json.Marshal(identity)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, tokenKey(idToken), data, ttl).Err(); err != nil {
		slog.Warn("token cache write failed", slog.String("error", err.Error()))
	}
}

// tokenKey hashes the token so raw credentials never land in Redis.
func tokenKey(idToken string) string {
	sum := sha256.Sum256([]byte(idToken))
	return tokenKeyPrefix + hex.EncodeToString(sum[:])
}
