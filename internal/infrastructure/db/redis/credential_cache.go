package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
)

const (
	credentialKeyPrefix  = "cred:"
	DefaultCredentialTTL = 5 * time.Minute
)

// CredentialCache remembers recently verified credentials so repeated ingest
// requests skip the password hash. Keys are digests; no secret is stored.
type CredentialCache struct {
	cache *cache.Cache[string]
}

// NewCredentialCache wraps client in a gocache store whose entries expire after ttl.
func NewCredentialCache(client *redis.Client, ttl time.Duration) *CredentialCache {
	if ttl <= 0 {
		ttl = DefaultCredentialTTL
	}
	redisStore := redisstore.NewRedis(client, store.WithExpiration(ttl))
	return &CredentialCache{cache: cache.New[string](redisStore)}
}

// Seen reports whether key was remembered and has not yet expired.
func (c *CredentialCache) Seen(ctx context.Context, key string) (bool, error) {
	_, err := c.cache.Get(ctx, credentialKeyPrefix+key)
	if err != nil {
		if errors.Is(err, store.NotFound{}) {
			return false, nil
		}
		return false, fmt.Errorf("credential cache get: %w", err)
	}
	return true, nil
}

func (c *CredentialCache) Remember(ctx context.Context, key string) error {
	if err := c.cache.Set(ctx, credentialKeyPrefix+key, "1"); err != nil {
		return fmt.Errorf("credential cache set: %w", err)
	}
	return nil
}
