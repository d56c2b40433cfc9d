package config

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/life-lessons/api-go/identity"
	"github.com/life-lessons/api-go/middleware"
	"github.com/life-lessons/api-go/storage"
)

func NewVerifier(ctx context.Context, cfg *Config) (identity.Verifier, error) {
	if cfg.IdentityProvider == IdentityJWT {
		return identity.NewJWTVerifier(cfg.JWTSecret), nil
	}
	return identity.NewFirebaseVerifier(ctx, cfg.FirebaseServiceKey)
}

// NewRateLimiter returns the shared redis limiter when REDIS_ADDR is set and
// a per-process limiter otherwise. The close func releases the redis client.
func NewRateLimiter(cfg *Config) (middleware.RateLimiter, func() error) {
	if cfg.RedisAddr == "" {
		return middleware.NewMemoryRateLimiter(cfg.RateLimitPerMinute, time.Minute), func() error { return nil }
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	return middleware.NewRedisRateLimiter(client, cfg.RateLimitPerMinute, time.Minute), client.Close
}

// NewPresigner returns nil when object storage is not configured.
func NewPresigner(cfg *Config) storage.Presigner {
	r2 := cfg.R2()
	if !r2.Enabled() {
		return nil
	}
	return storage.NewR2Presigner(r2)
}
