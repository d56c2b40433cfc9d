package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/life-lessons/api-go/utils"
)

// RateLimiter decides whether key may make another request in the named
// bucket. retryAfter is only meaningful when allowed is false.
type RateLimiter interface {
	Allow(ctx context.Context, bucket, key string) (allowed bool, retryAfter time.Duration, err error)
}

// Limit rejects callers over their budget with 429. Limiter failures let
// the request through.
func Limit(limiter RateLimiter, bucket string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := utils.GetPrincipal(c)
		if key == "" {
			key = c.ClientIP()
		}
		allowed, retryAfter, err := limiter.Allow(c.Request.Context(), bucket, key)
		if err != nil {
			l := utils.Logger(c)
			l.Warn().Err(err).Str("bucket", bucket).Msg("rate limiter unavailable")
			c.Next()
			return
		}
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Round(time.Second).Seconds())))
			utils.RespondStatus(c, http.StatusTooManyRequests, "rate_limited", "too many requests")
			return
		}
		c.Next()
	}
}

// RedisRateLimiter is a fixed window counter shared by every instance.
type RedisRateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, limit: limit, window: window}
}

func (rl *RedisRateLimiter) Allow(ctx context.Context, bucket, key string) (bool, time.Duration, error) {
	redisKey := fmt.Sprintf("rate_limit:%s:%s", bucket, key)

	count, err := rl.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, 0, err
	}
	if count == 1 {
		if err := rl.client.Expire(ctx, redisKey, rl.window).Err(); err != nil {
			return false, 0, err
		}
	}
	if count > int64(rl.limit) {
		ttl, err := rl.client.TTL(ctx, redisKey).Result()
		if err != nil || ttl < 0 {
			ttl = rl.window
		}
		return false, ttl, nil
	}
	return true, 0, nil
}

// MemoryRateLimiter keeps a token bucket per (bucket, key) in process.
// Buckets idle for a whole window are full again, so they are dropped rather
// than kept for every caller ever seen.
type MemoryRateLimiter struct {
	mu        sync.Mutex
	entries   map[string]*limiterEntry
	every     rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type limiterEntry struct {
	lim  *rate.Limiter
	seen time.Time
}

// NewMemoryRateLimiter allows limit requests per window with bursts of up to
// limit.
func NewMemoryRateLimiter(limit int, window time.Duration) *MemoryRateLimiter {
	return &MemoryRateLimiter{
		entries: make(map[string]*limiterEntry),
		every:   rate.Every(window / time.Duration(limit)),
		burst:   limit,
		idle:    window,
		now:     time.Now,
	}
}

func (rl *MemoryRateLimiter) Allow(_ context.Context, bucket, key string) (bool, time.Duration, error) {
	id := bucket + ":" + key
	now := rl.now()

	rl.mu.Lock()
	if now.Sub(rl.lastSweep) >= rl.idle {
		rl.sweepLocked(now)
	}
	e, ok := rl.entries[id]
	if !ok {
		e = &limiterEntry{lim: rate.NewLimiter(rl.every, rl.burst)}
		rl.entries[id] = e
	}
	e.seen = now
	rl.mu.Unlock()

	r := e.lim.ReserveN(now, 1)
	if !r.OK() {
		return false, 0, nil
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay, nil
	}
	return true, 0, nil
}

func (rl *MemoryRateLimiter) sweepLocked(now time.Time) {
	for id, e := range rl.entries {
		if now.Sub(e.seen) >= rl.idle {
			delete(rl.entries, id)
		}
	}
	rl.lastSweep = now
}
