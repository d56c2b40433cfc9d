package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRateLimiterPerKey(t *testing.T) {
	rl := NewMemoryRateLimiter(2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, _, err := rl.Allow(ctx, "reports", "a")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, retry, err := rl.Allow(ctx, "reports", "a")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Greater(t, retry, time.Duration(0))

	ok, _, _ = rl.Allow(ctx, "reports", "b")
	assert.True(t, ok, "other keys keep their own budget")
	ok, _, _ = rl.Allow(ctx, "checkout", "a")
	assert.True(t, ok, "other buckets keep their own budget")
}

func TestMemoryRateLimiterDropsIdleBuckets(t *testing.T) {
	rl := NewMemoryRateLimiter(1, time.Minute)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		ok, _, err := rl.Allow(ctx, "reports", fmt.Sprintf("10.0.0.%d", i))
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, _, _ := rl.Allow(ctx, "reports", "10.0.0.1")
	assert.False(t, ok)
	assert.Len(t, rl.entries, 50)

	now = now.Add(90 * time.Second)
	ok, _, _ = rl.Allow(ctx, "reports", "active")
	assert.True(t, ok)
	assert.Len(t, rl.entries, 1, "idle callers are forgotten")

	// A forgotten caller starts over with a full bucket.
	ok, _, _ = rl.Allow(ctx, "reports", "10.0.0.1")
	assert.True(t, ok)
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string, string) (bool, time.Duration, error) {
	return false, 0, errors.New("redis down")
}

func TestLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/reports", Limit(NewMemoryRateLimiter(1, time.Minute), "reports"), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	r.POST("/open", Limit(failingLimiter{}, "open"), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	do := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
		return w
	}

	assert.Equal(t, http.StatusCreated, do("/reports").Code)
	w := do("/reports")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusCreated, do("/open").Code)
}
