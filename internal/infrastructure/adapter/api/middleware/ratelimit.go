package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	coreport "github.com/litepremium/coin-engine/internal/domain/port/core"
	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window per-IP limiter backed by Redis INCR/EXPIRE.
// It fails open: if Redis is unreachable the request goes through, so a
// cache outage never takes the API down with it.
type RateLimiter struct {
	client *redis.Client
	logger coreport.Logger
}

// NewRateLimiter connects to Redis. On ping failure the limiter stays
// disabled and every request is allowed.
func NewRateLimiter(addr, password string, db int, logger coreport.Logger) *RateLimiter {
	rl := &RateLimiter{logger: logger}
	if addr == "" {
		return rl
	}

	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unavailable, rate limiting disabled", map[string]any{
			"addr":  addr,
			"error": err.Error(),
		})
		return rl
	}

	rl.client = client
	return rl
}

// Close releases the Redis connection
func (rl *RateLimiter) Close() error {
	if rl.client == nil {
		return nil
	}
	return rl.client.Close()
}

// Limit returns a middleware allowing maxRequests per window per client IP
func (rl *RateLimiter) Limit(maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.client == nil {
			c.Next()
			return
		}

		key := "rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + c.ClientIP()

		val, err := rl.client.Incr(c.Request.Context(), key).Result()
		if err != nil {
			// fail open on Redis errors
			c.Header("X-RateLimit-Error", "redis-error")
			c.Next()
			return
		}

		if val == 1 {
			rl.client.Expire(c.Request.Context(), key, window)
		}

		if val > int64(maxRequests) {
			rateLimitBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		c.Next()
	}
}
