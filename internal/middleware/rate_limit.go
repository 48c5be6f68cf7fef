package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/mealmancer/server/internal/messages"
)

// RateLimitConfig defines a fixed window limit for an endpoint group.
type RateLimitConfig struct {
	Window    time.Duration
	Limit     int
	KeyPrefix string
}

// RateLimiter enforces per-client request limits using Redis. A nil
// Redis client disables limiting entirely.
type RateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
}

func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		config: config,
	}
}

// NewAuthRateLimiter limits credential-guessing against login and signup.
func NewAuthRateLimiter(redisClient *redis.Client) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    time.Minute,
		Limit:     10,
		KeyPrefix: "rate_limit:auth",
	})
}

// Middleware returns a gin handler enforcing the limit keyed by client
// IP. A limiter backend failure never blocks the request.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil || rl.redis == nil {
			c.Next()
			return
		}

		allowed, err := rl.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logrus.WithError(err).Warn("rate limit check failed")
			c.Next()
			return
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": messages.TooManyTries})
			return
		}

		c.Next()
	}
}

// Allow counts one attempt for the key and reports whether it is within
// the window limit. INCR and EXPIRE run in one pipeline so the window
// key cannot leak without a TTL.
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	windowStart := time.Now().Truncate(rl.config.Window)
	redisKey := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, key, windowStart.Unix())

	pipe := rl.redis.Pipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.config.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	return int(incr.Val()) <= rl.config.Limit, nil
}
