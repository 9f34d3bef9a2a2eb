package security

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"
)

type RateLimiter struct {
	redis        *redis.Client
	maxPerMinute int
}

func NewRateLimiter(redisClient *redis.Client, maxPerMinute int) *RateLimiter {
	return &RateLimiter{redis: redisClient, maxPerMinute: maxPerMinute}
}

// Middleware limits each client IP to a fixed number of requests per
// minute, counted in Redis so limits survive restarts.
func (r *RateLimiter) Middleware() func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		userAgent := e.Request.Header.Get("User-Agent")
		if r.isSuspiciousUserAgent(userAgent) {
			return e.JSON(403, map[string]string{
				"error": "Access denied",
			})
		}

		if !r.allow(e.Request.Context(), e.RealIP()) {
			return e.JSON(429, map[string]string{
				"error": "Too many requests. Please try again later.",
			})
		}

		return e.Next()
	}
}

// allow counts the request against the caller's minute window. Redis
// outages fail open.
func (r *RateLimiter) allow(ctx context.Context, ip string) bool {
	key := fmt.Sprintf("ratelimit:%s", ip)

	count, err := r.redis.Incr(ctx, key).Result()
	if err != nil {
		return true
	}
	if count == 1 {
		r.redis.Expire(ctx, key, time.Minute)
	}
	return count <= int64(r.maxPerMinute)
}

func (r *RateLimiter) isSuspiciousUserAgent(ua string) bool {
	suspicious := []string{"bot", "crawler", "spider", "scraper"}
	for _, pattern := range suspicious {
		if strings.Contains(strings.ToLower(ua), pattern) {
			return true
		}
	}
	return false
}
