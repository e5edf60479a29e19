package security

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/redis/go-redis/v9"

	"djanselme/internal/status"
)

// RateLimiter enforces a rolling-window submission limit. Redis is the
// authoritative store so the limit survives restarts; when Redis is
// unreachable it falls back to a per-process in-memory table, which is
// best-effort and resets on cold start.
type RateLimiter struct {
	redis  *redis.Client
	limit  int
	window time.Duration

	mu       sync.Mutex
	fallback map[string][]time.Time
}

func NewRateLimiter(redisClient *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		redis:    redisClient,
		limit:    limit,
		window:   window,
		fallback: make(map[string][]time.Time),
	}
}

// Allow records one attempt under key and returns status.ErrRateLimited
// once the limit is exceeded within the window.
func (r *RateLimiter) Allow(ctx context.Context, key string) error {
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	count, err := r.redis.Incr(ctx, redisKey).Result()
	if err != nil {
		slog.Warn("rate limiter falling back to memory", "key", key, "error", err)
		return r.allowInMemory(key)
	}
	if count == 1 {
		r.redis.Expire(ctx, redisKey, r.window)
	}
	if count > int64(r.limit) {
		return status.ErrRateLimited
	}
	return nil
}

func (r *RateLimiter) allowInMemory(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-r.window)

	attempts := r.fallback[key]
	kept := attempts[:0]
	for _, t := range attempts {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) >= r.limit {
		r.fallback[key] = kept
		return status.ErrRateLimited
	}
	r.fallback[key] = append(kept, now)
	return nil
}

// SubmissionKey builds the persistence-layer limit key for a form kind.
func SubmissionKey(form, email string) string {
	return fmt.Sprintf("%s:%s", form, strings.ToLower(email))
}

// NotificationKey builds the email-function limit key. It is keyed on
// (email, client network address) independently from the persistence
// layer, since the two layers cannot atomically coordinate.
func NotificationKey(email, clientIP string) string {
	return fmt.Sprintf("notify:%s:%s", strings.ToLower(email), clientIP)
}

// AntiBotMiddleware rejects crawler user agents and throttles raw request
// frequency per IP on the notification server.
func (r *RateLimiter) AntiBotMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userAgent := c.Request().Header.Get("User-Agent")
			if isSuspiciousUserAgent(userAgent) {
				return c.JSON(403, map[string]string{
					"error": "Access denied",
				})
			}

			ip := c.RealIP()
			key := fmt.Sprintf("antibot:%s", ip)

			count, err := r.redis.Incr(context.Background(), key).Result()
			if err == nil {
				if count == 1 {
					r.redis.Expire(context.Background(), key, time.Minute)
				}
				if count > 30 { // Max 30 requests per minute
					return c.JSON(429, map[string]string{
						"error": "Too many requests",
					})
				}
			}

			return next(c)
		}
	}
}

func isSuspiciousUserAgent(ua string) bool {
	suspicious := []string{"bot", "crawler", "spider", "scraper"}
	for _, pattern := range suspicious {
		if strings.Contains(strings.ToLower(ua), pattern) {
			return true
		}
	}
	return false
}
