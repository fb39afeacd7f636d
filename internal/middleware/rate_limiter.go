// Package middleware holds the gin middleware chain: rate limiting runs
// before authentication, which runs before authorization. Ordering matters;
// unauthenticated floods must be priced before any credential work.
package middleware

import (
	"net"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nahashon-source/globalship-backend/internal/ratelimit"
	"github.com/nahashon-source/globalship-backend/pkg/logger"
	"github.com/nahashon-source/globalship-backend/pkg/response"
)

// KeyFunc derives the rate-limit key for a request
type KeyFunc func(c *gin.Context) string

// PeerAddressKey keys on the network-layer peer address. Forwarded headers
// are deliberately ignored: they are client-controlled.
func PeerAddressKey(c *gin.Context) string {
	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return host
}

// RateLimitConfig holds rate limiter configuration
type RateLimitConfig struct {
	Limit       int
	Window      time.Duration
	ExemptPaths []string
	Key         KeyFunc
}

// RateLimit enforces a fixed-window request limit per key. Exempt paths are
// matched exactly and skip the counter entirely. A counter failure or panic
// lets the request through: availability over strictness.
func RateLimit(counter *ratelimit.Counter, cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Key == nil {
		cfg.Key = PeerAddressKey
	}
	exempt := make(map[string]struct{}, len(cfg.ExemptPaths))
	for _, path := range cfg.ExemptPaths {
		exempt[path] = struct{}{}
	}
	windowSeconds := int(cfg.Window / time.Second)

	return func(c *gin.Context) {
		if _, ok := exempt[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		result, err := check(counter, c, cfg)
		if err != nil {
			logger.Get().Warn("rate limiter unavailable, allowing request",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			c.Next()
			return
		}

		remaining := int64(cfg.Limit) - result.Count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.Itoa(windowSeconds))

		if !result.Allowed {
			response.TooManyRequests(c, windowSeconds)
			return
		}
		c.Next()
	}
}

// check runs the counter with panic containment so a counter bug degrades
// to fail-open instead of a 500
func check(counter *ratelimit.Counter, c *gin.Context, cfg RateLimitConfig) (result ratelimit.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Get().Error("rate limiter panic", zap.Any("panic", r))
			err = ratelimit.ErrPanicked
		}
	}()
	return counter.IncrementAndCheck(c.Request.Context(), cfg.Key(c), cfg.Limit, cfg.Window)
}
