package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/cliptube/backend/internal/constants"
	"github.com/cliptube/backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimiter is a sliding-window per-IP limiter. It is intended for the
// auth endpoints, where brute forcing is the concern.
type RateLimiter struct {
	tokens     map[string][]time.Time
	maxRequest int
	duration   time.Duration
	mu         sync.Mutex
}

func NewRateLimiter(maxRequest int, duration time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:     make(map[string][]time.Time),
		maxRequest: maxRequest,
		duration:   duration,
	}
}

func (rl *RateLimiter) cleanup(now time.Time) {
	for ip, tokens := range rl.tokens {
		var valid []time.Time
		for _, t := range tokens {
			if now.Sub(t) <= rl.duration {
				valid = append(valid, t)
			}
		}
		if len(valid) > 0 {
			rl.tokens[ip] = valid
		} else {
			delete(rl.tokens, ip)
		}
	}
}

// Allow records a request for ip and reports whether it is within limits
func (rl *RateLimiter) Allow(ip string) (bool, int) {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.cleanup(now)

	tokens := rl.tokens[ip]
	if len(tokens) >= rl.maxRequest {
		return false, 0
	}

	rl.tokens[ip] = append(tokens, now)
	return true, rl.maxRequest - len(tokens) - 1
}

func RateLimit(maxRequest int, duration time.Duration) gin.HandlerFunc {
	limiter := NewRateLimiter(maxRequest, duration)

	return func(c *gin.Context) {
		ip := c.ClientIP()

		allowed, remaining := limiter.Allow(ip)
		if !allowed {
			logger.GetLogger().Warn("Rate limit exceeded",
				zap.String("client_ip", ip),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Int("max_requests", maxRequest),
				zap.Duration("duration", duration),
			)

			c.JSON(http.StatusTooManyRequests, constants.BuildErrorResponse(
				http.StatusTooManyRequests,
				"Too many requests",
				[]string{fmt.Sprintf("retry after %.0f seconds", duration.Seconds())},
			))
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", maxRequest))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		c.Next()
	}
}
