package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/unical-dimes/professors/internal/infrastructure/ratelimit"
	"github.com/unical-dimes/professors/internal/shared/errors"
	"github.com/unical-dimes/professors/internal/shared/logger"
	"github.com/unical-dimes/professors/internal/shared/utils"
)

// RateLimiter throttles requests per client IP. The counter store is the
// Redis limiter in multi-instance deployments and the memory one otherwise.
type RateLimiter struct {
	limiter ratelimit.RateLimiter
	rule    ratelimit.Rule
	logger  logger.Interface
}

func NewRateLimiter(limiter ratelimit.RateLimiter, rule ratelimit.Rule, logger logger.Interface) *RateLimiter {
	return &RateLimiter{
		limiter: limiter,
		rule:    rule,
		logger:  logger,
	}
}

// Limit counts under scope so each endpoint has its own budget.
func (rl *RateLimiter) Limit(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := scope + ":" + c.ClientIP()
		allowed, err := rl.limiter.Allow(c.Request.Context(), key, rl.rule)
		if err != nil {
			// Fail open when the store is unavailable.
			rl.logger.Warnw("rate limiter unavailable", "error", err, "scope", scope)
			c.Next()
			return
		}

		if !allowed {
			rl.logger.Warnw("rate limit exceeded", "scope", scope, "client_ip", c.ClientIP())
			utils.ErrorResponseWithError(c, errors.NewRateLimitedError())
			c.Abort()
			return
		}

		c.Next()
	}
}
