package ratelimit

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LACRA/agritrace360/utils"
)

// MiddlewareConfig controls Middleware.
type MiddlewareConfig struct {
	Route      string
	Requests   int
	Window     time.Duration
	FailClosed bool
}

// Middleware throttles requests per client IP and route. A nil limiter lets
// every request through.
func Middleware(limiter Limiter, cfg MiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || cfg.Requests <= 0 {
			c.Next()
			return
		}

		key := "route:" + cfg.Route + ":ip:" + c.ClientIP()
		decision, err := limiter.Allow(c.Request.Context(), key, cfg.Requests, cfg.Window)
		if err != nil {
			slog.WarnContext(c.Request.Context(), "rate limiter unavailable",
				"route", cfg.Route,
				"fail_closed", cfg.FailClosed,
				"error", err,
			)
			if cfg.FailClosed {
				utils.WriteErrorCode(c, http.StatusServiceUnavailable, utils.CodeUnavailable, "rate limiter unavailable")
				return
			}
			c.Next()
			return
		}

		writeHeaders(c, decision)
		if !decision.Allowed {
			utils.WriteErrorCode(c, http.StatusTooManyRequests, utils.CodeRateLimited, "rate limit exceeded")
			return
		}
		c.Next()
	}
}

func writeHeaders(c *gin.Context, decision Decision) {
	if decision.Limit > 0 {
		c.Header("RateLimit-Limit", strconv.Itoa(decision.Limit))
	}
	if decision.Remaining >= 0 {
		c.Header("RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	}
	if !decision.ResetAt.IsZero() {
		c.Header("RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))
		if !decision.Allowed {
			retryAfter := int64(time.Until(decision.ResetAt).Seconds())
			if retryAfter < 0 {
				retryAfter = 0
			}
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
		}
	}
}
