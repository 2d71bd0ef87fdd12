package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/LACRA/agritrace360/internal/config"
)

// Decision is the outcome of one rate limit check.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter counts requests per key in fixed windows.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (Decision, error)
}

// New builds the limiter selected by RATE_LIMIT_BACKEND. It returns nil for "off".
func New(cfg config.RateLimitConfig) (Limiter, error) {
	switch cfg.Backend {
	case "off":
		return nil, nil
	case "memory":
		return NewMemoryLimiter(MemoryLimiterConfig{}), nil
	case "redis":
		limiter, err := NewRedisLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, nil)
		if err != nil {
			return nil, err
		}
		return limiter, nil
	default:
		return nil, fmt.Errorf("unsupported rate limit backend: %s", cfg.Backend)
	}
}
