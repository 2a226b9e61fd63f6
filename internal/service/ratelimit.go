package service

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter spaces outbound calls to the vision service
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter allows one call per interval; a zero interval disables throttling
func NewRateLimiter(interval time.Duration) *RateLimiter {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Wait blocks until the limiter allows another call
func (rl *RateLimiter) Wait(ctx context.Context) error {
	return rl.limiter.Wait(ctx)
}
