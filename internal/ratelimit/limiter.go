package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// Limiter spaces out calls to one external service.
type Limiter struct {
	limiter *rate.Limiter
	name    string
}

// NewInterval admits one call per interval with no burst. A zero or
// negative interval disables limiting.
func NewInterval(name string, interval time.Duration) *Limiter {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Limiter{
		limiter: rate.NewLimiter(limit, 1),
		name:    name,
	}
}

// Wait blocks until the next call may start or ctx ends.
func (l *Limiter) Wait(ctx context.Context) error {
	start := time.Now()
	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait for %s: %w", l.name, err)
	}
	if waited := time.Since(start); waited >= time.Second {
		slog.Debug("Rate limited", "limiter", l.name, "waited", waited.Round(time.Millisecond))
	}
	return nil
}

// Interval is the configured spacing, zero when unlimited.
func (l *Limiter) Interval() time.Duration {
	limit := l.limiter.Limit()
	if limit == rate.Inf || limit <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / float64(limit))
}

func (l *Limiter) Name() string {
	return l.name
}
