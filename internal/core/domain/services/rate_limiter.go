package services

import (
	"context"
	"fmt"
	"time"

	"bagpub/internal/core/domain/model/kernel"
	"bagpub/internal/core/ports"
	"bagpub/internal/pkg/errs"

	"github.com/jonboulle/clockwork"
)

const (
	DefaultCreationLimit  = 10
	DefaultCreationWindow = time.Hour
)

// RateLimiter throttles campaign creation per client over fixed windows aligned on
// the window length. The limit-th request of a window is the last one accepted.
type RateLimiter struct {
	counter ports.RateCounter
	clock   clockwork.Clock
	limit   int
	window  time.Duration
}

// NewRateLimiter falls back to DefaultCreationLimit and DefaultCreationWindow for
// non-positive values.
func NewRateLimiter(counter ports.RateCounter, clock clockwork.Clock, limit int, window time.Duration) RateLimiter {
	if limit <= 0 {
		limit = DefaultCreationLimit
	}
	if window <= 0 {
		window = DefaultCreationWindow
	}
	return RateLimiter{counter: counter, clock: clock, limit: limit, window: window}
}

// Allow counts one creation attempt for clientID and returns errs.RateLimitedError
// once the window's count exceeds the limit.
func (l RateLimiter) Allow(ctx context.Context, clientID kernel.UUID) error {
	now := l.clock.Now()
	windowStart := now.Truncate(l.window)
	key := "campaign_create:" + clientID.String()

	count, err := l.counter.Increment(ctx, key, windowStart, l.window)
	if err != nil {
		return fmt.Errorf("increment rate counter: %w", err)
	}
	if count > l.limit {
		return errs.NewRateLimitedError(key, l.limit, windowStart.Add(l.window).Sub(now))
	}
	return nil
}
