package ports

import (
	"context"
	"time"
)

// RateCounter is a shared fixed-window counter. Increment must be atomic across
// concurrent callers and service instances.
type RateCounter interface {
	// Increment adds one to the counter of key for the window starting at windowStart
	// and returns the new count.
	Increment(ctx context.Context, key string, windowStart time.Time, window time.Duration) (int, error)
}
