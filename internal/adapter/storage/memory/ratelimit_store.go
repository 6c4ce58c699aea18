// Package memory holds in-process fallbacks for stores normally backed by
// Redis. State is per process and lost on restart.
package memory

import (
	"context"
	"fmt"
	"time"

	"umkm-terminal/internal/core/ports"
	"umkm-terminal/pkg/ttlcache"
)

// purgeThreshold bounds how many stale window counters accumulate before a
// sweep.
const purgeThreshold = 10_000

// RateLimitStore implements ports.RateLimitStore with fixed windows held in
// a ttlcache. It uses the same window arithmetic as the Redis store.
type RateLimitStore struct {
	counters *ttlcache.Cache[string, int64]
	now      ttlcache.Clock
}

// NewRateLimitStore creates an in-process store. maxWindow must cover the
// longest window any rule uses. A nil clock uses time.Now.
func NewRateLimitStore(maxWindow time.Duration, clock ttlcache.Clock) *RateLimitStore {
	if clock == nil {
		clock = time.Now
	}
	return &RateLimitStore{
		counters: ttlcache.New[string, int64](maxWindow+time.Second, clock),
		now:      clock,
	}
}

// Allow counts one request against key in the current window.
func (s *RateLimitStore) Allow(_ context.Context, key string, limit int64, window time.Duration) (*ports.RateLimitResult, error) {
	secs := int64(window / time.Second)
	if secs < 1 {
		secs = 1
	}
	windowID := s.now().Unix() / secs

	if s.counters.Len() > purgeThreshold {
		s.counters.Purge()
	}

	count := s.counters.Update(fmt.Sprintf("%s:%d", key, windowID), func(old int64, _ bool) int64 {
		return old + 1
	})

	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return &ports.RateLimitResult{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   (windowID + 1) * secs,
	}, nil
}
