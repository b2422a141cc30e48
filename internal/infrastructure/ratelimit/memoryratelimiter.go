package ratelimit

import (
	"context"
	"sync"

	"github.com/unical-dimes/professors/internal/shared/biztime"
)

// MemoryRateLimiter is the single-process fallback used when Redis is disabled.
type MemoryRateLimiter struct {
	mu    sync.Mutex
	hits  map[string][]int64
	clock biztime.Clock
}

func NewMemoryRateLimiter(clock biztime.Clock) *MemoryRateLimiter {
	if clock == nil {
		clock = biztime.System
	}
	return &MemoryRateLimiter{
		hits:  make(map[string][]int64),
		clock: clock,
	}
}

func (l *MemoryRateLimiter) Allow(_ context.Context, key string, rule Rule) (bool, error) {
	if rule.Limit <= 0 || rule.Window <= 0 {
		return true, nil
	}

	now := l.clock.Now()
	windowStart := now.Add(-rule.Window).UnixNano()

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.hits[key][:0]
	for _, ts := range l.hits[key] {
		if ts > windowStart {
			kept = append(kept, ts)
		}
	}
	allowed := len(kept) < rule.Limit
	l.hits[key] = append(kept, now.UnixNano())
	return allowed, nil
}

func (l *MemoryRateLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	delete(l.hits, key)
	l.mu.Unlock()
	return nil
}
