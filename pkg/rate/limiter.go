package rate

import (
	"sync"

	"golang.org/x/time/rate"

	"github.com/solfund/solfund-server/pkg/cache"
)

const (
	// DefaultMaxKeys bounds how many per-key limiters a local limiter tracks.
	// The least recently used key is forgotten first, which resets its budget.
	DefaultMaxKeys = 100_000
)

// Limiter limits operations based on a provided key.
type Limiter interface {
	Allow(key string) (bool, error)
}

// LimiterCtor allows the creation of a Limiter using a provided rate.
type LimiterCtor func(rate float64) Limiter

type localRateLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters cache.Cache[*rate.Limiter]
}

// NewLocalRateLimiter returns an in memory limiter allowing limit operations
// per second per key, with a burst equal to the limit.
func NewLocalRateLimiter(limit rate.Limit) Limiter {
	return NewLocalRateLimiterWithBurst(limit, int(limit), DefaultMaxKeys)
}

// NewLocalRateLimiterWithBurst returns an in memory limiter with an explicit
// burst, tracking at most maxKeys keys.
func NewLocalRateLimiterWithBurst(limit rate.Limit, burst, maxKeys int) Limiter {
	if burst < 1 {
		burst = 1
	}
	if maxKeys < 1 {
		maxKeys = DefaultMaxKeys
	}

	return &localRateLimiter{
		limit:    limit,
		burst:    burst,
		limiters: cache.New[*rate.Limiter](maxKeys),
	}
}

// Allow implements limiter.Allow.
func (l *localRateLimiter) Allow(key string) (bool, error) {
	l.mu.Lock()
	limiter, ok := l.limiters.Retrieve(key)
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		if err := l.limiters.Insert(key, limiter, 1); err != nil {
			l.mu.Unlock()
			return false, err
		}
	}
	l.mu.Unlock()

	return limiter.Allow(), nil
}

// NoLimiter never limits operations
type NoLimiter struct {
}

// Allow implements limiter.Allow.
func (n *NoLimiter) Allow(key string) (bool, error) {
	return true, nil
}
