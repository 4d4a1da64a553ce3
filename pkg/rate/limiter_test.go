package rate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// admits reports how many of n back to back calls for key are allowed.
func admits(t *testing.T, l Limiter, key string, n int) int {
	allowed := 0
	for i := 0; i < n; i++ {
		ok, err := l.Allow(key)
		require.NoError(t, err)
		if ok {
			allowed++
		}
	}
	return allowed
}

func TestNoLimiter(t *testing.T) {
	assert.Equal(t, 10_000, admits(t, &NoLimiter{}, "", 10_000))
}

func TestLocalRateLimiter_PerKeyBudgets(t *testing.T) {
	l := NewLocalRateLimiter(rate.Limit(2))

	assert.Equal(t, 2, admits(t, l, "donor-a", 5))
	assert.Equal(t, 2, admits(t, l, "donor-b", 5))
	assert.Zero(t, admits(t, l, "donor-a", 1))
}

func TestLocalRateLimiter_Burst(t *testing.T) {
	l := NewLocalRateLimiterWithBurst(rate.Limit(0.001), 3, 10)

	for i := 0; i < 3; i++ {
		allowed, err := l.Allow("donor")
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := l.Allow("donor")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestLocalRateLimiter_FractionalLimit(t *testing.T) {
	// A limit below one per second still admits a single request.
	l := NewLocalRateLimiter(rate.Limit(0.5))

	allowed, err := l.Allow("donor")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = l.Allow("donor")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestLocalRateLimiter_EvictsLeastRecentlyUsedKey(t *testing.T) {
	l := NewLocalRateLimiterWithBurst(rate.Limit(0.001), 1, 2)

	for _, key := range []string{"a", "b"} {
		allowed, err := l.Allow(key)
		require.NoError(t, err)
		require.True(t, allowed)
	}

	allowed, err := l.Allow("a")
	require.NoError(t, err)
	assert.False(t, allowed)

	// Tracking a third key forgets b, the least recently used.
	allowed, err = l.Allow("c")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = l.Allow("b")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestLocalRateLimiter_ManyKeys(t *testing.T) {
	l := NewLocalRateLimiterWithBurst(rate.Limit(1), 1, 16)
	for i := 0; i < 1000; i++ {
		allowed, err := l.Allow(fmt.Sprintf("key%d", i))
		require.NoError(t, err)
		assert.True(t, allowed)
	}
}
