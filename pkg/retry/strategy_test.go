package retry

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/solfund/solfund-server/pkg/retry/backoff"
)

func TestLimit(t *testing.T) {
	s := Limit(2)
	assert.True(t, s(1, errors.New("err")))
	assert.False(t, s(2, errors.New("err")))
}

func TestErrorFilters(t *testing.T) {
	errTimeout := errors.New("timeout")
	errRejected := errors.New("rejected")

	retriable := RetriableErrors(errTimeout)
	assert.True(t, retriable(1, errTimeout))
	assert.True(t, retriable(1, errors.Wrap(errTimeout, "get signature status")))
	assert.False(t, retriable(1, errRejected))

	nonRetriable := NonRetriableErrors(errRejected)
	assert.False(t, nonRetriable(1, errors.Wrap(errRejected, "send")))
	assert.True(t, nonRetriable(1, errTimeout))

	fn := RetriableFunc(func(err error) bool { return err == errTimeout })
	assert.True(t, fn(1, errTimeout))
	assert.False(t, fn(1, errRejected))
}

func TestContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := Context(ctx)
	assert.True(t, s(1, errors.New("err")))

	cancel()
	assert.False(t, s(2, errors.New("err")))

	var calls int
	attempts, err := Retry(func() error {
		calls++
		return errors.New("err")
	}, Context(ctx), Limit(10))
	assert.Error(t, err)
	assert.EqualValues(t, 1, attempts)
	assert.Equal(t, 1, calls)
}

func TestBackoff_Capped(t *testing.T) {
	slept := recordSleeps(t)

	s := Backoff(backoff.BinaryExponential(300*time.Millisecond), time.Second)
	for attempts := uint(1); attempts <= 4; attempts++ {
		assert.True(t, s(attempts, errors.New("err")))
	}
	assert.Equal(t, []time.Duration{300 * time.Millisecond, 600 * time.Millisecond, time.Second, time.Second}, *slept)
}

func TestBackoffWithJitter(t *testing.T) {
	slept := recordSleeps(t)

	delay := 10 * time.Millisecond
	s := BackoffWithJitter(backoff.Constant(delay), delay, 0.1)

	var total time.Duration
	for i := 0; i < 1000; i++ {
		assert.True(t, s(1, errors.New("err")))
	}
	for _, d := range *slept {
		assert.GreaterOrEqual(t, d, 9*time.Millisecond)
		assert.LessOrEqual(t, d, 11*time.Millisecond)
		total += d
	}

	// Jitter is centered on the delay
	assert.InDelta(t, float64(delay), float64(total)/1000, 0.02*float64(delay))
}
