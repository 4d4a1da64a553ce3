package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/solfund/solfund-server/pkg/retry/backoff"
)

// Strategy decides whether a failed action is attempted again. attempts
// counts the runs made so far, starting at 1. Strategies may sleep.
type Strategy func(attempts uint, err error) bool

// sleep is swapped out in tests
var sleep = time.Sleep

// Limit allows at most maxAttempts runs in total.
func Limit(maxAttempts uint) Strategy {
	return func(attempts uint, _ error) bool {
		return attempts < maxAttempts
	}
}

// RetriableErrors only retries errors that match one of targets.
func RetriableErrors(targets ...error) Strategy {
	return RetriableFunc(func(err error) bool {
		return matchesAny(err, targets)
	})
}

// NonRetriableErrors retries everything except errors matching targets.
func NonRetriableErrors(targets ...error) Strategy {
	return RetriableFunc(func(err error) bool {
		return !matchesAny(err, targets)
	})
}

// RetriableFunc retries whenever isRetriable reports true for the error.
func RetriableFunc(isRetriable func(error) bool) Strategy {
	return func(_ uint, err error) bool {
		return isRetriable(err)
	}
}

// Context stops retrying once ctx is done. Place it before any backoff.
func Context(ctx context.Context) Strategy {
	return func(uint, error) bool {
		return ctx.Err() == nil
	}
}

// Backoff sleeps for the delay given by strategy, capped at maxBackoff, and
// then allows the retry.
func Backoff(strategy backoff.Strategy, maxBackoff time.Duration) Strategy {
	return BackoffWithJitter(strategy, maxBackoff, 0)
}

// BackoffWithJitter is Backoff with the capped delay randomly moved by up to
// jitter times itself in either direction. A jitter of 0.1 turns 100ms into
// anything from 90ms to 110ms.
func BackoffWithJitter(strategy backoff.Strategy, maxBackoff time.Duration, jitter float64) Strategy {
	return func(attempts uint, _ error) bool {
		delay := min(strategy(attempts), maxBackoff)
		if jitter > 0 {
			delay = time.Duration(float64(delay) * (1 + jitter*(2*rand.Float64()-1)))
		}
		sleep(delay)
		return true
	}
}

func matchesAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
