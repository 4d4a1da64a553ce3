// Package retry runs actions repeatedly under composable strategies.
package retry

// Action is a function to be performed in a retriable manner.
type Action func() error

// Retrier retries actions with a fixed set of strategies.
type Retrier interface {
	Retry(action Action) (uint, error)
}

type retrier struct {
	strategies []Strategy
}

// NewRetrier returns a Retrier bound to strategies. Without strategies the
// action is retried in a tight loop until it succeeds.
func NewRetrier(strategies ...Strategy) Retrier {
	return &retrier{strategies: strategies}
}

func (r *retrier) Retry(action Action) (uint, error) {
	return Retry(action, r.strategies...)
}

// Retry runs action until it succeeds or a strategy declines another attempt.
// It returns the number of attempts made along with the last error.
//
// Strategies are consulted in order and evaluation stops at the first one that
// declines, so strategies that sleep belong at the end.
func Retry(action Action, strategies ...Strategy) (uint, error) {
	for attempts := uint(1); ; attempts++ {
		err := action()
		if err == nil {
			return attempts, nil
		}
		if !allow(strategies, attempts, err) {
			return attempts, err
		}
	}
}

// Loop runs action forever, only returning the error a strategy declines to
// retry. A successful run resets the attempt count, so backoffs start over.
func Loop(action Action, strategies ...Strategy) error {
	var failures uint
	for {
		err := action()
		if err == nil {
			failures = 0
			continue
		}

		failures++
		if !allow(strategies, failures, err) {
			return err
		}
	}
}

func allow(strategies []Strategy, attempts uint, err error) bool {
	for _, s := range strategies {
		if !s(attempts, err) {
			return false
		}
	}
	return true
}
