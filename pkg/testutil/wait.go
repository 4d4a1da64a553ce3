package testutil

import (
	"time"

	"github.com/pkg/errors"
)

// WaitFor polls condition every interval until it holds, giving up once
// timeout has passed.
func WaitFor(timeout, interval time.Duration, condition func() bool) error {
	if interval > timeout {
		return errors.Errorf("interval %v exceeds timeout %v", interval, timeout)
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for !condition() {
		select {
		case <-deadline.C:
			return errors.Errorf("condition not met within %v", timeout)
		case <-ticker.C:
		}
	}
	return nil
}
