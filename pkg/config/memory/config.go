package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/solfund/solfund-server/pkg/config"
)

// ErrInduced is returned by Get after InduceErrors is called
var ErrInduced = errors.New("memory config: induced error")

// Config is a config.Config backed by a value held in memory. Overrides passed
// to service constructors and tests use it in place of env configs.
type Config struct {
	mu       sync.RWMutex
	value    interface{}
	err      error
	shutdown bool
}

// NewConfig returns a Config holding value. A nil value means nothing is set,
// so wrappers fall back to their defaults.
func NewConfig(value interface{}) *Config {
	return &Config{value: value}
}

// Get implements config.Config.Get
func (c *Config) Get(_ context.Context) (interface{}, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch {
	case c.shutdown:
		return nil, config.ErrShutdown
	case c.err != nil:
		return nil, c.err
	case c.value == nil:
		return nil, config.ErrNoValue
	}
	return c.value, nil
}

// Shutdown implements config.Config.Shutdown
func (c *Config) Shutdown() {
	c.update(func() { c.shutdown = true })
}

// SetValue replaces the held value. Passing nil behaves like ClearValue.
func (c *Config) SetValue(value interface{}) {
	c.update(func() { c.value = value })
}

func (c *Config) ClearValue() {
	c.SetValue(nil)
}

// SetError makes Get fail with err until it is called again with nil.
func (c *Config) SetError(err error) {
	c.update(func() { c.err = err })
}

func (c *Config) InduceErrors() {
	c.SetError(ErrInduced)
}

func (c *Config) StopInducingErrors() {
	c.SetError(nil)
}

func (c *Config) update(fn func()) {
	c.mu.Lock()
	fn()
	c.mu.Unlock()
}
