package wrapper

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/solfund/solfund-server/pkg/config"
)

// ErrUnsuportedConversion indicates the wrapper does not implement conversion from the source type
var ErrUnsuportedConversion = errors.New("config: wrapper conversion from source type not implemented")

// Converter turns a raw config value into T.
type Converter[T any] func(raw interface{}) (T, error)

// TypedConfig converts the values of an underlying config.Config, falling
// back to a default when none is set and to the last good value on error.
type TypedConfig[T any] struct {
	source       config.Config
	defaultValue T
	convert      Converter[T]

	mu   sync.RWMutex
	last T
}

// NewTypedConfig returns a config yielding T.
func NewTypedConfig[T any](source config.Config, defaultValue T, convert Converter[T]) *TypedConfig[T] {
	return &TypedConfig[T]{
		source:       source,
		defaultValue: defaultValue,
		convert:      convert,
		last:         defaultValue,
	}
}

// GetSafe implements config.Typed.GetSafe
func (c *TypedConfig[T]) GetSafe(ctx context.Context) (T, error) {
	value, err := c.source.Get(ctx)
	if errors.Is(err, config.ErrNoValue) {
		c.remember(c.defaultValue)
		return c.defaultValue, nil
	}

	var converted T
	if err == nil {
		converted, err = c.convert(value)
	}
	if err != nil {
		c.mu.RLock()
		defer c.mu.RUnlock()
		return c.last, err
	}

	c.remember(converted)
	return converted, nil
}

func (c *TypedConfig[T]) remember(value T) {
	c.mu.Lock()
	c.last = value
	c.mu.Unlock()
}

// Get implements config.Typed.Get
func (c *TypedConfig[T]) Get(ctx context.Context) T {
	val, _ := c.GetSafe(ctx)
	return val
}

// Shutdown implements config.Typed.Shutdown
func (c *TypedConfig[T]) Shutdown() {
	c.source.Shutdown()
}

// Parsed converts values of type T as is, and text values, as provided by
// environment configs, with parse.
func Parsed[T any](parse func(string) (T, error)) Converter[T] {
	return func(raw interface{}) (T, error) {
		switch v := raw.(type) {
		case T:
			return v, nil
		case []byte:
			return parse(string(v))
		}

		var zero T
		return zero, ErrUnsuportedConversion
	}
}

func NewBoolConfig(source config.Config, defaultValue bool) config.Bool {
	return NewTypedConfig(source, defaultValue, Parsed(strconv.ParseBool))
}

func NewUint64Config(source config.Config, defaultValue uint64) config.Uint64 {
	return NewTypedConfig(source, defaultValue, Parsed(func(s string) (uint64, error) {
		return strconv.ParseUint(s, 10, 64)
	}))
}

func NewFloat64Config(source config.Config, defaultValue float64) config.Float64 {
	return NewTypedConfig(source, defaultValue, Parsed(func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	}))
}

func NewStringConfig(source config.Config, defaultValue string) config.String {
	return NewTypedConfig(source, defaultValue, Parsed(func(s string) (string, error) {
		return s, nil
	}))
}

func NewDurationConfig(source config.Config, defaultValue time.Duration) config.Duration {
	return NewTypedConfig(source, defaultValue, Parsed(time.ParseDuration))
}
