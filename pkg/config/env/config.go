package env

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/solfund/solfund-server/pkg/config"
	"github.com/solfund/solfund-server/pkg/config/wrapper"
)

type variable string

// NewConfig returns a config reading the environment variable named key,
// upper cased, on every Get. Surrounding whitespace is ignored.
func NewConfig(key string) config.Config {
	return variable(strings.ToUpper(key))
}

// Get implements config.Config.Get
func (v variable) Get(_ context.Context) (interface{}, error) {
	val := strings.TrimSpace(os.Getenv(string(v)))
	if val == "" {
		return nil, config.ErrNoValue
	}
	return []byte(val), nil
}

// Shutdown implements config.Config.Shutdown
func (variable) Shutdown() {}

func NewUint64Config(key string, defaultValue uint64) config.Uint64 {
	return wrapper.NewUint64Config(NewConfig(key), defaultValue)
}

func NewFloat64Config(key string, defaultValue float64) config.Float64 {
	return wrapper.NewFloat64Config(NewConfig(key), defaultValue)
}

func NewStringConfig(key string, defaultValue string) config.String {
	return wrapper.NewStringConfig(NewConfig(key), defaultValue)
}

func NewBoolConfig(key string, defaultValue bool) config.Bool {
	return wrapper.NewBoolConfig(NewConfig(key), defaultValue)
}

func NewDurationConfig(key string, defaultValue time.Duration) config.Duration {
	return wrapper.NewDurationConfig(NewConfig(key), defaultValue)
}
