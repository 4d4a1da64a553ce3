package async_reconciler

import (
	"time"

	"github.com/solfund/solfund-server/pkg/config"
	"github.com/solfund/solfund-server/pkg/config/env"
	"github.com/solfund/solfund-server/pkg/config/memory"
	"github.com/solfund/solfund-server/pkg/config/wrapper"
)

const (
	envConfigPrefix = "RECONCILER_SERVICE_"

	BatchSizeConfigEnvName = envConfigPrefix + "BATCH_SIZE"
	defaultBatchSize       = 100

	PendingTimeoutConfigEnvName = envConfigPrefix + "PENDING_TIMEOUT"
	defaultPendingTimeout       = 5 * time.Minute
)

type conf struct {
	batchSize      config.Uint64
	pendingTimeout config.Duration
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			batchSize:      env.NewUint64Config(BatchSizeConfigEnvName, defaultBatchSize),
			pendingTimeout: env.NewDurationConfig(PendingTimeoutConfigEnvName, defaultPendingTimeout),
		}
	}
}

type testOverrides struct {
	batchSize      uint64
	pendingTimeout time.Duration
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	return func() *conf {
		return &conf{
			batchSize:      wrapper.NewUint64Config(memory.NewConfig(overrides.batchSize), defaultBatchSize),
			pendingTimeout: wrapper.NewDurationConfig(memory.NewConfig(overrides.pendingTimeout), defaultPendingTimeout),
		}
	}
}
