package web

import (
	"time"

	"github.com/solfund/solfund-server/pkg/config"
	"github.com/solfund/solfund-server/pkg/config/env"
	"github.com/solfund/solfund-server/pkg/config/memory"
	"github.com/solfund/solfund-server/pkg/config/wrapper"
)

const (
	envConfigPrefix = "WEB_SERVICE_"

	SubmitRateLimitConfigEnvName = envConfigPrefix + "SUBMIT_RATE_LIMIT"
	defaultSubmitRateLimit       = 1.0

	SubmitTimeoutConfigEnvName = envConfigPrefix + "SUBMIT_TIMEOUT"
	defaultSubmitTimeout       = time.Minute

	ShareBaseUrlConfigEnvName = envConfigPrefix + "SHARE_BASE_URL"
	defaultShareBaseUrl       = "https://solfund.app/"
)

type conf struct {
	submitRateLimit config.Float64
	submitTimeout   config.Duration
	shareBaseUrl    config.String
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			submitRateLimit: env.NewFloat64Config(SubmitRateLimitConfigEnvName, defaultSubmitRateLimit),
			submitTimeout:   env.NewDurationConfig(SubmitTimeoutConfigEnvName, defaultSubmitTimeout),
			shareBaseUrl:    env.NewStringConfig(ShareBaseUrlConfigEnvName, defaultShareBaseUrl),
		}
	}
}

type testOverrides struct {
	submitRateLimit float64
	submitTimeout   time.Duration
	shareBaseUrl    string
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	return func() *conf {
		return &conf{
			submitRateLimit: wrapper.NewFloat64Config(memory.NewConfig(overrides.submitRateLimit), defaultSubmitRateLimit),
			submitTimeout:   wrapper.NewDurationConfig(memory.NewConfig(overrides.submitTimeout), defaultSubmitTimeout),
			shareBaseUrl:    wrapper.NewStringConfig(memory.NewConfig(overrides.shareBaseUrl), defaultShareBaseUrl),
		}
	}
}
