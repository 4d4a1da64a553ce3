package donation_config

import (
	"github.com/mr-tron/base58"

	"github.com/solfund/solfund-server/pkg/config"
	"github.com/solfund/solfund-server/pkg/config/env"
	"github.com/solfund/solfund-server/pkg/config/memory"
	"github.com/solfund/solfund-server/pkg/config/wrapper"
	"github.com/solfund/solfund-server/pkg/solana/directdonation"
)

const (
	envConfigPrefix = "DONATION_SERVICE_"

	NetworkConfigEnvName = envConfigPrefix + "NETWORK"
	defaultNetwork       = "devnet"

	ProgramIdConfigEnvName = envConfigPrefix + "PROGRAM_ID"

	PlatformWalletConfigEnvName = envConfigPrefix + "PLATFORM_WALLET"
	DefaultPlatformWallet       = "ANaSzJRXdTjCyih1W6Zvf63AXcPSgahS1CpsxX3oo8LR"

	IdlPathConfigEnvName = envConfigPrefix + "IDL_PATH"
	defaultIdlPath       = ""

	BlockhashRetriesConfigEnvName = envConfigPrefix + "BLOCKHASH_RETRIES"
	defaultBlockhashRetries       = 0

	ComputeUnitLimitConfigEnvName = envConfigPrefix + "COMPUTE_UNIT_LIMIT"
	defaultComputeUnitLimit       = 0

	ComputeUnitPriceConfigEnvName = envConfigPrefix + "COMPUTE_UNIT_PRICE"
	defaultComputeUnitPrice       = 0

	DebugConfigEnvName = envConfigPrefix + "DEBUG"
	defaultDebug       = false
)

var (
	defaultProgramId = base58.Encode(directdonation.PROGRAM_ID)
)

type conf struct {
	network          config.String
	programId        config.String
	platformWallet   config.String
	idlPath          config.String
	blockhashRetries config.Uint64
	computeUnitLimit config.Uint64
	computeUnitPrice config.Uint64
	debug            config.Bool
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			network:          env.NewStringConfig(NetworkConfigEnvName, defaultNetwork),
			programId:        env.NewStringConfig(ProgramIdConfigEnvName, defaultProgramId),
			platformWallet:   env.NewStringConfig(PlatformWalletConfigEnvName, DefaultPlatformWallet),
			idlPath:          env.NewStringConfig(IdlPathConfigEnvName, defaultIdlPath),
			blockhashRetries: env.NewUint64Config(BlockhashRetriesConfigEnvName, defaultBlockhashRetries),
			computeUnitLimit: env.NewUint64Config(ComputeUnitLimitConfigEnvName, defaultComputeUnitLimit),
			computeUnitPrice: env.NewUint64Config(ComputeUnitPriceConfigEnvName, defaultComputeUnitPrice),
			debug:            env.NewBoolConfig(DebugConfigEnvName, defaultDebug),
		}
	}
}

// Overrides replace individual settings. Zero values fall back to defaults.
type Overrides struct {
	Network          string
	ProgramId        string
	PlatformWallet   string
	IdlPath          string
	BlockhashRetries uint64
	ComputeUnitLimit uint64
	ComputeUnitPrice uint64
	Debug            bool
}

// WithOverrides returns configuration backed by in memory values, as used by
// CLI flags and tests.
func WithOverrides(overrides *Overrides) ConfigProvider {
	return func() *conf {
		return &conf{
			network:          wrapper.NewStringConfig(overrideOrNil(overrides.Network), defaultNetwork),
			programId:        wrapper.NewStringConfig(overrideOrNil(overrides.ProgramId), defaultProgramId),
			platformWallet:   wrapper.NewStringConfig(overrideOrNil(overrides.PlatformWallet), DefaultPlatformWallet),
			idlPath:          wrapper.NewStringConfig(overrideOrNil(overrides.IdlPath), defaultIdlPath),
			blockhashRetries: wrapper.NewUint64Config(overrideOrNil(overrides.BlockhashRetries), defaultBlockhashRetries),
			computeUnitLimit: wrapper.NewUint64Config(overrideOrNil(overrides.ComputeUnitLimit), defaultComputeUnitLimit),
			computeUnitPrice: wrapper.NewUint64Config(overrideOrNil(overrides.ComputeUnitPrice), defaultComputeUnitPrice),
			debug:            wrapper.NewBoolConfig(overrideOrNil(overrides.Debug), defaultDebug),
		}
	}
}

func overrideOrNil[T comparable](value T) *memory.Config {
	var zero T
	if value == zero {
		return memory.NewConfig(nil)
	}
	return memory.NewConfig(value)
}
