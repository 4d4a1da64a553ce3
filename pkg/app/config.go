package app

import (
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config is the application specific section of the config file, passed to
// App.Init. Decode it with mapstructure.
type Config map[string]interface{}

// BaseConfig configures the process hosting an App.
type BaseConfig struct {
	AppName  string `mapstructure:"app_name"`
	LogLevel string `mapstructure:"log_level"`

	// ListenAddress serves the HTTP API and HealthListenAddress the gRPC
	// health service probed by orchestrators.
	ListenAddress       string `mapstructure:"listen_address"`
	HealthListenAddress string `mapstructure:"health_listen_address"`
	DebugListenAddress  string `mapstructure:"debug_listen_address"`

	// TLS material for the HTTP API, as file URLs understood by LoadFile.
	TLSCertificate string `mapstructure:"tls_certificate"`
	TLSKey         string `mapstructure:"tls_private_key"`

	ReadHeaderTimeout   time.Duration `mapstructure:"read_header_timeout"`
	ShutdownGracePeriod time.Duration `mapstructure:"shutdown_grace_period"`

	EnablePprof  bool `mapstructure:"enable_pprof"`
	EnableExpvar bool `mapstructure:"enable_expvar"`

	// BallastCapacity is the share of system memory held as GC ballast,
	// capped at 0.5.
	EnableBallast   bool    `mapstructure:"enable_ballast"`
	BallastCapacity float32 `mapstructure:"ballast_capacity"`

	// MemoryLeakCronSchedule restarts the process on a schedule.
	EnableMemoryLeakCron   bool   `mapstructure:"enable_memory_leak_cron"`
	MemoryLeakCronSchedule string `mapstructure:"memory_leak_cron_schedule"`

	NewRelicLicenseKey string `mapstructure:"new_relic_license_key"`

	AppConfig Config `mapstructure:"app"`
}

const maxBallastCapacity = 0.5

func defaultBaseConfig() BaseConfig {
	return BaseConfig{
		AppName:  "solfund",
		LogLevel: "info",

		ListenAddress:       ":8080",
		HealthListenAddress: "localhost:8086",
		DebugListenAddress:  ":8123",

		ReadHeaderTimeout:   10 * time.Second,
		ShutdownGracePeriod: 30 * time.Second,

		EnablePprof:  true,
		EnableExpvar: true,

		BallastCapacity:        0.25,
		MemoryLeakCronSchedule: "0 5 * * *",
	}
}

// Each key can be set from the environment under its upper cased name, for
// example LISTEN_ADDRESS.
var envKeys = []string{
	"app_name",
	"log_level",
	"listen_address",
	"health_listen_address",
	"debug_listen_address",
	"tls_certificate",
	"tls_private_key",
	"read_header_timeout",
	"shutdown_grace_period",
	"enable_pprof",
	"enable_expvar",
	"enable_ballast",
	"ballast_capacity",
	"enable_memory_leak_cron",
	"memory_leak_cron_schedule",
	"new_relic_license_key",
}

func init() {
	bindEnv()
}

func bindEnv() {
	for _, key := range envKeys {
		_ = viper.BindEnv(key, strings.ToUpper(key))
	}
}

// loadBaseConfig layers the config file at path, if present, and the
// environment over the defaults.
func loadBaseConfig(path string) (BaseConfig, error) {
	config := defaultBaseConfig()

	// An explicitly set file that doesn't exist isn't reported by viper as
	// ConfigFileNotFoundError, so only set it when it's there
	if _, err := os.Stat(path); err == nil {
		viper.SetConfigFile(path)
	} else if !os.IsNotExist(err) {
		return config, errors.Wrap(err, "failed to check if config exists")
	}

	err := viper.ReadInConfig()
	if _, notFound := err.(viper.ConfigFileNotFoundError); err != nil && !notFound {
		return config, errors.Wrap(err, "failed to load config")
	}

	if err := viper.Unmarshal(&config); err != nil {
		return config, errors.Wrap(err, "failed to unmarshal config")
	}

	if config.AppName == "" {
		return config, errors.New("must specify an application name")
	}
	if config.TLSCertificate != "" && config.TLSKey == "" {
		return config, errors.New("tls key must be provided if certificate is specified")
	}
	config.BallastCapacity = min(config.BallastCapacity, maxBallastCapacity)

	return config, nil
}
