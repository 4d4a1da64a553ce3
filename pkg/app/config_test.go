package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetViper(t *testing.T) {
	reset := func() {
		viper.Reset()
		bindEnv()
	}
	reset()
	t.Cleanup(reset)
}

func TestLoadBaseConfig(t *testing.T) {
	resetViper(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app_name: solfund-test
listen_address: ":9090"
shutdown_grace_period: 5s
ballast_capacity: 0.9
app:
  donation_submit_timeout: 45s
`), 0o600))
	t.Setenv("LOG_LEVEL", "debug")

	config, err := loadBaseConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "solfund-test", config.AppName)
	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, ":9090", config.ListenAddress)
	assert.Equal(t, 5*time.Second, config.ShutdownGracePeriod)
	assert.EqualValues(t, maxBallastCapacity, config.BallastCapacity)
	assert.Equal(t, "45s", config.AppConfig["donation_submit_timeout"])

	// Untouched keys keep their defaults
	assert.Equal(t, "localhost:8086", config.HealthListenAddress)
	assert.True(t, config.EnableExpvar)
}

func TestLoadBaseConfig_Invalid(t *testing.T) {
	resetViper(t)

	t.Setenv("TLS_CERTIFICATE", "env://CERT")
	_, err := loadBaseConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
