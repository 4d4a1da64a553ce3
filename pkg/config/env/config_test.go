package env

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solfund/solfund-server/pkg/config"
)

func TestConfig_ReadsOnEveryGet(t *testing.T) {
	ctx := context.Background()
	c := NewConfig("env_config_test_var")

	_, err := c.Get(ctx)
	assert.Equal(t, config.ErrNoValue, err)

	t.Setenv("ENV_CONFIG_TEST_VAR", "  devnet ")
	v, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("devnet"), v)

	t.Setenv("ENV_CONFIG_TEST_VAR", " ")
	_, err = c.Get(ctx)
	assert.Equal(t, config.ErrNoValue, err)
}

func TestTypedConfigs(t *testing.T) {
	ctx := context.Background()

	t.Setenv("ENV_CONFIG_TEST_UINT", " 42 ")
	t.Setenv("ENV_CONFIG_TEST_DURATION", "1m30s")
	t.Setenv("ENV_CONFIG_TEST_BOOL", "true")
	t.Setenv("ENV_CONFIG_TEST_STRING", "devnet")

	assert.EqualValues(t, 42, NewUint64Config("env_config_test_uint", 1).Get(ctx))
	assert.Equal(t, 90*time.Second, NewDurationConfig("ENV_CONFIG_TEST_DURATION", time.Second).Get(ctx))
	assert.True(t, NewBoolConfig("ENV_CONFIG_TEST_BOOL", false).Get(ctx))
	assert.Equal(t, "devnet", NewStringConfig("ENV_CONFIG_TEST_STRING", "mainnet").Get(ctx))
	assert.Equal(t, 0.5, NewFloat64Config("ENV_CONFIG_TEST_MISSING", 0.5).Get(ctx))

	// Unparseable values fall back to the default until a good value is seen
	t.Setenv("ENV_CONFIG_TEST_UINT", "many")
	assert.EqualValues(t, 1, NewUint64Config("ENV_CONFIG_TEST_UINT", 1).Get(ctx))
}
