package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solfund/solfund-server/pkg/config"
)

func TestConfig_Lifecycle(t *testing.T) {
	ctx := context.Background()

	c := NewConfig(nil)
	_, err := c.Get(ctx)
	assert.Equal(t, config.ErrNoValue, err)

	c.SetValue(uint64(3))
	val, err := c.Get(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, val)

	c.InduceErrors()
	_, err = c.Get(ctx)
	assert.Equal(t, ErrInduced, err)

	rpcDown := errors.New("rpc down")
	c.SetError(rpcDown)
	_, err = c.Get(ctx)
	assert.Equal(t, rpcDown, err)

	c.StopInducingErrors()
	val, err = c.Get(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, val)

	c.ClearValue()
	_, err = c.Get(ctx)
	assert.Equal(t, config.ErrNoValue, err)

	c.SetValue("devnet")
	c.Shutdown()
	_, err = c.Get(ctx)
	assert.Equal(t, config.ErrShutdown, err)
}

func TestConfig_InitialValue(t *testing.T) {
	c := NewConfig("mainnet-beta")
	val, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "mainnet-beta", val)
}
