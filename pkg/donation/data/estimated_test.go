package data

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimated_Signature(t *testing.T) {
	ctx := context.Background()

	provider, err := NewEstimatedProvider()
	require.NoError(t, err)

	require.NoError(t, provider.AddKnownSignature(ctx, []byte("signature_1")))
	require.NoError(t, provider.AddKnownSignature(ctx, []byte("signature_2")))

	found, err := provider.TestForKnownSignature(ctx, []byte("signature_x"))
	require.NoError(t, err)
	assert.False(t, found)

	found, err = provider.TestForKnownSignature(ctx, []byte("signature_1"))
	require.NoError(t, err)
	assert.True(t, found)

	found, err = provider.TestForKnownSignature(ctx, []byte("signature_2"))
	require.NoError(t, err)
	assert.True(t, found)

	_, err = provider.TestForKnownSignature(ctx, nil)
	assert.Equal(t, ErrInvalidSignature, err)
	assert.Equal(t, ErrInvalidSignature, provider.AddKnownSignature(ctx, nil))
}
