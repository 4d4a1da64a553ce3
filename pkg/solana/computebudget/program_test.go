package compute_budget

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solfund/solfund-server/pkg/solana"
)

func TestSetComputeUnitLimit(t *testing.T) {
	ix := SetComputeUnitLimit(200_000)
	assert.EqualValues(t, ProgramKey, ix.Program)
	assert.Empty(t, ix.Accounts)
	assert.Equal(t, []byte{2, 0x40, 0x0d, 0x03, 0x00}, ix.Data)

	limit, err := ParseSetComputeUnitLimitIxnData(ix.Data)
	require.NoError(t, err)
	assert.EqualValues(t, 200_000, limit)

	_, err = ParseSetComputeUnitPriceIxnData(ix.Data)
	assert.ErrorIs(t, err, ErrInvalidInstructionData)
}

func TestSetComputeUnitPrice(t *testing.T) {
	ix := SetComputeUnitPrice(1_000)
	assert.Equal(t, []byte{3, 0xe8, 0x03, 0, 0, 0, 0, 0, 0}, ix.Data)

	price, err := ParseSetComputeUnitPriceIxnData(ix.Data)
	require.NoError(t, err)
	assert.EqualValues(t, 1_000, price)

	_, err = ParseSetComputeUnitLimitIxnData(ix.Data)
	assert.ErrorIs(t, err, ErrInvalidInstructionData)

	bad := append([]byte{}, ix.Data...)
	bad[0] = 1
	_, err = ParseSetComputeUnitPriceIxnData(bad)
	assert.ErrorIs(t, err, ErrInvalidInstructionData)
}

func TestIsComputeBudget(t *testing.T) {
	payer, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	other, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	txn := solana.NewTransaction(
		payer,
		solana.NewInstruction(other, []byte{1}),
		SetComputeUnitPrice(1),
	)

	assert.False(t, IsComputeBudget(txn.Message, 0))
	assert.True(t, IsComputeBudget(txn.Message, 1))
	assert.False(t, IsComputeBudget(txn.Message, 2))
}
