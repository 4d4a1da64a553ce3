package memo

import (
	"crypto/ed25519"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solfund/solfund-server/pkg/solana"
)

func TestInstruction_HasNoAccounts(t *testing.T) {
	ix := Instruction("for the next milestone")
	assert.Equal(t, solana.Instruction{
		Program: ProgramKey,
		Data:    []byte("for the next milestone"),
	}, ix)
}

func TestDecompileMemo(t *testing.T) {
	payer, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	target, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	txn := solana.NewTransaction(
		payer,
		solana.NewInstruction(target, []byte{1}),
		Instruction("thanks"),
	)

	assert.False(t, IsMemo(txn.Message, 0))
	_, err = DecompileMemo(txn.Message, 0)
	assert.Equal(t, solana.ErrIncorrectProgram, err)

	require.True(t, IsMemo(txn.Message, 1))
	decompiled, err := DecompileMemo(txn.Message, 1)
	require.NoError(t, err)
	assert.Equal(t, "thanks", string(decompiled.Data))

	assert.False(t, IsMemo(txn.Message, 2))
	_, err = DecompileMemo(txn.Message, 2)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	for memo, expected := range map[string]error{
		"":                               nil,
		"campaign:1234":                  nil,
		strings.Repeat("é", MaxLength/2): nil,
		strings.Repeat("a", MaxLength+1): ErrMemoTooLong,
		string([]byte{'o', 'k', 0xff}):   ErrInvalidMemo,
	} {
		err := Validate(memo)
		if expected == nil {
			assert.NoError(t, err, memo)
		} else {
			assert.ErrorIs(t, err, expected, memo)
		}
	}
}
