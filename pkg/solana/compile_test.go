package solana

import (
	"bytes"
	"crypto/ed25519"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sortedKeys returns n keys in ascending public key order, so tests can
// predict tie breaks within a permission group.
func sortedKeys(t *testing.T, n int) []ed25519.PrivateKey {
	keys := generateKeys(t, n)
	slices.SortFunc(keys, func(a, b ed25519.PrivateKey) int {
		return bytes.Compare(public(a), public(b))
	})
	return keys
}

func assertLayout(t *testing.T, txn Transaction, header Header, accounts ...ed25519.PrivateKey) {
	t.Helper()

	assert.Equal(t, header, txn.Message.Header)
	require.Len(t, txn.Message.Accounts, len(accounts))
	for i, key := range accounts {
		assert.Equal(t, public(key), txn.Message.Accounts[i], "account %d", i)
	}
}

func assertSigned(t *testing.T, txn Transaction) {
	t.Helper()

	require.Len(t, txn.Signatures, int(txn.Message.Header.NumSignatures))
	assert.NoError(t, txn.VerifySignatures())
}

func TestCompile_PermissionGroups(t *testing.T) {
	keys := sortedKeys(t, 6)
	payer, program := keys[0], keys[5]
	readonlySigner, readonly, writable, writableSigner := keys[1], keys[2], keys[3], keys[4]

	txn := NewTransaction(
		public(payer),
		NewInstruction(
			public(program),
			[]byte{1, 2, 3},
			NewReadonlyAccountMeta(public(readonlySigner), true),
			NewReadonlyAccountMeta(public(readonly), false),
			NewAccountMeta(public(writable), false),
			NewAccountMeta(public(writableSigner), true),
		),
	)

	// Signing order doesn't matter
	require.NoError(t, txn.Sign(readonlySigner, writableSigner, payer))
	assertSigned(t, txn)

	assertLayout(t, txn,
		Header{NumSignatures: 3, NumReadonlySigned: 1, NumReadOnly: 2},
		payer, writableSigner, readonlySigner, writable, readonly, program,
	)

	ix := txn.Message.Instructions[0]
	assert.EqualValues(t, 5, ix.ProgramIndex)
	assert.Equal(t, []byte{1, 2, 3}, ix.Data)
	assert.Equal(t, []byte{2, 4, 3, 1}, ix.Accounts)
}

func TestCompile_DuplicateAccountsKeepStrongestPermissions(t *testing.T) {
	keys := sortedKeys(t, 6)
	payer, program := keys[0], keys[5]

	txn := NewTransaction(
		public(payer),
		NewInstruction(
			public(program),
			nil,
			NewReadonlyAccountMeta(public(keys[1]), true),
			NewReadonlyAccountMeta(public(keys[2]), false),
			NewAccountMeta(public(keys[3]), false),
			NewAccountMeta(public(keys[4]), true),

			// keys[1] becomes a writable signer, keys[2] a readonly signer
			NewAccountMeta(public(keys[1]), false),
			NewReadonlyAccountMeta(public(keys[2]), true),

			// Weaker references never downgrade
			NewReadonlyAccountMeta(public(keys[3]), false),
			NewReadonlyAccountMeta(public(keys[4]), false),
		),
	)
	require.NoError(t, txn.Sign(keys[2], keys[1], keys[4], payer))
	assertSigned(t, txn)

	assertLayout(t, txn,
		Header{NumSignatures: 4, NumReadonlySigned: 1, NumReadOnly: 1},
		payer, keys[1], keys[4], keys[2], keys[3], program,
	)
	assert.Equal(t, []byte{1, 3, 4, 2, 1, 3, 4, 2}, txn.Message.Instructions[0].Accounts)
}

func TestCompile_MultipleInstructions(t *testing.T) {
	keys := sortedKeys(t, 9)
	payer, program, program2 := keys[0], keys[7], keys[8]
	accounts := keys[1:7]

	txn := NewTransaction(
		public(payer),
		NewInstruction(
			public(program2),
			[]byte{1},
			NewReadonlyAccountMeta(public(accounts[0]), true),
			NewReadonlyAccountMeta(public(accounts[1]), false),
			NewAccountMeta(public(accounts[2]), false),
			NewAccountMeta(public(accounts[3]), true),
		),
		NewInstruction(
			public(program),
			[]byte{2},
			NewReadonlyAccountMeta(public(accounts[3]), false),
			NewReadonlyAccountMeta(public(accounts[2]), false),
			NewAccountMeta(public(accounts[0]), false),
			NewAccountMeta(public(accounts[1]), true),
			NewAccountMeta(public(accounts[4]), true),
			NewReadonlyAccountMeta(public(accounts[5]), false),
		),
	)
	require.NoError(t, txn.Sign(payer, accounts[0], accounts[1], accounts[3], accounts[4]))
	assertSigned(t, txn)

	assertLayout(t, txn,
		Header{NumSignatures: 5, NumReadOnly: 3},
		payer, accounts[0], accounts[1], accounts[3], accounts[4], accounts[2], accounts[5], program, program2,
	)

	first, second := txn.Message.Instructions[0], txn.Message.Instructions[1]
	assert.EqualValues(t, 8, first.ProgramIndex)
	assert.Equal(t, []byte{1, 2, 5, 3}, first.Accounts)
	assert.EqualValues(t, 7, second.ProgramIndex)
	assert.Equal(t, []byte{3, 5, 1, 2, 4, 6}, second.Accounts)
}

func TestCompile_EmptyKeyBecomesZeroKey(t *testing.T) {
	keys := generateKeys(t, 2)
	payer, program := keys[0], keys[1]

	txn := NewTransaction(public(payer), NewInstruction(public(program), nil, NewAccountMeta(nil, false)))
	require.NoError(t, txn.Sign(payer))

	zero := make(ed25519.PublicKey, ed25519.PublicKeySize)
	assert.Equal(t, 1, txn.Message.indexOf(zero))
	assert.Equal(t, []byte{1}, txn.Message.Instructions[0].Accounts)

	var decoded Transaction
	require.NoError(t, decoded.Unmarshal(txn.Marshal()))
	assert.NoError(t, decoded.VerifySignatures())
}
