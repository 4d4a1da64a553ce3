package wallet

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solfund/solfund-server/pkg/solana"
	"github.com/solfund/solfund-server/pkg/solana/memo"
)

func TestNormalize(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	sig := ed25519.Sign(priv, testTransaction(pub).Message.Marshal())

	signed := testTransaction(pub)
	require.NoError(t, signed.Sign(priv))

	for _, tc := range []struct {
		name   string
		result SignResult
	}{
		{"transaction", SignResult{Transaction: &signed}},
		{"raw", SignResult{Signature: sig}},
		{"base64", SignResult{EncodedSignature: base64.StdEncoding.EncodeToString(sig)}},
		{"base58", SignResult{EncodedSignature: base58.Encode(sig)}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			txn := testTransaction(pub)
			require.NoError(t, Normalize(&txn, pub, tc.result))
			assert.NoError(t, txn.VerifySignatures())
			assert.EqualValues(t, sig, txn.Signatures[0][:])
		})
	}
}

func TestNormalize_Invalid(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	txn := testTransaction(pub)

	err = Normalize(&txn, pub, SignResult{})
	assert.ErrorIs(t, err, ErrUnsupportedSignResult)

	err = Normalize(&txn, pub, SignResult{EncodedSignature: "not a signature"})
	assert.ErrorIs(t, err, ErrUnsupportedSignResult)

	err = Normalize(&txn, pub, SignResult{Signature: make([]byte, 12)})
	assert.Error(t, err)

	// Signature over a different message
	other := solana.NewTransaction(pub, memo.Instruction("other"))
	err = Normalize(&txn, pub, SignResult{Signature: ed25519.Sign(priv, other.Message.Marshal())})
	assert.ErrorIs(t, err, solana.ErrInvalidSignature)

	// Wallet altered the message
	require.NoError(t, other.Sign(priv))
	err = Normalize(&txn, pub, SignResult{Transaction: &other})
	assert.ErrorIs(t, err, ErrMessageMismatch)

	assert.Error(t, txn.VerifySignatures())
}

func TestKeypairSigner(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	signer := NewKeypairSigner(priv)
	assert.EqualValues(t, priv.Public(), signer.PublicKey())

	txn := testTransaction(signer.PublicKey())
	result, err := signer.SignTransaction(context.Background(), &txn)
	require.NoError(t, err)
	require.NoError(t, Normalize(&txn, signer.PublicKey(), result))
	assert.NoError(t, txn.VerifySignatures())
}

func TestLoadKeypairFile(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	values := make([]int, len(priv))
	for i, b := range priv {
		values[i] = int(b)
	}
	encoded, err := json.Marshal(values)
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "id.json")
	require.NoError(t, os.WriteFile(path, encoded, 0600))

	signer, err := LoadKeypairFile(path)
	require.NoError(t, err)
	assert.EqualValues(t, priv.Public(), signer.PublicKey())

	badPath := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badPath, []byte("[1,2,3]"), 0600))
	_, err = LoadKeypairFile(badPath)
	assert.Error(t, err)

	_, err = LoadKeypairFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestParseKeypair(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	signer, err := ParseKeypair(base58.Encode(priv))
	require.NoError(t, err)
	assert.EqualValues(t, priv.Public(), signer.PublicKey())

	corrupted := make([]byte, len(priv))
	copy(corrupted, priv)
	corrupted[40] ^= 0xff
	_, err = ParseKeypair(base58.Encode(corrupted))
	assert.Error(t, err)

	_, err = ParseKeypair("0OIl")
	assert.Error(t, err)
}

func TestRejectingSigner(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	signer := &RejectingSigner{Owner: pub}
	assert.EqualValues(t, pub, signer.PublicKey())

	txn := testTransaction(pub)
	_, err = signer.SignTransaction(context.Background(), &txn)
	assert.ErrorIs(t, err, ErrUserRejected)
}

func testTransaction(payer ed25519.PublicKey) solana.Transaction {
	txn := solana.NewTransaction(payer, memo.Instruction("donation"))
	txn.SetBlockhash(solana.Blockhash{1, 2, 3})
	return txn
}
