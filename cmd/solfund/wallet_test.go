package main

import (
	"crypto/ed25519"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solfund/solfund-server/pkg/sol"
	"github.com/solfund/solfund-server/pkg/solana"
	"github.com/solfund/solfund-server/pkg/testutil"
)

func useFakeClient(t *testing.T) *testutil.FakeSolanaClient {
	fake := testutil.NewFakeSolanaClient()
	original := newClient
	newClient = func(solana.Environment) solana.Client { return fake }
	t.Cleanup(func() { newClient = original })
	return fake
}

func writeKeypairFile(t *testing.T, key ed25519.PrivateKey) string {
	values := make([]int, len(key))
	for i, b := range key {
		values[i] = int(b)
	}
	encoded, err := json.Marshal(values)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "id.json")
	require.NoError(t, os.WriteFile(path, encoded, 0o600))
	return path
}

func TestBalanceCommand(t *testing.T) {
	fake := useFakeClient(t)

	key := testutil.GenerateSolanaKeypair(t)
	pub := key.Public().(ed25519.PublicKey)
	fake.Balances[string(pub)] = sol.MustStrToLamports("2.5")

	out, err := executeCommand(t, "balance", "--network", "devnet", base58.Encode(pub))
	require.NoError(t, err)
	assert.Equal(t, "2.5 SOL\n", out)

	out, err = executeCommand(t, "balance", "--network", "devnet", "--keypair", writeKeypairFile(t, key))
	require.NoError(t, err)
	assert.Equal(t, "2.5 SOL\n", out)

	// Accounts the node doesn't know about are empty
	out, err = executeCommand(t, "balance", "--network", "devnet", newAddress(t))
	require.NoError(t, err)
	assert.Equal(t, "0 SOL\n", out)

	_, err = executeCommand(t, "balance", "--network", "devnet", "not-an-address")
	assert.Error(t, err)
}

func TestAirdropCommand(t *testing.T) {
	fake := useFakeClient(t)
	address := newAddress(t)

	out, err := executeCommand(t, "airdrop", "--network", "devnet", "--amount", "2", address)
	require.NoError(t, err)
	assert.Contains(t, out, "requested 2 SOL")

	pub, err := solana.ParsePublicKey(address)
	require.NoError(t, err)
	assert.Equal(t, sol.MustStrToLamports("2"), fake.Balances[string(pub)])

	_, err = executeCommand(t, "airdrop", "--network", "mainnet-beta", "--amount", "1", address)
	assert.Error(t, err)

	_, err = executeCommand(t, "airdrop", "--network", "devnet", "--amount", "1", "--keypair", "")
	assert.Error(t, err)
}
