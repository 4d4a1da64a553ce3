package solana

import (
	"crypto/ed25519"
	"testing"

	"github.com/mr-tron/base58/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePublicKey(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	parsed, err := ParsePublicKey(base58.Encode(pub))
	require.NoError(t, err)
	assert.Equal(t, pub, parsed)

	for _, invalid := range []string{
		"",
		"0OIl",
		base58.Encode(pub[:31]),
		base58.Encode(append(pub, 0)),
	} {
		_, err := ParsePublicKey(invalid)
		assert.ErrorIs(t, err, ErrInvalidPublicKey, invalid)
	}

	assert.Panics(t, func() { MustParsePublicKey("invalid!") })
}

func TestIsOnCurve(t *testing.T) {
	for _, key := range generateKeys(t, 10) {
		assert.True(t, IsOnCurve(public(key)))
	}

	// Program derived addresses are, by construction, off the curve.
	for _, pda := range []string{
		"3gF2KMe9KiC6FNVBmfg9i267aMPvK37FewCip4eGBFcT",
		"7ytmC1nT1xY4RfxCV2ZgyA7UakC93do5ZdyhdF3EtPj7",
		"HwRVBufQ4haG5XSgpspwKtNd3PC9GM9m1196uJW36vds",
		"GUs5qLUfsEHkcMB9T38vjr18ypEhRuNWiePW2LoK4E3K",
	} {
		assert.False(t, IsOnCurve(MustParsePublicKey(pda)), pda)
	}

	assert.False(t, IsOnCurve(nil))
	assert.False(t, IsOnCurve(make([]byte, 31)))
}
