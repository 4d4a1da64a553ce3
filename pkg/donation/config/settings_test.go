package donation_config

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solfund/solfund-server/pkg/solana"
	"github.com/solfund/solfund-server/pkg/solana/directdonation"
	"github.com/solfund/solfund-server/pkg/testutil"
)

func TestLoad_Defaults(t *testing.T) {
	settings, err := Load(context.Background(), WithOverrides(&Overrides{}))
	require.NoError(t, err)

	assert.Equal(t, solana.EnvironmentDev, settings.Environment)
	assert.EqualValues(t, directdonation.PROGRAM_ID, settings.Program)
	assert.Equal(t, DefaultPlatformWallet, base58.Encode(settings.Platform))
	assert.Equal(t, directdonation.DefaultIDL(), settings.IDL)
	assert.EqualValues(t, 0, settings.BlockhashRetries)
	assert.EqualValues(t, 0, settings.ComputeUnitLimit)
	assert.EqualValues(t, 0, settings.ComputeUnitPrice)
	assert.False(t, settings.Debug)
}

func TestLoad_Overrides(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 2)

	idl := `{"instructions":[{"name":"donate","discriminator":[1,2,3,4,5,6,7,8]}]}`
	idlPath := filepath.Join(t.TempDir(), "idl.json")
	require.NoError(t, os.WriteFile(idlPath, []byte(idl), 0o600))

	settings, err := Load(context.Background(), WithOverrides(&Overrides{
		Network:          "mainnet-beta",
		ProgramId:        base58.Encode(keys[0]),
		PlatformWallet:   base58.Encode(keys[1]),
		IdlPath:          idlPath,
		BlockhashRetries: 3,
		ComputeUnitLimit: 50_000,
		ComputeUnitPrice: 1_000,
		Debug:            true,
	}))
	require.NoError(t, err)

	assert.Equal(t, solana.EnvironmentProd, settings.Environment)
	assert.EqualValues(t, keys[0], settings.Program)
	assert.EqualValues(t, keys[1], settings.Platform)
	assert.EqualValues(t, 3, settings.BlockhashRetries)
	assert.EqualValues(t, 50_000, settings.ComputeUnitLimit)
	assert.EqualValues(t, 1_000, settings.ComputeUnitPrice)
	assert.True(t, settings.Debug)

	discriminator, err := settings.IDL.DonateDiscriminator()
	require.NoError(t, err)
	assert.EqualValues(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, discriminator)
}

func TestLoad_Invalid(t *testing.T) {
	for _, overrides := range []*Overrides{
		{ProgramId: "not-base58!"},
		{PlatformWallet: "abc"},
		{IdlPath: filepath.Join(t.TempDir(), "missing.json")},
		{ComputeUnitLimit: math.MaxUint32 + 1},
	} {
		_, err := Load(context.Background(), WithOverrides(overrides))
		assert.Error(t, err)
	}
}
