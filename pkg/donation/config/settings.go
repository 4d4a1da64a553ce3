package donation_config

import (
	"context"
	"crypto/ed25519"
	"math"

	"github.com/pkg/errors"

	"github.com/solfund/solfund-server/pkg/solana"
	"github.com/solfund/solfund-server/pkg/solana/directdonation"
)

// Settings are the resolved values needed to build and submit donations
type Settings struct {
	Environment solana.Environment

	Program  ed25519.PublicKey
	Platform ed25519.PublicKey
	IDL      *directdonation.IDL

	BlockhashRetries uint

	// ComputeUnitLimit and ComputeUnitPrice configure an optional priority
	// fee. Zero disables the corresponding compute budget instruction.
	ComputeUnitLimit uint32
	ComputeUnitPrice uint64

	Debug bool
}

// Load resolves the current configuration into Settings. An empty IDL path
// selects the IDL bundled with the program bindings.
func Load(ctx context.Context, configProvider ConfigProvider) (*Settings, error) {
	conf := configProvider()

	environment, err := solana.EnvironmentFromNetwork(conf.network.Get(ctx))
	if err != nil {
		return nil, errors.Wrap(err, "invalid network")
	}

	program, err := solana.ParsePublicKey(conf.programId.Get(ctx))
	if err != nil {
		return nil, errors.Wrap(err, "invalid program id")
	}

	platform, err := solana.ParsePublicKey(conf.platformWallet.Get(ctx))
	if err != nil {
		return nil, errors.Wrap(err, "invalid platform wallet")
	}

	computeUnitLimit := conf.computeUnitLimit.Get(ctx)
	if computeUnitLimit > math.MaxUint32 {
		return nil, errors.Errorf("compute unit limit %d is too large", computeUnitLimit)
	}

	idl := directdonation.DefaultIDL()
	if path := conf.idlPath.Get(ctx); len(path) > 0 {
		idl, err = directdonation.LoadIDL(path)
		if err != nil {
			return nil, err
		}
	}

	return &Settings{
		Environment:      environment,
		Program:          program,
		Platform:         platform,
		IDL:              idl,
		BlockhashRetries: uint(conf.blockhashRetries.Get(ctx)),
		ComputeUnitLimit: uint32(computeUnitLimit),
		ComputeUnitPrice: conf.computeUnitPrice.Get(ctx),
		Debug:            conf.debug.Get(ctx),
	}, nil
}
