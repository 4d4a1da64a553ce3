package solana

import "github.com/pkg/errors"

type Environment string

const (
	EnvironmentDev   Environment = "https://api.devnet.solana.com"
	EnvironmentTest  Environment = "https://api.testnet.solana.com"
	EnvironmentProd  Environment = "https://api.mainnet-beta.solana.com"
	EnvironmentLocal Environment = "http://127.0.0.1:8899"
)

// EnvironmentFromNetwork resolves a cluster moniker, as used by wallets and the
// solana CLI, into an RPC endpoint. Anything that isn't a known moniker is
// treated as an endpoint URL.
func EnvironmentFromNetwork(network string) (Environment, error) {
	switch network {
	case "devnet":
		return EnvironmentDev, nil
	case "testnet":
		return EnvironmentTest, nil
	case "mainnet", "mainnet-beta":
		return EnvironmentProd, nil
	case "localnet", "localhost":
		return EnvironmentLocal, nil
	case "":
		return "", errors.New("network is required")
	}
	return Environment(network), nil
}
